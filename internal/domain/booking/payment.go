package booking

import (
	"fmt"
	"strconv"
	"strings"
)

// PaymentMethod is the channel used to pay for a confirmed booking
type PaymentMethod string

const (
	PaymentBkash      PaymentMethod = "bkash"
	PaymentNagad      PaymentMethod = "nagad"
	PaymentRocket     PaymentMethod = "rocket"
	PaymentUpay       PaymentMethod = "upay"
	PaymentVisa       PaymentMethod = "visa"
	PaymentMastercard PaymentMethod = "mastercard"
	PaymentNexus      PaymentMethod = "nexus"
)

// PaymentMethods lists the supported methods in menu order
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		PaymentBkash,
		PaymentNagad,
		PaymentRocket,
		PaymentUpay,
		PaymentVisa,
		PaymentMastercard,
		PaymentNexus,
	}
}

var paymentLabels = map[PaymentMethod]string{
	PaymentBkash:      "bKash",
	PaymentNagad:      "Nagad",
	PaymentRocket:     "Rocket",
	PaymentUpay:       "Upay",
	PaymentVisa:       "VISA",
	PaymentMastercard: "Mastercard",
	PaymentNexus:      "DBBL Nexus",
}

// mobile wallet transaction codes expected by the confirm endpoint
var mobileTransactionCodes = map[PaymentMethod]int{
	PaymentBkash:  1,
	PaymentNagad:  3,
	PaymentRocket: 4,
	PaymentUpay:   5,
}

// ParsePaymentMethod accepts a method name (case-insensitive) or its 1-based menu number.
// An empty string selects bKash.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PaymentBkash, nil
	}
	methods := PaymentMethods()
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > len(methods) {
			return "", fmt.Errorf("invalid payment choice %d: expected 1-%d", n, len(methods))
		}
		return methods[n-1], nil
	}
	for _, m := range methods {
		if string(m) == s || strings.ToLower(paymentLabels[m]) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// Label is the human readable name of the method
func (m PaymentMethod) Label() string {
	if l, ok := paymentLabels[m]; ok {
		return l
	}
	return string(m)
}

// IsBkashOnline reports whether the booking is paid through the bKash online flow
func (m PaymentMethod) IsBkashOnline() bool {
	return m == PaymentBkash
}

// MobileTransaction returns the wallet transaction code; ok is false for card gateways
func (m PaymentMethod) MobileTransaction() (code int, ok bool) {
	code, ok = mobileTransactionCodes[m]
	return code, ok
}

// Gateway returns the card payment gateway name, empty for mobile wallets
func (m PaymentMethod) Gateway() string {
	switch m {
	case PaymentVisa, PaymentMastercard, PaymentNexus:
		return string(m)
	default:
		return ""
	}
}
