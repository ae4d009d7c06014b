package api

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/booking"
)

// ClaimsDecoder reads account details from the sign-in token.
// The signature is not verified: the token is only ever sent back to its issuer.
type ClaimsDecoder struct {
	parser *jwt.Parser
}

// NewClaimsDecoder creates a token claims decoder
func NewClaimsDecoder() *ClaimsDecoder {
	return &ClaimsDecoder{parser: jwt.NewParser()}
}

// DecodeClaims extracts email, phone_number and display_name from the token
func (d *ClaimsDecoder) DecodeClaims(token string) (booking.UserClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := d.parser.ParseUnverified(token, claims); err != nil {
		return booking.UserClaims{}, fmt.Errorf("failed to decode auth token: %w", err)
	}
	return booking.UserClaims{
		DisplayName: stringClaim(claims, "display_name"),
		Email:       stringClaim(claims, "email"),
		Phone:       stringClaim(claims, "phone_number"),
	}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
