package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/booking"
)

// ErrInputClosed is returned when the input stream ends before an answer is read
var ErrInputClosed = errors.New("input closed")

// LinePrompter asks the user for OTPs, passenger names and the payment method.
// Lines are read by one background goroutine so a cancelled context never strands a read.
type LinePrompter struct {
	in  *bufio.Scanner
	out io.Writer

	once  sync.Once
	lines chan string
	err   error
}

// NewLinePrompter creates a prompter reading answers from in and writing questions to out
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		in:    bufio.NewScanner(in),
		out:   out,
		lines: make(chan string),
	}
}

// OTP asks for the one-time password; retry marks a re-entry after a mismatch
func (p *LinePrompter) OTP(ctx context.Context, retry bool) (string, error) {
	question := "Enter the OTP sent to your mobile: "
	if retry {
		question = "OTP did not match, enter it again: "
	}
	return p.askNonEmpty(ctx, question)
}

// PassengerName asks for the name of passenger index (1-based)
func (p *LinePrompter) PassengerName(ctx context.Context, index int) (string, error) {
	return p.askNonEmpty(ctx, fmt.Sprintf("Name of passenger %d: ", index))
}

// PaymentMethod shows the numbered menu and loops until a valid choice is entered.
// An empty answer picks the first method.
func (p *LinePrompter) PaymentMethod(ctx context.Context, methods []booking.PaymentMethod) (booking.PaymentMethod, error) {
	if len(methods) == 0 {
		return "", errors.New("no payment methods offered")
	}
	fmt.Fprintln(p.out, "Payment method:")
	for i, m := range methods {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, m.Label())
	}
	for {
		answer, err := p.ask(ctx, "Choose [1]: ")
		if err != nil {
			return "", err
		}
		if m, ok := choosePayment(answer, methods); ok {
			return m, nil
		}
		fmt.Fprintf(p.out, "Invalid choice %q\n", answer)
	}
}

func choosePayment(answer string, methods []booking.PaymentMethod) (booking.PaymentMethod, bool) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return methods[0], true
	}
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(methods) {
			return "", false
		}
		return methods[n-1], true
	}
	m, err := booking.ParsePaymentMethod(answer)
	if err != nil {
		return "", false
	}
	for _, offered := range methods {
		if offered == m {
			return m, true
		}
	}
	return "", false
}

func (p *LinePrompter) askNonEmpty(ctx context.Context, question string) (string, error) {
	for {
		answer, err := p.ask(ctx, question)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
	}
}

func (p *LinePrompter) ask(ctx context.Context, question string) (string, error) {
	p.once.Do(p.startReader)
	fmt.Fprint(p.out, question)

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			if p.err != nil {
				return "", fmt.Errorf("failed to read input: %w", p.err)
			}
			return "", ErrInputClosed
		}
		return strings.TrimSpace(line), nil
	}
}

func (p *LinePrompter) startReader() {
	go func() {
		for p.in.Scan() {
			p.lines <- p.in.Text()
		}
		p.err = p.in.Err()
		close(p.lines)
	}()
}
