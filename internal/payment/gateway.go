package payment

import (
	"context"
	"errors"
	"fmt"
)

var ErrDeclined = errors.New("payment declined")

// Gateway charges and refunds the platform fee.
type Gateway interface {
	Name() string
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	Refund(ctx context.Context, req RefundRequest) error
}

type ChargeRequest struct {
	Amount      int64
	Currency    string
	Token       string
	Description string
	Metadata    map[string]string
}

type ChargeResult struct {
	PaymentId string
	Method    string
}

type RefundRequest struct {
	PaymentId string
	Amount    int64
	Reason    string
}

// GatewayError is a failure reported by the remote payment provider.
type GatewayError struct {
	Gateway    string
	StatusCode int
	Code       string
	Message    string
}

func (e *GatewayError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s, status %d)", e.Gateway, e.Message, e.Code, e.StatusCode)
	}

	return fmt.Sprintf("%s: %s (status %d)", e.Gateway, e.Message, e.StatusCode)
}
