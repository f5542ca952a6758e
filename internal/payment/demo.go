package payment

import (
	"cloudport-api/internal/common"
	"context"

	"github.com/google/uuid"
)

// DemoGateway accepts every charge without contacting a provider.
type DemoGateway struct{}

func NewDemoGateway() *DemoGateway {
	return &DemoGateway{}
}

func (g *DemoGateway) Name() string {
	return common.PaymentMethodDemo
}

func (g *DemoGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	return &ChargeResult{
		PaymentId: "demo_" + uuid.NewString(),
		Method:    common.PaymentMethodDemo,
	}, nil
}

func (g *DemoGateway) Refund(ctx context.Context, req RefundRequest) error {
	return nil
}
