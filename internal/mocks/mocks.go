// Package mocks provides testify mocks of the external collaborators.
package mocks

import (
	"cloudport-api/internal/attachment"
	"cloudport-api/internal/entity"
	"cloudport-api/internal/logquery"
	"cloudport-api/internal/payment"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
	GatewayName string
}

func (m *MockGateway) Name() string {
	if m.GatewayName == "" {
		return "mock"
	}
	return m.GatewayName
}

func (m *MockGateway) Charge(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	args := m.Called(ctx, req)
	if res, ok := args.Get(0).(*payment.ChargeResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) Refund(ctx context.Context, req payment.RefundRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) FilterEvents(ctx context.Context, group, pattern string, start, end time.Time, limit int) ([]logquery.Event, error) {
	args := m.Called(ctx, group, pattern, start, end, limit)
	if events, ok := args.Get(0).([]logquery.Event); ok {
		return events, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishContractEvent(ctx context.Context, event entity.ContractEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockSigner struct {
	mock.Mock
}

func (m *MockSigner) PresignUpload(ctx context.Context, key, contentType string) (*attachment.UploadURL, error) {
	args := m.Called(ctx, key, contentType)
	if u, ok := args.Get(0).(*attachment.UploadURL); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
