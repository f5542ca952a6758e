package payment

import (
	"bytes"
	"cloudport-api/internal/common"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/payjp/payjp-go/v1"
)

const payjpName = "payjp"

// PayjpGateway charges and refunds through the PAY.JP SDK. The SDK calls take
// no context, so calls are serialized and the request context reaches the
// wire through payjpTransport.
type PayjpGateway struct {
	mu        sync.Mutex
	client    *http.Client
	transport *payjpTransport
	service   *payjp.Service
}

func NewPayjpGateway(baseURL string, secretKey string, timeout time.Duration) *PayjpGateway {
	transport := &payjpTransport{base: http.DefaultTransport}
	if target, err := url.Parse(strings.TrimRight(baseURL, "/")); err == nil && target.Host != "" {
		transport.target = target
	}
	client := &http.Client{Timeout: timeout, Transport: transport}

	return &PayjpGateway{
		client:    client,
		transport: transport,
		service:   payjp.New(secretKey, client),
	}
}

func (g *PayjpGateway) Name() string {
	return payjpName
}

func (g *PayjpGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.transport.begin(ctx)

	charge, err := g.service.Charge.Create(int(req.Amount), payjp.Charge{
		Currency:    req.Currency,
		CardToken:   req.Token,
		Capture:     true,
		Description: req.Description,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return nil, g.transport.failure(err)
	}
	if !charge.Paid {
		return nil, fmt.Errorf("%s charge %s: %w", payjpName, charge.ID, ErrDeclined)
	}

	return &ChargeResult{PaymentId: charge.ID, Method: common.PaymentMethodCard}, nil
}

func (g *PayjpGateway) Refund(ctx context.Context, req RefundRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.transport.begin(ctx)

	var amount []int
	if req.Amount > 0 {
		amount = append(amount, int(req.Amount))
	}
	if _, err := g.service.Charge.Refund(req.PaymentId, req.Reason, amount...); err != nil {
		return g.transport.failure(err)
	}

	return nil
}

// Close releases idle connections held by the gateway client.
func (g *PayjpGateway) Close() {
	g.client.CloseIdleConnections()
}

type payjpErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
		Type    string `json:"type"`
		Status  int    `json:"status"`
	} `json:"error"`
}

// payjpTransport attaches the current call context to SDK requests, points
// them at a configured API host and keeps the last error response.
type payjpTransport struct {
	base   http.RoundTripper
	target *url.URL

	mu      sync.Mutex
	ctx     context.Context
	lastErr *GatewayError
}

func (t *payjpTransport) begin(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ctx = ctx
	t.lastErr = nil
}

// failure turns an SDK error into a GatewayError when the API answered with an
// error body.
func (t *payjpTransport) failure(err error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastErr != nil {
		return t.lastErr
	}

	return fmt.Errorf("%s request failed: %w", payjpName, err)
}

func (t *payjpTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	ctx := t.ctx
	t.mu.Unlock()

	if ctx == nil {
		ctx = req.Context()
	}
	req = req.Clone(ctx)
	if t.target != nil {
		req.URL.Scheme = t.target.Scheme
		req.URL.Host = t.target.Host
		req.Host = t.target.Host
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode < http.StatusBadRequest {
		return resp, err
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	gwErr := &GatewayError{Gateway: payjpName, StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var errBody payjpErrorBody
	if json.Unmarshal(body, &errBody) == nil && errBody.Error.Message != "" {
		gwErr.Message = errBody.Error.Message
		gwErr.Code = errBody.Error.Code
	}

	t.mu.Lock()
	t.lastErr = gwErr
	t.mu.Unlock()

	return resp, nil
}
