package payment

import (
	"cloudport-api/internal/common"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chargeBody(id string, paid, refunded bool) string {
	return fmt.Sprintf(`{"object":"charge","id":%q,"livemode":false,"amount":50000,"currency":"jpy","captured":true,"paid":%t,"refunded":%t,"created":1743498000}`, id, paid, refunded)
}

func TestPayjpCharge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/charges", r.URL.Path)

		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "sk_test", user)

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "50000", r.PostForm.Get("amount"))
		assert.Equal(t, "jpy", r.PostForm.Get("currency"))
		assert.Equal(t, "tok_1", r.PostForm.Get("card"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chargeBody("ch_123", true, false)))
	}))
	defer srv.Close()

	g := NewPayjpGateway(srv.URL+"/", "sk_test", time.Second)
	defer g.Close()

	res, err := g.Charge(context.Background(), ChargeRequest{
		Amount: 50000, Currency: "jpy", Token: "tok_1",
		Metadata: map[string]string{"contract_id": "c-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ch_123", res.PaymentId)
	assert.Equal(t, common.PaymentMethodCard, res.Method)
}

func TestPayjpChargeErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"Card declined","code":"card_declined","type":"card_error","status":402}}`))
	}))
	defer srv.Close()

	g := NewPayjpGateway(srv.URL, "sk_test", time.Second)
	_, err := g.Charge(context.Background(), ChargeRequest{Amount: 1, Currency: "jpy", Token: "tok"})

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusPaymentRequired, gwErr.StatusCode)
	assert.Equal(t, "card_declined", gwErr.Code)
	assert.Equal(t, "Card declined", gwErr.Message)
}

func TestPayjpChargeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g := NewPayjpGateway(url, "sk_test", time.Second)
	_, err := g.Charge(context.Background(), ChargeRequest{Amount: 1, Currency: "jpy", Token: "tok"})
	require.Error(t, err)

	var gwErr *GatewayError
	assert.False(t, errors.As(err, &gwErr))
}

func TestPayjpChargeNotPaid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chargeBody("ch_9", false, false)))
	}))
	defer srv.Close()

	g := NewPayjpGateway(srv.URL, "sk_test", time.Second)
	_, err := g.Charge(context.Background(), ChargeRequest{Amount: 1, Currency: "jpy", Token: "tok"})
	assert.ErrorIs(t, err, ErrDeclined)
}

func TestPayjpRefund(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/charges/ch_123/refund", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chargeBody("ch_123", true, true)))
	}))
	defer srv.Close()

	g := NewPayjpGateway(srv.URL, "sk_test", time.Second)
	err := g.Refund(context.Background(), RefundRequest{PaymentId: "ch_123", Amount: 50000, Reason: "duplicate charge"})
	assert.NoError(t, err)
}

func TestDemoGateway(t *testing.T) {
	g := NewDemoGateway()
	res, err := g.Charge(context.Background(), ChargeRequest{Amount: 10})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.PaymentId, "demo_"))
	assert.Equal(t, common.PaymentMethodDemo, res.Method)
	assert.NoError(t, g.Refund(context.Background(), RefundRequest{PaymentId: res.PaymentId}))
}
