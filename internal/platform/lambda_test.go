package platform

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	method    string
	path      string
	query     string
	body      string
	auth      string
	requestID string
}

func echoHandler(got *captured) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		*got = captured{
			method:    r.Method,
			path:      r.URL.Path,
			query:     r.URL.Query().Get("limit"),
			body:      string(data),
			auth:      r.Header.Get("Authorization"),
			requestID: r.Header.Get("X-Request-ID"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
}

func TestLambdaAdapter_HandleRequest(t *testing.T) {
	var got captured
	adapter := NewLambdaAdapter(echoHandler(&got))

	res, err := adapter.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodPost,
		Path:                  "/contracts",
		QueryStringParameters: map[string]string{"limit": "5"},
		Headers:               map[string]string{"Authorization": "Bearer abc", "Content-Type": "application/json"},
		Body:                  `{"applicationId":"a-1"}`,
		RequestContext:        events.APIGatewayProxyRequestContext{RequestID: "req-42"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, `{"ok":true}`, res.Body)
	assert.Equal(t, "application/json", http.Header(res.MultiValueHeaders).Get("Content-Type"))
	assert.False(t, res.IsBase64Encoded)

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/contracts", got.path)
	assert.Equal(t, "5", got.query)
	assert.Equal(t, `{"applicationId":"a-1"}`, got.body)
	assert.Equal(t, "Bearer abc", got.auth)
	assert.Equal(t, "req-42", got.requestID)
}

func TestLambdaAdapter_KeepsCallerRequestID(t *testing.T) {
	var got captured
	adapter := NewLambdaAdapter(echoHandler(&got))

	_, err := adapter.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:     http.MethodGet,
		Path:           "/ping",
		Headers:        map[string]string{"X-Request-ID": "from-client"},
		RequestContext: events.APIGatewayProxyRequestContext{RequestID: "req-43"},
	})
	require.NoError(t, err)
	assert.Equal(t, "from-client", got.requestID)
}

func TestLambdaAdapter_BinaryResponse(t *testing.T) {
	adapter := NewLambdaAdapter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte{0xff, 0xfe, 0x00})
	}))

	res, err := adapter.HandleRequest(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/blob"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, res.IsBase64Encoded)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0x00}), res.Body)
}

func TestLambdaAdapter_Base64Body(t *testing.T) {
	var got captured
	adapter := NewLambdaAdapter(echoHandler(&got))

	res, err := adapter.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPut,
		Path:            "/jobs/1/status",
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"status":"closed"}`)),
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, `{"status":"closed"}`, got.body)

	res, err = adapter.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPut,
		Path:            "/jobs/1/status",
		Body:            "%%%",
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
