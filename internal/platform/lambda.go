// Package platform runs the HTTP handler on runtimes other than a plain
// HTTP server.
package platform

import (
	"cloudport-api/pkg/logger"
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/core"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

const headerRequestID = "X-Request-ID"

// LambdaAdapter serves API Gateway proxy events through an http.Handler.
type LambdaAdapter struct {
	proxy *httpadapter.HandlerAdapter
}

func NewLambdaAdapter(h http.Handler) *LambdaAdapter {
	return &LambdaAdapter{proxy: httpadapter.New(withGatewayRequestID(h))}
}

// Start blocks serving the Lambda runtime.
func (a *LambdaAdapter) Start() {
	lambda.Start(a.HandleRequest)
}

// HandleRequest answers events the proxy cannot turn into a request, such as
// a malformed base64 body, with 400 instead of failing the invocation.
func (a *LambdaAdapter) HandleRequest(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	res, err := a.proxy.ProxyWithContext(ctx, event)
	if err != nil {
		logger.Warn(ctx, "api gateway event rejected", "path", event.Path, "error", err)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"reason":"Input data is not formed correctly"}`,
		}, nil
	}

	return res, nil
}

// withGatewayRequestID reuses the API Gateway request id when the caller sent
// none.
func withGatewayRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(headerRequestID) == "" {
			if gw, ok := core.GetAPIGatewayContextFromContext(r.Context()); ok && gw.RequestID != "" {
				r.Header.Set(headerRequestID, gw.RequestID)
			}
		}
		next.ServeHTTP(w, r)
	})
}
