package httpapi

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"github.com/rcarvalho-pb/payments_crud-go/internal/infra/logging"
)

const (
	paymentPath  = "/payment"
	paymentsPath = "/payments"
)

type HandlerFunc func(context.Context, events.APIGatewayProxyRequest) events.APIGatewayProxyResponse

type route struct {
	method  string
	path    string
	handler HandlerFunc
}

type Router struct {
	routes []route
	logger logging.Logger
}

func NewRouter(handler *PaymentHandler, logger logging.Logger) *Router {
	return &Router{
		routes: []route{
			{http.MethodGet, paymentPath, handler.GetPayment},
			{http.MethodGet, paymentsPath, handler.ListPayments},
			{http.MethodPost, paymentPath, handler.SavePayment},
			{http.MethodPut, paymentPath, handler.UpdatePayment},
			{http.MethodPatch, paymentPath, handler.ModifyPayment},
			{http.MethodDelete, paymentPath, handler.DeletePayment},
		},
		logger: logger,
	}
}

// Handle dispatches req to the first route matching its method and path.
// Failures are reported in the response envelope, so the error is always nil.
func (r *Router) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestID := req.RequestContext.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	r.logger.Info("request received", map[string]any{
		"request-id": requestID,
		"method":     req.HTTPMethod,
		"path":       req.Path,
	})

	for _, rt := range r.routes {
		if req.HTTPMethod == rt.method && req.Path == rt.path {
			return rt.handler(ctx, req), nil
		}
	}

	return BuildResponse(http.StatusNotFound, "404 Not Found"), nil
}
