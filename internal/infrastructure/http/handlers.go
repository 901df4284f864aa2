package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-playground/validator/v10"

	paymentApplication "github.com/rcarvalho-pb/payments_crud-go/internal/application/payment"
	"github.com/rcarvalho-pb/payments_crud-go/internal/domain/payment"
)

var errMalformedBody = errors.New("request body is not valid JSON")

var validate = validator.New()

type PaymentHandler struct {
	Service *paymentApplication.Service
}

// Identifiers are accepted as any JSON scalar and normalized to strings,
// matching how POST and PUT key their records.
type ModifyPaymentRequest struct {
	ID          any             `json:"PAYMENTS_ID"`
	UpdateKey   string          `json:"updateKey" validate:"required"`
	UpdateValue json.RawMessage `json:"updateValue" validate:"required"`
}

type DeletePaymentRequest struct {
	ID any `json:"PAYMENTS_ID"`
}

type OperationResponse struct {
	Operation         string         `json:"Operation"`
	Message           string         `json:"Message"`
	Item              payment.Record `json:"Item,omitempty"`
	UpdatedAttributes payment.Record `json:"UpdatedAttributes,omitempty"`
}

type ListResponse struct {
	Payments []payment.Record `json:"payments"`
}

type ErrorResponse struct {
	Operation string `json:"Operation"`
	Message   string `json:"Message"`
	Error     string `json:"Error"`
}

func (h *PaymentHandler) GetPayment(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	p, err := h.Service.Get(ctx, req.QueryStringParameters[payment.PartitionKey])
	if err != nil {
		return errorResponse("GET", err)
	}

	// a missing payment is reported as a null body, not as 404
	return BuildResponse(http.StatusOK, p)
}

func (h *PaymentHandler) ListPayments(ctx context.Context, _ events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	items, err := h.Service.List(ctx)
	if err != nil {
		return errorResponse("LIST", err)
	}

	return BuildResponse(http.StatusOK, ListResponse{Payments: items})
}

func (h *PaymentHandler) SavePayment(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	return h.upsert(ctx, req, "SAVE", "Payment has been successfully saved.")
}

func (h *PaymentHandler) UpdatePayment(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	return h.upsert(ctx, req, "UPDATE", "Payment has been successfully updated.")
}

func (h *PaymentHandler) upsert(ctx context.Context, req events.APIGatewayProxyRequest, operation, message string) events.APIGatewayProxyResponse {
	var p payment.Record
	if err := decodeBody(req.Body, &p); err != nil {
		return errorResponse(operation, err)
	}

	if err := h.Service.Upsert(ctx, p); err != nil {
		return errorResponse(operation, err)
	}

	return BuildResponse(http.StatusOK, OperationResponse{
		Operation: operation,
		Message:   message,
		Item:      p,
	})
}

func (h *PaymentHandler) ModifyPayment(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	var body ModifyPaymentRequest
	if err := decodeBody(req.Body, &body); err != nil {
		return errorResponse("UPDATE", err)
	}

	var value any
	if err := json.Unmarshal(body.UpdateValue, &value); err != nil {
		return errorResponse("UPDATE", fmt.Errorf("%w: updateValue", errMalformedBody))
	}

	updated, err := h.Service.Modify(ctx, normalizeID(body.ID), body.UpdateKey, value)
	if err != nil {
		return errorResponse("UPDATE", err)
	}

	return BuildResponse(http.StatusOK, OperationResponse{
		Operation:         "UPDATE",
		Message:           "Payment updated successfully.",
		UpdatedAttributes: updated,
	})
}

func (h *PaymentHandler) DeletePayment(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	var body DeletePaymentRequest
	if err := decodeBody(req.Body, &body); err != nil {
		return errorResponse("DELETE", err)
	}

	old, err := h.Service.Delete(ctx, normalizeID(body.ID))
	if err != nil {
		return errorResponse("DELETE", err)
	}

	return BuildResponse(http.StatusOK, OperationResponse{
		Operation: "DELETE",
		Message:   "Payment has been successfully deleted.",
		Item:      old,
	})
}

// normalizeID renders a decoded identifier the same way Record.ID does.
// An empty result is rejected by the service as a missing id.
func normalizeID(v any) string {
	id, _ := payment.Record{payment.PartitionKey: v}.ID()
	return id
}

// decodeBody parses a JSON body into dst and runs struct validation on it.
func decodeBody(body string, dst any) error {
	if body == "" {
		return fmt.Errorf("%w: empty body", errMalformedBody)
	}

	if err := json.Unmarshal([]byte(body), dst); err != nil {
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}

	if _, isRecord := dst.(*payment.Record); isRecord {
		return nil
	}

	return validate.Struct(dst)
}

func errorResponse(operation string, err error) events.APIGatewayProxyResponse {
	if isClientError(err) {
		return BuildResponse(http.StatusBadRequest, ErrorResponse{
			Operation: operation,
			Message:   "Invalid payment request.",
			Error:     err.Error(),
		})
	}

	return BuildResponse(http.StatusInternalServerError, ErrorResponse{
		Operation: operation,
		Message:   "Payment operation failed.",
		Error:     err.Error(),
	})
}

func isClientError(err error) bool {
	var verrs validator.ValidationErrors

	return errors.As(err, &verrs) ||
		errors.Is(err, errMalformedBody) ||
		errors.Is(err, payment.ErrMissingID) ||
		errors.Is(err, payment.ErrKeyUpdate) ||
		errors.Is(err, paymentApplication.ErrMissingField)
}
