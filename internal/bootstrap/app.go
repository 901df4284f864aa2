package bootstrap

import (
	"github.com/prometheus/client_golang/prometheus"

	paymentApplication "github.com/rcarvalho-pb/payments_crud-go/internal/application/payment"
	"github.com/rcarvalho-pb/payments_crud-go/internal/domain/payment"
	"github.com/rcarvalho-pb/payments_crud-go/internal/infra/logging"
	"github.com/rcarvalho-pb/payments_crud-go/internal/infra/metrics"
	httpapi "github.com/rcarvalho-pb/payments_crud-go/internal/infrastructure/http"
)

func NewRouter(repo payment.Repository, logger logging.Logger, reg prometheus.Registerer) *httpapi.Router {
	paymentService := &paymentApplication.Service{
		Repo:    repo,
		Logger:  logger,
		Metrics: metrics.NewCounters(reg),
	}

	paymentHandler := &httpapi.PaymentHandler{
		Service: paymentService,
	}

	return httpapi.NewRouter(paymentHandler, logger)
}
