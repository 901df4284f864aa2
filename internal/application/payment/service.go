package payment

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/rcarvalho-pb/payments_crud-go/internal/domain/payment"
	"github.com/rcarvalho-pb/payments_crud-go/internal/infra/logging"
	"github.com/rcarvalho-pb/payments_crud-go/internal/infra/metrics"
)

const (
	OpGet    = "get"
	OpList   = "list"
	OpSave   = "save"
	OpModify = "modify"
	OpDelete = "delete"
)

var ErrMissingField = errors.New("update field is required")

type Service struct {
	Repo    payment.Repository
	Logger  logging.Logger
	Metrics *metrics.Counters
}

// Get returns nil, nil when the payment does not exist.
func (s *Service) Get(ctx context.Context, id string) (payment.Record, error) {
	if id == "" {
		return nil, payment.ErrMissingID
	}

	var p payment.Record
	err := s.observe(OpGet, map[string]any{"payment-id": id}, func() (err error) {
		p, err = s.Repo.Get(ctx, id)
		return err
	})

	return p, err
}

func (s *Service) List(ctx context.Context) ([]payment.Record, error) {
	var items []payment.Record
	err := s.observe(OpList, nil, func() (err error) {
		items, err = ScanAll(ctx, s.Repo, s.Metrics.IncScanPage)
		return err
	})

	return items, err
}

// Upsert writes p unconditionally, replacing any stored payment with the same id.
func (s *Service) Upsert(ctx context.Context, p payment.Record) error {
	id, ok := p.ID()
	if !ok {
		return payment.ErrMissingID
	}

	return s.observe(OpSave, map[string]any{"payment-id": id}, func() error {
		return s.Repo.Put(ctx, p)
	})
}

// Modify sets a single attribute and returns the attributes the store
// reports as updated.
func (s *Service) Modify(ctx context.Context, id, field string, value any) (payment.Record, error) {
	if id == "" {
		return nil, payment.ErrMissingID
	}
	if field == "" {
		return nil, ErrMissingField
	}
	if field == payment.PartitionKey {
		return nil, payment.ErrKeyUpdate
	}

	var updated payment.Record
	err := s.observe(OpModify, map[string]any{"payment-id": id, "field": field}, func() (err error) {
		updated, err = s.Repo.Update(ctx, id, field, value)
		return err
	})

	return updated, err
}

// Delete returns the payment as it was before removal, or nil if none existed.
func (s *Service) Delete(ctx context.Context, id string) (payment.Record, error) {
	if id == "" {
		return nil, payment.ErrMissingID
	}

	var old payment.Record
	err := s.observe(OpDelete, map[string]any{"payment-id": id}, func() (err error) {
		old, err = s.Repo.Delete(ctx, id)
		return err
	})

	return old, err
}

func (s *Service) observe(op string, fields map[string]any, call func() error) error {
	started := time.Now()
	err := call()
	s.Metrics.Observe(op, started, err)

	if err != nil {
		entry := map[string]any{
			"operation": op,
			"error":     err,
		}
		maps.Copy(entry, fields)
		s.Logger.Error("store operation failed", entry)

		return fmt.Errorf("%s payment: %w", op, err)
	}

	return nil
}
