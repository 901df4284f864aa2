package inmemory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/rcarvalho-pb/payments_crud-go/internal/domain/payment"
)

type PaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]payment.Record
	pageSize int
}

// NewPaymentRepository returns an empty store. A pageSize of zero or less
// returns every record in a single scan page.
func NewPaymentRepository(pageSize int) *PaymentRepository {
	return &PaymentRepository{
		mu:       sync.RWMutex{},
		payments: make(map[string]payment.Record),
		pageSize: pageSize,
	}
}

func (r *PaymentRepository) Get(_ context.Context, id string) (payment.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.payments[id]
	if !ok {
		return nil, nil
	}

	return maps.Clone(p), nil
}

func (r *PaymentRepository) Put(_ context.Context, p payment.Record) error {
	id, ok := p.ID()
	if !ok {
		return payment.ErrMissingID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.payments[id] = maps.Clone(p)
	return nil
}

func (r *PaymentRepository) Update(_ context.Context, id, field string, value any) (payment.Record, error) {
	if field == payment.PartitionKey {
		return nil, payment.ErrKeyUpdate
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[id]
	if !ok {
		// same upsert semantics as a DynamoDB UpdateItem on a missing key
		p = payment.Record{payment.PartitionKey: id}
		r.payments[id] = p
	}

	p[field] = value
	return payment.Record{field: value}, nil
}

func (r *PaymentRepository) Delete(_ context.Context, id string) (payment.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[id]
	if !ok {
		return nil, nil
	}

	delete(r.payments, id)
	return p, nil
}

// Scan walks records in ascending id order, resuming after the id held in start.
func (r *PaymentRepository) Scan(_ context.Context, start payment.Cursor) (payment.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id := range r.payments {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	if !start.Done() {
		after, _ := payment.Record(start).ID()
		pos, found := slices.BinarySearch(ids, after)
		if found {
			pos++
		}
		ids = ids[pos:]
	}

	var next payment.Cursor
	if r.pageSize > 0 && len(ids) > r.pageSize {
		ids = ids[:r.pageSize]
		next = payment.Cursor{payment.PartitionKey: ids[len(ids)-1]}
	}

	items := make([]payment.Record, 0, len(ids))
	for _, id := range ids {
		items = append(items, maps.Clone(r.payments[id]))
	}

	return payment.Page{Items: items, Next: next}, nil
}

func (r *PaymentRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.payments)
}
