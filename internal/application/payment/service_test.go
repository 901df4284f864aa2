package payment_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	paymentApplication "github.com/rcarvalho-pb/payments_crud-go/internal/application/payment"
	"github.com/rcarvalho-pb/payments_crud-go/internal/domain/payment"
	"github.com/rcarvalho-pb/payments_crud-go/internal/infra/metrics"
	"github.com/rcarvalho-pb/payments_crud-go/internal/infrastructure/persistence/inmemory"
)

type recordingLogger struct {
	errors []map[string]any
}

func (l *recordingLogger) Info(string, map[string]any) {}
func (l *recordingLogger) Error(_ string, fields map[string]any) {
	l.errors = append(l.errors, fields)
}

type failingRepo struct {
	payment.Repository
	err error
}

func (f *failingRepo) Get(context.Context, string) (payment.Record, error) {
	return nil, f.err
}

func (f *failingRepo) Put(context.Context, payment.Record) error {
	return f.err
}

func (f *failingRepo) Update(context.Context, string, string, any) (payment.Record, error) {
	return nil, f.err
}

func (f *failingRepo) Delete(context.Context, string) (payment.Record, error) {
	return nil, f.err
}

func (f *failingRepo) Scan(context.Context, payment.Cursor) (payment.Page, error) {
	return payment.Page{}, f.err
}

func newService(repo payment.Repository) (*paymentApplication.Service, *recordingLogger, *metrics.Counters) {
	logger := &recordingLogger{}
	counters := metrics.NewCounters(nil)
	return &paymentApplication.Service{
		Repo:    repo,
		Logger:  logger,
		Metrics: counters,
	}, logger, counters
}

func TestService_UpsertThenGetReturnsSameRecord(t *testing.T) {
	ctx := context.Background()
	svc, _, counters := newService(inmemory.NewPaymentRepository(0))

	rec := payment.Record{"PAYMENTS_ID": "p-1", "amount": 100.0, "currency": "SGD"}
	require.NoError(t, svc.Upsert(ctx, rec))

	got, err := svc.Get(ctx, "p-1")
	require.NoError(t, err)
	require.Equal(t, rec, got)

	require.Equal(t, 1.0, testutil.ToFloat64(counters.Operations.WithLabelValues(paymentApplication.OpSave, metrics.OutcomeSuccess)))
	require.Equal(t, 1.0, testutil.ToFloat64(counters.Operations.WithLabelValues(paymentApplication.OpGet, metrics.OutcomeSuccess)))
}

func TestService_UpsertReplacesWholeRecord(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(inmemory.NewPaymentRepository(0))

	require.NoError(t, svc.Upsert(ctx, payment.Record{"PAYMENTS_ID": "p-1", "status": "NEW", "note": "first"}))
	require.NoError(t, svc.Upsert(ctx, payment.Record{"PAYMENTS_ID": "p-1", "status": "PAID"}))

	got, err := svc.Get(ctx, "p-1")
	require.NoError(t, err)
	require.Equal(t, payment.Record{"PAYMENTS_ID": "p-1", "status": "PAID"}, got)
}

func TestService_GetMissingReturnsNilRecord(t *testing.T) {
	svc, _, _ := newService(inmemory.NewPaymentRepository(0))

	got, err := svc.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestService_ModifyChangesOnlyTargetField(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(inmemory.NewPaymentRepository(0))

	before := payment.Record{"PAYMENTS_ID": "p-1", "status": "NEW", "amount": 10.0, "payer": "ana"}
	require.NoError(t, svc.Upsert(ctx, before))

	updated, err := svc.Modify(ctx, "p-1", "status", "PAID")
	require.NoError(t, err)
	require.Equal(t, payment.Record{"status": "PAID"}, updated)

	after, err := svc.Get(ctx, "p-1")
	require.NoError(t, err)
	require.Equal(t, "PAID", after["status"])

	delete(after, "status")
	delete(before, "status")
	require.Equal(t, before, after)
}

func TestService_DeleteReturnsPriorRecordAndRemovesIt(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(inmemory.NewPaymentRepository(0))

	rec := payment.Record{"PAYMENTS_ID": "p-1", "amount": 1.0}
	require.NoError(t, svc.Upsert(ctx, rec))

	old, err := svc.Delete(ctx, "p-1")
	require.NoError(t, err)
	require.Equal(t, rec, old)

	got, err := svc.Get(ctx, "p-1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestService_RejectsInvalidArgumentsWithoutCallingStore(t *testing.T) {
	ctx := context.Background()
	svc, logger, _ := newService(&failingRepo{err: errors.New("must not be called")})

	_, err := svc.Get(ctx, "")
	require.ErrorIs(t, err, payment.ErrMissingID)

	err = svc.Upsert(ctx, payment.Record{"amount": 1})
	require.ErrorIs(t, err, payment.ErrMissingID)

	_, err = svc.Modify(ctx, "p-1", "", "x")
	require.ErrorIs(t, err, paymentApplication.ErrMissingField)

	_, err = svc.Modify(ctx, "p-1", "PAYMENTS_ID", "p-2")
	require.ErrorIs(t, err, payment.ErrKeyUpdate)

	_, err = svc.Delete(ctx, "")
	require.ErrorIs(t, err, payment.ErrMissingID)

	require.Empty(t, logger.errors)
}

func TestService_StoreFailuresAreReturnedLoggedAndCounted(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("ProvisionedThroughputExceededException")
	svc, logger, counters := newService(&failingRepo{err: cause})

	_, err := svc.Get(ctx, "p-1")
	require.ErrorIs(t, err, cause)

	_, err = svc.List(ctx)
	require.ErrorIs(t, err, cause)

	err = svc.Upsert(ctx, payment.Record{"PAYMENTS_ID": "p-1"})
	require.ErrorIs(t, err, cause)

	_, err = svc.Modify(ctx, "p-1", "status", "PAID")
	require.ErrorIs(t, err, cause)

	_, err = svc.Delete(ctx, "p-1")
	require.ErrorIs(t, err, cause)

	require.Len(t, logger.errors, 5)
	require.Equal(t, paymentApplication.OpGet, logger.errors[0]["operation"])
	require.Equal(t, "p-1", logger.errors[0]["payment-id"])
	require.Equal(t, 1.0, testutil.ToFloat64(counters.Operations.WithLabelValues(paymentApplication.OpList, metrics.OutcomeFailure)))
}

func TestService_ListIsIndependentOfPageSize(t *testing.T) {
	ctx := context.Background()

	var results [][]payment.Record
	for _, pageSize := range []int{0, 4, 1} {
		repo := inmemory.NewPaymentRepository(pageSize)
		svc, _, counters := newService(repo)

		for i := 0; i < 7; i++ {
			require.NoError(t, svc.Upsert(ctx, payment.Record{
				"PAYMENTS_ID": fmt.Sprintf("p-%d", i),
				"amount":      float64(i),
			}))
		}

		items, err := svc.List(ctx)
		require.NoError(t, err)
		results = append(results, items)

		wantPages := map[int]float64{0: 1, 4: 2, 1: 7}[pageSize]
		require.Equal(t, wantPages, testutil.ToFloat64(counters.ScanPages), "page size %d", pageSize)
	}

	require.Len(t, results[0], 7)
	require.Equal(t, results[0], results[1])
	require.Equal(t, results[0], results[2])
}

func TestService_ListEmptyTableReturnsEmptySlice(t *testing.T) {
	svc, _, _ := newService(inmemory.NewPaymentRepository(2))

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
}
