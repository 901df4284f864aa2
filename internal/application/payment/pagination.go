package payment

import (
	"context"

	"github.com/rcarvalho-pb/payments_crud-go/internal/domain/payment"
)

type Scanner interface {
	Scan(ctx context.Context, start payment.Cursor) (payment.Page, error)
}

// ScanAll reads every page from s, one request at a time, and returns the
// items in the order the store produced them. Any page error aborts the
// whole listing. onPage, if set, runs after each fetched page.
func ScanAll(ctx context.Context, s Scanner, onPage func()) ([]payment.Record, error) {
	items := []payment.Record{}

	var cursor payment.Cursor
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := s.Scan(ctx, cursor)
		if err != nil {
			return nil, err
		}
		if onPage != nil {
			onPage()
		}

		items = append(items, page.Items...)

		if page.Next.Done() {
			return items, nil
		}
		cursor = page.Next
	}
}
