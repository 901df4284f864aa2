package payment

import "context"

type Repository interface {
	// Get returns nil, nil when no record exists for id.
	Get(ctx context.Context, id string) (Record, error)
	Put(ctx context.Context, r Record) error
	// Update sets a single attribute and returns the updated attributes.
	Update(ctx context.Context, id, field string, value any) (Record, error)
	// Delete returns the record as it was before removal, or nil.
	Delete(ctx context.Context, id string) (Record, error)
	Scan(ctx context.Context, start Cursor) (Page, error)
}
