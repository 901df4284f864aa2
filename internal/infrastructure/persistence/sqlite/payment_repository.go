package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rcarvalho-pb/payments_crud-go/internal/domain/payment"
)

// PaymentRepository stores each payment as a JSON document keyed by its id.
type PaymentRepository struct {
	db       *sql.DB
	pageSize int
}

func NewPaymentRepository(db *sql.DB, pageSize int) *PaymentRepository {
	return &PaymentRepository{db: db, pageSize: pageSize}
}

func (r *PaymentRepository) Get(ctx context.Context, id string) (payment.Record, error) {
	return getDocument(ctx, r.db, id)
}

func (r *PaymentRepository) Put(ctx context.Context, p payment.Record) error {
	id, ok := p.ID()
	if !ok {
		return payment.ErrMissingID
	}

	return putDocument(ctx, r.db, id, p)
}

func (r *PaymentRepository) Update(ctx context.Context, id, field string, value any) (payment.Record, error) {
	if field == payment.PartitionKey {
		return nil, payment.ErrKeyUpdate
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p, err := getDocument(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = payment.Record{payment.PartitionKey: id}
	}

	p[field] = value
	if err := putDocument(ctx, tx, id, p); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return payment.Record{field: value}, nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id string) (payment.Record, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p, err := getDocument(ctx, tx, id)
	if err != nil || p == nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return p, nil
}

func (r *PaymentRepository) Scan(ctx context.Context, start payment.Cursor) (payment.Page, error) {
	after := ""
	if !start.Done() {
		after, _ = payment.Record(start).ID()
	}

	limit := -1
	if r.pageSize > 0 {
		// one extra row tells us whether another page exists
		limit = r.pageSize + 1
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, document
		 FROM payments
		 WHERE id > ?
		 ORDER BY id
		 LIMIT ?`,
		after,
		limit,
	)
	if err != nil {
		return payment.Page{}, err
	}
	defer rows.Close()

	var page payment.Page
	var lastID string

	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return payment.Page{}, err
		}

		if r.pageSize > 0 && len(page.Items) == r.pageSize {
			page.Next = payment.Cursor{payment.PartitionKey: lastID}
			break
		}

		p, err := decode(doc)
		if err != nil {
			return payment.Page{}, err
		}

		page.Items = append(page.Items, p)
		lastID = id
	}

	if err := rows.Err(); err != nil {
		return payment.Page{}, err
	}

	return page, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func getDocument(ctx context.Context, q querier, id string) (payment.Record, error) {
	row := q.QueryRowContext(ctx,
		`SELECT document
		 FROM payments
		 WHERE id = ?`,
		id,
	)

	var doc string
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return decode(doc)
}

func putDocument(ctx context.Context, q querier, id string, p payment.Record) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode payment %s: %w", id, err)
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO payments (id, document)
		 VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET document = excluded.document`,
		id,
		string(doc),
	)
	return err
}

func decode(doc string) (payment.Record, error) {
	var p payment.Record
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("decode payment document: %w", err)
	}
	return p, nil
}
