package payment

import (
	"errors"
	"fmt"
)

// PartitionKey is the attribute that uniquely identifies a payment in the store.
const PartitionKey = "PAYMENTS_ID"

var (
	ErrMissingID = errors.New("payment id is required")
	ErrKeyUpdate = errors.New("partition key cannot be modified")
)

// Record is a schemaless payment document. The only structural requirement
// is a non-empty PartitionKey attribute.
type Record map[string]any

// ID returns the record's partition key rendered as a string.
func (r Record) ID() (string, bool) {
	v, ok := r[PartitionKey]
	if !ok || v == nil {
		return "", false
	}

	var id string
	switch t := v.(type) {
	case string:
		id = t
	default:
		id = fmt.Sprint(t)
	}

	return id, id != ""
}

// Cursor is the last evaluated key of a scan page. Empty means no more pages.
type Cursor map[string]any

func (c Cursor) Done() bool {
	return len(c) == 0
}

type Page struct {
	Items []Record
	Next  Cursor
}
