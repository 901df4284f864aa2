package dynamodb

import (
	"context"
	"fmt"
	"maps"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/rcarvalho-pb/payments_crud-go/internal/domain/payment"
)

// Client is the subset of *dynamodb.Client used by the repository.
type Client interface {
	GetItem(ctx context.Context, params *ddb.GetItemInput, optFns ...func(*ddb.Options)) (*ddb.GetItemOutput, error)
	PutItem(ctx context.Context, params *ddb.PutItemInput, optFns ...func(*ddb.Options)) (*ddb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *ddb.UpdateItemInput, optFns ...func(*ddb.Options)) (*ddb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *ddb.DeleteItemInput, optFns ...func(*ddb.Options)) (*ddb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *ddb.ScanInput, optFns ...func(*ddb.Options)) (*ddb.ScanOutput, error)
}

var _ Client = (*ddb.Client)(nil)

type PaymentRepository struct {
	client   Client
	table    string
	pageSize int32
}

// NewPaymentRepository binds the repository to table. A pageSize of zero
// leaves the scan page size to DynamoDB (1 MB per page).
func NewPaymentRepository(client Client, table string, pageSize int32) *PaymentRepository {
	return &PaymentRepository{
		client:   client,
		table:    table,
		pageSize: pageSize,
	}
}

func (r *PaymentRepository) Get(ctx context.Context, id string) (payment.Record, error) {
	out, err := r.client.GetItem(ctx, &ddb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       key(id),
	})
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}

	if out.Item == nil {
		return nil, nil
	}

	return unmarshal(out.Item)
}

func (r *PaymentRepository) Put(ctx context.Context, p payment.Record) error {
	id, ok := p.ID()
	if !ok {
		return payment.ErrMissingID
	}

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal payment: %w", err)
	}
	// the table key is a string, whatever JSON type the caller used
	maps.Copy(item, key(id))

	if _, err := r.client.PutItem(ctx, &ddb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put item: %w", err)
	}

	return nil
}

func (r *PaymentRepository) Update(ctx context.Context, id, field string, value any) (payment.Record, error) {
	if field == payment.PartitionKey {
		return nil, payment.ErrKeyUpdate
	}

	expr, err := expression.NewBuilder().
		WithUpdate(expression.Set(expression.Name(field), expression.Value(value))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build update expression: %w", err)
	}

	out, err := r.client.UpdateItem(ctx, &ddb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       key(id),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return nil, fmt.Errorf("update item %s: %w", id, err)
	}

	return unmarshal(out.Attributes)
}

func (r *PaymentRepository) Delete(ctx context.Context, id string) (payment.Record, error) {
	out, err := r.client.DeleteItem(ctx, &ddb.DeleteItemInput{
		TableName:    aws.String(r.table),
		Key:          key(id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("delete item %s: %w", id, err)
	}

	if out.Attributes == nil {
		return nil, nil
	}

	return unmarshal(out.Attributes)
}

func (r *PaymentRepository) Scan(ctx context.Context, start payment.Cursor) (payment.Page, error) {
	in := &ddb.ScanInput{
		TableName: aws.String(r.table),
	}
	if r.pageSize > 0 {
		in.Limit = aws.Int32(r.pageSize)
	}

	if !start.Done() {
		esk, err := attributevalue.MarshalMap(map[string]any(start))
		if err != nil {
			return payment.Page{}, fmt.Errorf("marshal start key: %w", err)
		}
		in.ExclusiveStartKey = esk
	}

	out, err := r.client.Scan(ctx, in)
	if err != nil {
		return payment.Page{}, fmt.Errorf("scan %s: %w", r.table, err)
	}

	items := make([]payment.Record, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return payment.Page{}, fmt.Errorf("unmarshal scan items: %w", err)
	}

	var next payment.Cursor
	if len(out.LastEvaluatedKey) > 0 {
		if err := attributevalue.UnmarshalMap(out.LastEvaluatedKey, &next); err != nil {
			return payment.Page{}, fmt.Errorf("unmarshal last evaluated key: %w", err)
		}
	}

	return payment.Page{Items: items, Next: next}, nil
}

func key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		payment.PartitionKey: &types.AttributeValueMemberS{Value: id},
	}
}

func unmarshal(item map[string]types.AttributeValue) (payment.Record, error) {
	p := payment.Record{}
	if err := attributevalue.UnmarshalMap(item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal payment: %w", err)
	}
	return p, nil
}
