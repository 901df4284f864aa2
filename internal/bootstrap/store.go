package bootstrap

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/rcarvalho-pb/payments_crud-go/internal/config"
	"github.com/rcarvalho-pb/payments_crud-go/internal/domain/payment"
	"github.com/rcarvalho-pb/payments_crud-go/internal/infrastructure/persistence/dynamodb"
	"github.com/rcarvalho-pb/payments_crud-go/internal/infrastructure/persistence/inmemory"
	"github.com/rcarvalho-pb/payments_crud-go/internal/infrastructure/persistence/sqlite"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewRepository builds the payment store selected by cfg.Backend. The
// returned closer releases any underlying connection.
func NewRepository(ctx context.Context, cfg *config.Config) (payment.Repository, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendDynamoDB:
		client, err := NewDynamoDBClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return dynamodb.NewPaymentRepository(client, cfg.TableName, cfg.ScanPageSize), nopCloser{}, nil

	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		if err := sqlite.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return sqlite.NewPaymentRepository(db, int(cfg.ScanPageSize)), db, nil

	case config.BackendMemory:
		return inmemory.NewPaymentRepository(int(cfg.ScanPageSize)), nopCloser{}, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

func NewDynamoDBClient(ctx context.Context, cfg *config.Config) (*ddb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return ddb.NewFromConfig(awsCfg, func(o *ddb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	}), nil
}
