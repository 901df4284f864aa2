package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/rcarvalho-pb/payments_crud-go/internal/bootstrap"
	"github.com/rcarvalho-pb/payments_crud-go/internal/config"
	"github.com/rcarvalho-pb/payments_crud-go/internal/infra/logging"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}

	logger, sync := logging.New(cfg.IsProd())
	defer sync()

	repo, closer, err := bootstrap.NewRepository(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to initialise payment store", map[string]any{"error": err})
		log.Fatal(err)
	}
	defer closer.Close()

	// no scrape endpoint inside Lambda, so collectors stay unregistered
	router := bootstrap.NewRouter(repo, logger, nil)

	lambda.Start(router.Handle)
}
