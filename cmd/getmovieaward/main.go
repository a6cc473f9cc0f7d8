// Function getmovieaward looks up the awards of a movie in DynamoDB.
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/rs/zerolog"

	"github.com/movieawards/awardlookup/internal/awards"
	"github.com/movieawards/awardlookup/internal/config"
	"github.com/movieawards/awardlookup/internal/handler"
	"github.com/movieawards/awardlookup/internal/logger"
	"github.com/movieawards/awardlookup/pkg/dynamo"
)

// app is built once per process and shared by every invocation.
type app struct {
	handler *handler.Handler
	warmer  *Warmer
	log     zerolog.Logger
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		l := logger.New("info")
		l.Fatal().Err(err).Msg("could not load config")
	}
	log := logger.New(cfg.LogLevel)

	awsCfg, err := cfg.AWS(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load AWS config")
	}

	db := dynamo.NewClient(awsCfg, cfg.Endpoint)
	a := &app{
		handler: handler.NewHandler(awards.NewLookup(db, cfg.TableName), log),
		warmer:  NewWarmer(lambdasdk.NewFromConfig(awsCfg), os.Getenv("AWS_LAMBDA_FUNCTION_NAME")),
		log:     log,
	}

	lambda.Start(a.handleRequest)
}

func (a *app) handleRequest(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// Warmup detection comes first so warmup never reaches DynamoDB
	if warmup, ok := IsWarmupEvent(event); ok {
		a.log.Debug().Int("concurrency", warmup.Concurrency).Msg("warmup")
		return a.warmer.Handle(ctx, warmup)
	}

	resp, err := a.handler.HandleEvent(ctx, event)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
