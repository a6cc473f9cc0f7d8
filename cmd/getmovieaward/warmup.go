package main

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

const (
	// WarmupSource identifies warmup events from the scheduler
	WarmupSource = "warmup"

	// WarmupDelay ensures instances overlap to create true concurrency
	WarmupDelay = 75 * time.Millisecond

	// MaxWarmupConcurrency bounds the number of self-invocations per event
	MaxWarmupConcurrency = 50
)

// WarmupEvent is the scheduled payload that keeps instances warm.
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse is the response returned by warmup operations
type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// Invoker is the part of the Lambda client used to self-invoke.
type Invoker interface {
	Invoke(ctx context.Context, params *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

// Warmer answers warmup events.
type Warmer struct {
	client       Invoker
	functionName string
	delay        time.Duration
}

// NewWarmer returns a Warmer invoking functionName through client.
func NewWarmer(client Invoker, functionName string) *Warmer {
	return &Warmer{client: client, functionName: functionName, delay: WarmupDelay}
}

// IsWarmupEvent checks if the event is a warmup event
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var e struct {
		Source      string   `json:"source"`
		Concurrency *float64 `json:"concurrency"`
	}
	if err := json.Unmarshal(event, &e); err != nil {
		return nil, false
	}
	if e.Source != WarmupSource {
		return nil, false
	}

	warmup := &WarmupEvent{Source: e.Source}
	if e.Concurrency != nil && *e.Concurrency > 0 {
		warmup.Concurrency = capConcurrency(*e.Concurrency)
	}
	return warmup, true
}

// capConcurrency converts the requested concurrency to an int no larger than
// MaxWarmupConcurrency. The float is compared before conversion so huge values
// cannot overflow.
func capConcurrency(c float64) int {
	if c >= MaxWarmupConcurrency {
		return MaxWarmupConcurrency
	}
	return int(c)
}

// Handle self-invokes the function warmup.Concurrency times so that many
// instances are warm at once.
func (w *Warmer) Handle(ctx context.Context, warmup *WarmupEvent) (interface{}, error) {
	instancesWarmed := 1 // This instance counts as 1

	count := warmup.Concurrency
	if count > MaxWarmupConcurrency {
		count = MaxWarmupConcurrency
	}
	if count > 0 && w.functionName != "" {
		if err := w.selfInvoke(ctx, count); err == nil {
			instancesWarmed += count
		}
	}

	select {
	case <-ctx.Done():
	case <-time.After(w.delay):
	}

	return map[string]interface{}{
		"statusCode": 200,
		"body": WarmupResponse{
			Status:          "warm",
			InstancesWarmed: instancesWarmed,
		},
	}, nil
}

// selfInvoke invokes this Lambda function count times asynchronously.
func (w *Warmer) selfInvoke(ctx context.Context, count int) error {
	// concurrency 0 stops the children from invoking again
	payload, err := json.Marshal(WarmupEvent{Source: WarmupSource})
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	var invokeErr error
	var errMu sync.Mutex

	for i := 0; i < count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := w.client.Invoke(ctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(w.functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})
			if err != nil {
				errMu.Lock()
				if invokeErr == nil {
					invokeErr = err
				}
				errMu.Unlock()
			}
		}()
	}

	wg.Wait()
	return invokeErr
}
