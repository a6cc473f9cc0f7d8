// Package handler answers API Gateway requests for the awards of a movie.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/movieawards/awardlookup/internal/awards"
	"github.com/movieawards/awardlookup/internal/logger"
)

const missingIdentity = "Missing movie Id or awardBody"

// Finder is an abstraction over the awards table (helpful for testing)
type Finder interface {
	Find(ctx context.Context, p awards.Params) ([]map[string]interface{}, error)
}

// Handler represents the handler type
type Handler struct {
	awards Finder
	log    zerolog.Logger
}

// NewHandler returns a new Handler
func NewHandler(f Finder, log zerolog.Logger) *Handler {
	return &Handler{awards: f, log: log}
}

// Handle deals with the incoming request. Failures are reported in the
// response, so the returned error is always nil.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	raw, _ := json.Marshal(req)
	return h.handle(ctx, req, raw)
}

// HandleEvent decodes the raw API Gateway event and handles it. The event is
// logged exactly as it arrived. Only a malformed event returns an error.
func (h *Handler) HandleEvent(ctx context.Context, event json.RawMessage) (events.APIGatewayV2HTTPResponse, error) {
	var req events.APIGatewayV2HTTPRequest
	if err := json.Unmarshal(event, &req); err != nil {
		return events.APIGatewayV2HTTPResponse{}, fmt.Errorf("decode api gateway event: %w", err)
	}
	return h.handle(ctx, req, event)
}

func (h *Handler) handle(ctx context.Context, req events.APIGatewayV2HTTPRequest, raw []byte) (resp events.APIGatewayV2HTTPResponse, err error) {
	log := logger.ForRequest(h.log, req.RequestContext.RequestID)

	defer func() {
		if r := recover(); r != nil {
			perr := fmt.Errorf("panic: %v", r)
			log.Error().Err(perr).Msg("lookup panicked")
			resp, err = failure(perr), nil
		}
	}()

	if len(raw) > 0 {
		log.Info().RawJSON("event", raw).Msg("Event")
	}

	p := awards.ParseParams(req.PathParameters)
	if !p.HasIdentity() {
		body, _ := json.Marshal(messageBody{Message: missingIdentity})
		return jsonResponse(http.StatusNotFound, body), nil
	}

	items, err := h.awards.Find(ctx, p)
	if err != nil {
		log.Error().Err(err).Msg("could not look up awards")
		return failure(err), nil
	}

	body, err := json.Marshal(successBody{Data: awardData{MovieAward: items}})
	if err != nil {
		log.Error().Err(err).Msg("could not marshal awards")
		return failure(err), nil
	}

	log.Debug().Int("count", len(items)).Msg("awards found")
	return jsonResponse(http.StatusOK, body), nil
}
