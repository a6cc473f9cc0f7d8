package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/movieawards/awardlookup/internal/awards"
	"github.com/movieawards/awardlookup/internal/logger"
)

type mockFinder struct {
	items []map[string]interface{}
	err   error
	panic bool
	calls []awards.Params
}

func (mf *mockFinder) Find(_ context.Context, p awards.Params) ([]map[string]interface{}, error) {
	mf.calls = append(mf.calls, p)
	if mf.panic {
		panic("finder exploded")
	}
	return mf.items, mf.err
}

func request(path map[string]string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		RawPath:        "/movies/awards",
		PathParameters: path,
		RequestContext: events.APIGatewayV2HTTPRequestContext{RequestID: "req-1"},
	}
}

func decode(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	return m
}

func TestHandle(t *testing.T) {
	oscar := map[string]interface{}{
		"movieId": float64(42), "awardBody": "Oscar", "numAwards": float64(3), "awardDescription": "Best Picture",
	}

	t.Run("found", func(t *testing.T) {
		f := &mockFinder{items: []map[string]interface{}{oscar}}
		h := NewHandler(f, logger.NewWithWriter(&bytes.Buffer{}, "info"))

		resp, err := h.Handle(context.Background(), request(map[string]string{"movieId": "42", "awardBody": "Oscar"}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Headers["content-type"])

		want := map[string]interface{}{
			"data": map[string]interface{}{
				"movieAward": []interface{}{oscar},
			},
		}
		if diff := cmp.Diff(want, decode(t, resp.Body)); diff != "" {
			t.Errorf("unexpected body (-want +got):\n%s", diff)
		}

		require.Len(t, f.calls, 1)
		assert.Equal(t, 42, *f.calls[0].MovieID)
		assert.Equal(t, "Oscar", f.calls[0].AwardBody)
		assert.Nil(t, f.calls[0].Min)
	})

	t.Run("min is passed on", func(t *testing.T) {
		f := &mockFinder{items: []map[string]interface{}{}}
		h := NewHandler(f, logger.NewWithWriter(&bytes.Buffer{}, "info"))

		resp, err := h.Handle(context.Background(), request(map[string]string{"movieId": "42", "awardBody": "Oscar", "min": "3"}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, `{"data":{"movieAward":[]}}`, resp.Body)
		require.Len(t, f.calls, 1)
		assert.Equal(t, 3, *f.calls[0].Min)
	})

	t.Run("hex movie id", func(t *testing.T) {
		f := &mockFinder{items: []map[string]interface{}{}}
		h := NewHandler(f, logger.NewWithWriter(&bytes.Buffer{}, "info"))

		resp, err := h.Handle(context.Background(), request(map[string]string{"movieId": "0x2A", "awardBody": "Oscar", "min": "0x3"}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, f.calls, 1)
		assert.Equal(t, 42, *f.calls[0].MovieID)
		assert.Equal(t, 3, *f.calls[0].Min)
	})

	t.Run("missing identity", func(t *testing.T) {
		tt := []struct {
			name string
			path map[string]string
		}{
			{name: "no movie id", path: map[string]string{"awardBody": "Oscar"}},
			{name: "no award body", path: map[string]string{"movieId": "42"}},
			{name: "zero movie id", path: map[string]string{"movieId": "0", "awardBody": "Oscar"}},
			{name: "non numeric movie id", path: map[string]string{"movieId": "abc", "awardBody": "Oscar"}},
			{name: "no path parameters", path: nil},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				f := &mockFinder{}
				h := NewHandler(f, logger.NewWithWriter(&bytes.Buffer{}, "info"))

				resp, err := h.Handle(context.Background(), request(tc.path))
				require.NoError(t, err)
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)
				assert.Equal(t, "application/json", resp.Headers["content-type"])
				assert.JSONEq(t, `{"Message": "Missing movie Id or awardBody"}`, resp.Body)
				assert.Empty(t, f.calls)
			})
		}
	})

	t.Run("store failure", func(t *testing.T) {
		f := &mockFinder{err: errors.New("connection reset")}
		var logs bytes.Buffer
		h := NewHandler(f, logger.NewWithWriter(&logs, "info"))

		resp, err := h.Handle(context.Background(), request(map[string]string{"movieId": "42", "awardBody": "Oscar"}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Headers["content-type"])
		assert.True(t, gjson.Get(resp.Body, "error").Exists())
		assert.Equal(t, "connection reset", gjson.Get(resp.Body, "error.message").String())
		assert.Contains(t, logs.String(), "could not look up awards")
	})

	t.Run("aws error keeps its code and metadata", func(t *testing.T) {
		opErr := &smithy.OperationError{
			ServiceID:     "DynamoDB",
			OperationName: "Query",
			Err: &awshttp.ResponseError{
				ResponseError: &smithyhttp.ResponseError{
					Response: &smithyhttp.Response{Response: &http.Response{StatusCode: http.StatusBadRequest}},
					Err:      &types.ResourceNotFoundException{Message: aws.String("Requested resource not found")},
				},
				RequestID: "ABC123",
			},
		}
		h := NewHandler(&mockFinder{err: opErr}, logger.NewWithWriter(&bytes.Buffer{}, "info"))

		resp, err := h.Handle(context.Background(), request(map[string]string{"movieId": "42", "awardBody": "Oscar"}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "ResourceNotFoundException", gjson.Get(resp.Body, "error.name").String())
		assert.Equal(t, "client", gjson.Get(resp.Body, "error.$fault").String())
		assert.Equal(t, int64(400), gjson.Get(resp.Body, "error.$metadata.httpStatusCode").Int())
		assert.Equal(t, "ABC123", gjson.Get(resp.Body, "error.$metadata.requestId").String())
	})

	t.Run("unencodable item", func(t *testing.T) {
		f := &mockFinder{items: []map[string]interface{}{{"numAwards": math.NaN()}}}
		h := NewHandler(f, logger.NewWithWriter(&bytes.Buffer{}, "info"))

		resp, err := h.Handle(context.Background(), request(map[string]string{"movieId": "42", "awardBody": "Oscar"}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.True(t, gjson.Get(resp.Body, "error.message").Exists())
	})

	t.Run("panic is answered", func(t *testing.T) {
		h := NewHandler(&mockFinder{panic: true}, logger.NewWithWriter(&bytes.Buffer{}, "info"))

		var resp events.APIGatewayV2HTTPResponse
		var err error
		assert.NotPanics(t, func() {
			resp, err = h.Handle(context.Background(), request(map[string]string{"movieId": "42", "awardBody": "Oscar"}))
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Contains(t, gjson.Get(resp.Body, "error.message").String(), "finder exploded")
	})

	t.Run("event is logged", func(t *testing.T) {
		var logs bytes.Buffer
		h := NewHandler(&mockFinder{}, logger.NewWithWriter(&logs, "info"))

		_, err := h.Handle(context.Background(), request(map[string]string{"movieId": "42", "awardBody": "Oscar"}))
		require.NoError(t, err)

		line := gjson.Parse(logs.String())
		assert.Equal(t, "Event", line.Get("message").String())
		assert.Equal(t, "req-1", line.Get("requestId").String())
		assert.Equal(t, "42", line.Get("event.pathParameters.movieId").String())
	})

	t.Run("repeated requests give identical responses", func(t *testing.T) {
		f := &mockFinder{items: []map[string]interface{}{oscar}}
		h := NewHandler(f, logger.NewWithWriter(&bytes.Buffer{}, "info"))
		req := request(map[string]string{"movieId": "42", "awardBody": "Oscar"})

		first, err := h.Handle(context.Background(), req)
		require.NoError(t, err)
		second, err := h.Handle(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestHandleEvent(t *testing.T) {
	t.Run("logs the event as received", func(t *testing.T) {
		var logs bytes.Buffer
		f := &mockFinder{items: []map[string]interface{}{}}
		h := NewHandler(f, logger.NewWithWriter(&logs, "info"))

		event := `{"version":"2.0","customField":{"trace":"abc"},"pathParameters":{"movieId":"42","awardBody":"Oscar"},"requestContext":{"requestId":"req-7"}}`
		resp, err := h.HandleEvent(context.Background(), json.RawMessage(event))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, f.calls, 1)

		line := gjson.Parse(logs.String())
		assert.Equal(t, "Event", line.Get("message").String())
		assert.Equal(t, "req-7", line.Get("requestId").String())
		assert.Equal(t, "abc", line.Get("event.customField.trace").String())
		assert.False(t, line.Get("event.rawQueryString").Exists())
	})

	t.Run("malformed event", func(t *testing.T) {
		f := &mockFinder{}
		h := NewHandler(f, logger.NewWithWriter(&bytes.Buffer{}, "info"))

		_, err := h.HandleEvent(context.Background(), json.RawMessage(`[1,2`))
		assert.Error(t, err)
		assert.Empty(t, f.calls)
	})
}
