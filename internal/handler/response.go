package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
)

type successBody struct {
	Data awardData `json:"data"`
}

// awardData keeps the singular field name for compatibility even though it
// holds every matched item.
type awardData struct {
	MovieAward []map[string]interface{} `json:"movieAward"`
}

type messageBody struct {
	Message string `json:"Message"`
}

type errorBody struct {
	Error fault `json:"error"`
}

// fault is the error as handed back to the caller, unsanitized.
type fault struct {
	Name     string         `json:"name"`
	Message  string         `json:"message"`
	Fault    string         `json:"$fault,omitempty"`
	Metadata *faultMetadata `json:"$metadata,omitempty"`
}

type faultMetadata struct {
	HTTPStatusCode int    `json:"httpStatusCode,omitempty"`
	RequestID      string `json:"requestId,omitempty"`
}

func newFault(err error) fault {
	f := fault{
		Name:    strings.TrimPrefix(fmt.Sprintf("%T", err), "*"),
		Message: err.Error(),
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		f.Name = apiErr.ErrorCode()
		switch apiErr.ErrorFault() {
		case smithy.FaultClient:
			f.Fault = "client"
		case smithy.FaultServer:
			f.Fault = "server"
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		f.Metadata = &faultMetadata{
			HTTPStatusCode: respErr.HTTPStatusCode(),
			RequestID:      respErr.ServiceRequestID(),
		}
	}
	return f
}

func jsonResponse(status int, body []byte) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers: map[string]string{
			"content-type": "application/json",
		},
		Body: string(body),
	}
}

func failure(err error) events.APIGatewayV2HTTPResponse {
	// a fault is strings and ints only, so it always marshals
	body, _ := json.Marshal(errorBody{Error: newFault(err)})
	return jsonResponse(http.StatusInternalServerError, body)
}
