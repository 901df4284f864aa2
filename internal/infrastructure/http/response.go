package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

const allowHeaders = "Access-Control-Allow-Origin,Content-Type,Authorization,X-Amz-Date,X-Api-Key,X-Amz-Security-Token,Accept,Origin"

const encodeFailureBody = `{"Message":"failed to encode response body"}`

// BuildResponse wraps body as JSON in the proxy response envelope with the
// fixed content type and CORS headers.
func BuildResponse(statusCode int, body any) events.APIGatewayProxyResponse {
	b, err := json.Marshal(body)
	if err != nil {
		statusCode = http.StatusInternalServerError
		b = []byte(encodeFailureBody)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type":                 "application/json",
			"Access-Control-Allow-Headers": allowHeaders,
			"Access-Control-Allow-Origin":  "*",
		},
		Body: string(b),
	}
}
