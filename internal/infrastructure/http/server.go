package httpapi

import (
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 1 << 20

// NewServer exposes the router over plain HTTP for local runs, translating
// each request into the API Gateway proxy shape the Lambda receives.
func NewServer(router *Router, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		req, err := toProxyRequest(w, r)
		if err != nil {
			writeResponse(w, BuildResponse(http.StatusBadRequest, ErrorResponse{
				Operation: r.Method,
				Message:   "Invalid payment request.",
				Error:     err.Error(),
			}))
			return
		}

		resp, _ := router.Handle(r.Context(), req)
		writeResponse(w, resp)
	})

	return mux
}

func writeResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	io.WriteString(w, resp.Body)
}

func toProxyRequest(w http.ResponseWriter, r *http.Request) (events.APIGatewayProxyRequest, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}

	query := r.URL.Query()
	var params map[string]string
	if len(query) > 0 {
		params = make(map[string]string, len(query))
		for k := range query {
			params[k] = query.Get(k)
		}
	}

	headers := make(map[string]string, len(r.Header))
	for k := range r.Header {
		headers[k] = r.Header.Get(k)
	}

	return events.APIGatewayProxyRequest{
		HTTPMethod:                      r.Method,
		Path:                            r.URL.Path,
		Headers:                         headers,
		MultiValueHeaders:               r.Header,
		QueryStringParameters:           params,
		MultiValueQueryStringParameters: query,
		Body:                            string(body),
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID: r.Header.Get("X-Request-Id"),
		},
	}, nil
}
