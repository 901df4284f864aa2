package httpapi_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	httpapi "github.com/rcarvalho-pb/payments_crud-go/internal/infrastructure/http"
)

func TestBuildResponse_BodyRoundTrips(t *testing.T) {
	bodies := []any{
		nil,
		"404 Not Found",
		42.0,
		true,
		[]any{"a", 1.0, nil},
		map[string]any{
			"payments": []any{map[string]any{"PAYMENTS_ID": "p-1", "amount": 3.5}},
			"nested":   map[string]any{"ok": false},
		},
	}

	for _, status := range []int{http.StatusOK, http.StatusNotFound, http.StatusInternalServerError} {
		for _, body := range bodies {
			resp := httpapi.BuildResponse(status, body)
			require.Equal(t, status, resp.StatusCode)

			var decoded any
			require.NoError(t, json.Unmarshal([]byte(resp.Body), &decoded))
			require.Equal(t, body, decoded)
		}
	}
}

func TestBuildResponse_FixedHeaders(t *testing.T) {
	resp := httpapi.BuildResponse(http.StatusOK, map[string]string{})

	require.Equal(t, "application/json", resp.Headers["Content-Type"])
	require.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	require.Equal(t,
		"Access-Control-Allow-Origin,Content-Type,Authorization,X-Amz-Date,X-Api-Key,X-Amz-Security-Token,Accept,Origin",
		resp.Headers["Access-Control-Allow-Headers"],
	)
}

func TestBuildResponse_UnencodableBodyBecomes500(t *testing.T) {
	resp := httpapi.BuildResponse(http.StatusOK, map[string]any{"ch": make(chan int)})

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.JSONEq(t, `{"Message":"failed to encode response body"}`, resp.Body)
}
