package util

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fastfood-planner/planner-api/catalog"
	"github.com/fastfood-planner/planner-api/types"
	"github.com/fastfood-planner/planner-api/upstream"
)

// ResponseCodeFromError resolves a status code from an error.
// Catalog misses map to client-visible codes, upstream failures are
// reported as a bad gateway unless the upstream itself rejected the
// request, and anything unrecognized is an internal error
func ResponseCodeFromError(err error) int {
	switch e := err.(type) {
	case *catalog.CacheNotInitializedError:
		return http.StatusServiceUnavailable
	case *catalog.RestaurantNotFoundError:
		return http.StatusNotFound
	case *catalog.ItemNotFoundError:
		return http.StatusNotFound
	case *upstream.ValidationError:
		return http.StatusBadRequest
	case *upstream.StatusError:
		// Pass through upstream rejections of the user's input;
		// everything else is the upstream misbehaving
		if e.StatusCode >= 400 && e.StatusCode < 500 {
			return e.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error creates a standardized error response
func Error(w http.ResponseWriter, originalError error) {
	ErrorWithCode(w, originalError, ResponseCodeFromError(originalError))
}

// ErrorWithCode creates a standardized error response with a status code
func ErrorWithCode(w http.ResponseWriter, originalError error, statusCode int) {
	response := types.ErrorResponse{
		Message: fmt.Sprint(originalError),
	}

	jsonResponse, err := json.Marshal(response)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(jsonResponse)
}
