package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is the version of the response envelope. Clients reject
// envelopes with a version they do not know.
const EnvelopeVersion = 1

// APIEnvelope wraps every JSON response body.
type APIEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int       `json:"v" doc:"Envelope version"`
	Success bool      `json:"success" doc:"Whether the request succeeded"`
	Data    any       `json:"data,omitzero" doc:"Response payload"`
	Error   *APIError `json:"error,omitzero" doc:"Error description when success is false"`
}

// EnvelopeTransformer wraps response bodies in an APIEnvelope. Statuses of
// 400 and above produce an error envelope.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if env, ok := v.(APIEnvelope); ok {
		return env, nil
	}

	code, err := strconv.Atoi(status)
	if err != nil || code < 400 {
		return APIEnvelope{Version: EnvelopeVersion, Success: true, Data: v}, nil
	}

	return APIEnvelope{Version: EnvelopeVersion, Success: false, Error: toAPIError(code, v)}, nil
}

func toAPIError(status int, v any) *APIError {
	switch e := v.(type) {
	case *APIError:
		return e
	case error:
		return &APIError{status: status, Code: statusToCode(status), Message: e.Error()}
	default:
		return &APIError{status: status, Code: statusToCode(status), Message: "request failed"}
	}
}
