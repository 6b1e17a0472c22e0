package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is bumped only on breaking changes to the envelope shape.
const envelopeVersion = 1

// envelope is the wire shape every JSON response is wrapped in.
// Success responses carry data; error responses carry a flat error string
// plus the structured code/message/details fields.
type envelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps every huma response body in the standard envelope.
// Errors produced by RegisterErrorHandler arrive as *APIError and become
// error envelopes; everything else is a success payload.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	return envelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
