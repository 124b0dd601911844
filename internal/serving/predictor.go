// Package serving hosts a user-authored model wrapper behind the standard
// HTTP contract. Users implement Predictor for their trained model and hand
// it to a Controller, which owns the server lifecycle.
package serving

import (
	"context"
	"encoding/json"
)

// Predictor adapts a trained model artifact to the predict contract.
// Load is called once at startup, before the instance reports ready.
type Predictor interface {
	Load(ctx context.Context) error
	Predict(ctx context.Context, input json.RawMessage) (json.RawMessage, error)
}

// PreProcessor is optionally implemented by predictors that transform the
// request payload before prediction.
type PreProcessor interface {
	PreProcess(ctx context.Context, input json.RawMessage) (json.RawMessage, error)
}

// PostProcessor is optionally implemented by predictors that transform the
// model output before it is returned to the client.
type PostProcessor interface {
	PostProcess(ctx context.Context, output json.RawMessage) (json.RawMessage, error)
}

// badInputError signals an unusable model input for 400 mapping.
type badInputError struct{ msg string }

func (e badInputError) Error() string   { return e.msg }
func (e badInputError) StatusCode() int { return 400 }

// ErrBadInput constructs an error predictors return for inputs that fail
// validation; the HTTP layer maps it to 400 instead of 500.
func ErrBadInput(msg string) error { return badInputError{msg: msg} }

// IsBadInput reports whether err was produced by ErrBadInput.
func IsBadInput(err error) bool {
	_, ok := err.(badInputError)
	return ok
}
