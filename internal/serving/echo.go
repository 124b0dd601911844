package serving

import (
	"context"
	"encoding/json"
)

// EchoPredictor returns its input unchanged. It ships in the daemon as a
// stand-in model so packaged images can be smoke-tested end to end before
// a real predictor exists.
type EchoPredictor struct{}

func (EchoPredictor) Load(ctx context.Context) error { return nil }

func (EchoPredictor) Predict(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	if !json.Valid(input) {
		return nil, ErrBadInput("model_data is not valid JSON")
	}
	return input, nil
}
