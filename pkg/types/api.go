package types

import "encoding/json"

// PredictRequest is the envelope accepted by POST /predict.
// A controller serving a single model ignores Model; the router requires it
// to pick the backend the request is forwarded to.
type PredictRequest struct {
	// Optional model identifier. Required when talking to the router.
	// example: sentiment-v2
	Model string `json:"model,omitempty" example:"sentiment-v2"`
	// Model input payload, passed to the predictor untouched apart from the
	// configured pre-transform.
	ModelData json.RawMessage `json:"model_data" swaggertype:"object"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Always false for error payloads.
	Success bool `json:"success" example:"false"`
	// Error message.
	// example: unknown model: 'sentiment-v2'
	Error string `json:"error" example:"unknown model: 'sentiment-v2'"`
	// Machine-readable error category.
	// example: unknown_model
	ErrorType string `json:"error_type" example:"unknown_model"`
	// Additional error details, if any.
	Details map[string]any `json:"details,omitempty"`
}

// InfoResponse is returned by GET / and describes the running service.
type InfoResponse struct {
	// Service name.
	// example: sentiment-v2
	Name string `json:"name" example:"sentiment-v2"`
	// Service version.
	// example: 1.0.0
	Version string `json:"version" example:"1.0.0"`
	// Path of the inference endpoint.
	// example: /predict
	Endpoint string `json:"endpoint" example:"/predict"`
}

// RoutesResponse wraps the model route table returned by GET /routes.
type RoutesResponse struct {
	// Map of model name to backend base URL.
	Routes map[string]string `json:"routes"`
}
