package types

import "time"

// Instance describes a managed serving container.
type Instance struct {
	// Container ID assigned by the engine.
	// example: 3f9c2b8a41d0
	ID string `json:"id" example:"3f9c2b8a41d0"`
	// Operator-chosen instance name.
	// example: sentiment-v2-blue
	Name string `json:"name" example:"sentiment-v2-blue"`
	// Image the instance was created from.
	// example: mlserve/sentiment:latest
	Image string `json:"image" example:"mlserve/sentiment:latest"`
	// Model identifier the instance serves.
	// example: sentiment-v2
	Model string `json:"model,omitempty" example:"sentiment-v2"`
	// Engine-reported state (running, exited, created, ...).
	// example: running
	State string `json:"state" example:"running"`
	// Host-visible port mapped to the serving port.
	// example: 8080
	ExternalPort int `json:"external_port" example:"8080"`
	// Container-internal serving port.
	// example: 8000
	InternalPort int `json:"internal_port" example:"8000"`
	// Creation time recorded when the instance was started.
	CreatedAt time.Time `json:"created_at"`
}
