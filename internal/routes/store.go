// Package routes maps model names to the base URLs of the serving
// instances that host them. The router resolves every predict request
// through a Store before forwarding it.
package routes

import "context"

// Store provides access to the model route table.
type Store interface {
	// Lookup returns the backend base URL serving the named model.
	Lookup(ctx context.Context, model string) (string, error)
	// Set inserts or replaces a route.
	Set(ctx context.Context, model, baseURL string) error
	// Delete removes a route. Deleting a missing route is not an error.
	Delete(ctx context.Context, model string) error
	// List returns a copy of the whole route table.
	List(ctx context.Context) (map[string]string, error)
}

// unknownModelError signals a model with no registered route for 404 mapping.
type unknownModelError struct{ model string }

func (e unknownModelError) Error() string { return "unknown model: '" + e.model + "'" }

// ErrUnknownModel returns an error for a model absent from the route table.
func ErrUnknownModel(model string) error { return unknownModelError{model: model} }

// IsUnknownModel reports whether err indicates a missing model route.
func IsUnknownModel(err error) bool {
	_, ok := err.(unknownModelError)
	return ok
}

// StaticStore is an in-memory Store seeded from a fixed table. Useful for
// tests and single-host deployments configured entirely up front.
type StaticStore struct {
	table map[string]string
}

// NewStatic builds a StaticStore from the given table.
func NewStatic(table map[string]string) *StaticStore {
	t := make(map[string]string, len(table))
	for k, v := range table {
		t[k] = v
	}
	return &StaticStore{table: t}
}

func (s *StaticStore) Lookup(ctx context.Context, model string) (string, error) {
	if u, ok := s.table[model]; ok {
		return u, nil
	}
	return "", ErrUnknownModel(model)
}

func (s *StaticStore) Set(ctx context.Context, model, baseURL string) error {
	s.table[model] = baseURL
	return nil
}

func (s *StaticStore) Delete(ctx context.Context, model string) error {
	delete(s.table, model)
	return nil
}

func (s *StaticStore) List(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(s.table))
	for k, v := range s.table {
		out[k] = v
	}
	return out, nil
}
