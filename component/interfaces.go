package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed dependency, such as an HTTP client bound
// to one upstream API.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start creates the underlying resources.
	Start(ctx context.Context) error

	// Stop releases them.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Description is a one-line self report of a component.
type Description struct {
	// Name is the display name. If empty, the component's Name() is used.
	Name string
	// Type categorizes the component, e.g. "http-client".
	Type string
	// Details is a short summary such as "https://api.example.com middleware=3".
	Details string
}

// Describable is optionally implemented by Components to describe themselves
// in Registry.Describe.
type Describable interface {
	Describe() Description
}
