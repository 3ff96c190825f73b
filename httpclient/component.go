package httpclient

import (
	"context"
	"fmt"

	"github.com/noel-archive/orchid/component"
)

// Component wraps a Client with lifecycle management, for applications that
// start and stop their dependencies through a component.Registry.
type Component struct {
	client *Client
	config Config
	opts   []Option
}

// compile-time assertions
var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a client component. The client is created in Start.
func NewComponent(cfg Config, opts ...Option) *Component {
	return &Component{config: cfg, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string {
	if c.config.Name == "" {
		return "orchid"
	}
	return c.config.Name
}

// Start creates the client, registering its middleware.
func (c *Component) Start(_ context.Context) error {
	cl, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.client = cl
	return nil
}

// Stop closes the client.
func (c *Component) Stop(ctx context.Context) error {
	if c.client != nil {
		return c.client.Close(ctx)
	}
	return nil
}

// Health reports healthy while the client is open.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.client == nil:
		h.Status, h.Message = component.StatusUnhealthy, "not started"
	case c.client.Closed():
		h.Status, h.Message = component.StatusUnhealthy, "closed"
	}
	return h
}

// Describe returns the component description.
func (c *Component) Describe() component.Description {
	details := "no base url"
	if c.config.BaseURL != "" {
		details = c.config.BaseURL
	}
	if c.client != nil {
		details += fmt.Sprintf(" middleware=%d", c.client.Middleware().Len())
	}
	return component.Description{
		Name:    c.Name(),
		Type:    "http-client",
		Details: details,
	}
}

// Client returns the underlying client. It is nil before Start.
func (c *Component) Client() *Client {
	return c.client
}
