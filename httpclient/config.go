package httpclient

import (
	"net/http"
	"time"

	"github.com/noel-archive/orchid/config"
	"github.com/noel-archive/orchid/security"
	"github.com/noel-archive/orchid/serializer"
	"github.com/noel-archive/orchid/validation"
)

const (
	// DefaultMaxRedirects bounds a redirect chase when MaxRedirects is zero.
	DefaultMaxRedirects = 10

	defaultIdleConnTimeout = 5 * time.Second
)

// TLSConfig is an alias for the shared security TLS configuration.
type TLSConfig = security.TLSConfig

// Config configures a Client. Zero values fall back to library defaults.
type Config struct {
	// Name identifies the client in logs and component listings.
	Name string `yaml:"name" mapstructure:"name"`

	// UserAgent replaces the generated orchid user-agent.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// BaseURL is joined with relative request URLs.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,http_url"`

	Defaults Defaults `yaml:"defaults" mapstructure:"defaults"`

	// Pool, when set, makes the client keep one shared transport for all
	// calls. Without it every call gets its own transport, closed afterwards.
	Pool *PoolConfig `yaml:"pool" mapstructure:"pool"`

	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Proxy is an http, https or socks5 proxy URL.
	Proxy string `yaml:"proxy" mapstructure:"proxy" validate:"omitempty,proxy_url"`

	// HTTP2 configures the transport for HTTP/2 explicitly, enabling
	// health-check pings on idle connections.
	HTTP2 *HTTP2Config `yaml:"http2" mapstructure:"http2"`

	// Cookies enables an in-memory cookie jar scoped by public suffix.
	Cookies bool `yaml:"cookies" mapstructure:"cookies"`

	// MaxRedirects bounds redirect chases. Zero means DefaultMaxRedirects.
	MaxRedirects int `yaml:"max_redirects" mapstructure:"max_redirects" validate:"gte=0"`

	// Logging configures a logger for the client's own log lines. Nil keeps
	// the client silent unless a logging middleware is installed.
	Logging *LoggingConfig `yaml:"logging" mapstructure:"logging"`

	Middleware  []Middleware                  `yaml:"-" mapstructure:"-" validate:"-"`
	Serializers map[string]serializer.Decoder `yaml:"-" mapstructure:"-" validate:"-"`
	Transport   http.RoundTripper             `yaml:"-" mapstructure:"-" validate:"-"`
}

// Defaults are applied to every request that does not override them.
type Defaults struct {
	Headers         map[string]string `yaml:"headers" mapstructure:"headers" validate:"dive,keys,header_name,endkeys"`
	Compress        *bool             `yaml:"compress" mapstructure:"compress"`
	FollowRedirects *bool             `yaml:"follow_redirects" mapstructure:"follow_redirects"`
	// Timeout is the per-hop timeout; zero means 30s, negative disables it.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// PoolConfig tunes the shared transport.
type PoolConfig struct {
	MaxIdleConns        int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns" validate:"gte=0"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host" mapstructure:"max_idle_conns_per_host" validate:"gte=0"`
	MaxConnsPerHost     int           `yaml:"max_conns_per_host" mapstructure:"max_conns_per_host" validate:"gte=0"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout" mapstructure:"idle_conn_timeout" validate:"gte=0"`
}

// HTTP2Config tunes the HTTP/2 transport.
type HTTP2Config struct {
	ReadIdleTimeout time.Duration `yaml:"read_idle_timeout" mapstructure:"read_idle_timeout" validate:"gte=0"`
	PingTimeout     time.Duration `yaml:"ping_timeout" mapstructure:"ping_timeout" validate:"gte=0"`
}

// LoggingConfig selects a level and format for the client logger.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Format string `yaml:"format" mapstructure:"format" validate:"omitempty,oneof=json console pretty"`
}

// ApplyDefaults fills in zero-value fields with library defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "orchid"
	}
	if c.MaxRedirects == 0 {
		c.MaxRedirects = DefaultMaxRedirects
	}
	if c.Defaults.Timeout == 0 {
		c.Defaults.Timeout = DefaultTimeout
	}
	if c.Pool != nil && c.Pool.IdleConnTimeout == 0 {
		c.Pool.IdleConnTimeout = defaultIdleConnTimeout
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	return c.TLS.Validate()
}

// LoadConfig reads a Config via the config package: <name>.yml, .env and
// ORCHID_* environment variables.
func LoadConfig(name string, opts ...config.LoaderOption) (Config, error) {
	var cfg Config
	if err := config.Load(name, &cfg, opts...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
