package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wayfarer-dev/wayfarer/pkg/route"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "wayfarer.json"

	// DefaultPort is the default serve port.
	DefaultPort = 3000

	// DefaultHost is the default serve host.
	DefaultHost = "localhost"

	// DefaultWSPath is the default websocket mount path.
	DefaultWSPath = "/ws"
)

// Config represents the complete wayfarer.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Basename is stripped from incoming URLs and prepended to
	// generated ones.
	Basename string `json:"basename,omitempty"`

	// NotFoundType overrides the action type for unmatched URLs.
	NotFoundType string `json:"notFoundType,omitempty"`

	// ConvertNumbers enables numeric auto-conversion of path params.
	ConvertNumbers bool `json:"convertNumbers,omitempty"`

	// CapitalizedWords enables hyphen-to-title-case conversion of
	// path params.
	CapitalizedWords bool `json:"capitalizedWords,omitempty"`

	// Strict makes settle timeouts fatal instead of logged.
	Strict bool `json:"strict,omitempty"`

	// DefaultURL seeds the history when a session has no saved
	// snapshot (default "/").
	DefaultURL string `json:"defaultUrl,omitempty"`

	// Routes declares the route table in order. Declaration order is
	// match order.
	Routes []RouteConfig `json:"routes"`

	// Serve contains server settings.
	Serve ServeConfig `json:"serve,omitempty"`

	// Storage contains snapshot storage settings.
	Storage StorageConfig `json:"storage,omitempty"`

	// configPath stores the path the config was loaded from.
	configPath string
}

// RouteConfig declares one route.
type RouteConfig struct {
	// Type is the action type, unique within the table.
	Type string `json:"type"`

	// Path is the pattern, e.g. "/users/:id" or "/files/*rest".
	Path string `json:"path,omitempty"`

	// DefaultParams fills parameters absent from the URL.
	DefaultParams map[string]any `json:"defaultParams,omitempty"`

	// DefaultQuery fills query keys absent from the URL.
	DefaultQuery map[string]any `json:"defaultQuery,omitempty"`

	// DefaultHash fills an empty hash.
	DefaultHash string `json:"defaultHash,omitempty"`

	// ConvertNumbers overrides the global setting for this route.
	ConvertNumbers *bool `json:"convertNumbers,omitempty"`

	// CapitalizedWords overrides the global setting for this route.
	CapitalizedWords *bool `json:"capitalizedWords,omitempty"`
}

// ServeConfig contains server settings.
type ServeConfig struct {
	// Host is the bind host.
	Host string `json:"host,omitempty"`

	// Port is the bind port.
	Port int `json:"port,omitempty"`

	// WSPath is the websocket mount path.
	WSPath string `json:"wsPath,omitempty"`

	// MetricsPath exposes Prometheus metrics when non-empty.
	MetricsPath string `json:"metricsPath,omitempty"`
}

// StorageConfig contains snapshot storage settings.
type StorageConfig struct {
	// Backend selects the store: "memory" (default) or "s3".
	Backend string `json:"backend,omitempty"`

	// Bucket is the S3 bucket for the s3 backend.
	Bucket string `json:"bucket,omitempty"`

	// Region is the S3 region (falls back to AWS_REGION).
	Region string `json:"region,omitempty"`

	// Prefix is the S3 key prefix (default "history/").
	Prefix string `json:"prefix,omitempty"`
}

// Default returns a config with all defaults applied.
func Default() *Config {
	return &Config{
		DefaultURL: "/",
		Serve: ServeConfig{
			Host:   DefaultHost,
			Port:   DefaultPort,
			WSPath: DefaultWSPath,
		},
		Storage: StorageConfig{
			Backend: "memory",
			Prefix:  "history/",
		},
	}
}

// Load reads and validates the config at path. Missing optional
// fields get defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	c := Default()
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	c.applyDefaults()
	c.configPath = path
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Find locates wayfarer.json starting at dir and walking up.
func Find(dir string) (string, error) {
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("config: no %s found from %s upward", ConfigFileName, dir)
		}
		dir = parent
	}
}

func (c *Config) applyDefaults() {
	if c.DefaultURL == "" {
		c.DefaultURL = "/"
	}
	if c.Serve.Host == "" {
		c.Serve.Host = DefaultHost
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = DefaultPort
	}
	if c.Serve.WSPath == "" {
		c.Serve.WSPath = DefaultWSPath
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "memory"
	}
	if c.Storage.Prefix == "" {
		c.Storage.Prefix = "history/"
	}
}

// Validate checks the config for contradictions.
func (c *Config) Validate() error {
	if len(c.Routes) == 0 {
		return fmt.Errorf("config: at least one route is required")
	}
	switch c.Storage.Backend {
	case "memory":
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("config: s3 backend requires a bucket")
		}
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

// Path returns where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Addr returns the host:port bind address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Serve.Host, c.Serve.Port)
}

// Table builds the route table declared by the config.
func (c *Config) Table() (*route.Table, error) {
	routes := make([]*route.Route, 0, len(c.Routes))
	for _, rc := range c.Routes {
		routes = append(routes, &route.Route{
			Type:             rc.Type,
			Path:             rc.Path,
			DefaultParams:    rc.DefaultParams,
			DefaultQuery:     rc.DefaultQuery,
			DefaultHash:      rc.DefaultHash,
			ConvertNumbers:   rc.ConvertNumbers,
			CapitalizedWords: rc.CapitalizedWords,
		})
	}
	tbl, err := route.NewTable(routes...)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return tbl, nil
}

// Options builds the route options declared by the config.
func (c *Config) Options() *route.Options {
	var opts []route.Option
	if c.Basename != "" {
		opts = append(opts, route.WithBasename(c.Basename))
	}
	if c.NotFoundType != "" {
		opts = append(opts, route.WithNotFoundType(c.NotFoundType))
	}
	if c.ConvertNumbers {
		opts = append(opts, route.WithConvertNumbers(true))
	}
	if c.CapitalizedWords {
		opts = append(opts, route.WithCapitalizedWords(true))
	}
	if c.Strict {
		opts = append(opts, route.WithStrict(true))
	}
	return route.NewOptions(opts...)
}
