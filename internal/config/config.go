package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-yaml/yaml"
	"github.com/pkg/errors"
)

const (
	DefaultBackendURL     = "http://localhost:8000"
	DefaultAddr           = ":3000"
	DefaultBackendTimeout = 10 * time.Second
	// identity caching is off unless a TTL is configured
	DefaultIdentityTTL    = time.Duration(0)
)

type Config struct {
	Server    Server    `yaml:"server"`
	Backend   Backend   `yaml:"backend"`
	Cache     Cache     `yaml:"cache"`
	RateLimit RateLimit `yaml:"rateLimit"`
}

type Server struct {
	Addr          string `yaml:"addr"`
	Production    bool   `yaml:"production"`
	SecureCookie  bool   `yaml:"secureCookie"`
	WebRoot       string `yaml:"webRoot"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
	ServiceName   string `yaml:"serviceName"`
}

type Backend struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"` // e.g. "10s"

	// ---
	TimeoutDuration time.Duration `yaml:"-"`
}

type Cache struct {
	MemcachedAddr string `yaml:"memcachedAddr"` // empty: in-process cache
	IdentityTTL   string `yaml:"identityTTL"`

	// ---
	IdentityTTLDuration time.Duration `yaml:"-"`
}

type RateLimit struct {
	AuthPerMinute float64 `yaml:"authPerMinute"`
	AuthBurst     int     `yaml:"authBurst"`
}

// Load reads the optional YAML file at path, applies environment overrides
// and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	config := Config{
		Server: Server{
			Addr:        DefaultAddr,
			ServiceName: "salesdesk",
		},
		Backend: Backend{
			URL: DefaultBackendURL,
		},
		RateLimit: RateLimit{
			AuthPerMinute: 30,
			AuthBurst:     10,
		},
	}

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "failed to open config file")
		}
		defer file.Close()

		err = yaml.NewDecoder(file).Decode(&config)
		if err != nil {
			return Config{}, errors.Wrap(err, "failed to decode config file")
		}
	}

	err := config.applyEnv()
	if err != nil {
		return Config{}, err
	}

	err = config.resolve()
	if err != nil {
		return Config{}, err
	}

	err = config.Validate()
	if err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c *Config) applyEnv() error {
	c.Backend.URL = getEnv("BACKEND_API_URL", c.Backend.URL)
	c.Backend.Timeout = getEnv("BACKEND_TIMEOUT", c.Backend.Timeout)
	c.Server.Addr = getEnv("SALESDESK_ADDR", c.Server.Addr)
	c.Server.WebRoot = getEnv("SALESDESK_WEB_ROOT", c.Server.WebRoot)
	c.Server.TraceEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Server.TraceEndpoint)
	c.Server.ServiceName = getEnv("OTEL_SERVICE_NAME", c.Server.ServiceName)
	c.Cache.MemcachedAddr = getEnv("MEMCACHED_ADDR", c.Cache.MemcachedAddr)
	c.Cache.IdentityTTL = getEnv("IDENTITY_CACHE_TTL", c.Cache.IdentityTTL)

	if getEnv("NODE_ENV", "") == "production" {
		c.Server.Production = true
	}

	var err error
	c.Server.Production, err = getEnvBool("SALESDESK_PRODUCTION", c.Server.Production)
	if err != nil {
		return err
	}
	c.Server.SecureCookie, err = getEnvBool("SALESDESK_SECURE_COOKIE", c.Server.SecureCookie)
	if err != nil {
		return err
	}
	c.Server.EnableTrace, err = getEnvBool("SALESDESK_ENABLE_TRACE", c.Server.EnableTrace)
	if err != nil {
		return err
	}

	if v := getEnv("RATE_LIMIT_AUTH_PER_MINUTE", ""); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(err, "invalid RATE_LIMIT_AUTH_PER_MINUTE")
		}
		c.RateLimit.AuthPerMinute = f
	}
	return nil
}

func (c *Config) resolve() error {
	if c.Server.Production {
		c.Server.SecureCookie = true
	}
	c.Backend.URL = strings.TrimRight(c.Backend.URL, "/")

	c.Backend.TimeoutDuration = DefaultBackendTimeout
	if c.Backend.Timeout != "" {
		d, err := time.ParseDuration(c.Backend.Timeout)
		if err != nil {
			return errors.Wrap(err, "invalid backend timeout")
		}
		c.Backend.TimeoutDuration = d
	}

	c.Cache.IdentityTTLDuration = DefaultIdentityTTL
	if c.Cache.IdentityTTL != "" {
		d, err := time.ParseDuration(c.Cache.IdentityTTL)
		if err != nil {
			return errors.Wrap(err, "invalid identity cache ttl")
		}
		c.Cache.IdentityTTLDuration = d
	}
	return nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return errors.New("BACKEND_API_URL cannot be empty")
	}
	if !strings.HasPrefix(c.Backend.URL, "http://") && !strings.HasPrefix(c.Backend.URL, "https://") {
		return errors.Errorf("BACKEND_API_URL must be an http(s) url: %s", c.Backend.URL)
	}
	if c.Server.Addr == "" {
		return errors.New("server addr cannot be empty")
	}
	if c.Backend.TimeoutDuration <= 0 {
		return errors.New("backend timeout must be positive")
	}
	if c.Cache.IdentityTTLDuration < 0 {
		return errors.New("identity cache ttl cannot be negative")
	}
	if c.RateLimit.AuthPerMinute <= 0 || c.RateLimit.AuthBurst <= 0 {
		return errors.New("auth rate limit must be positive")
	}
	if c.Server.EnableTrace && c.Server.TraceEndpoint == "" {
		return errors.New("trace endpoint is required when tracing is enabled")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a fallback value.
// KEY_FILE takes precedence and names a file holding the value.
func getEnv(key, fallback string) string {
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Wrapf(err, "invalid %s", key)
	}
	return b, nil
}
