package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Config holds the portal server configuration, loadable from environment
// variables (PORTAL_ prefix), flags, or YAML config files.
type Config struct {
	Addr      string `default:"0.0.0.0:8080" usage:"Portal API listen address"`
	Backend   BackendConfig
	Session   SessionConfig
	Discount  DiscountConfig
	Checkout  CheckoutConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// BackendConfig points the portal at its data backend.
type BackendConfig struct {
	URL     string        `usage:"Backend base URL (PORTAL_BACKEND_URL)" flag:"backend-url"`
	Timeout time.Duration `default:"10s" usage:"Per-request timeout for backend calls"`
}

// SessionConfig controls the session store.
type SessionConfig struct {
	TTL time.Duration `default:"12h" usage:"Session lifetime"`
}

// DiscountConfig holds the running promotion parameters.
type DiscountConfig struct {
	Code        string          `default:"HEMAT30K" usage:"Recognized discount code"`
	MinPurchase decimal.Decimal `usage:"Minimum subtotal for the discount (default 30000)"`
	Rate        decimal.Decimal `usage:"Discount rate (default 0.1)"`
}

// CheckoutConfig tunes the checkout orchestrator.
type CheckoutConfig struct {
	Timeout time.Duration `default:"30s" usage:"Maximum duration of one checkout"`
	// ProceedOnProvisioningFailure preserves the original portal's policy
	// of continuing checkout when customer provisioning fails. Disable to
	// make provisioning failures abort the checkout instead.
	ProceedOnProvisioningFailure bool `default:"true" usage:"Continue checkout when customer provisioning fails" flag:"proceed-on-provisioning-failure"`
}

// RateLimitConfig controls the per-client rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "PORTAL",
		Files:     []string{"portal.yaml", "/etc/paket/portal.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.Backend.URL == "" {
		return nil, errors.New("backend URL is required: set PORTAL_BACKEND_URL or BACKEND_URL")
	}
	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) onto the PORTAL_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.Backend.URL == "" {
		if v := os.Getenv("BACKEND_URL"); v != "" {
			c.Backend.URL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
