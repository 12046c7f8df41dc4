package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Server holds HTTP server configuration.
type Server struct {
	Port          int           `envconfig:"HANDORA_PORT" default:"8080"`
	CORSOrigin    string        `envconfig:"HANDORA_CORS_ORIGIN" default:"http://localhost:3000"`
	ScoringPolicy string        `envconfig:"HANDORA_SCORING_POLICY" default:"threshold"`
	MirrorTimeout time.Duration `envconfig:"HANDORA_MIRROR_TIMEOUT" default:"3s"`
}

// Database holds Turso database configuration. Both values may be empty, in
// which case the service runs on the in-memory store alone.
type Database struct {
	URL       string `envconfig:"HANDORA_DATABASE_URL"`
	AuthToken string `envconfig:"HANDORA_DATABASE_AUTH_TOKEN"`
}

// OpenAI holds language-model configuration. An absent API key disables the
// analyze endpoint only.
type OpenAI struct {
	APIKey       string        `envconfig:"HANDORA_OPENAI_API_KEY"`
	Model        string        `envconfig:"HANDORA_OPENAI_MODEL" default:"gpt-4o-mini"`
	ResponsesURL string        `envconfig:"HANDORA_OPENAI_RESPONSES_URL"`
	Timeout      time.Duration `envconfig:"HANDORA_OPENAI_TIMEOUT" default:"30s"`
}

// OTel holds metrics exporter configuration.
type OTel struct {
	Enabled  bool   `envconfig:"HANDORA_OTEL_ENABLED" default:"false"`
	Endpoint string `envconfig:"HANDORA_OTEL_ENDPOINT"`
	Insecure bool   `envconfig:"HANDORA_OTEL_INSECURE" default:"false"`
}

// Config is the full service configuration.
type Config struct {
	Server   Server
	Database Database
	OpenAI   OpenAI
	OTel     OTel
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.OpenAI); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.OTel); err != nil {
		return nil, err
	}
	return &cfg, nil
}
