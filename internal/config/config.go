package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig  `envPrefix:"SERVER_"`
	Agent   AgentConfig   `envPrefix:"AGENT_"`
	SQLGen  SQLGenConfig  `envPrefix:"SQLGEN_"`
	Diagram DiagramConfig `envPrefix:"DIAGRAM_"`
	Export  ExportConfig  `envPrefix:"EXPORT_"`
	Log     LogConfig     `envPrefix:"LOG_"`
	CORS    CORSConfig    `envPrefix:"CORS_"`
}

type ServerConfig struct {
	Port         string        `env:"PORT" envDefault:"5050"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
}

type AgentConfig struct {
	URL     string        `env:"URL" envDefault:"http://localhost:8000/generate/schema"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"60s"`
}

type SQLGenConfig struct {
	URL     string        `env:"URL" envDefault:"http://localhost:8000/generate/dbsql"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"60s"`
}

type DiagramConfig struct {
	Direction   string        `env:"DIRECTION" envDefault:"LR"`
	NodeWidth   float64       `env:"NODE_WIDTH" envDefault:"200"`
	NodeHeight  float64       `env:"NODE_HEIGHT" envDefault:"100"`
	FitPadding  float64       `env:"FIT_PADDING" envDefault:"0.2"`
	SettleDelay time.Duration `env:"SETTLE_DELAY" envDefault:"100ms"`
	AutoLayout  bool          `env:"AUTO_LAYOUT" envDefault:"true"`
	Engine      string        `env:"ENGINE" envDefault:"layered"`
}

type ExportConfig struct {
	Dialect   string `env:"DIALECT" envDefault:"postgres"`
	VerifySQL bool   `env:"VERIFY_SQL" envDefault:"true"`
}

type LogConfig struct {
	Level       string `env:"LEVEL" envDefault:"info"`
	Development bool   `env:"DEVELOPMENT" envDefault:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToUpper(c.Diagram.Direction) {
	case "LR", "TB":
	default:
		return fmt.Errorf("DIAGRAM_DIRECTION must be LR or TB, got %q", c.Diagram.Direction)
	}
	switch strings.ToLower(c.Diagram.Engine) {
	case "layered", "dot":
	default:
		return fmt.Errorf("DIAGRAM_ENGINE must be layered or dot, got %q", c.Diagram.Engine)
	}
	if c.Diagram.NodeWidth <= 0 || c.Diagram.NodeHeight <= 0 {
		return errors.New("DIAGRAM_NODE_WIDTH and DIAGRAM_NODE_HEIGHT must be positive")
	}
	if c.Diagram.FitPadding < 0 {
		return errors.New("DIAGRAM_FIT_PADDING must not be negative")
	}
	if c.Export.Dialect == "" {
		return errors.New("EXPORT_DIALECT must not be empty")
	}
	return nil
}
