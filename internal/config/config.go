package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StageProd = "prod"
	StageDev  = "dev"

	DefaultConfigPath = "config/server.yaml"
)

// Server holds everything the server binary needs. Secrets and deployment
// values come from the environment, tuning knobs from the YAML file.
type Server struct {
	Stage       string `yaml:"-"`
	Port        int    `yaml:"-"`
	DatabaseUrl string `yaml:"-"`
	LogLevel    string `yaml:"-"`
	Seed        uint64 `yaml:"-"`

	Websocket WebsocketConfig `yaml:"websocket"`
	Session   SessionConfig   `yaml:"session"`
	Game      GameConfig      `yaml:"game"`
}

type WebsocketConfig struct {
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	ReadBufferSize   int           `yaml:"read_buffer_size"`
	WriteBufferSize  int           `yaml:"write_buffer_size"`
}

type SessionConfig struct {
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	GracePeriod     time.Duration `yaml:"grace_period"`
}

type GameConfig struct {
	// random attempts per ship before auto placement gives up
	PlacementAttempts int `yaml:"placement_attempts"`
}

func DefaultServer() Server {
	return Server{
		Stage:    StageDev,
		Port:     8000,
		LogLevel: "info",
		Websocket: WebsocketConfig{
			// good average time since this is not a high-latency operation such as video streaming
			HandshakeTimeout: time.Second * 5,
			ReadBufferSize:   2048,
			WriteBufferSize:  2048,
		},
		Session: SessionConfig{
			CleanupInterval: time.Minute * 20,
			GracePeriod:     time.Minute * 2,
		},
		Game: GameConfig{
			PlacementAttempts: 1000,
		},
	}
}

// LoadServer reads .env (outside prod), the environment and then the YAML
// file at path. A missing YAML file keeps the defaults.
func LoadServer(path string) (Server, error) {
	if os.Getenv("STAGE") != StageProd {
		// .env is optional in dev
		_ = godotenv.Load(".env")
	}

	cfg := DefaultServer()
	if err := cfg.loadEnv(); err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Both durations drive timers; a non-positive ticker interval panics.
func (s *Server) validate() error {
	if s.Session.CleanupInterval <= 0 {
		return fmt.Errorf("session.cleanup_interval must be positive, got %s", s.Session.CleanupInterval)
	}
	if s.Session.GracePeriod <= 0 {
		return fmt.Errorf("session.grace_period must be positive, got %s", s.Session.GracePeriod)
	}
	return nil
}

func (s *Server) loadEnv() error {
	if stage := os.Getenv("STAGE"); stage != "" {
		if stage != StageDev && stage != StageProd {
			return fmt.Errorf("invalid type of development stage: %s", stage)
		}
		s.Stage = stage
	}

	if portEnv := os.Getenv("PORT"); portEnv != "" {
		port, err := strconv.Atoi(portEnv)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", portEnv, err)
		}
		s.Port = port
	}

	if seedEnv := os.Getenv("SEED"); seedEnv != "" {
		seed, err := strconv.ParseUint(seedEnv, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SEED %q: %w", seedEnv, err)
		}
		s.Seed = seed
	}

	s.DatabaseUrl = os.Getenv("DATABASE_URL")
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		s.LogLevel = level
	}
	return nil
}

// NewLogger builds the process logger for the configured stage and level.
func NewLogger(stage, level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	if stage == StageProd {
		logger.SetFormatter(log.JSONFormatter)
	}

	parsed, err := log.ParseLevel(level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", level)
		parsed = log.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}
