package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Empty backing-service addresses select the in-process implementation.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string
	RedisAddr   string
	RabbitMQURL string

	EventsExchange     string
	OutboxPollInterval time.Duration

	JudgeFetchEnabled     bool
	JudgeFetchTimeout     time.Duration
	JudgeFetchMaxBytes    int64
	JudgeConsensusEnabled bool
	JudgeReplicas         int
	JudgeQuorum           int
	JudgeStrictVerdicts   bool
	JudgeLockTTL          time.Duration
}

// Load reads the process environment, after merging an optional .env file in
// the working directory. Variables already set in the environment win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		ServiceName: envString("SERVICE_NAME", "escrow"),
		HTTPPort:    envString("HTTP_PORT", "8080"),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:   strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RabbitMQURL: strings.TrimSpace(os.Getenv("RABBITMQ_URL")),

		EventsExchange:     envString("EVENTS_EXCHANGE", "escrow.events"),
		OutboxPollInterval: envDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),

		JudgeFetchEnabled:     envBool("JUDGE_FETCH_ENABLED", true),
		JudgeFetchTimeout:     envDuration("JUDGE_FETCH_TIMEOUT", 10*time.Second),
		JudgeFetchMaxBytes:    int64(envInt("JUDGE_FETCH_MAX_BYTES", 1<<20)),
		JudgeConsensusEnabled: envBool("JUDGE_CONSENSUS_ENABLED", true),
		JudgeReplicas:         envInt("JUDGE_CONSENSUS_REPLICAS", 3),
		JudgeQuorum:           envInt("JUDGE_CONSENSUS_QUORUM", 2),
		JudgeStrictVerdicts:   envBool("JUDGE_STRICT_VERDICTS", false),
		JudgeLockTTL:          envDuration("JUDGE_LOCK_TTL", 2*time.Minute),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.JudgeReplicas < 1 {
		return fmt.Errorf("JUDGE_CONSENSUS_REPLICAS must be at least 1, got %d", c.JudgeReplicas)
	}
	if c.JudgeQuorum > c.JudgeReplicas {
		return fmt.Errorf("JUDGE_CONSENSUS_QUORUM %d exceeds replicas %d", c.JudgeQuorum, c.JudgeReplicas)
	}
	if c.OutboxPollInterval <= 0 {
		return errors.New("OUTBOX_POLL_INTERVAL must be positive")
	}
	return nil
}

func envString(name string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
