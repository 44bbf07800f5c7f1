package config

import (
	"os"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string
	BusBrokers  []string

	// RegistryOperator is the only identity allowed to blacklist or
	// unblacklist creators.
	RegistryOperator string

	WorkerPollInterval time.Duration

	EnableSponsorshipOutboxRelay bool
	EnableElectionOutboxRelay    bool
	EnableDeadlineSweeper        bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "agora"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	operator := strings.TrimSpace(os.Getenv("REGISTRY_OPERATOR"))
	if operator == "" {
		operator = "registry-operator"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("BUS_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	poll := 5 * time.Second
	if raw := strings.TrimSpace(os.Getenv("WORKER_POLL_INTERVAL")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			poll = parsed
		}
	}

	return Config{
		ServiceName:      service,
		HTTPPort:         port,
		PostgresDSN:      os.Getenv("POSTGRES_DSN"),
		BusBrokers:       brokers,
		RegistryOperator: operator,

		WorkerPollInterval: poll,

		EnableSponsorshipOutboxRelay: envBool("ENABLE_SPONSORSHIP_OUTBOX_RELAY", true),
		EnableElectionOutboxRelay:    envBool("ENABLE_ELECTION_OUTBOX_RELAY", true),
		EnableDeadlineSweeper:        envBool("ENABLE_DEADLINE_SWEEPER", true),
	}, nil
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
