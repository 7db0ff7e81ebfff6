package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-driven service configuration. Every knob has a
// working default so a bare `provisioning` binary comes up locally.
type Config struct {
	Issuer       string `env:"PROVISIONING_ISSUER" envDefault:"crewdesk-provisioning"`
	DatabaseFile string `env:"PROVISIONING_DATABASE_FILE" envDefault:"provisioning.db"`
	PepperFile   string `env:"PROVISIONING_PEPPER_FILE" envDefault:"pepper"`

	SessionTTL       time.Duration `env:"PROVISIONING_SESSION_TTL" envDefault:"1h"`
	InvitationWindow time.Duration `env:"PROVISIONING_INVITATION_WINDOW" envDefault:"168h"`

	// GlobalAdminCeiling caps admins per business regardless of the
	// business's own limit.
	GlobalAdminCeiling int `env:"PROVISIONING_GLOBAL_ADMIN_CEILING" envDefault:"20"`

	// Seat limits applied when business creation omits them.
	DefaultMaxAdmins  int `env:"PROVISIONING_DEFAULT_MAX_ADMINS" envDefault:"3"`
	DefaultMaxMembers int `env:"PROVISIONING_DEFAULT_MAX_MEMBERS" envDefault:"50"`

	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Port      int    `env:"PORT" envDefault:"8080"`

	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
	RetentionPeriod      time.Duration `env:"RETENTION_PERIOD" envDefault:"720h"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
