package config

import "github.com/caarlos0/env/v11"

// Config is the full service configuration, loaded from the environment
type Config struct {
	HTTPPort string `env:"PORT" envDefault:"8080"`

	MongoURI string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB  string `env:"MONGO_DB" envDefault:"psychometrics"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	HostUsername string `env:"HOST_USERNAME" envDefault:"admin"`
	HostPassword string `env:"HOST_PASSWORD" envDefault:"password123"`
	JWTSecret    string `env:"JWT_SECRET" envDefault:"super-secret-key-change-in-production"`

	// GateRetryBudget caps how many regenerations each quality gate may
	// force before a run fails.
	GateRetryBudget int `env:"GATE_RETRY_BUDGET" envDefault:"3"`

	AI AIConfig `envPrefix:"GEMINI_"`
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
