package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds service settings. Values come from defaults, then an
// optional YAML file (CONFIG_PATH), then environment overrides, in that
// order.
type Config struct {
	Port          string `yaml:"port"`
	DatabaseURL   string `yaml:"databaseUrl"`
	RedisURL      string `yaml:"redisUrl"`
	MigrationsDir string `yaml:"migrationsDir"`

	Jobs struct {
		Workers    int `yaml:"workers"`
		QueueDepth int `yaml:"queueDepth"`
	} `yaml:"jobs"`

	Optimize struct {
		RatePerSec float64 `yaml:"ratePerSec"`
		Burst      int     `yaml:"burst"`
	} `yaml:"optimize"`

	// DispatchSeed pins dispatch-run randomness for reproducible plans;
	// 0 means derive from the clock.
	DispatchSeed int64 `yaml:"dispatchSeed"`
}

func Default() Config {
	var c Config
	c.Port = "8080"
	c.MigrationsDir = "db/migrations"
	c.Jobs.Workers = 4
	c.Jobs.QueueDepth = 64
	c.Optimize.RatePerSec = 2
	c.Optimize.Burst = 4
	return c
}

// Load builds the effective configuration.
func Load() (Config, error) {
	c := Default()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return c, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return c, err
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("JOB_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Jobs.Workers = n
		}
	}
	if v := os.Getenv("JOB_QUEUE_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Jobs.QueueDepth = n
		}
	}
	if v := os.Getenv("DISPATCH_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.DispatchSeed = n
		}
	}
	return c, nil
}
