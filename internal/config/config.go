package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Kick        KickConfig        `yaml:"kick"`
	Realtime    RealtimeConfig    `yaml:"realtime"`
	Fingerprint FingerprintConfig `yaml:"fingerprint"`
	Database    DatabaseConfig    `yaml:"database"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type KickConfig struct {
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	Channels []string `yaml:"channels"`
}

type RealtimeConfig struct {
	URL            string        `yaml:"url"`
	PingInterval   time.Duration `yaml:"ping_interval"`
	MaxMissedPongs int           `yaml:"max_missed_pongs"`
	BackoffInitial time.Duration `yaml:"backoff_initial"`
	BackoffMax     time.Duration `yaml:"backoff_max"`
}

type FingerprintConfig struct {
	Primary string   `yaml:"primary"`
	Backups []string `yaml:"backups"`
}

type DatabaseConfig struct {
	MySQL MySQLConfig `yaml:"mysql"`
	Redis RedisConfig `yaml:"redis"`
}

type MySQLConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Apply environment variable overrides
	if username := os.Getenv("KICK_USERNAME"); username != "" {
		cfg.Kick.Username = username
	}
	if password := os.Getenv("KICK_PASSWORD"); password != "" {
		cfg.Kick.Password = password
	}
	if pw := os.Getenv("KICK_MYSQL_PASSWORD"); pw != "" {
		cfg.Database.MySQL.Password = pw
	}
	if pw := os.Getenv("KICK_REDIS_PASSWORD"); pw != "" {
		cfg.Database.Redis.Password = pw
	}

	return &cfg, nil
}
