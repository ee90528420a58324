package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	minJWTSecretLen = 32
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	DB         `yaml:"db"`
	JWT        `yaml:"jwt"`
	Storage    `yaml:"storage"`
	HTTPServer `yaml:"http_server"`
}

type DB struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"leadshub"`
	User     string `yaml:"user" env:"DB_USER" env-default:"leadshub_user"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	// SSLMode is derived from Host when empty.
	SSLMode string `yaml:"sslmode" env:"DB_SSLMODE"`
}

type JWT struct {
	Secret string        `yaml:"secret" env:"JWT_SECRET"`
	TTL    time.Duration `yaml:"ttl" env:"JWT_TTL" env-default:"24h"`
}

type Storage struct {
	Driver  string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
	Migrate bool   `yaml:"migrate" env:"STORAGE_MIGRATE" env-default:"true"`
}

type HTTPServer struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"10s"`
}

// MustLoadConfig loads configuration from configPath, or from the environment
// alone when configPath is empty. It panics on any error, including a missing
// or short JWT secret.
func MustLoadConfig(configPath string) *Config {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			panic("config file not found")
		}
	}

	config, err := loadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	return config
}

func loadConfig(path string) (*Config, error) {
	var config Config

	if path == "" {
		if err := cleanenv.ReadEnv(&config); err != nil {
			return nil, err
		}
	} else if err := cleanenv.ReadConfig(path, &config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if len(c.JWT.Secret) < minJWTSecretLen {
		return fmt.Errorf("%w: jwt secret must be at least %d characters", ErrInvalidConfig, minJWTSecretLen)
	}

	if c.JWT.TTL <= 0 {
		return fmt.Errorf("%w: jwt ttl must be positive", ErrInvalidConfig)
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	return nil
}

// DSN builds a postgres connection URL. Remote hosts default to sslmode=require.
func (d DB) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		switch d.Host {
		case "localhost", "127.0.0.1", "database":
			sslMode = "disable"
		default:
			sslMode = "require"
		}
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%s", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}

	return u.String()
}
