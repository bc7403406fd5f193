package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env    string `yaml:"env"`
	Server struct {
		Port int `yaml:"port" validate:"required,gt=0,lte=65535"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level" validate:"omitempty,oneof=DEBUG INFO ERROR debug info error"`
	} `yaml:"log"`
	Redis struct {
		Host        string `yaml:"host" validate:"required,hostname|ip"`
		Port        int    `yaml:"port" validate:"required,gt=0,lte=65535"`
		Password    string `yaml:"password"`
		DB          int    `yaml:"db" validate:"gte=0"`
		TLSEnabled  bool   `yaml:"tls_enabled"`
		TLSCertFile string `yaml:"tls_cert_file"`
	} `yaml:"redis"`
	JWT struct {
		Secret string `yaml:"secret" validate:"required"`
	} `yaml:"jwt"`
	Places struct {
		APIKey     string        `yaml:"api_key"`
		BaseURL    string        `yaml:"base_url" validate:"required,url"`
		ScriptURL  string        `yaml:"script_url" validate:"required,url"`
		Language   string        `yaml:"language" validate:"required"`
		Timeout    time.Duration `yaml:"timeout" validate:"gt=0"`
		MaxRetries int           `yaml:"max_retries" validate:"gte=1,lte=10"`
	} `yaml:"places"`
	RateLimit struct {
		PerMinute int `yaml:"per_minute" validate:"gt=0"`
		Burst     int `yaml:"burst" validate:"gt=0"`
	} `yaml:"rate_limit"`
}

// LoadConfig reads the YAML file at path, applies environment overrides and
// defaults, and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from raw YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Redis.TLSEnabled && cfg.Redis.TLSCertFile != "" {
		if _, err := os.Stat(cfg.Redis.TLSCertFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("TLS certificate file does not exist: %s", cfg.Redis.TLSCertFile)
		}
	}

	return &cfg, nil
}

// Override with environment variables if set
func applyEnv(cfg *Config) error {
	if env := os.Getenv("ENV"); env != "" {
		cfg.Env = env
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		portNum, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid SERVER_PORT value: %w", err)
		}
		cfg.Server.Port = portNum
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Redis.Host = host
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		portNum, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid REDIS_PORT value: %w", err)
		}
		cfg.Redis.Port = portNum
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		dbNum, err := strconv.Atoi(db)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB value: %w", err)
		}
		cfg.Redis.DB = dbNum
	}
	if tlsEnabled := os.Getenv("REDIS_TLS_ENABLED"); tlsEnabled != "" {
		cfg.Redis.TLSEnabled = tlsEnabled == "true"
	}
	if tlsCertFile := os.Getenv("REDIS_TLS_CERT_FILE"); tlsCertFile != "" {
		cfg.Redis.TLSCertFile = tlsCertFile
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		cfg.Places.APIKey = key
	}
	if baseURL := os.Getenv("PLACES_BASE_URL"); baseURL != "" {
		cfg.Places.BaseURL = baseURL
	}
	if scriptURL := os.Getenv("PLACES_SCRIPT_URL"); scriptURL != "" {
		cfg.Places.ScriptURL = scriptURL
	}
	if language := os.Getenv("PLACES_LANGUAGE"); language != "" {
		cfg.Places.Language = language
	}
	if timeout := os.Getenv("PLACES_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid PLACES_TIMEOUT value: %w", err)
		}
		cfg.Places.Timeout = d
	}
	if retries := os.Getenv("PLACES_MAX_RETRIES"); retries != "" {
		n, err := strconv.Atoi(retries)
		if err != nil {
			return fmt.Errorf("invalid PLACES_MAX_RETRIES value: %w", err)
		}
		cfg.Places.MaxRetries = n
	}
	return nil
}

// Set default values
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "INFO"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Places.BaseURL == "" {
		cfg.Places.BaseURL = "https://maps.googleapis.com/maps/api/place"
	}
	if cfg.Places.ScriptURL == "" {
		cfg.Places.ScriptURL = "https://maps.googleapis.com/maps/api/js"
	}
	if cfg.Places.Language == "" {
		cfg.Places.Language = "en"
	}
	if cfg.Places.Timeout == 0 {
		cfg.Places.Timeout = 10 * time.Second
	}
	if cfg.Places.MaxRetries == 0 {
		cfg.Places.MaxRetries = 3
	}
	if cfg.RateLimit.PerMinute == 0 {
		cfg.RateLimit.PerMinute = 100
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 10
	}
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
