// Package config loads runtime settings from configs/config.yml and TODO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"todo_list/internal/logger"
	"todo_list/internal/repository/db"
	"todo_list/internal/security/password"
	"todo_list/internal/security/token"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. TODO_AUTH_JWT_SECRET.
const EnvPrefix = "TODO"

type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Log     LogConfig     `mapstructure:"log"`
	DB      DBConfig      `mapstructure:"db"`
	Auth    AuthConfig    `mapstructure:"auth"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	WS      WSConfig      `mapstructure:"ws"`
}

type HTTPConfig struct {
	Port              string        `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DBConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	Issuer         string        `mapstructure:"issuer"`
	PasswordHasher string        `mapstructure:"password_hasher"`
	Argon2         Argon2Config  `mapstructure:"argon2"`
	BcryptCost     int           `mapstructure:"bcrypt_cost"`
}

type Argon2Config struct {
	MemoryKiB   uint32 `mapstructure:"memory_kib"`
	Iterations  uint32 `mapstructure:"iterations"`
	Parallelism uint8  `mapstructure:"parallelism"`
	SaltLength  uint32 `mapstructure:"salt_length"`
	KeyLength   uint32 `mapstructure:"key_length"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type WSConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "8000")
	v.SetDefault("http.read_header_timeout", 10*time.Second)
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", logger.InfoLevel)
	v.SetDefault("log.format", logger.FormatConsole)

	v.SetDefault("db.driver", string(db.SQLite))
	v.SetDefault("db.dsn", "todo.db")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 30*time.Minute)

	pw := password.DefaultConfig()
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", token.DefaultTTL)
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.password_hasher", pw.Algorithm)
	v.SetDefault("auth.argon2.memory_kib", pw.Argon2id.MemoryKiB)
	v.SetDefault("auth.argon2.iterations", pw.Argon2id.Iterations)
	v.SetDefault("auth.argon2.parallelism", pw.Argon2id.Parallelism)
	v.SetDefault("auth.argon2.salt_length", pw.Argon2id.SaltLength)
	v.SetDefault("auth.argon2.key_length", pw.Argon2id.KeyLength)
	v.SetDefault("auth.bcrypt_cost", pw.BcryptCost)

	v.SetDefault("cors.allowed_origins", []string{})

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("ws.poll_interval", time.Second)
}

// Load reads config.yml from the first of paths that has one (default "configs"),
// applies TODO_* environment overrides and validates the result. A missing
// file is not an error.
func Load(paths ...string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	if len(paths) == 0 {
		paths = []string{"configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the process cannot start with.
func (c Config) Validate() error {
	if len(c.Auth.JWTSecret) < token.MinSecretLength {
		return fmt.Errorf("auth.jwt_secret must be at least %d bytes (set %s_AUTH_JWT_SECRET)", token.MinSecretLength, EnvPrefix)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	switch strings.ToLower(strings.TrimSpace(c.Auth.PasswordHasher)) {
	case password.AlgorithmArgon2id, password.AlgorithmBcrypt:
	default:
		return fmt.Errorf("auth.password_hasher: unsupported %q", c.Auth.PasswordHasher)
	}
	if _, err := db.ParseDialect(c.DB.Driver); err != nil {
		return fmt.Errorf("db.driver: %w", err)
	}
	switch c.Log.Format {
	case logger.FormatConsole, logger.FormatJSON:
	default:
		return fmt.Errorf("log.format: unsupported %q", c.Log.Format)
	}
	if c.WS.PollInterval <= 0 {
		return fmt.Errorf("ws.poll_interval must be positive, got %s", c.WS.PollInterval)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", c.Metrics.Path)
	}
	return nil
}

// PasswordConfig converts the auth section into the hasher configuration.
func (c Config) PasswordConfig() password.Config {
	a := c.Auth.Argon2
	return password.Config{
		Algorithm: c.Auth.PasswordHasher,
		Argon2id: password.Argon2idParams{
			MemoryKiB:   a.MemoryKiB,
			Iterations:  a.Iterations,
			Parallelism: a.Parallelism,
			SaltLength:  a.SaltLength,
			KeyLength:   a.KeyLength,
		},
		BcryptCost: c.Auth.BcryptCost,
	}
}

// TokenConfig converts the auth section into the token manager configuration.
func (c Config) TokenConfig() token.Config {
	return token.Config{
		Secret: []byte(c.Auth.JWTSecret),
		TTL:    c.Auth.TokenTTL,
		Issuer: c.Auth.Issuer,
	}
}
