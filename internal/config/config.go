package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"` // development | production | test
}

// IsProduction reports whether cookies must be marked Secure.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == EnvProduction
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // mongo | sqlite | postgres
	URI    string `mapstructure:"uri"`    // mongo URI or postgres DSN
	Name   string `mapstructure:"name"`   // mongo database name
	Path   string `mapstructure:"path"`   // sqlite file
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether video storage is configured.
func (s S3Config) Enabled() bool {
	return s.BucketName != ""
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// RedisConfig backs the auth endpoints rate limiter. An empty address disables it.
type RedisConfig struct {
	Address       string `mapstructure:"address"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	AuthPerMinute int    `mapstructure:"auth_per_minute"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	JSON     bool   `mapstructure:"json"`
	FileName string `mapstructure:"file_name"`
	ToStdout bool   `mapstructure:"to_stdout"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoadConfig reads configuration from file or environment variables and
// validates it. A .env file in path is loaded first if present.
func LoadConfig(path string) (Config, error) {
	var config Config

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load(strings.TrimSuffix(path, "/") + "/.env")

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.expiration -> JWT_EXPIRATION
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.environment", EnvDevelopment)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.uri", "")
	v.SetDefault("database.name", "routine_tracker")
	v.SetDefault("database.path", "data/routines.db")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "168h") // 7 days
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.auth_per_minute", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file_name", "")
	v.SetDefault("log.to_stdout", true)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("config validation error: %w", err)
	}
	return config, nil
}

// Validate reports every missing or inconsistent setting at once.
func (c Config) Validate() error {
	var err error
	if c.JWT.Secret == "" {
		err = multierr.Append(err, errors.New("jwt.secret (JWT_SECRET) is required"))
	}
	if c.JWT.Expiration <= 0 {
		err = multierr.Append(err, errors.New("jwt.expiration (JWT_EXPIRATION) must be positive"))
	}
	switch c.Server.Environment {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		err = multierr.Append(err, fmt.Errorf("server.environment must be one of development, production, test; got %q", c.Server.Environment))
	}
	switch c.Database.Driver {
	case "mongo":
		if c.Database.URI == "" {
			err = multierr.Append(err, errors.New("database.uri (DATABASE_URI) is required for the mongo driver"))
		}
		if c.Database.Name == "" {
			err = multierr.Append(err, errors.New("database.name (DATABASE_NAME) is required for the mongo driver"))
		}
	case "postgres":
		if c.Database.URI == "" {
			err = multierr.Append(err, errors.New("database.uri (DATABASE_URI) is required for the postgres driver"))
		}
	case "sqlite":
		if c.Database.Path == "" {
			err = multierr.Append(err, errors.New("database.path (DATABASE_PATH) is required for the sqlite driver"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("database.driver must be one of mongo, postgres, sqlite; got %q", c.Database.Driver))
	}
	if c.S3.Enabled() && (c.S3.AccessKeyID == "" || c.S3.SecretAccessKey == "") {
		err = multierr.Append(err, errors.New("s3.access_key_id and s3.secret_access_key are required when s3.bucket_name is set"))
	}
	return err
}
