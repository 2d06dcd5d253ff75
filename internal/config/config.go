package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/St1cky1/task-manager/internal/infrastructure/client"
	"github.com/St1cky1/task-manager/internal/infrastructure/logger"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server     Server
	Storage    Storage
	Postgres   client.Config
	RabbitMQ   RabbitMQ
	Logger     logger.Config
	Migrations string
}

type Server struct {
	HTTPAddr        string
	GRPCAddr        string
	ShutdownTimeout time.Duration
}

type Storage struct {
	Driver     string
	SQLitePath string
}

// RabbitMQ holds broker settings. Auditing is off unless Enabled is set.
type RabbitMQ struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	Vhost    string
	Queue    string
}

// URL builds the amqp:// dial string.
func (r RabbitMQ) URL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(r.User, r.Password),
		Host:   r.Host + ":" + r.Port,
		Path:   "/" + strings.TrimPrefix(r.Vhost, "/"),
	}
	return u.String()
}

// env bindings keep the variable names used by the docker setup.
var envBindings = map[string]string{
	"server.http_addr":        "HTTP_ADDR",
	"server.grpc_addr":        "GRPC_ADDR",
	"server.shutdown_timeout": "SHUTDOWN_TIMEOUT",
	"storage.driver":          "STORAGE_DRIVER",
	"storage.sqlite_path":     "SQLITE_PATH",
	"postgres.host":           "DB_HOST",
	"postgres.port":           "DB_PORT",
	"postgres.user":           "DB_USER",
	"postgres.password":       "DB_PASSWORD",
	"postgres.dbname":         "DB_NAME",
	"postgres.sslmode":        "DB_SSLMODE",
	"postgres.max_conns":      "DB_MAX_CONNS",
	"postgres.min_conns":      "DB_MIN_CONNS",
	"rabbitmq.enabled":        "RABBITMQ_ENABLED",
	"rabbitmq.host":           "RABBITMQ_HOST",
	"rabbitmq.port":           "RABBITMQ_PORT",
	"rabbitmq.user":           "RABBITMQ_USER",
	"rabbitmq.password":       "RABBITMQ_PASSWORD",
	"rabbitmq.vhost":          "RABBITMQ_VHOST",
	"rabbitmq.queue":          "RABBITMQ_QUEUE",
	"logger.level":            "LOG_LEVEL",
	"logger.format":           "LOG_FORMAT",
	"migrations.path":         "MIGRATIONS_PATH",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.grpc_addr", ":9090")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("storage.driver", DriverPostgres)
	v.SetDefault("storage.sqlite_path", "tasks.db")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.dbname", "tasks")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 20)
	v.SetDefault("postgres.min_conns", 5)

	v.SetDefault("rabbitmq.enabled", false)
	v.SetDefault("rabbitmq.host", "localhost")
	v.SetDefault("rabbitmq.port", "5672")
	v.SetDefault("rabbitmq.user", "guest")
	v.SetDefault("rabbitmq.password", "guest")
	v.SetDefault("rabbitmq.vhost", "/")
	v.SetDefault("rabbitmq.queue", client.DefaultAuditQueue)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")

	v.SetDefault("migrations.path", "file://migrations")
}

// Load reads defaults, then the optional config file, then the environment.
// An empty configPath looks for config.yaml in the working directory and ./config;
// a missing file is not an error in that case.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Server: Server{
			HTTPAddr:        v.GetString("server.http_addr"),
			GRPCAddr:        v.GetString("server.grpc_addr"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Storage: Storage{
			Driver:     strings.ToLower(v.GetString("storage.driver")),
			SQLitePath: v.GetString("storage.sqlite_path"),
		},
		Postgres: client.Config{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			DBName:   v.GetString("postgres.dbname"),
			SSLMode:  v.GetString("postgres.sslmode"),
			MaxConns: v.GetInt32("postgres.max_conns"),
			MinConns: v.GetInt32("postgres.min_conns"),
		},
		RabbitMQ: RabbitMQ{
			Enabled:  v.GetBool("rabbitmq.enabled"),
			Host:     v.GetString("rabbitmq.host"),
			Port:     v.GetString("rabbitmq.port"),
			User:     v.GetString("rabbitmq.user"),
			Password: v.GetString("rabbitmq.password"),
			Vhost:    v.GetString("rabbitmq.vhost"),
			Queue:    v.GetString("rabbitmq.queue"),
		},
		Logger: logger.Config{
			Level:  v.GetString("logger.level"),
			Format: v.GetString("logger.format"),
		},
		Migrations: v.GetString("migrations.path"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}
