package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Env         string         // Env is the current environment: local, development, production.
	HTTP        HTTPConfig     // HTTP holds the API server configuration.
	MetricsPort int            // MetricsPort is the port of the monitoring server (/metrics, /healthz).
	Storage     StorageConfig  // Storage selects the backing store.
	Postgres    PostgresConfig // Postgres holds the database configuration.
	Mongo       MongoConfig    // Mongo holds the document store configuration.
	Auth        AuthConfig     // Auth holds the token verification settings.
}

// HTTPConfig struct holds the configuration of the public API server.
type HTTPConfig struct {
	Address         string        // Address is the listen address, e.g. ":3000".
	PathPrefix      string        // PathPrefix is where the employee routes are mounted.
	ReadTimeout     time.Duration // ReadTimeout bounds reading a whole request.
	WriteTimeout    time.Duration // WriteTimeout bounds writing a response.
	ShutdownTimeout time.Duration // ShutdownTimeout bounds graceful shutdown.
	AllowOrigins    []string      // AllowOrigins is the CORS allow list.
}

// StorageConfig struct selects which store implementation serves employees.
type StorageConfig struct {
	Driver string // Driver is either "postgres" or "mongo".
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Dbname   string // Dbname is the name of the database.
}

// MongoConfig struct holds the configuration details for connecting to MongoDB.
type MongoConfig struct {
	URI        string // URI is the connection string, e.g. mongodb://localhost:27017.
	Database   string // Database is the database name.
	Collection string // Collection is the employees collection name.
}

// AuthConfig struct holds the bearer token settings.
type AuthConfig struct {
	Secret   string        // Secret is the HS256 signing key.
	TokenTTL time.Duration // TokenTTL is the lifetime of tokens minted by cmd/token.
}

// envBindings maps configuration keys to the environment variables overriding them.
var envBindings = map[string]string{
	"env":                   "STAFFBOOK_ENV",
	"http.address":          "HTTP_ADDRESS",
	"http.path_prefix":      "HTTP_PATH_PREFIX",
	"http.read_timeout":     "HTTP_READ_TIMEOUT",
	"http.write_timeout":    "HTTP_WRITE_TIMEOUT",
	"http.shutdown_timeout": "HTTP_SHUTDOWN_TIMEOUT",
	"http.allow_origins":    "HTTP_ALLOW_ORIGINS",
	"metrics_port":          "METRICS_PORT",
	"storage.driver":        "STORAGE_DRIVER",
	"postgres.host":         "DB_HOST",
	"postgres.port":         "DB_PORT",
	"postgres.user":         "DB_USERNAME",
	"postgres.password":     "DB_PASSWORD",
	"postgres.db_name":      "DB_NAME",
	"mongo.uri":             "MONGO_URI",
	"mongo.database":        "MONGO_DATABASE",
	"mongo.collection":      "MONGO_COLLECTION",
	"auth.secret":           "JWT_SECRET",
	"auth.token_ttl":        "JWT_TTL",
}

// MustLoad loads the configuration and panics if it cannot be loaded or is invalid.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic("config error: " + err.Error())
	}

	return cfg
}

// Load reads the configuration from an optional YAML file (CONFIG_PATH), an optional .env file
// and the environment. Environment variables take precedence over the file.
func Load() (*Config, error) {
	// .env is optional, variables already present in the environment are kept
	_ = godotenv.Load()

	vpr := viper.New()
	setDefaults(vpr)

	for key, env := range envBindings {
		if err := vpr.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: config file does not exist: %s", ErrInvalidConfig, configPath)
		}

		vpr.SetConfigFile(configPath)
		vpr.SetConfigType("yaml")
		if err := vpr.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Env:         vpr.GetString("env"),
		MetricsPort: vpr.GetInt("metrics_port"),
		HTTP: HTTPConfig{
			Address:      vpr.GetString("http.address"),
			PathPrefix:   vpr.GetString("http.path_prefix"),
			AllowOrigins: stringList(vpr, "http.allow_origins"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(vpr.GetString("storage.driver")),
		},
		Postgres: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Dbname:   vpr.GetString("postgres.db_name"),
		},
		Mongo: MongoConfig{
			URI:        vpr.GetString("mongo.uri"),
			Database:   vpr.GetString("mongo.database"),
			Collection: vpr.GetString("mongo.collection"),
		},
		Auth: AuthConfig{
			Secret: vpr.GetString("auth.secret"),
		},
	}

	var err error
	if cfg.HTTP.ReadTimeout, err = duration(vpr, "http.read_timeout"); err != nil {
		return nil, err
	}
	if cfg.HTTP.WriteTimeout, err = duration(vpr, "http.write_timeout"); err != nil {
		return nil, err
	}
	if cfg.HTTP.ShutdownTimeout, err = duration(vpr, "http.shutdown_timeout"); err != nil {
		return nil, err
	}
	if cfg.Auth.TokenTTL, err = duration(vpr, "auth.token_ttl"); err != nil {
		return nil, err
	}

	if err = cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(vpr *viper.Viper) {
	vpr.SetDefault("env", "local")
	vpr.SetDefault("http.address", ":3000")
	vpr.SetDefault("http.path_prefix", "/employee")
	vpr.SetDefault("http.read_timeout", "10s")
	vpr.SetDefault("http.write_timeout", "10s")
	vpr.SetDefault("http.shutdown_timeout", "15s")
	vpr.SetDefault("http.allow_origins", "*")
	vpr.SetDefault("metrics_port", 8080)
	vpr.SetDefault("storage.driver", DriverPostgres)
	vpr.SetDefault("postgres.port", "5432")
	vpr.SetDefault("mongo.database", "staffbook")
	vpr.SetDefault("mongo.collection", "employees")
	vpr.SetDefault("auth.token_ttl", "24h")
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Postgres.Host == "" || c.Postgres.Dbname == "" {
			return fmt.Errorf("%w: postgres host and database name are required", ErrInvalidConfig)
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("%w: mongo uri is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if c.Auth.Secret == "" {
		return fmt.Errorf("%w: jwt secret is required", ErrInvalidConfig)
	}

	if !strings.HasPrefix(c.HTTP.PathPrefix, "/") {
		return fmt.Errorf("%w: path prefix must start with '/'", ErrInvalidConfig)
	}

	return nil
}

func duration(vpr *viper.Viper, key string) (time.Duration, error) {
	value, err := time.ParseDuration(vpr.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s from configuration: %w", key, err)
	}

	return value, nil
}

// stringList accepts both a YAML list and a comma separated string.
func stringList(vpr *viper.Viper, key string) []string {
	raw, ok := vpr.Get(key).(string)
	if !ok {
		return vpr.GetStringSlice(key)
	}

	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}
