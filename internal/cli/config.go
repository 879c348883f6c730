package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/pthm/quarry"
)

const (
	maxWalkDepth = 25
)

// Config represents the quarry configuration from quarry.yaml.
type Config struct {
	// Default index for commands that do not pass --index
	Index string `mapstructure:"index" json:"index"`

	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch" json:"elasticsearch"`

	// Query defaults
	MaxResultWindow int    `mapstructure:"max_result_window" json:"max_result_window" validate:"gte=1"`
	DefaultSize     int    `mapstructure:"default_size" json:"default_size" validate:"gte=0"`
	Timezone        string `mapstructure:"timezone" json:"timezone" validate:"required"`

	Scroll    ScrollConfig    `mapstructure:"scroll" json:"scroll"`
	Retriever RetrieverConfig `mapstructure:"retriever" json:"retriever"`
	Log       LogConfig       `mapstructure:"log" json:"log"`
}

// ElasticsearchConfig holds cluster connection settings.
type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses" json:"addresses" validate:"required,min=1,dive,url"`
	Username   string   `mapstructure:"username" json:"username,omitempty"`
	Password   string   `mapstructure:"password" json:"password,omitempty"`
	APIKey     string   `mapstructure:"api_key" json:"api_key,omitempty" validate:"excluded_with=Username"`
	CACertFile string   `mapstructure:"ca_cert_file" json:"ca_cert_file,omitempty"`
}

// ScrollConfig holds scroll cursor settings.
type ScrollConfig struct {
	KeepAlive string `mapstructure:"keep_alive" json:"keep_alive" validate:"required"`
	Size      int    `mapstructure:"size" json:"size" validate:"gte=1"`
}

// RetrieverConfig configures loading rows from PostgreSQL by hit id.
// The retriever is enabled when a database is configured.
type RetrieverConfig struct {
	Driver   string         `mapstructure:"driver" json:"driver" validate:"oneof=postgres pgx"`
	Database DatabaseConfig `mapstructure:"database" json:"database"`
	Schema   string         `mapstructure:"schema" json:"schema,omitempty"`
	Table    string         `mapstructure:"table" json:"table,omitempty"`
	Key      string         `mapstructure:"key" json:"key"`
	Columns  []string       `mapstructure:"columns" json:"columns,omitempty"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	URL      string `mapstructure:"url" json:"url,omitempty"`
	Host     string `mapstructure:"host" json:"host,omitempty"`
	Port     int    `mapstructure:"port" json:"port"`
	Name     string `mapstructure:"name" json:"name,omitempty"`
	User     string `mapstructure:"user" json:"user,omitempty"`
	Password string `mapstructure:"password" json:"password,omitempty"`
	SSLMode  string `mapstructure:"sslmode" json:"sslmode,omitempty"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" json:"format" validate:"oneof=text json"`
}

var validate = validator.New()

// LoadConfig discovers and loads configuration with proper precedence:
// flags > env > config file > defaults.
//
// Returns the loaded config, the path to the config file (empty if none found),
// and any error encountered.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()

	// 1. Set defaults first (lowest precedence)
	setDefaults(v)

	// 2. Set up environment variable binding
	v.SetEnvPrefix("QUARRY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 3. Find and load config file
	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	// 4. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("index", "")
	v.SetDefault("max_result_window", quarry.DefaultMaxResultWindow)
	v.SetDefault("default_size", quarry.DefaultSize)
	v.SetDefault("timezone", "UTC")

	// Elasticsearch defaults
	v.SetDefault("elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("elasticsearch.username", "")
	v.SetDefault("elasticsearch.password", "")
	v.SetDefault("elasticsearch.api_key", "")
	v.SetDefault("elasticsearch.ca_cert_file", "")

	// Scroll defaults
	v.SetDefault("scroll.keep_alive", quarry.DefaultScroll)
	v.SetDefault("scroll.size", quarry.DefaultScrollSize)

	// Retriever defaults
	v.SetDefault("retriever.driver", "postgres")
	v.SetDefault("retriever.database.url", "")
	v.SetDefault("retriever.database.host", "")
	v.SetDefault("retriever.database.port", 5432)
	v.SetDefault("retriever.database.name", "")
	v.SetDefault("retriever.database.user", "")
	v.SetDefault("retriever.database.password", "")
	v.SetDefault("retriever.database.sslmode", "prefer")
	v.SetDefault("retriever.schema", "")
	v.SetDefault("retriever.table", "")
	v.SetDefault("retriever.key", "id")
	v.SetDefault("retriever.columns", []string{})

	// Log defaults
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for quarry.yaml or quarry.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range []string{"quarry.yaml", "quarry.yml"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		// Stop at the repo root
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil // No config found, use defaults
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.RetrieverEnabled() && c.Retriever.Table == "" {
		return fmt.Errorf("retriever.table is required when a retriever database is configured")
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// RetrieverEnabled reports whether rows should be loaded from the database.
func (c *Config) RetrieverEnabled() bool {
	db := c.Retriever.Database
	return db.URL != "" || db.Host != ""
}

// DSN returns the retriever database connection string.
// If retriever.database.url is set, it's returned directly.
// Otherwise, builds a DSN from discrete fields.
func (c *Config) DSN() (string, error) {
	db := c.Retriever.Database

	if db.URL != "" {
		return db.URL, nil
	}

	if db.Host == "" {
		return "", fmt.Errorf("retriever.database.host is required when retriever.database.url is not set")
	}
	if db.Name == "" {
		return "", fmt.Errorf("retriever.database.name is required when retriever.database.url is not set")
	}
	if db.User == "" {
		return "", fmt.Errorf("retriever.database.user is required when retriever.database.url is not set")
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   "/" + db.Name,
	}

	if db.Password != "" {
		u.User = url.UserPassword(db.User, db.Password)
	} else {
		u.User = url.User(db.User)
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

const redacted = "********"

// Redacted returns a copy safe to print: secrets are masked and the
// password is stripped from a database URL.
func (c *Config) Redacted() Config {
	out := *c
	out.Elasticsearch.Addresses = append([]string(nil), c.Elasticsearch.Addresses...)
	out.Retriever.Columns = append([]string(nil), c.Retriever.Columns...)

	if out.Elasticsearch.Password != "" {
		out.Elasticsearch.Password = redacted
	}
	if out.Elasticsearch.APIKey != "" {
		out.Elasticsearch.APIKey = redacted
	}
	if out.Retriever.Database.Password != "" {
		out.Retriever.Database.Password = redacted
	}
	if raw := out.Retriever.Database.URL; raw != "" {
		if u, err := url.Parse(raw); err == nil && u.User != nil {
			if _, ok := u.User.Password(); ok {
				u.User = url.UserPassword(u.User.Username(), redacted)
				out.Retriever.Database.URL = u.String()
			}
		}
	}
	return out
}
