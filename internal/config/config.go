package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// this is a pointer so that if someone attempts to use it before loading it will
// panic and force them to load it first.
// it is also private so that it cannot be modified after loading.
var _loaded *Config

// Config is the main configuration structure
type Config struct {
	Common Common `yaml:"common"`
}

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Password hash algorithms
const (
	PasswordHashBcrypt = "bcrypt"
	PasswordHashMD5    = "md5"
)

// Load loads the configuration following proper precedence: defaults → config file → environment variables
func Load() {
	LoadDefault()

	configFile := os.Getenv("CRUDUSER_CONFIG_FILE")
	if configFile == "" {
		configFile = "cruduser.yaml"
	}

	if err := LoadFromFile(configFile); err != nil {
		log.Printf("Failed to load config file: %v, using defaults", err)
	} else {
		log.Printf("Loaded config from file: %s", configFile)
	}

	ApplyEnvOverrides()
}

func LoadDefault() {
	config := defaultConfig
	_loaded = &config
}

// LoadFromFile loads configuration from a YAML file, merging it over the defaults
func LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaultConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	_loaded = &cfg
	return nil
}

// set sane defaults for all of the config options. when loading the config from
// the file, any options that are not set will be set to these defaults.
var defaultConfig = Config{
	Common: Common{
		Log: logConfig{
			Level:  "info",
			Format: "json",
		},
		Http: httpConfig{
			Host:              "0.0.0.0",
			Port:              5000,
			MaxRequestSize:    1048576,
			ReadTimeout:       15,
			WriteTimeout:      15,
			StrictStatusCodes: false,
		},
		Auth: authConfig{
			PasswordHash: PasswordHashBcrypt,
			BcryptCost:   10,
		},
		Store: storeConfig{
			Driver: StoreDriverPostgres,
		},
		Postgres: postgresConfig{
			User:               "postgres",
			Password:           "postgres",
			Host:               "localhost",
			Port:               5432,
			Database:           "cruduser",
			ConnectTimeout:     1,
			MaxOpenConnections: 10,
		},
	},
}

type Common struct {
	Log      logConfig      `yaml:"log"`
	Http     httpConfig     `yaml:"http"`
	Auth     authConfig     `yaml:"auth"`
	Store    storeConfig    `yaml:"store"`
	Postgres postgresConfig `yaml:"postgres"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type httpConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxRequestSize int64  `yaml:"max_request_size"`
	ReadTimeout    int    `yaml:"read_timeout"`  // seconds
	WriteTimeout   int    `yaml:"write_timeout"` // seconds
	// StrictStatusCodes reports conflicts as 409 and missing users as 404
	// instead of 200 with an error payload.
	StrictStatusCodes bool `yaml:"strict_status_codes"`
}

func (c httpConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type authConfig struct {
	PasswordHash string `yaml:"password_hash"` // "bcrypt" or "md5"
	BcryptCost   int    `yaml:"bcrypt_cost"`
}

type storeConfig struct {
	Driver string `yaml:"driver"` // "postgres" or "memory"
}

type postgresConfig struct {
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	Database           string `yaml:"database"`
	ConnectTimeout     int    `yaml:"connect_timeout"` // seconds
	MaxOpenConnections int    `yaml:"max_open_connections"`
}

func (c postgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		url.QueryEscape(c.Database),
	)
}

// there should be a getter for each top level field in the config struct.
// these getters will panic if the config has not been loaded.

func Logger() logConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Log
}

func Http() httpConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Http
}

func Auth() authConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Auth
}

func Store() storeConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Store
}

func Postgres() postgresConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Postgres
}

func Get() *Config {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded
}

// ApplyEnvOverrides applies CRUDUSER_* environment variables over the loaded config
func ApplyEnvOverrides() {
	if _loaded == nil {
		return
	}

	if dbHost := os.Getenv("CRUDUSER_DB_HOST"); dbHost != "" {
		_loaded.Common.Postgres.Host = dbHost
	}
	if dbPort := os.Getenv("CRUDUSER_DB_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			_loaded.Common.Postgres.Port = port
		}
	}
	if dbUser := os.Getenv("CRUDUSER_DB_USER"); dbUser != "" {
		_loaded.Common.Postgres.User = dbUser
	}
	if dbPassword := os.Getenv("CRUDUSER_DB_PASSWORD"); dbPassword != "" {
		_loaded.Common.Postgres.Password = dbPassword
	}
	if dbName := os.Getenv("CRUDUSER_DB_NAME"); dbName != "" {
		_loaded.Common.Postgres.Database = dbName
	}

	if httpHost := os.Getenv("CRUDUSER_HTTP_HOST"); httpHost != "" {
		_loaded.Common.Http.Host = httpHost
	}
	if httpPort := os.Getenv("CRUDUSER_HTTP_PORT"); httpPort != "" {
		if port, err := strconv.Atoi(httpPort); err == nil {
			_loaded.Common.Http.Port = port
		}
	}
	if maxSize := os.Getenv("CRUDUSER_MAX_REQUEST_SIZE"); maxSize != "" {
		if size, err := strconv.ParseInt(maxSize, 10, 64); err == nil {
			_loaded.Common.Http.MaxRequestSize = size
		}
	}
	if strict := os.Getenv("CRUDUSER_STRICT_STATUS_CODES"); strict != "" {
		if enabled, err := strconv.ParseBool(strict); err == nil {
			_loaded.Common.Http.StrictStatusCodes = enabled
		}
	}

	if driver := os.Getenv("CRUDUSER_STORE_DRIVER"); driver != "" {
		_loaded.Common.Store.Driver = driver
	}
	if hash := os.Getenv("CRUDUSER_PASSWORD_HASH"); hash != "" {
		_loaded.Common.Auth.PasswordHash = hash
	}
	if bcryptCost := os.Getenv("CRUDUSER_BCRYPT_COST"); bcryptCost != "" {
		if cost, err := strconv.Atoi(bcryptCost); err == nil {
			_loaded.Common.Auth.BcryptCost = cost
		}
	}
	if level := os.Getenv("CRUDUSER_LOG_LEVEL"); level != "" {
		_loaded.Common.Log.Level = level
	}
}
