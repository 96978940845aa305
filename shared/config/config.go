package config

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"gopkg.in/yaml.v2"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config is built once at startup and passed by pointer to whoever needs it.
// Nothing mutates it after MustLoad returns.
type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Storage  string        `yaml:"storage" validate:"required,oneof=postgres memory"`
	LogLevel string        `yaml:"log_level"`
	LogJSON  bool          `yaml:"log_json"`
	TokenTTL time.Duration `yaml:"token_ttl" validate:"required"`
	Tables   Tables        `yaml:"tables"`
	Pg       Pg            `yaml:"pg"`
}

type Pg struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	User   string `yaml:"user"`
	Dbname string `yaml:"dbname"`
}

type Private struct {
	PgPassword string `yaml:"pg_password"`
	JwtKey     string `yaml:"jwt_key" validate:"required"`
}

// Tables decorates entity names into table names, e.g. prefix "nf_" turns
// "category" into "nf_category".
type Tables struct {
	Prefix  string `yaml:"prefix"`
	Postfix string `yaml:"postfix"`
}

func (t Tables) NameUnquoted(entity string) string {
	return fmt.Sprintf("%s%s%s", t.Prefix, entity, t.Postfix)
}

// Name returns the quoted table name, safe to splice into SQL.
func (t Tables) Name(entity string) string {
	return pq.QuoteIdentifier(t.NameUnquoted(entity))
}

// implementing identity.Config interface

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.TokenTTL
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err = yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + err.Error())
	}
}

// mustValidate panics when the section breaks any of its validate tags.
func mustValidate(section string, value interface{}) {
	if err := validator.New().Struct(value); err != nil {
		panic(fmt.Sprintf("invalid %s config: %s", section, err))
	}
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("NFORUM_PG_PASSWORD")); v != "" {
		cfg.Private.PgPassword = v
	}
	if v := strings.TrimSpace(os.Getenv("NFORUM_JWT_KEY")); v != "" {
		cfg.Private.JwtKey = v
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{Public: public, Private: private}
	applyEnv(cfg)

	mustValidate("public", cfg.Public)
	mustValidate("private", cfg.Private)
	return cfg
}
