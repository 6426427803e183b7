package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var ErrMissingPostgresDSN = errors.New("postgres bank selected but no DSN configured")

const (
	BankMemory   = "memory"
	BankSQLite   = "sqlite"
	BankPostgres = "postgres"
)

// Config holds settings shared by the quiz commands.
type Config struct {
	Env     string        `mapstructure:"env"`
	Log     LogConfig     `mapstructure:"log"`
	Quiz    QuizConfig    `mapstructure:"quiz"`
	Bank    BankConfig    `mapstructure:"bank"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	OpenTDB OpenTDBConfig `mapstructure:"opentdb"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // when set, logs go here instead of stderr
}

type QuizConfig struct {
	ExplicitConfirm bool   `mapstructure:"explicit_confirm"`
	UI              string `mapstructure:"ui"` // auto|live|plain
	NoColor         bool   `mapstructure:"no_color"`
}

type BankConfig struct {
	Driver          string        `mapstructure:"driver"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	PostgresDSN     string        `mapstructure:"-"`
	MaxConnections  int32         `mapstructure:"max_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

type HTTPConfig struct {
	Addr           string        `mapstructure:"addr"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	SessionIdleTTL time.Duration `mapstructure:"session_idle_ttl"`
	MaxLogBytes    int           `mapstructure:"max_log_bytes"`
}

type OpenTDBConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Amount  int           `mapstructure:"amount"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"env":              "env",
	"log-level":        "log.level",
	"log-file":         "log.file",
	"ui":               "quiz.ui",
	"explicit-confirm": "quiz.explicit_confirm",
	"no-color":         "quiz.no_color",
	"bank":             "bank.driver",
	"sqlite-path":      "bank.sqlite_path",
	"addr":             "http.addr",
}

// RegisterFlags adds the shared flags to flags. Commands add their own flags
// next to these.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to a config file (default ./config/config.yaml)")
	flags.String("env", "", "environment name (production enables JSON logs)")
	flags.String("log-level", "", "log level (debug|info|warn|error)")
	flags.String("log-file", "", "write logs to this file")
	flags.String("ui", "", "terminal UI mode (auto|live|plain)")
	flags.Bool("explicit-confirm", true, "require confirming an answer before advancing")
	flags.Bool("no-color", false, "disable colors in the terminal UI")
	flags.String("bank", "", "question bank driver (memory|sqlite|postgres)")
	flags.String("sqlite-path", "", "SQLite question bank path")
	flags.String("addr", "", "HTTP listen address")
}

// Load reads defaults, the optional config file, .env, QUIZ_* environment
// variables and any flags registered with RegisterFlags, in increasing
// precedence.
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("quiz.explicit_confirm", true)
	v.SetDefault("quiz.ui", "auto")
	v.SetDefault("quiz.no_color", false)
	v.SetDefault("bank.driver", BankSQLite)
	v.SetDefault("bank.sqlite_path", "quiz.db")
	v.SetDefault("bank.max_connections", 10)
	v.SetDefault("bank.max_conn_lifetime", "30m")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("http.request_timeout", "30s")
	v.SetDefault("http.session_idle_ttl", "2h")
	v.SetDefault("http.max_log_bytes", 2048)
	v.SetDefault("opentdb.timeout", "10s")
	v.SetDefault("opentdb.amount", 10)

	v.SetEnvPrefix("QUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("bank.postgres_dsn", "QUIZ_BANK_POSTGRES_DSN", "DATABASE_URL")

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil || !flag.Changed {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
		if path, err := flags.GetString("config"); err == nil && path != "" {
			v.SetConfigFile(path)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	cfg.Bank.PostgresDSN = v.GetString("bank.postgres_dsn")
	cfg.Bank.Driver = strings.ToLower(strings.TrimSpace(cfg.Bank.Driver))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Bank.Driver {
	case BankMemory, BankSQLite:
	case BankPostgres:
		if c.Bank.PostgresDSN == "" {
			return ErrMissingPostgresDSN
		}
	default:
		return fmt.Errorf("unknown bank driver %q (expected memory|sqlite|postgres)", c.Bank.Driver)
	}

	switch strings.ToLower(c.Quiz.UI) {
	case "", "auto", "live", "plain":
	default:
		return fmt.Errorf("invalid ui mode %q (expected auto|live|plain)", c.Quiz.UI)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
