// Package config loads the settings of the taskpool demo from flags,
// environment variables and an optional configuration file.
//
// Precedence follows viper: flags set on the command line win over
// TASKPOOL_* environment variables, which win over the file, which wins over
// the flag defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ApplicationName is the config file name and the environment prefix.
const ApplicationName = "taskpool"

// ErrInvalid is wrapped by every error Validate returns.
var ErrInvalid = errors.New("invalid configuration")

// Config is the demo configuration.
type Config struct {
	Workers         int           `mapstructure:"workers"`
	Tasks           int           `mapstructure:"tasks"`
	TaskDelay       time.Duration `mapstructure:"task-delay"`
	FailEvery       int           `mapstructure:"fail-every"`
	MaxAttempts     int           `mapstructure:"max-attempts"`
	RetryDelay      time.Duration `mapstructure:"retry-delay"`
	RateLimit       float64       `mapstructure:"rate-limit"`
	Burst           int           `mapstructure:"burst"`
	PinWorkers      bool          `mapstructure:"pin-workers"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
	LogLevel        string        `mapstructure:"log-level"`
	MetricsAddr     string        `mapstructure:"metrics-addr"`
}

// FlagSet returns the demo flags with their defaults.
func FlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("file", "f", "", "configuration file, defaults to taskpool.{yaml,json,toml} in /etc/taskpool, $HOME/.taskpool or .")
	fs.IntP("workers", "w", 4, "number of pool workers")
	fs.IntP("tasks", "n", 20, "number of tasks to submit")
	fs.Duration("task-delay", 50*time.Millisecond, "simulated work per task")
	fs.Int("fail-every", 7, "make every n-th task fail, 0 disables failures")
	fs.Int("max-attempts", 1, "attempts per task before its handle fails")
	fs.Duration("retry-delay", 10*time.Millisecond, "delay before the first retry")
	fs.Float64("rate-limit", 0, "tasks started per second, 0 disables limiting")
	fs.Int("burst", 1, "rate limiter burst")
	fs.Bool("pin-workers", false, "pin workers to CPU cores")
	fs.Duration("shutdown-timeout", 10*time.Second, "upper bound on the final drain")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	return fs
}

// NewViper returns a viper instance that looks for the taskpool config file
// in the usual places and reads TASKPOOL_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(ApplicationName)
	v.AddConfigPath(fmt.Sprintf("/etc/%s", ApplicationName))
	v.AddConfigPath(fmt.Sprintf("$HOME/.%s", ApplicationName))
	v.AddConfigPath(".")

	v.SetEnvPrefix(ApplicationName)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load parses arguments (without the program name), merges the other sources
// and returns a validated Config. A missing default config file is not an
// error; a missing file named with --file is.
func Load(v *viper.Viper, fs *pflag.FlagSet, arguments []string) (Config, error) {
	if err := fs.Parse(arguments); err != nil {
		return Config{}, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, err
	}

	if file, _ := fs.GetString("file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", file, err)
		}
	} else if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings that the pool would otherwise reject or
// silently ignore.
func (c Config) Validate() error {
	switch {
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalid, c.Workers)
	case c.Tasks < 0:
		return fmt.Errorf("%w: tasks must not be negative, got %d", ErrInvalid, c.Tasks)
	case c.FailEvery < 0:
		return fmt.Errorf("%w: fail-every must not be negative, got %d", ErrInvalid, c.FailEvery)
	case c.MaxAttempts <= 0:
		return fmt.Errorf("%w: max-attempts must be positive, got %d", ErrInvalid, c.MaxAttempts)
	case c.RateLimit < 0:
		return fmt.Errorf("%w: rate-limit must not be negative, got %g", ErrInvalid, c.RateLimit)
	case c.RateLimit > 0 && c.Burst <= 0:
		return fmt.Errorf("%w: burst must be positive when rate limiting", ErrInvalid)
	case c.ShutdownTimeout <= 0:
		return fmt.Errorf("%w: shutdown-timeout must be positive, got %v", ErrInvalid, c.ShutdownTimeout)
	}
	return nil
}
