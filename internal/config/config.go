// Package config loads firengo settings from an optional YAML file,
// FIRENGO_* environment variables and command line flags.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vnykmshr/firengo/pkg/common/validation"
	"github.com/vnykmshr/firengo/pkg/logger"
	"github.com/vnykmshr/firengo/pkg/scheduling/scheduler"
)

// EnvPrefix is prepended to every environment override, e.g.
// FIRENGO_WORKERS or FIRENGO_LOG_DEBUG.
const EnvPrefix = "FIRENGO"

// Property keys.
const (
	PropWorkers         = "workers"
	PropLogDebug        = "log.debug"
	PropLogStackTrace   = "log.stacktrace"
	PropLogFile         = "log.file"
	PropLogMaxSize      = "log.max-size"
	PropLogMaxAge       = "log.max-age"
	PropLogMaxBackups   = "log.max-backups"
	PropShutdownTimeout = "shutdown.timeout"
	PropHeartbeatCron   = "heartbeat.cron"
)

// Config is the resolved configuration.
type Config struct {
	Workers         int
	Log             logger.Config
	ShutdownTimeout time.Duration
	HeartbeatCron   string
}

// Load reads path, when not empty, on top of the defaults and applies
// environment overrides.
func Load(path string) (*Config, error) {
	return LoadWithFlags(path, nil)
}

// LoadWithFlags is Load with flags from fs taking precedence over the file
// and the environment. Only flags that were set on the command line count.
func LoadWithFlags(path string, fs *pflag.FlagSet) (*Config, error) {
	vp := newViper()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("unable to find config file: '%s'", path)
			}
			return nil, fmt.Errorf("failed to open config file: '%s', %w", path, err)
		}
		defer f.Close()

		if err := readYAML(vp, f); err != nil {
			return nil, fmt.Errorf("failed to load config file: '%s', %w", path, err)
		}
	}

	if fs != nil {
		if err := bindFlags(vp, fs); err != nil {
			return nil, err
		}
	}

	return resolve(vp)
}

// LoadFromReader reads YAML from r on top of the defaults and applies
// environment overrides.
func LoadFromReader(r io.Reader) (*Config, error) {
	vp := newViper()
	if err := readYAML(vp, r); err != nil {
		return nil, fmt.Errorf("failed to load config from reader: %w", err)
	}
	return resolve(vp)
}

// Flags returns the command line flags understood by LoadWithFlags.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "path to a YAML config file")
	fs.IntP("workers", "w", 0, "number of workers, 0 detects the CPU count")
	fs.Bool("debug", false, "enable debug log lines")
	fs.Bool("stacktrace", false, "append stack traces to error lines, requires --debug")
	fs.String("log-file", "", "also write logs to this rolling file")
	fs.Duration("shutdown-timeout", 0, "bound on the drain wait at exit")
	fs.String("heartbeat-cron", "", "cron expression for the heartbeat task")
	return fs
}

var flagProps = map[string]string{
	"workers":          PropWorkers,
	"debug":            PropLogDebug,
	"stacktrace":       PropLogStackTrace,
	"log-file":         PropLogFile,
	"shutdown-timeout": PropShutdownTimeout,
	"heartbeat-cron":   PropHeartbeatCron,
}

func bindFlags(vp *viper.Viper, fs *pflag.FlagSet) error {
	for flag, prop := range flagProps {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := vp.BindPFlag(prop, f); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", flag, err)
		}
	}
	return nil
}

func newViper() *viper.Viper {
	def := logger.DefaultConfig()

	vp := viper.New()
	vp.SetDefault(PropWorkers, 0)
	vp.SetDefault(PropLogDebug, def.Debug)
	vp.SetDefault(PropLogStackTrace, false)
	vp.SetDefault(PropLogFile, "")
	vp.SetDefault(PropLogMaxSize, def.MaxSizeMB)
	vp.SetDefault(PropLogMaxAge, def.MaxAgeDays)
	vp.SetDefault(PropLogMaxBackups, def.MaxBackups)
	vp.SetDefault(PropShutdownTimeout, 10*time.Second)
	vp.SetDefault(PropHeartbeatCron, "")

	vp.SetEnvPrefix(EnvPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	vp.AutomaticEnv()
	return vp
}

func readYAML(vp *viper.Viper, r io.Reader) error {
	vp.SetConfigType("yml")
	return vp.MergeConfig(r)
}

func resolve(vp *viper.Viper) (*Config, error) {
	log := logger.DefaultConfig()
	log.Debug = vp.GetBool(PropLogDebug)
	log.StackTrace = vp.GetBool(PropLogStackTrace)
	log.File = vp.GetString(PropLogFile)
	log.MaxSizeMB = vp.GetInt(PropLogMaxSize)
	log.MaxAgeDays = vp.GetInt(PropLogMaxAge)
	log.MaxBackups = vp.GetInt(PropLogMaxBackups)

	cfg := &Config{
		Workers:         vp.GetInt(PropWorkers),
		Log:             log,
		ShutdownTimeout: vp.GetDuration(PropShutdownTimeout),
		HeartbeatCron:   vp.GetString(PropHeartbeatCron),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	const module = "config"

	if err := validation.ValidateNonNegative(module, PropWorkers, c.Workers); err != nil {
		return err
	}
	if err := validation.ValidatePositive(module, PropLogMaxSize, c.Log.MaxSizeMB); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative(module, PropLogMaxAge, c.Log.MaxAgeDays); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative(module, PropLogMaxBackups, c.Log.MaxBackups); err != nil {
		return err
	}
	if err := validation.ValidatePositiveDuration(module, PropShutdownTimeout, c.ShutdownTimeout); err != nil {
		return err
	}
	if c.HeartbeatCron != "" {
		if err := scheduler.ValidateCron(c.HeartbeatCron); err != nil {
			return fmt.Errorf("%s: invalid %s: %w", module, PropHeartbeatCron, err)
		}
	}
	return nil
}
