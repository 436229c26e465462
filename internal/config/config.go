// Package config loads command configuration from flags, GIB_* environment
// variables and an optional config file.
package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"solana-snapshot-kit/internal/solana"
)

// Commands validated by Config.Validate.
const (
	CommandGetHashlist = "get-hashlist"
	CommandHolders     = "snapshot-holders"
	CommandMetadata    = "snapshot-metadata"
	CommandMinters     = "get-minters-information"
)

// ErrInvalid marks configuration errors.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	RPCURL      string        `mapstructure:"rpc_url"`
	RPS         float64       `mapstructure:"rps"`
	Burst       int           `mapstructure:"burst"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
	Concurrency int           `mapstructure:"concurrency"`

	Hashlist string `mapstructure:"hashlist"`
	Out      string `mapstructure:"out"`
	Report   string `mapstructure:"report"`

	Vault        string `mapstructure:"vault"`
	Creator      string `mapstructure:"creator"`
	CandyMachine string `mapstructure:"candy_machine"`
	Resume       bool   `mapstructure:"resume"`

	PostgresDSN   string `mapstructure:"postgres_dsn"`
	ClickhouseDSN string `mapstructure:"clickhouse_dsn"`

	MetricsAddr string `mapstructure:"metrics_addr"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// defaults also registers every key, so AutomaticEnv covers keys that were
// never bound to a flag.
var defaults = map[string]interface{}{
	"rpc_url":        "",
	"rps":            0.0,
	"burst":          1,
	"timeout":        30 * time.Second,
	"max_retries":    3,
	"concurrency":    1,
	"hashlist":       "hashlist.json",
	"out":            "",
	"report":         "",
	"vault":          "",
	"creator":        "",
	"candy_machine":  "",
	"resume":         false,
	"postgres_dsn":   "",
	"clickhouse_dsn": "",
	"metrics_addr":   "",
	"log_level":      "info",
	"log_format":     "text",
}

// New returns a viper instance with defaults and GIB_ environment binding.
func New() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix("GIB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every flag in flags to the key of the same name with
// dashes replaced by underscores.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = errors.Wrapf(err, "bind flag %s", f.Name)
		}
	})
	return bindErr
}

// Load reads configFile (or ./config.yaml when empty and present) and
// unmarshals the merged configuration.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath("./")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var errNotFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &errNotFound) {
			return Config{}, errors.Wrap(err, "read config file")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	return c, nil
}

// Validate checks the settings command needs.
func (c Config) Validate(command string) error {
	if c.RPCURL == "" {
		return errors.Wrap(ErrInvalid, "rpc-url is required")
	}
	if c.Concurrency < 1 {
		return errors.Wrapf(ErrInvalid, "concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.RPS < 0 {
		return errors.Wrapf(ErrInvalid, "rps must not be negative, got %v", c.RPS)
	}
	if c.RPS > 0 && c.Burst < 1 {
		return errors.Wrapf(ErrInvalid, "burst must be at least 1 when rps is set, got %d", c.Burst)
	}
	if c.MaxRetries < 0 {
		return errors.Wrapf(ErrInvalid, "max-retries must not be negative, got %d", c.MaxRetries)
	}
	if c.Timeout <= 0 {
		return errors.Wrapf(ErrInvalid, "timeout must be positive, got %s", c.Timeout)
	}

	switch command {
	case CommandGetHashlist:
		if (c.Creator == "") == (c.CandyMachine == "") {
			return errors.Wrap(ErrInvalid, "exactly one of creator or candy-machine is required")
		}
		if err := validAddress("creator", c.Creator); err != nil {
			return err
		}
		return validAddress("candy-machine", c.CandyMachine)

	case CommandHolders:
		if c.Hashlist == "" {
			return errors.Wrap(ErrInvalid, "hashlist is required")
		}
		return validAddress("vault", c.Vault)

	case CommandMetadata, CommandMinters:
		if c.Hashlist == "" {
			return errors.Wrap(ErrInvalid, "hashlist is required")
		}
		return nil

	default:
		return errors.Wrapf(ErrInvalid, "unknown command %q", command)
	}
}

// validAddress accepts an empty value or a base-58 encoded 32-byte address.
func validAddress(name, value string) error {
	if value == "" {
		return nil
	}
	if !solana.IsValidAddress(value) {
		return errors.Wrapf(ErrInvalid, "%s %q is not a valid address", name, value)
	}
	return nil
}
