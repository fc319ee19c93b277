// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/loan-amortizer/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for loan-amortizer.
type Configuration struct {
	Logging       LoggingConfig         `yaml:"logging,omitempty"`
	Output        OutputConfig          `yaml:"output,omitempty"`
	Limits        LimitsConfig          `yaml:"limits,omitempty"`
	Loan          Loan                  `yaml:"loan"`
	Insurance     Insurance             `yaml:"insurance,omitempty"`
	Strategy      string                `yaml:"strategy,omitempty"` // reduce_quota, reduce_term, auto
	ExtraPayments []ExtraPayment        `yaml:"extraPayments,omitempty"`
	FirstPayment  *FirstPaymentOverride `yaml:"firstPayment,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json, xlsx
	File   string `yaml:"file,omitempty"`   // optional, stdout when empty
}

// LimitsConfig bounds the work a single calculation may do.
type LimitsConfig struct {
	MaxPeriods int `yaml:"maxPeriods,omitempty"`
}

// Loan holds the loan parameters.
type Loan struct {
	Principal         float64 `yaml:"principal"`
	AnnualRatePercent float64 `yaml:"annualRatePercent"`
	TotalPeriods      int     `yaml:"totalPeriods"`
	Frequency         string  `yaml:"frequency,omitempty"` // monthly, biweekly, weekly
}

// Insurance holds the per-period insurance premium settings.
type Insurance struct {
	Enabled              bool    `yaml:"enabled"`
	FixedAmountPerPeriod float64 `yaml:"fixedAmountPerPeriod,omitempty"`
	PercentOfBalance     float64 `yaml:"percentOfBalance,omitempty"`
	PercentOfPayment     float64 `yaml:"percentOfPayment,omitempty"`
}

// ExtraPayment is an extra capital payment in a given period.
type ExtraPayment struct {
	Period int     `yaml:"period"`
	Amount float64 `yaml:"amount"`
}

// FirstPaymentOverride replaces the computed first period breakdown.
type FirstPaymentOverride struct {
	Principal float64 `yaml:"principal"`
	Interest  float64 `yaml:"interest"`
	Insurance float64 `yaml:"insurance,omitempty"`
}

// defaults registers every scalar key so environment variables can override
// keys the file leaves out.
var defaults = map[string]interface{}{
	"logging.level":                  "info",
	"logging.format":                 "console",
	"logging.outputFile":             "",
	"output.format":                  constants.OutputFormatPretty,
	"output.file":                    "",
	"limits.maxPeriods":              constants.DefaultMaxPeriods,
	"loan.principal":                 0.0,
	"loan.annualRatePercent":         0.0,
	"loan.totalPeriods":              0,
	"loan.frequency":                 "monthly",
	"insurance.enabled":              false,
	"insurance.fixedAmountPerPeriod": 0.0,
	"insurance.percentOfBalance":     0.0,
	"insurance.percentOfPayment":     0.0,
	"strategy":                       "auto",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables prefixed with AMORTIZER_
// override file values (e.g. AMORTIZER_LOAN_PRINCIPAL).
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}
