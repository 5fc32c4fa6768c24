package pipeline

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/trendline/pkg/errors"
)

// Config holds one pipeline run's parameters.
type Config struct {
	InitialBalance float64                    `yaml:"initial_balance" json:"initial_balance" jsonschema:"title=Initial Balance,description=Starting cash balance for the backtest in USD,minimum=0"`
	EMAPeriod      int                        `yaml:"ema_period" json:"ema_period" jsonschema:"title=EMA Period,description=Span of the trend EMA,minimum=1"`
	MACDFast       int                        `yaml:"macd_fast" json:"macd_fast" jsonschema:"title=MACD Fast Period,description=Span of the fast EWMA,minimum=1"`
	MACDSlow       int                        `yaml:"macd_slow" json:"macd_slow" jsonschema:"title=MACD Slow Period,description=Span of the slow EWMA,minimum=1"`
	MACDSignal     int                        `yaml:"macd_signal" json:"macd_signal" jsonschema:"title=MACD Signal Period,description=Span of the signal-line EWMA of MACD,minimum=1"`
	StartTime      optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time restricting the bar window"`
	EndTime        optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time restricting the bar window"`
}

// DefaultConfig returns a Config with the standard indicator periods and the
// given initial balance.
func DefaultConfig(initialBalance float64) Config {
	return Config{
		InitialBalance: initialBalance,
		EMAPeriod:      20,
		MACDFast:       12,
		MACDSlow:       26,
		MACDSignal:     9,
		StartTime:      optional.None[time.Time](),
		EndTime:        optional.None[time.Time](),
	}
}

// UnmarshalYAML implements custom unmarshaling for Config
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type rawConfig struct {
		InitialBalance float64    `yaml:"initial_balance"`
		EMAPeriod      int        `yaml:"ema_period"`
		MACDFast       int        `yaml:"macd_fast"`
		MACDSlow       int        `yaml:"macd_slow"`
		MACDSignal     int        `yaml:"macd_signal"`
		StartTime      *time.Time `yaml:"start_time"`
		EndTime        *time.Time `yaml:"end_time"`
	}

	var raw rawConfig
	if err := value.Decode(&raw); err != nil {
		return err
	}

	defaults := DefaultConfig(raw.InitialBalance)

	c.InitialBalance = raw.InitialBalance
	c.EMAPeriod = raw.EMAPeriod
	c.MACDFast = raw.MACDFast
	c.MACDSlow = raw.MACDSlow
	c.MACDSignal = raw.MACDSignal

	// Missing periods fall back to the defaults so a config file only needs
	// to set what it overrides.
	if c.EMAPeriod == 0 {
		c.EMAPeriod = defaults.EMAPeriod
	}

	if c.MACDFast == 0 {
		c.MACDFast = defaults.MACDFast
	}

	if c.MACDSlow == 0 {
		c.MACDSlow = defaults.MACDSlow
	}

	if c.MACDSignal == 0 {
		c.MACDSignal = defaults.MACDSignal
	}

	if raw.StartTime != nil {
		c.StartTime = optional.Some(*raw.StartTime)
	} else {
		c.StartTime = optional.None[time.Time]()
	}

	if raw.EndTime != nil {
		c.EndTime = optional.Some(*raw.EndTime)
	} else {
		c.EndTime = optional.None[time.Time]()
	}

	return nil
}

// Validate checks the config before a run.
func (c *Config) Validate() error {
	if c.InitialBalance <= 0 {
		return errors.Newf(errors.ErrCodeInvalidBalance, "initial balance must be positive, got %f", c.InitialBalance)
	}

	for _, p := range []int{c.EMAPeriod, c.MACDFast, c.MACDSlow, c.MACDSignal} {
		if p <= 0 {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", p)
		}
	}

	return nil
}

// GenerateSchema generates a JSON schema for the Config
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "trendline-pipeline-config"
	schema.Description = "Configuration schema for a trendline pipeline run"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the Config
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
