package ngff

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is a map of keyword to arbitrary data to specify configurations
// via keyword.
type Config map[string]interface{}

func NewConfig() Config {
	return Config{}
}

// Set sets a keyword to the given value.
func (c Config) Set(key string, value interface{}) {
	c[key] = value
}

// GetString returns the string value of the given keyword.
func (c Config) GetString(key string) (s string, found bool, err error) {
	v, found := c[key]
	if !found {
		return
	}
	s, ok := v.(string)
	if !ok {
		err = fmt.Errorf("%q setting must be a string (%v)", key, v)
	}
	return
}

// GetInt returns the int value of the given keyword, accepting the int64
// values TOML decoding produces.
func (c Config) GetInt(key string) (i int, found bool, err error) {
	v, found := c[key]
	if !found {
		return
	}
	switch n := v.(type) {
	case int:
		i = n
	case int64:
		i = int(n)
	case float64:
		i = int(n)
	default:
		err = fmt.Errorf("%q setting must be an int (%v)", key, v)
	}
	return
}

// GetBool returns the bool value of the given keyword.
func (c Config) GetBool(key string) (b bool, found bool, err error) {
	v, found := c[key]
	if !found {
		return
	}
	b, ok := v.(bool)
	if !ok {
		err = fmt.Errorf("%q setting must be a bool (%v)", key, v)
	}
	return
}

// GetFloat returns the float value of the given keyword.
func (c Config) GetFloat(key string) (f float64, found bool, err error) {
	v, found := c[key]
	if !found {
		return
	}
	switch n := v.(type) {
	case float64:
		f = n
	case int64:
		f = float64(n)
	default:
		err = fmt.Errorf("%q setting must be a float (%v)", key, v)
	}
	return
}

// Settings holds library-wide defaults, loadable from a TOML file.
type Settings struct {
	// NormalizeUnits canonicalizes unit strings via the unit registry,
	// e.g. "nm" -> "nanometer".
	NormalizeUnits bool `toml:"normalize_units"`

	// InferAxisType derives the axis type (space/time) from a unit's
	// dimensionality when the coordinate carries no explicit type.
	InferAxisType bool `toml:"infer_axis_type"`

	// TransformPrecision is the number of decimal digits transforms
	// inferred from coordinates are rounded to.  Negative disables
	// rounding.
	TransformPrecision int `toml:"transform_precision"`

	Log LogConfig `toml:"log"`
}

// DefaultSettings mirrors the defaults of the metadata codec.
func DefaultSettings() Settings {
	return Settings{
		NormalizeUnits:     true,
		InferAxisType:      true,
		TransformPrecision: -1,
	}
}

// LoadSettings reads Settings from a TOML file and installs its log
// configuration.  Keys absent from the file keep their defaults.
func LoadSettings(filename string) (Settings, error) {
	s := DefaultSettings()
	if _, err := toml.DecodeFile(filename, &s); err != nil {
		return s, fmt.Errorf("could not decode settings file %q: %w", filename, err)
	}
	s.Log.SetLogger()
	return s, nil
}
