package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

type DatabaseConfig struct {
	Path  string `toml:"path"`
	Table string `toml:"table"`
	Query string `toml:"query"`
}

type SerializerConfig struct {
	Encoding EncodingConfig `toml:"encoding"`
}

type EncodingConfig struct {
	CustomReflection *bool `toml:"customreflection"`
}

type StatsConfig struct {
	Enabled *bool  `toml:"enabled"`
	Address string `toml:"address"`
}

type Config struct {
	Database   DatabaseConfig   `toml:"database"`
	Serializer SerializerConfig `toml:"serializer"`
	Stats      StatsConfig      `toml:"stats"`
	Logging    LoggerConfig     `toml:"logging"`
}

type LoggerConfig struct {
	Level   string                     `toml:"level"`
	Outputs LoggerOutputConfig         `toml:"output"`
	Loggers map[string]SubLoggerConfig `toml:"loggers"`
}

type LoggerOutputConfig struct {
	Console LoggerConsoleConfig `toml:"console"`
	File    LoggerFileConfig    `toml:"file"`
}

type SubLoggerConfig struct {
	Level   *string            `toml:"level"`
	Outputs LoggerOutputConfig `toml:"output"`
}

type LoggerConsoleConfig struct {
	Enabled *bool `toml:"enabled"`
}

type LoggerFileConfig struct {
	Enabled     *bool          `toml:"enabled"`
	Path        string         `toml:"path"`
	Rotate      *bool          `toml:"rotate"`
	MaxSize     *string        `toml:"maxsize"`
	MaxDuration *time.Duration `toml:"maxduration"`
	Compress    bool           `toml:"compress"`
}

func GetOrDefault[V any](config *Config, canonicalProperty string, defaultValue V) V {
	if env, found := findEnvProperty(canonicalProperty, defaultValue); found {
		return env
	}

	properties := strings.Split(canonicalProperty, ".")

	element := reflect.ValueOf(*config)
	for _, property := range properties {
		if e, ok := findProperty(element, property); ok {
			element = e
		} else {
			return defaultValue
		}
	}

	if !element.IsZero() &&
		!(element.Kind() == reflect.Ptr && element.IsNil()) {

		if element.Kind() == reflect.Ptr {
			element = element.Elem()
		}

		return element.Convert(reflect.TypeOf(defaultValue)).Interface().(V)
	}
	return defaultValue
}

func findEnvProperty[V any](canonicalProperty string, defaultValue V) (V, bool) {
	t := reflect.TypeOf(defaultValue)

	envVarName := strings.ToUpper(canonicalProperty)
	envVarName = strings.ReplaceAll(envVarName, "_", "__")
	envVarName = strings.ReplaceAll(envVarName, ".", "_")
	if val, ok := os.LookupEnv(envVarName); ok {
		cv, ok := parseEnvValue(val, t)
		if ok && !cv.IsZero() &&
			!(cv.Kind() == reflect.Ptr && cv.IsNil()) {
			return cv.Interface().(V), true
		}
	}
	return defaultValue, false
}

// parseEnvValue decodes the textual environment value according
// to the target property kind. Values which don't parse are
// ignored, falling back to the configuration file lookup.
func parseEnvValue(val string, t reflect.Type) (reflect.Value, bool) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(val).Convert(t), true
	case reflect.Bool:
		if parsed, err := strconv.ParseBool(val); err == nil {
			return reflect.ValueOf(parsed).Convert(t), true
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return reflect.ValueOf(parsed).Convert(t), true
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if parsed, err := strconv.ParseUint(val, 10, 64); err == nil {
			return reflect.ValueOf(parsed).Convert(t), true
		}
	case reflect.Float32, reflect.Float64:
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return reflect.ValueOf(parsed).Convert(t), true
		}
	}
	return reflect.Value{}, false
}

func findProperty(element reflect.Value, property string) (reflect.Value, bool) {
	t := element.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" && !f.Anonymous {
			continue
		}

		if f.Tag.Get("toml") == property {
			return element.Field(i), true
		}
	}
	return reflect.Value{}, false
}
