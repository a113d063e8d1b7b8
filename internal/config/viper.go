package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/vzahanych/weather-mcp-server/internal/validation"
)

const envPrefix = "WEATHER"

// Load reads configuration from an optional YAML file, a .env file and
// WEATHER_* environment variables, on top of NewDefaultConfig.
// An explicit configPath must exist; the default ./config.yaml may not.
func Load(configPath string) (*Config, error) {
	// .env is optional and never overrides variables already set.
	_ = godotenv.Load()

	cfg := NewDefaultConfig()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	SetDefaultsFromStructRecursive(reflect.ValueOf(cfg), "", v)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	errs := validation.ValidateStruct(c)
	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func SetDefaultsFromStructRecursive(v reflect.Value, prefix string, viper *viper.Viper) {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !fieldValue.CanInterface() {
			continue
		}

		key := field.Tag.Get("mapstructure")
		if key == "" {
			key = strings.ToLower(field.Name)
		}

		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch {
		case fieldValue.Type() == reflect.TypeOf(time.Duration(0)):
			viper.SetDefault(fullKey, fieldValue.Interface())
		case fieldValue.Kind() == reflect.Struct:
			SetDefaultsFromStructRecursive(fieldValue, fullKey, viper)
		case fieldValue.Kind() == reflect.Slice && fieldValue.IsNil():
			// nil slices carry no default
		default:
			viper.SetDefault(fullKey, fieldValue.Interface())
		}
	}
}
