// Package config loads process configuration from circuitsizer.yaml and
// CIRCUITSIZER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/piwi3910/CircuitSizer/internal/model"
)

type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Design   DesignConfig   `mapstructure:"design"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	Paths    PathsConfig    `mapstructure:"paths"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DesignConfig seeds the design settings when the user has no saved preference.
type DesignConfig struct {
	AmbientTempC     int    `mapstructure:"ambient_temp_c"`
	Insulation       string `mapstructure:"insulation"`
	Method           string `mapstructure:"method"`
	LightingGrouping int    `mapstructure:"lighting_grouping"`
	OutletGrouping   int    `mapstructure:"outlet_grouping"`
	LightingVoltage  int    `mapstructure:"lighting_voltage"`
	OutletVoltage    int    `mapstructure:"outlet_voltage"`
}

// RedisConfig selects the session backend. An empty Addr means sessions are
// kept as files under Paths.SessionDir.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// DatabaseConfig is the schedule archive. An empty Host disables archiving.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int    `mapstructure:"max_conns"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// Enabled reports whether an archive database is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

type PathsConfig struct {
	AppConfig  string `mapstructure:"app_config"`
	Templates  string `mapstructure:"templates"`
	Catalog    string `mapstructure:"catalog"`
	SessionDir string `mapstructure:"session_dir"`
}

// Settings converts the design section into model settings.
func (c DesignConfig) Settings() model.DesignSettings {
	return model.DesignSettings{
		AmbientTempC:     c.AmbientTempC,
		Insulation:       model.Insulation(c.Insulation),
		Method:           c.Method,
		LightingGrouping: c.LightingGrouping,
		OutletGrouping:   c.OutletGrouping,
	}
}

func setDefaults(v *viper.Viper) {
	d := model.DefaultSettings()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("design.ambient_temp_c", d.AmbientTempC)
	v.SetDefault("design.insulation", string(d.Insulation))
	v.SetDefault("design.method", d.Method)
	v.SetDefault("design.lighting_grouping", d.LightingGrouping)
	v.SetDefault("design.outlet_grouping", d.OutletGrouping)
	v.SetDefault("design.lighting_voltage", 127)
	v.SetDefault("design.outlet_voltage", 127)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "circuitsizer")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "circuitsizer")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 5)
	v.SetDefault("database.max_idle", 2)
	v.SetDefault("paths.app_config", "")
	v.SetDefault("paths.templates", "")
	v.SetDefault("paths.catalog", "")
	v.SetDefault("paths.session_dir", "")
}

// Load reads circuitsizer.yaml from the working directory or ./config, or
// the file at path when non-empty. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("circuitsizer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("CIRCUITSIZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}
