package config

import (
	"fmt"
	"strings"

	"github.com/de-tools/status-atlas/pkg/services/calendar"
	"github.com/spf13/viper"
)

type ServerSettings struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type TrackerSettings struct {
	BaseURL string `mapstructure:"base_url"`
	Profile string `mapstructure:"profile"`
}

type CalendarSettings struct {
	Timezone  string `mapstructure:"timezone"`
	StartHour int    `mapstructure:"start_hour"`
	EndHour   int    `mapstructure:"end_hour"`
}

type Settings struct {
	Server   ServerSettings   `mapstructure:"server"`
	Tracker  TrackerSettings  `mapstructure:"tracker"`
	Calendar CalendarSettings `mapstructure:"calendar"`
}

// LoadSettings reads the settings file at path (optional; defaults apply
// when empty) with STATUS_ATLAS_* environment overrides.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("tracker.base_url", "https://storm.alabuga.space")
	v.SetDefault("calendar.timezone", calendar.DefaultTimezone)
	v.SetDefault("calendar.start_hour", calendar.DefaultStartHour)
	v.SetDefault("calendar.end_hour", calendar.DefaultEndHour)

	v.SetEnvPrefix("STATUS_ATLAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &settings, nil
}
