package config

import (
	"log"

	"github.com/spf13/viper"
)

// Format is one queue configuration: required total player count (split
// into two equal teams) plus the cosmetic map/mode pools its matches
// draw from.
type Format struct {
	Name  string
	Size  int
	Maps  []string
	Modes []string
}

type Config struct {
	Server struct {
		Port string
	}
	Database struct {
		DSN string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	JWT struct {
		Secret string
	}
	Queue struct {
		Backend    string // "memory" or "redis"
		TTLSeconds int    `mapstructure:"ttl_seconds"`
	}
	Match struct {
		CleanupGraceSeconds int `mapstructure:"cleanup_grace_seconds"`
		CodeAttempts        int `mapstructure:"code_attempts"`
	}
	Formats []Format
}

var C Config

func Load() {
	viper.SetConfigFile("config/config.yaml")
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Failed to read config: %v", err)
	}
	if err := viper.Unmarshal(&C); err != nil {
		log.Fatalf("Failed to parse config: %v", err)
	}
	if len(C.Formats) == 0 {
		C.Formats = DefaultFormats()
	}
	if C.Match.CodeAttempts <= 0 {
		C.Match.CodeAttempts = 5
	}
}

// DefaultFormats is the ladder's standard queue table.
func DefaultFormats() []Format {
	maps := []string{"Skidrow", "Terminal", "Highrise", "Invasion"}
	modes := []string{"Hardpoint", "Search & Destroy", "Control"}
	return []Format{
		{Name: "8s", Size: 8, Maps: maps, Modes: modes},
		{Name: "6s", Size: 6, Maps: maps, Modes: modes},
		{Name: "4s", Size: 4, Maps: maps, Modes: modes},
	}
}

// FormatMap indexes the configured formats by name.
func FormatMap() map[string]Format {
	m := make(map[string]Format, len(C.Formats))
	for _, f := range C.Formats {
		m[f.Name] = f
	}
	return m
}
