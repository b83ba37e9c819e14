// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/lass9436/YomiYomi-sub002/internal/choice"
	"github.com/lass9436/YomiYomi-sub002/internal/cloze"
	"github.com/lass9436/YomiYomi-sub002/internal/model"
	"github.com/lass9436/YomiYomi-sub002/internal/selector"
	"github.com/lass9436/YomiYomi-sub002/internal/session"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Study  StudyConfig  `toml:"study"`
	Weight WeightConfig `toml:"weight"`
	Log    LogConfig    `toml:"log"`
}

// StudyConfig maps quiz session settings.
type StudyConfig struct {
	Mode             *string `toml:"mode"`
	Level            *string `toml:"level"`
	Count            *int    `toml:"count"`
	Blanks           *int    `toml:"blanks"`
	Options          *int    `toml:"options"`
	PlaceholderWidth *int    `toml:"placeholder-width"`
}

// WeightConfig maps learning weight settings.
type WeightConfig struct {
	Floor         *float64 `toml:"floor"`
	CorrectFactor *float64 `toml:"correct-factor"`
	WrongBoost    *float64 `toml:"wrong-boost"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Mode  *string `toml:"mode"`
	Level *string `toml:"level"`
}

// Settings is the resolved configuration after defaults, file and flags.
type Settings struct {
	Mode             string
	Level            model.Level
	Count            int
	Blanks           int
	Options          int
	PlaceholderWidth int
	Floor            float64
	Policy           session.DecayPolicy
	LogMode          string
	LogLevel         string
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Mode:             choice.WordReading,
		Level:            model.LevelAll,
		Count:            10,
		Blanks:           2,
		Options:          choice.DefaultOptionCount,
		PlaceholderWidth: cloze.DefaultPlaceholderWidth,
		Floor:            selector.DefaultEpsilon,
		Policy:           session.DefaultPolicy(),
		LogMode:          "dev",
		LogLevel:         "info",
	}
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Apply overlays values present in the file onto s.
func (c FileConfig) Apply(s *Settings) error {
	if c.Study.Mode != nil {
		s.Mode = *c.Study.Mode
	}
	if c.Study.Level != nil {
		level, err := model.ParseLevel(*c.Study.Level)
		if err != nil {
			return fmt.Errorf("config study.level: %w", err)
		}
		s.Level = level
	}
	if c.Study.Count != nil {
		s.Count = *c.Study.Count
	}
	if c.Study.Blanks != nil {
		s.Blanks = *c.Study.Blanks
	}
	if c.Study.Options != nil {
		s.Options = *c.Study.Options
	}
	if c.Study.PlaceholderWidth != nil {
		s.PlaceholderWidth = *c.Study.PlaceholderWidth
	}
	if c.Weight.Floor != nil {
		s.Floor = *c.Weight.Floor
	}
	if c.Weight.CorrectFactor != nil {
		s.Policy.CorrectFactor = *c.Weight.CorrectFactor
	}
	if c.Weight.WrongBoost != nil {
		s.Policy.WrongBoost = *c.Weight.WrongBoost
	}
	if c.Log.Mode != nil {
		s.LogMode = *c.Log.Mode
	}
	if c.Log.Level != nil {
		s.LogLevel = *c.Log.Level
	}
	return nil
}

// Validate checks ranges of resolved settings.
func (s Settings) Validate() error {
	if s.Count <= 0 {
		return fmt.Errorf("count must be > 0")
	}
	if s.Blanks <= 0 {
		return fmt.Errorf("blanks must be > 0")
	}
	if s.Options < 2 {
		return fmt.Errorf("options must be >= 2")
	}
	if s.PlaceholderWidth <= 0 {
		return fmt.Errorf("placeholder-width must be > 0")
	}
	if s.Floor <= 0 || s.Floor > 1 {
		return fmt.Errorf("weight floor must be in (0, 1]")
	}
	if s.Policy.CorrectFactor < 0 || s.Policy.CorrectFactor > 1 {
		return fmt.Errorf("correct-factor must be between 0 and 1")
	}
	if s.Policy.WrongBoost < 0 || s.Policy.WrongBoost > 1 {
		return fmt.Errorf("wrong-boost must be between 0 and 1")
	}
	return nil
}
