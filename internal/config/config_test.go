package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lass9436/YomiYomi-sub002/internal/model"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	s := Defaults()
	if err := cfg.Apply(&s); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if s != Defaults() {
		t.Fatalf("empty config changed settings: %+v", s)
	}
}

func TestLoadConfigApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[study]
mode = "cloze"
level = "n4"
count = 5
blanks = 3

[weight]
floor = 0.05
correct-factor = 0.5

[log]
mode = "prod"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s := Defaults()
	if err := cfg.Apply(&s); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if s.Mode != "cloze" || s.Level != model.LevelN4 || s.Count != 5 || s.Blanks != 3 {
		t.Fatalf("unexpected study settings %+v", s)
	}
	if s.Floor != 0.05 || s.Policy.CorrectFactor != 0.5 || s.Policy.WrongBoost != Defaults().Policy.WrongBoost {
		t.Fatalf("unexpected weight settings %+v", s)
	}
	if s.LogMode != "prod" || s.LogLevel != "info" {
		t.Fatalf("unexpected log settings %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestApplyBadLevel(t *testing.T) {
	level := "N9"
	cfg := FileConfig{Study: StudyConfig{Level: &level}}
	s := Defaults()
	if err := cfg.Apply(&s); err == nil {
		t.Fatalf("expected level error")
	}
}

func TestValidate(t *testing.T) {
	tests := []func(*Settings){
		func(s *Settings) { s.Count = 0 },
		func(s *Settings) { s.Options = 1 },
		func(s *Settings) { s.Floor = 0 },
		func(s *Settings) { s.Policy.WrongBoost = 2 },
	}
	for i, mutate := range tests {
		s := Defaults()
		mutate(&s)
		if err := s.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestDefaultPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("XDG_STATE_HOME", dir)
	if got := DefaultDBPath(); got != filepath.Join(dir, "yomi", "yomi.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultLogPath(); got != filepath.Join(dir, "yomi", "yomi.log") {
		t.Fatalf("unexpected log path %q", got)
	}
}
