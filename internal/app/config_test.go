package app

import (
	"testing"
	"time"

	"github.com/yungbote/adaptivequiz-backend/internal/data/repos/catalog"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/modules/adaptive"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("GENERATOR_MODE", "")
	t.Setenv("GENERATOR_BASE_URL", "http://generator.local")
	t.Setenv("ARCHIVE_MODE", "")
	t.Setenv("ADAPTIVE_RULES_FILE", "")
	t.Setenv("ADAPTIVE_DEFAULT_LEVEL", "")
	t.Setenv("ADAPTIVE_TOPIC_TIEBREAK", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Generator.Mode != "http" || cfg.Generator.Timeout != 30*time.Second {
		t.Fatalf("generator: %+v", cfg.Generator)
	}
	if cfg.Adaptive.DefaultLevel != types.LevelBeginner || cfg.Adaptive.TopicTiebreak != catalog.TiebreakCreatedAt {
		t.Fatalf("adaptive: %+v", cfg.Adaptive)
	}
	if cfg.Adaptive.ArchiveMode != adaptive.ArchiveModeInline {
		t.Fatalf("archive mode: %q", cfg.Adaptive.ArchiveMode)
	}
	if cfg.Adaptive.Rules.MaxQuestions != adaptive.DefaultStopRules().MaxQuestions {
		t.Fatalf("rules: %+v", cfg.Adaptive.Rules)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("cors: %q", cfg.CORSOrigins)
	}
}

func TestLoadConfig_Rejects(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"JWT_SECRET_KEY": "", "GENERATOR_BASE_URL": "http://g"}},
		{"http without url", map[string]string{"JWT_SECRET_KEY": "s", "GENERATOR_MODE": "http", "GENERATOR_BASE_URL": ""}},
		{"openai without key", map[string]string{"JWT_SECRET_KEY": "s", "GENERATOR_MODE": "openai", "OPENAI_API_KEY": ""}},
		{"unknown mode", map[string]string{"JWT_SECRET_KEY": "s", "GENERATOR_MODE": "carrier-pigeon"}},
		{"missing rules file", map[string]string{"JWT_SECRET_KEY": "s", "GENERATOR_BASE_URL": "http://g", "ADAPTIVE_RULES_FILE": "/nonexistent/rules.yaml"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("GENERATOR_MODE", "")
			t.Setenv("ADAPTIVE_RULES_FILE", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(logger.Nop()); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
