package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/adaptivequiz-backend/internal/data/db"
	"github.com/yungbote/adaptivequiz-backend/internal/data/repos/catalog"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/modules/adaptive"
	"github.com/yungbote/adaptivequiz-backend/internal/observability"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/envutil"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type GeneratorConfig struct {
	Mode    string // "http" or "openai"
	BaseURL string
	APIKey  string
	Timeout time.Duration

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
}

type Config struct {
	Port        string
	Environment string

	Postgres db.PostgresConfig

	JWTSecretKey   string
	JWTIssuer      string
	AccessTokenTTL time.Duration

	Generator GeneratorConfig
	Adaptive  adaptive.Config

	ArchivePollInterval time.Duration

	RedisAddr           string
	RedisPassword       string
	RedisArchiveChannel string

	RabbitMQURI      string
	RabbitMQExchange string

	CORSOrigins         []string
	MetricsEnabled      bool
	MetricsCollectEvery time.Duration
	Otel                observability.OtelConfig
}

func LoadConfig(log *logger.Logger) (Config, error) {
	rules, err := adaptive.LoadStopRules(envutil.String("ADAPTIVE_RULES_FILE", ""))
	if err != nil {
		return Config{}, fmt.Errorf("load stop rules: %w", err)
	}

	env := envutil.String("APP_ENV", "development")
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		Environment: env,

		Postgres: db.PostgresConfig{
			Host:         envutil.String("POSTGRES_HOST", "localhost"),
			Port:         envutil.String("POSTGRES_PORT", "5432"),
			User:         envutil.String("POSTGRES_USER", "postgres"),
			Password:     envutil.String("POSTGRES_PASSWORD", ""),
			Name:         envutil.String("POSTGRES_NAME", "adaptivequiz"),
			SSLMode:      envutil.String("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns: envutil.Int("POSTGRES_MAX_OPEN_CONNS", 20),
			MaxIdleConns: envutil.Int("POSTGRES_MAX_IDLE_CONNS", 10),
		},

		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", ""),
		JWTIssuer:      envutil.String("JWT_ISSUER", ""),
		AccessTokenTTL: envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour),

		Generator: GeneratorConfig{
			Mode:          strings.ToLower(envutil.String("GENERATOR_MODE", "http")),
			BaseURL:       envutil.String("GENERATOR_BASE_URL", ""),
			APIKey:        envutil.String("GENERATOR_API_KEY", ""),
			Timeout:       envutil.Seconds("GENERATOR_TIMEOUT_SECONDS", 30*time.Second),
			OpenAIKey:     envutil.String("OPENAI_API_KEY", ""),
			OpenAIModel:   envutil.String("OPENAI_MODEL", ""),
			OpenAIBaseURL: envutil.String("OPENAI_BASE_URL", ""),
		},

		Adaptive: adaptive.Config{
			DefaultTargetLength: envutil.Int("ADAPTIVE_DEFAULT_TARGET_LENGTH", 10),
			DefaultLevel:        types.ParseStudentLevel(envutil.String("ADAPTIVE_DEFAULT_LEVEL", ""), types.LevelBeginner),
			TopicTiebreak:       catalog.ParseTopicTiebreak(envutil.String("ADAPTIVE_TOPIC_TIEBREAK", "")),
			Rules:               rules,
			ArchiveMode:         adaptive.ArchiveMode(strings.ToLower(envutil.String("ARCHIVE_MODE", string(adaptive.ArchiveModeInline)))),
			ArchiveMaxAttempts:  envutil.Int("ARCHIVE_MAX_ATTEMPTS", 5),
			ArchiveBackoff:      envutil.Seconds("ARCHIVE_BACKOFF_SECONDS", 30*time.Second),
		},
		ArchivePollInterval: envutil.Seconds("ARCHIVE_POLL_SECONDS", 15*time.Second),

		RedisAddr:           envutil.String("REDIS_ADDR", ""),
		RedisPassword:       envutil.String("REDIS_PASSWORD", ""),
		RedisArchiveChannel: envutil.String("REDIS_ARCHIVE_CHANNEL", "adaptive_quiz.archive"),

		RabbitMQURI:      envutil.String("RABBITMQ_URI", ""),
		RabbitMQExchange: envutil.String("RABBITMQ_EXCHANGE", "adaptive_quiz.events"),

		CORSOrigins:         envutil.List("CORS_ALLOWED_ORIGINS"),
		MetricsEnabled:      envutil.Bool("METRICS_ENABLED", true),
		MetricsCollectEvery: envutil.Seconds("METRICS_COLLECT_SECONDS", 30*time.Second),

		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "adaptivequiz"),
			Environment: env,
			Version:     envutil.String("OTEL_SERVICE_VERSION", ""),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_TRACES_SAMPLER_RATIO", 1),
		},
	}

	if cfg.JWTSecretKey == "" {
		return Config{}, fmt.Errorf("missing JWT_SECRET_KEY")
	}
	switch cfg.Generator.Mode {
	case "http":
		if cfg.Generator.BaseURL == "" {
			return Config{}, fmt.Errorf("GENERATOR_MODE=http requires GENERATOR_BASE_URL")
		}
	case "openai":
		if cfg.Generator.OpenAIKey == "" {
			return Config{}, fmt.Errorf("GENERATOR_MODE=openai requires OPENAI_API_KEY")
		}
	default:
		return Config{}, fmt.Errorf("unknown GENERATOR_MODE %q", cfg.Generator.Mode)
	}

	log.Info("Config loaded",
		"port", cfg.Port,
		"generator_mode", cfg.Generator.Mode,
		"archive_mode", cfg.Adaptive.ArchiveMode,
		"redis", cfg.RedisAddr != "",
		"rabbitmq", cfg.RabbitMQURI != "",
	)
	return cfg, nil
}
