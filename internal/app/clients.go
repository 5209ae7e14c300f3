package app

import (
	"fmt"

	"github.com/yungbote/adaptivequiz-backend/internal/clients/generator"
	"github.com/yungbote/adaptivequiz-backend/internal/clients/rabbitmq"
	"github.com/yungbote/adaptivequiz-backend/internal/clients/redis"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type Clients struct {
	Generator  generator.Generator
	ArchiveBus redis.ArchiveBus   // nil without REDIS_ADDR
	Events     rabbitmq.Publisher // nil without RABBITMQ_URI
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Generator
	var gen generator.Generator
	switch cfg.Generator.Mode {
	case "openai":
		c, err := generator.NewOpenAI(generator.OpenAIOptions{
			APIKey:  cfg.Generator.OpenAIKey,
			BaseURL: cfg.Generator.OpenAIBaseURL,
			Model:   cfg.Generator.OpenAIModel,
			Timeout: cfg.Generator.Timeout,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init openai generator: %w", err)
		}
		gen = c
	default:
		c, err := generator.NewHTTP(generator.Options{
			BaseURL: cfg.Generator.BaseURL,
			APIKey:  cfg.Generator.APIKey,
			Timeout: cfg.Generator.Timeout,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init http generator: %w", err)
		}
		gen = c
	}

	// Redis
	var bus redis.ArchiveBus
	if cfg.RedisAddr != "" {
		b, err := redis.NewArchiveBus(log, redis.ArchiveBusConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			Channel:  cfg.RedisArchiveChannel,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis archive bus: %w", err)
		}
		bus = b
	}

	// RabbitMQ
	var events rabbitmq.Publisher
	if cfg.RabbitMQURI != "" {
		p, err := rabbitmq.NewEventPublisher(log, cfg.RabbitMQURI, cfg.RabbitMQExchange)
		if err != nil {
			if bus != nil {
				_ = bus.Close()
			}
			return Clients{}, fmt.Errorf("init rabbitmq publisher: %w", err)
		}
		events = p
	}

	return Clients{Generator: gen, ArchiveBus: bus, Events: events}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.ArchiveBus != nil {
		_ = c.ArchiveBus.Close()
	}
	if c.Events != nil {
		c.Events.Close()
	}
}
