package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/voxlate/voxlate/internal/adapters/openai"
	"github.com/voxlate/voxlate/internal/config"
	"github.com/voxlate/voxlate/internal/httpserver"
	"github.com/voxlate/voxlate/internal/observability"
	"github.com/voxlate/voxlate/internal/providers"
	"github.com/voxlate/voxlate/internal/redisclient"
	"github.com/voxlate/voxlate/internal/services/transcripts"
	"github.com/voxlate/voxlate/internal/session"
	"github.com/voxlate/voxlate/internal/translate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.Options{})
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var store session.Store
	var redisClient = redisclient.NewOptional(cfg.Redis)
	if redisClient != nil {
		if err := redisclient.Ping(ctx, redisClient); err != nil {
			log.Fatalf("connect redis: %v", err)
		}
		defer redisClient.Close()
		store = session.NewRedisStore(redisClient, cfg.Session.TTL)
	} else {
		log.Println("redis.url not set, keeping session state in memory")
		store = session.NewMemoryStore(cfg.Session.TTL)
	}

	obs, err := observability.Setup(ctx, cfg.Observability)
	if err != nil {
		log.Fatalf("setup observability: %v", err)
	}
	if obs != nil {
		defer obs.Shutdown(ctx)
	}

	speech, err := openai.New(openai.Options{
		APIKey:  cfg.Speech.APIKey,
		BaseURL: cfg.Speech.BaseURL,
	})
	if err != nil {
		log.Fatalf("build speech client: %v", err)
	}

	var chat providers.ChatCompletions = speech
	if cfg.Translator.APIKey != cfg.Speech.APIKey || cfg.Translator.BaseURL != cfg.Speech.BaseURL {
		chatAdapter, err := openai.New(openai.Options{
			APIKey:  cfg.Translator.APIKey,
			BaseURL: cfg.Translator.BaseURL,
		})
		if err != nil {
			log.Fatalf("build translator client: %v", err)
		}
		chat = chatAdapter
	}
	translator := translate.New(chat, cfg.Translator.Model, cfg.Translator.MaxTokens)

	svc := transcripts.New(store, speech, translator, transcripts.Options{
		SpeechModel:       cfg.Speech.Model,
		StagingDir:        cfg.Audio.StagingDir,
		AllowedExtensions: cfg.Audio.AllowedExtensions,
		MaxUploadBytes:    int64(cfg.Audio.MaxUploadMB) * 1024 * 1024,
	})

	server, err := httpserver.New(httpserver.Deps{
		Config:        cfg,
		Service:       svc,
		Redis:         redisClient,
		Observability: obs,
	})
	if err != nil {
		log.Fatalf("construct server: %v", err)
	}

	log.Printf("voxlated listening on %s", cfg.Server.ListenAddr)
	if err := server.Listen(ctx); err != nil && err != context.Canceled {
		log.Fatalf("server stopped: %v", err)
	}
}
