package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/yungbote/bookforge-backend/internal/learning"
	"github.com/yungbote/bookforge-backend/internal/learning/prompts"
	"github.com/yungbote/bookforge-backend/internal/learning/steps"
	"github.com/yungbote/bookforge-backend/internal/observability"
	"github.com/yungbote/bookforge-backend/internal/platform/envutil"
	"github.com/yungbote/bookforge-backend/internal/platform/logger"
	"github.com/yungbote/bookforge-backend/internal/platform/openai"
	"github.com/yungbote/bookforge-backend/internal/profile"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Observability
	metrics := observability.Init(log)
	if metrics != nil {
		if addr := observability.Addr(); addr != "" {
			metrics.StartServer(ctx, log, addr)
		}
	}
	shutdownTracing := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "bookforge",
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
	})
	if shutdownTracing != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = shutdownTracing(shutdownCtx)
			cancel()
		}()
	}

	// Prompts
	prompts.RegisterAll()

	// Generation service: real client when a key is configured, otherwise an
	// offline generator that exercises the deterministic fallback paths.
	var gen steps.TextGenerator
	if strings.TrimSpace(os.Getenv("OPENAI_API_KEY")) != "" {
		client, err := openai.NewClient(log)
		if err != nil {
			log.Error("Could not init OpenAIClient", "error", err)
			os.Exit(1)
		}
		gen = client
	} else {
		log.Warn("OPENAI_API_KEY not set; running offline with deterministic fallbacks")
		gen = steps.GeneratorFunc(func(ctx context.Context, system, user string) (string, error) {
			return "", fmt.Errorf("offline mode: no generation service configured")
		})
	}

	usecases, err := learning.NewUsecases(learning.Deps{
		Log:      log,
		AI:       gen,
		Profiles: profile.NewStaticSource(),
	})
	if err != nil {
		log.Error("Could not init learning usecases", "error", err)
		os.Exit(1)
	}

	message := envutil.String("BOOKFORGE_MESSAGE", "I want to learn AI product management")
	topic := envutil.String("BOOKFORGE_TOPIC", "")
	userID := envutil.String("BOOKFORGE_USER_ID", "sonu_12")

	result, err := usecases.BuildToC(ctx, learning.BuildRequest{
		UserID:  userID,
		Message: message,
		Topic:   topic,
	})
	if err != nil {
		log.Error("ToC build failed", "error", err)
		os.Exit(1)
	}

	log.Info("ToC build finished",
		"request_id", result.RequestID,
		"intent", string(result.Intent.Intent),
		"plan_from_model", result.PlanFromModel,
		"structure_from_model", result.StructureFromModel,
		"approved", result.Approved,
	)
	fmt.Println(result.Draft)
}
