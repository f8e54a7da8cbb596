package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/propertyhub/api/internal/config"
	"github.com/propertyhub/api/internal/infrastructure/dynamo"
	jwtinfra "github.com/propertyhub/api/internal/infrastructure/jwt"
	s3infra "github.com/propertyhub/api/internal/infrastructure/s3"
	"github.com/propertyhub/api/internal/infrastructure/sms"
	transporthttp "github.com/propertyhub/api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// Phone-based sessions are the only way in, so a missing JWT secret is
	// fatal rather than a degraded mode.
	jwtProvider, err := jwtinfra.NewProvider(cfg.JWTSecret, config.SessionDuration)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	// S3 store for listing images.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg)

	smsSender, err := sms.NewSenderFromConfig(cfg)
	if err != nil {
		log.Fatalf("SMS sender: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:     dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		PropertyRepo: dynamo.NewPropertyRepo(dynamoClient, cfg.DynamoTables.Properties),
		S3Store:      s3Store,
		SMSSender:    smsSender,
		JWTProvider:  jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
