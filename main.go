package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog/internal/auth"
	intconfig "catalog/internal/config"
	"catalog/internal/db"
	router "catalog/internal/http"
	"catalog/internal/http/handlers"
	"catalog/internal/repositories"
	"catalog/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	env := intconfig.LoadEnv()
	utils.InitLogger(env.LogLevel, env.GinMode)
	if err := env.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	conn := intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 15*time.Second)
	if err := db.EnsureSchema(schemaCtx, conn); err != nil {
		cancelSchema()
		log.Fatal().Err(err).Msg("schema setup failed")
	}
	cancelSchema()

	tokens := auth.NewJWTManager(env.JWTSecret, env.JWTTTL)
	r := router.NewRouter(env, router.Deps{
		Handlers: handlers.Handler{
			Products:   repositories.ProductRepository{DB: conn},
			Categories: repositories.CategoryRepository{DB: conn},
			Users:      repositories.UserRepository{DB: conn},
			Tokens:     tokens,
			Ping:       intconfig.PingDB,
			Missing: func(ctx context.Context) []string {
				return db.MissingTables(ctx, conn)
			},
		},
		Tokens: tokens,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", env.AppAddr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
		return
	}

	log.Info().Msg("server stopped")
}
