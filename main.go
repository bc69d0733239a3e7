package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	v1 "github.com/Incognitol07/expense-tracker-api/internal/controllers/v1"
	"github.com/Incognitol07/expense-tracker-api/internal/models"
	"github.com/Incognitol07/expense-tracker-api/internal/push"
	"github.com/Incognitol07/expense-tracker-api/internal/reconcile"
	"github.com/Incognitol07/expense-tracker-api/internal/router"
	"github.com/Incognitol07/expense-tracker-api/internal/sweep"
	"github.com/Incognitol07/expense-tracker-api/internal/worker"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	apiURL, ok := os.LookupEnv("API_URL")
	if !ok {
		log.Fatal().Msg("environment variable API_URL must be set")
	}

	url, err := url.Parse(apiURL)
	if err != nil {
		log.Fatal().Msg("environment variable API_URL must be a valid URL")
	}

	secret, ok := os.LookupEnv("JWT_SECRET")
	if !ok || secret == "" {
		log.Fatal().Msg("environment variable JWT_SECRET must be set")
	}

	// Without a master key, admin registration is disabled.
	masterKey := os.Getenv("ADMIN_MASTER_KEY")
	if masterKey == "" {
		log.Info().Msg("ADMIN_MASTER_KEY is not set, admin registration is disabled")
	}

	// Create data directory
	dataDir := filepath.Join(".", "data")
	err = os.MkdirAll(dataDir, os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database
	err = models.Connect("data/gorm.db")
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := push.NewHub()
	reconciler := reconcile.NewService(models.DB, hub)
	sweeper := sweep.NewService(models.DB, reconciler)
	queue := worker.NewQueue(256)

	go queue.Start(ctx)
	go sweeper.Start(ctx)

	r, teardown, err := router.Config(url)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer teardown()

	api := v1.New(reconciler, hub, queue, []byte(secret), masterKey)
	router.AttachRoutes(api, r.Group(""))

	port, ok := os.LookupEnv("PORT")
	if !ok {
		port = "8080"
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msg(err.Error())
		}
	}()
	log.Info().Str("port", port).Msg("backend startup complete")

	<-ctx.Done()
	stop()

	// In-flight requests get 25 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Error().Msg(err.Error())
	}

	log.Info().Msg("backend shut down")
}
