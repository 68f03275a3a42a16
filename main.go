package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/mroc/live-display/pkg/config"
	"github.com/mroc/live-display/pkg/metrics"
	"github.com/mroc/live-display/pkg/middleware"
	"github.com/mroc/live-display/repos/store"
	"github.com/mroc/live-display/repos/tba"

	relay "github.com/mroc/live-display/services/relay"
	teams "github.com/mroc/live-display/services/teams"
	webhook "github.com/mroc/live-display/services/webhook"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	logger := cfg.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []option.ClientOption
	if cfg.Firebase.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.Firebase.CredentialsJSON)))
	}

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opts...)
	if err != nil {
		log.Fatalf("error initializing app: %v\n", err)
	}

	firestoreClient, err := firebaseApp.Firestore(ctx)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	m := metrics.New(prometheus.DefaultRegisterer)

	tbaService := tba.NewService(cfg.TBA.BaseURL, cfg.TBA.APIKey, &http.Client{Timeout: cfg.TBA.Timeout}, logger)
	storeService := store.NewService(firestoreClient, logger)

	webhookService := webhook.NewWebhookService(tbaService, storeService, logger, m)
	teamsService := teams.NewTeamsService(storeService, logger)

	hub := relay.NewHub(logger, m)
	go hub.Run()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(cors.New(corsConfig(cfg.Origins())))

	var limiter *middleware.IPRateLimiter
	if cfg.Webhook.RateLimit > 0 {
		limiter = middleware.NewIPRateLimiter(rate.Limit(cfg.Webhook.RateLimit), cfg.Webhook.Burst)
	}

	webhookRouter := router.Group("/webhook/v1")
	webhookRouter.Use(middleware.RateLimit(limiter))

	teamsRouter := router.Group("/teams/v1")
	relayRouter := router.Group("/relay/v1")

	webhook.NewHTTPHandler(webhook.HTTPOptions{
		Service: webhookService,
		Router:  webhookRouter,
	})

	teams.NewHTTPHandler(teams.HTTPOptions{
		Service: teamsService,
		Router:  teamsRouter,
	})

	relay.NewHTTPHandler(relay.HTTPOptions{
		Hub:    hub,
		Router: relayRouter,
	})

	router.GET(cfg.MetricsPath, gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	go func() {
		logger.Info("Listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.Any("error", err))
	}
	hub.Stop()
}

// corsConfig opens the server to the given origins; "*" allows any origin.
func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	return config
}
