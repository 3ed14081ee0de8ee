package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"window_comfort/internal/config"
	"window_comfort/internal/handlers"
	"window_comfort/internal/hass"
	"window_comfort/internal/logger"
	"window_comfort/internal/repository"
	"window_comfort/internal/server"
	"window_comfort/internal/service"

	"github.com/spf13/viper"

	_ "window_comfort/docs"
)

// defaultTick is the period of the condition check.
const defaultTick = 60 * time.Second

// @title           window_comfort API
// @version         1.0
// @description     Temperature/window notification rule: state, event log, and manual overrides.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// validate the rule section; the rule never runs partially configured
	rule, err := config.ParseRule(viper.GetStringMap("rule"))
	if err != nil {
		log.Fatalw("invalid rule configuration", "err", err)
	}

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(db)
	host := hass.New(viper.GetString("hass.url"), viper.GetString("hass.token"))
	services := service.NewService(service.Deps{
		Rule:       rule,
		Repos:      repos,
		States:     host,
		Sender:     host,
		Log:        log,
		SigningKey: viper.GetString("auth.signing_key"),
	})
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// deliver notification-action events to the feedback handler
	stream := hass.NewEventStream(viper.GetString("hass.url"), viper.GetString("hass.token"), logger.Named("hass.events"))
	stream.OnAction(func(ctx context.Context, action string) {
		services.Feedback.HandleAction(ctx, action)
	})
	go stream.Run(ctx)

	// start the periodic condition check
	go services.Watcher.Run(ctx, defaultTick)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	// the long-lived host token never lives in the config file
	if err := viper.BindEnv("hass.token", "HASS_TOKEN"); err != nil {
		return err
	}
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		dbPath = "app.db"
	}
	return repository.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
