package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jessevdk/go-flags"
	"github.com/rs/cors"

	usersclient "userconsole/clients/users"
	"userconsole/config"
	"userconsole/core/log"
	"userconsole/handlers"
	"userconsole/middleware"
	usersservice "userconsole/services/users"
	"userconsole/usecases/console"
)

type Options struct {
	Port     string `long:"port" description:"HTTP port to listen on (overrides PORT)"`
	APIURL   string `long:"api-url" description:"Base URL of the users REST API (overrides USERS_API_BASE_URL)"`
	LogLevel string `long:"log-level" description:"Log level: debug, info, warn or error (overrides LOG_LEVEL)"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		log.Error("❌ Fatal error", "error", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(opts Options) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		return err
	}
	defer log.Sync()

	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.AlertConfig{
		WebhookURL:  cfg.AlertConfig.WebhookURL,
		Environment: cfg.Environment,
		AppName:     "userconsole",
		LogsURL:     cfg.AlertConfig.LogsURL,
	})

	usersAPIClient := usersclient.NewUsersAPIClient(cfg.UsersAPIBaseURL, cfg.UsersAPITimeout)
	usersService := usersservice.NewUsersService(usersAPIClient)
	sessions := console.NewSessions(usersService, cfg.SessionIdleTTL)
	defer sessions.CloseAll()

	sessionMiddleware := middleware.NewSessionMiddleware(sessions, cfg.Environment != "dev")
	consoleHandler := handlers.NewConsoleHTTPHandler(sessionMiddleware)
	streamHandler := handlers.NewConsoleStreamHandler(sessions, alertMiddleware, cfg.AllowedOrigins())

	router := mux.NewRouter()
	consoleHandler.SetupEndpoints(router)
	streamHandler.RegisterWithRouter(router)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Periodic eviction of idle console sessions
	stopCleanup := runPeriodically(
		1*time.Minute,
		alertMiddleware.WrapBackgroundTask("CleanupInactiveSessions", sessions.CleanupInactiveSessions),
	)
	defer stopCleanup()

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	log.Info("✅ Users API configured", "base_url", cfg.UsersAPIBaseURL, "timeout", cfg.UsersAPITimeout)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(middleware.RequestLogger(c.Handler(router))),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

// runPeriodically runs task on every tick until the returned stop function is
// called; stop waits for a running task to finish
func runPeriodically(interval time.Duration, task func() error) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = task()
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
		<-finished
	}
}

func applyOverrides(cfg *config.AppConfig, opts Options) {
	if opts.Port != "" {
		cfg.Port = opts.Port
	}
	if opts.APIURL != "" {
		cfg.UsersAPIBaseURL = opts.APIURL
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Info(fmt.Sprintf("✅ Listening on http://localhost%s", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Info("🛑 Shutdown signal received, cleaning up...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("❌ Server shutdown error", "error", err)
		return err
	}

	log.Info("✅ Server stopped gracefully")
	return nil
}
