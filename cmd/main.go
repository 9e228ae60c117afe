// Led-server drives a single LED over HTTP and WebSocket.
//
// Usage:
//
//	led-server [--config configs/config.yml] [--port 8080] [--log-level debug]
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "controlling_led/docs"
	"controlling_led/internal/actuator"
	"controlling_led/internal/config"
	"controlling_led/internal/discovery"
	"controlling_led/internal/handlers"
	"controlling_led/internal/logger"
	"controlling_led/internal/network"
	"controlling_led/internal/registry"
	"controlling_led/internal/repository"
	"controlling_led/internal/repository/db"
	"controlling_led/internal/server"
	"controlling_led/internal/service"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=v1.2.3".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var (
	configPath string
	logLevel   string
	port       int
)

var rootCmd = &cobra.Command{
	Use:   "led-server",
	Short: "LED control endpoint",
	Long: `Serves a control page and drives a single LED.

Clients change the LED with POST /led or over the /wsled WebSocket; every
connected WebSocket client is notified of each change.`,
	Example: `  # Run with configs/config.yml and defaults
  led-server

  # Override the port and log level
  led-server --port 80 --log-level debug`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("led-server %s\n", version)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default configs/config.yml)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().IntVar(&port, "port", 0, "HTTP port")

	rootCmd.AddCommand(versionCmd)
}

// @title        LED control API
// @version      1.0
// @description  Drive a single LED over HTTP and WebSocket.
// @BasePath     /
func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = port
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	// init logger
	log := logger.Get(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	// context for background work
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Network.Wait {
		nm := network.NewManager(nil, cfg.Network.MaxRetries, cfg.Network.RetryInterval, nil, log)
		if err := nm.WaitUntilUp(ctx); err != nil {
			return fmt.Errorf("wait for network: %w", err)
		}
	}

	// open LED
	pin, err := openPin(cfg.LED, log)
	if err != nil {
		return err
	}
	state, err := actuator.NewState(pin, cfg.LED.Initial)
	if err != nil {
		return fmt.Errorf("initialise led: %w", err)
	}

	// open event log
	conn, err := openDB(cfg.DB.Path, log)
	if err != nil {
		return fmt.Errorf("init sqlite: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, state, clockwork.NewRealClock(), log)
	clients := registry.New(log)
	apiHandler := handlers.NewHandler(services, clients, log, handlers.Options{
		MaxBodyBytes:    cfg.HTTP.MaxBodyBytes,
		MaxMessageBytes: cfg.WS.MaxMessageBytes,
		WriteWait:       cfg.WS.WriteWait,
		PongWait:        cfg.WS.PongWait,
	})

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Addr(), cfg.HTTP.ReadTimeout, apiHandler, log)
	log.Infow("server started", "port", cfg.Port, "led_driver", cfg.LED.Driver, "led_pin", cfg.LED.Pin, "initial", cfg.LED.Initial)

	// advertise <host_name>.local
	var adv *discovery.Advertiser
	if cfg.MDNS.Enabled {
		adv = discovery.NewAdvertiser(cfg.MDNS.Instance, cfg.MDNS.Service, cfg.Port, log)
		if err := adv.AdvertiseName(cfg.HostName); err != nil {
			log.Warnw("mdns advertisement failed", "err", err, "host_name", cfg.HostName)
		}
	}

	// graceful shutdown
	waitForShutdown(cancel, srv, adv, log)
	return nil
}

// openPin selects the LED driver from configuration.
func openPin(cfg config.LEDConfig, log *logger.Logger) (actuator.Actuator, error) {
	switch cfg.Driver {
	case config.DriverGPIO:
		pin, err := actuator.OpenGPIOPin(cfg.Pin, cfg.ActiveLow)
		if err != nil {
			return nil, fmt.Errorf("open gpio %d: %w", cfg.Pin, err)
		}
		return pin, nil
	default:
		log.Infow("using in-memory led pin", "pin", cfg.Pin)
		return actuator.NewMemoryPin(cfg.Pin, cfg.ActiveLow), nil
	}
}

// openDB initializes the SQLite event log.
func openDB(path string, log *logger.Logger) (*sql.DB, error) {
	if path == "" {
		log.Infow("db.path not set in config; keeping event log in memory")
	}
	return db.InitDB(path)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, addr string, readTimeout time.Duration, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(addr, handler.InitRoutes(), readTimeout); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, adv *discovery.Advertiser, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// withdraw the mDNS name first so clients stop resolving us
	if adv != nil {
		adv.Shutdown()
	}

	// stop background work
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
