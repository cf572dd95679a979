package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/mitchelldurbincs/solarbloom/internal/config"
	"github.com/mitchelldurbincs/solarbloom/internal/game"
	"github.com/mitchelldurbincs/solarbloom/internal/grpc/gameserver"
	"github.com/mitchelldurbincs/solarbloom/internal/httpapi"
	"github.com/mitchelldurbincs/solarbloom/internal/monitoring"
	"github.com/mitchelldurbincs/solarbloom/internal/wallet"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	port := flag.Int("port", -1, "The server port (-1 to use config default)")
	httpPort := flag.Int("http-port", -1, "The HTTP gateway port, 0 disables (-1 to use config default)")
	host := flag.String("host", "", "The server host (empty to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	turnTimeout := flag.Int("turn-timeout", -1, "Per-request timeout in milliseconds (-1 to use config default)")
	maxGames := flag.Int("max-games", -1, "Maximum concurrent games (-1 to use config default)")
	enableReflection := flag.Bool("enable-reflection", false, "Enable gRPC reflection for debugging")
	flag.Parse()

	// Initialize configuration
	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(os.Getenv("APP_ENV")); err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment config")
	}

	cfg := config.Get()
	srvCfg := cfg.Server.GRPCServer

	// Use config defaults if not overridden by flags
	if *port == -1 {
		*port = srvCfg.Port
	}
	if *httpPort == -1 {
		*httpPort = srvCfg.HTTPPort
	}
	if *host == "" {
		*host = srvCfg.Host
	}
	if *logLevel == "" {
		*logLevel = srvCfg.LogLevel
	}
	if *turnTimeout == -1 {
		*turnTimeout = srvCfg.TurnTimeout
	}
	if *maxGames == -1 {
		*maxGames = srvCfg.MaxGames
	}
	if !*enableReflection {
		*enableReflection = srvCfg.EnableReflection
	}

	setupLogging(*logLevel)

	log.Info().
		Int("port", *port).
		Int("http_port", *httpPort).
		Str("host", *host).
		Int("turn_timeout_ms", *turnTimeout).
		Int("max_games", *maxGames).
		Msg("Starting gRPC game server")

	// Win rewards from every session land in one wallet, saved after each credit
	fileWallet, err := wallet.OpenFileWallet(cfg.Wallet.Path, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Wallet.Path).Msg("Failed to open wallet")
	}

	manager := gameserver.NewGameManager(gameserver.ManagerConfig{
		MaxGames:        *maxGames,
		CleanupInterval: time.Duration(srvCfg.CleanupInterval) * time.Second,
		FinishedGameTTL: time.Duration(srvCfg.FinishedGameTTL) * time.Second,
		IdleGameTimeout: time.Duration(srvCfg.IdleGameTimeout) * time.Second,
		MaxGridWidth:    srvCfg.MaxGridWidth,
		MaxGridHeight:   srvCfg.MaxGridHeight,
		Rules:           game.RulesFromConfig(cfg),
		Wallet:          wallet.NewAutoSave(fileWallet),
		Logger:          log.Logger,
	})
	defer manager.Close()

	// Zero interval leaves the monitor passive; /metrics still serves on-demand samples
	monitor := monitoring.NewMonitor(monitoring.Config{
		CheckInterval:  time.Duration(srvCfg.MonitorInterval) * time.Second,
		AlertThreshold: srvCfg.GoroutineAlert,
	}, log.Logger)
	monitor.RegisterGauge("active_games", manager.GetActiveGames)
	monitor.Check()
	if srvCfg.MonitorInterval > 0 {
		monitor.Start()
		defer monitor.Stop()
	}

	config.WatchConfig(func() {
		next := config.Get()
		setupLogging(next.Server.GRPCServer.LogLevel)
		manager.SetRules(game.RulesFromConfig(next))
		log.Info().Str("file", config.ConfigFilePath()).Msg("Configuration reloaded")
	}, func(err error) {
		log.Error().Err(err).Msg("Ignoring invalid configuration change")
	})

	// Create listener
	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", *host, *port))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to listen")
	}

	// Create gRPC server with interceptors
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			loggingInterceptor,
			recoveryInterceptor,
			timeoutInterceptor(time.Duration(*turnTimeout)*time.Millisecond),
		),
	)

	gameService := gameserver.NewServer(manager, log.Logger)
	gameserver.RegisterGameServiceServer(grpcServer, gameService)

	// Register health service
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(gameserver.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	// Register reflection service for debugging
	if *enableReflection {
		reflection.Register(grpcServer)
		log.Info().Msg("gRPC reflection enabled")
	}

	var httpServer *http.Server
	if *httpPort > 0 {
		httpServer = &http.Server{
			Addr:              fmt.Sprintf("%s:%d", *host, *httpPort),
			Handler:           httpapi.NewServer(gameService, log.Logger, httpapi.WithMonitor(monitor)),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Info().Str("address", httpServer.Addr).Msg("HTTP gateway listening")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Failed to serve HTTP")
			}
		}()
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		healthServer.SetServingStatus(gameserver.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

		// Give ongoing requests time to complete
		time.Sleep(time.Duration(config.Get().Server.GRPCServer.GracefulShutdownDelay) * time.Second)

		if httpServer != nil {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("HTTP gateway shutdown failed")
			}
			done()
		}

		log.Info().Msg("Gracefully stopping gRPC server")
		grpcServer.GracefulStop()
		cancel()
	}()

	log.Info().Str("address", lis.Addr().String()).Msg("gRPC server listening")

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve")
		}
	}()

	<-ctx.Done()

	if fileWallet.Dirty() {
		if err := fileWallet.Save(); err != nil {
			log.Error().Err(err).Msg("Failed to save wallet")
		}
	}
	log.Info().Int("wallet_balance", fileWallet.Balance()).Msg("Server shutdown complete")
}

func setupLogging(level string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if os.Getenv("APP_ENV") == "production" {
		// JSON output for production
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
}

// loggingInterceptor logs all unary RPC calls
func loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	code := status.Code(err)
	event := log.Info()
	if code == codes.Internal || code == codes.Unknown {
		event = log.Error()
	}
	event.
		Str("method", info.FullMethod).
		Str("code", code.String()).
		Dur("duration", time.Since(start)).
		Err(err).
		Msg("gRPC call")

	return resp, err
}

// recoveryInterceptor catches panics and returns proper gRPC errors
func recoveryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("method", info.FullMethod).
				Interface("panic", r).
				Msg("Recovered from panic in gRPC handler")
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()

	return handler(ctx, req)
}

// timeoutInterceptor bounds every call by d; zero leaves the client deadline alone
func timeoutInterceptor(d time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if d <= 0 {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return handler(ctx, req)
	}
}
