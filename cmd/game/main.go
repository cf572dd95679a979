package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/solarbloom/internal/config"
	"github.com/mitchelldurbincs/solarbloom/internal/game"
	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
	"github.com/mitchelldurbincs/solarbloom/internal/game/events"
	"github.com/mitchelldurbincs/solarbloom/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/solarbloom/internal/game/processor"
	"github.com/mitchelldurbincs/solarbloom/internal/wallet"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	seed := flag.Int64("seed", 0, "RNG seed for the scripted human (0 for time based)")
	maxTurns := flag.Int("max-turns", -1, "Turns to play before stopping (-1 to use config default)")
	walletPath := flag.String("wallet", "", "Wallet file (empty to use config default)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(os.Getenv("APP_ENV")); err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment config")
	}
	cfg := config.Get()

	if *maxTurns == -1 {
		*maxTurns = cfg.Server.GameServer.Demo.MaxTurns
	}
	if *walletPath == "" {
		*walletPath = cfg.Wallet.Path
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *seed, *maxTurns, *walletPath); err != nil {
		log.Fatal().Err(err).Msg("Demo failed")
	}
}

func run(ctx context.Context, cfg *config.Config, seed int64, maxTurns int, walletPath string) error {
	w, err := wallet.OpenFileWallet(walletPath, log.Logger)
	if err != nil {
		return fmt.Errorf("opening wallet: %w", err)
	}

	bus := events.NewEventBus(log.Logger)
	eventLogger := subscribers.NewLoggerSubscriber("demo-event-logger", log.Logger, zerolog.DebugLevel)
	eventLogger.SetDevMode(cfg.Development.VerboseLogging)
	bus.Subscribe(eventLogger)

	g, err := game.NewEngine(ctx, game.GameConfig{
		Rules:    game.RulesFromConfig(cfg),
		Logger:   log.Logger,
		EventBus: bus,
		Wallet:   w,
	})
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	board := g.Board
	if cfg.Development.ShowAllTiles {
		board = g.RevealedBoard
	}

	fmt.Printf("Game seed: %d\n", seed)
	fmt.Printf("Wallet balance: %d\n", w.Balance())
	fmt.Printf("Initial board:\n%s\n", board())

	rng := rand.New(rand.NewSource(seed))
	proc := processor.NewActionProcessor(log.Logger)

	for turn := 0; turn < maxTurns && !g.IsGameOver(); turn++ {
		actions := append(game.GenerateRandomActions(g, rng), &core.EndTurnAction{})

		results, err := proc.Process(ctx, g, actions)
		if ctx.Err() != nil {
			log.Warn().Int("turn", g.Turn()).Msg("Demo interrupted")
			break
		}

		applied := 0
		for _, r := range results {
			if r.Applied {
				applied++
			}
		}
		if err != nil {
			log.Debug().Err(err).Int("turn", g.Turn()).Msg("Some scripted actions were rejected")
		}

		if turn%5 == 0 || g.IsGameOver() {
			fmt.Printf("Turn %d (actions: %d, applied: %d):\n%s", turn+1, len(actions), applied, board())
			stats := g.AllStats()
			for _, f := range core.Factions {
				s := stats.Get(f)
				fmt.Printf("%-5s king %3d | coins %3d | units %d/%d\n", f, s.KingHP, s.Coins, s.Units, s.MaxUnits)
			}
			fmt.Println()
		}
	}

	switch g.Outcome() {
	case core.OutcomeWin:
		fmt.Printf("Victory on turn %d!\n", g.Turn())
	case core.OutcomeLose:
		fmt.Printf("Defeat on turn %d.\n", g.Turn())
	default:
		fmt.Printf("Game reached maximum turns (%d)\n", maxTurns)
	}
	fmt.Printf("\nFinal board:\n%s", board())

	if w.Dirty() {
		if err := w.Save(); err != nil {
			return fmt.Errorf("saving wallet: %w", err)
		}
		fmt.Printf("Wallet balance: %d (saved to %s)\n", w.Balance(), walletPath)
	}
	return nil
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Server.GameServer.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if cfg.Development.VerboseLogging {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Server.GameServer.LogFormat == "json" || os.Getenv("APP_ENV") == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
}
