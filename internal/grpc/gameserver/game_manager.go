package gameserver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	gameengine "github.com/mitchelldurbincs/solarbloom/internal/game"
	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
	"github.com/mitchelldurbincs/solarbloom/internal/game/processor"
	"github.com/mitchelldurbincs/solarbloom/internal/wallet"
)

var (
	ErrServerAtCapacity = errors.New("server at capacity")
	ErrGameNotFound     = errors.New("game not found")
	ErrGridTooLarge     = errors.New("grid too large")
)

// Default cleanup timings, used when ManagerConfig leaves them zero
const (
	defaultCleanupInterval = 5 * time.Minute
	defaultFinishedGameTTL = 10 * time.Minute
	defaultIdleGameTimeout = time.Hour
)

// Default upper bound on client-requested boards
const (
	defaultMaxGridWidth  = 64
	defaultMaxGridHeight = 64
)

// ManagerConfig configures a GameManager
type ManagerConfig struct {
	// MaxGames caps concurrent sessions; zero means unlimited
	MaxGames int
	// CleanupInterval is how often sessions are swept; negative disables the sweeper
	CleanupInterval time.Duration
	FinishedGameTTL time.Duration
	IdleGameTimeout time.Duration
	// MaxGridWidth and MaxGridHeight bound per-session board sizes; zero takes defaults
	MaxGridWidth  int
	MaxGridHeight int

	// Rules is the base ruleset; sessions may override the board size
	Rules  gameengine.Rules
	Wallet wallet.Crediter
	Logger zerolog.Logger
}

// gameInstance is one single-player session. mu is held for the whole of
// every command so commands against a session run one at a time.
type gameInstance struct {
	id     string
	engine *gameengine.Engine
	mu     sync.Mutex

	processor   *processor.ActionProcessor
	idempotency *IdempotencyManager

	createdAt    time.Time
	lastActivity time.Time
}

// GameManager manages all active sessions
type GameManager struct {
	mu     sync.RWMutex
	games  map[string]*gameInstance
	cfg    ManagerConfig
	logger zerolog.Logger

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewGameManager creates a manager and starts its cleanup goroutine
func NewGameManager(cfg ManagerConfig) *GameManager {
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = defaultCleanupInterval
	}
	if cfg.FinishedGameTTL <= 0 {
		cfg.FinishedGameTTL = defaultFinishedGameTTL
	}
	if cfg.IdleGameTimeout <= 0 {
		cfg.IdleGameTimeout = defaultIdleGameTimeout
	}
	if cfg.MaxGridWidth <= 0 {
		cfg.MaxGridWidth = defaultMaxGridWidth
	}
	if cfg.MaxGridHeight <= 0 {
		cfg.MaxGridHeight = defaultMaxGridHeight
	}
	if cfg.Rules == (gameengine.Rules{}) {
		cfg.Rules = gameengine.DefaultRules()
	}

	gm := &GameManager{
		games:  make(map[string]*gameInstance),
		cfg:    cfg,
		logger: cfg.Logger.With().Str("component", "GameManager").Logger(),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	if cfg.CleanupInterval > 0 {
		go gm.runCleanup()
	} else {
		close(gm.done)
	}

	return gm
}

// Close stops the cleanup goroutine and waits for it to exit
func (gm *GameManager) Close() {
	gm.stopOnce.Do(func() { close(gm.stop) })
	<-gm.done
}

// CreateOptions are per-session overrides of the base rules
type CreateOptions struct {
	Width  int
	Height int
}

// CreateGame bootstraps a new session
func (gm *GameManager) CreateGame(ctx context.Context, opts CreateOptions) (*gameInstance, error) {
	gm.mu.RLock()
	currentGames := len(gm.games)
	r := gm.cfg.Rules
	gm.mu.RUnlock()
	if gm.cfg.MaxGames > 0 && currentGames >= gm.cfg.MaxGames {
		gm.logger.Warn().
			Int("current_games", currentGames).
			Int("max_games", gm.cfg.MaxGames).
			Msg("Rejecting game creation - server at capacity")
		return nil, fmt.Errorf("%w: %d/%d games active", ErrServerAtCapacity, currentGames, gm.cfg.MaxGames)
	}

	if opts.Width > 0 {
		r.Width = opts.Width
	}
	if opts.Height > 0 {
		r.Height = opts.Height
	}
	if r.Width > gm.cfg.MaxGridWidth || r.Height > gm.cfg.MaxGridHeight {
		return nil, fmt.Errorf("%w: %dx%d, maximum is %dx%d",
			ErrGridTooLarge, r.Width, r.Height, gm.cfg.MaxGridWidth, gm.cfg.MaxGridHeight)
	}

	gameID := uuid.NewString()
	engine, err := gameengine.NewEngine(ctx, gameengine.GameConfig{
		Rules:  r,
		GameID: gameID,
		Logger: gm.cfg.Logger,
		Wallet: gm.cfg.Wallet,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start engine: %w", err)
	}

	now := time.Now()
	game := &gameInstance{
		id:           gameID,
		engine:       engine,
		processor:    processor.NewActionProcessor(gm.cfg.Logger),
		idempotency:  NewIdempotencyManager(),
		createdAt:    now,
		lastActivity: now,
	}

	// Re-check under the write lock; concurrent creates may have raced past the first check
	gm.mu.Lock()
	if gm.cfg.MaxGames > 0 && len(gm.games) >= gm.cfg.MaxGames {
		n := len(gm.games)
		gm.mu.Unlock()
		return nil, fmt.Errorf("%w: %d/%d games active", ErrServerAtCapacity, n, gm.cfg.MaxGames)
	}
	gm.games[gameID] = game
	currentCount := len(gm.games)
	gm.mu.Unlock()

	gm.logger.Info().
		Str("game_id", gameID).
		Int("current_games", currentCount).
		Int("max_games", gm.cfg.MaxGames).
		Int("width", r.Width).
		Int("height", r.Height).
		Msg("Successfully created new game")

	return game, nil
}

// SetRules replaces the base ruleset for sessions created from now on
func (gm *GameManager) SetRules(r gameengine.Rules) {
	gm.mu.Lock()
	gm.cfg.Rules = r
	gm.mu.Unlock()
	gm.logger.Info().Int("width", r.Width).Int("height", r.Height).Msg("Base rules updated")
}

// GetGame retrieves a session by ID
func (gm *GameManager) GetGame(gameID string) (*gameInstance, bool) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	game, exists := gm.games[gameID]
	return game, exists
}

// DeleteGame removes a session; it reports whether one existed
func (gm *GameManager) DeleteGame(gameID string) bool {
	gm.mu.Lock()
	_, exists := gm.games[gameID]
	delete(gm.games, gameID)
	remaining := len(gm.games)
	gm.mu.Unlock()

	if exists {
		gm.logger.Info().Str("game_id", gameID).Int("remaining", remaining).Msg("Game deleted")
	}
	return exists
}

// GetActiveGames returns the number of sessions held in memory
func (gm *GameManager) GetActiveGames() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

// runCleanup periodically removes finished and abandoned sessions
func (gm *GameManager) runCleanup() {
	defer close(gm.done)
	defer func() {
		if r := recover(); r != nil {
			gm.logger.Error().
				Interface("panic", r).
				Msg("Game cleanup goroutine panicked")
		}
	}()

	ticker := time.NewTicker(gm.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.stop:
			return
		case <-ticker.C:
			gm.cleanupGames(time.Now())
		}
	}
}

// cleanupGames removes finished sessions past their TTL and idle ones past the timeout
func (gm *GameManager) cleanupGames(now time.Time) int {
	// Collect references without holding the manager lock while taking session locks
	gm.mu.RLock()
	gameRefs := make([]*gameInstance, 0, len(gm.games))
	for _, game := range gm.games {
		gameRefs = append(gameRefs, game)
	}
	gm.mu.RUnlock()

	var toDelete []string
	for _, game := range gameRefs {
		game.mu.Lock()
		inactive := now.Sub(game.lastActivity)
		finished := game.engine.IsGameOver()
		createdAt := game.createdAt
		game.mu.Unlock()

		reason := ""
		switch {
		case finished && inactive > gm.cfg.FinishedGameTTL:
			reason = "finished game TTL expired"
		case !finished && inactive > gm.cfg.IdleGameTimeout:
			reason = "game abandoned (no activity)"
		default:
			continue
		}

		toDelete = append(toDelete, game.id)
		gm.logger.Info().
			Str("game_id", game.id).
			Str("reason", reason).
			Dur("age", now.Sub(createdAt)).
			Dur("inactive", inactive).
			Msg("Cleaning up game")
	}

	if len(toDelete) == 0 {
		return 0
	}

	gm.mu.Lock()
	for _, gameID := range toDelete {
		delete(gm.games, gameID)
	}
	remainingCount := len(gm.games)
	gm.mu.Unlock()

	gm.logger.Info().
		Int("cleaned", len(toDelete)).
		Int("remaining", remainingCount).
		Msg("Game cleanup completed")

	return len(toDelete)
}

// Game instance methods

// withEngine runs fn while holding the session lock and marks the session active
func (g *gameInstance) withEngine(fn func(e *gameengine.Engine) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastActivity = time.Now()
	return fn(g.engine)
}

// apply runs one command against the session. Caller holds the session lock.
func (g *gameInstance) apply(ctx context.Context, action core.Action) (processor.Result, error) {
	results, err := g.processor.Process(ctx, g.engine, []core.Action{action})
	if err != nil {
		return processor.Result{}, err
	}
	if len(results) == 0 {
		return processor.Result{}, fmt.Errorf("%w: game %s", core.ErrGameOver, g.id)
	}
	return results[0], nil
}
