package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type walletState struct {
	Balance   int       `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileWallet persists the balance to a JSON file. Mutations only touch memory;
// Save writes them out.
type FileWallet struct {
	mu     sync.RWMutex
	path   string
	state  walletState
	dirty  bool
	logger zerolog.Logger
}

var _ Wallet = (*FileWallet)(nil)

// OpenFileWallet loads the wallet at path, starting from zero if the file does not exist
func OpenFileWallet(path string, logger zerolog.Logger) (*FileWallet, error) {
	w := &FileWallet{
		path:   path,
		logger: logger.With().Str("component", "FileWallet").Str("path", path).Logger(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			w.logger.Debug().Msg("No wallet file yet, starting empty")
			return w, nil
		}
		return nil, fmt.Errorf("reading wallet %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &w.state); err != nil {
		return nil, fmt.Errorf("decoding wallet %s: %w", path, err)
	}
	if w.state.Balance < 0 {
		return nil, fmt.Errorf("wallet %s has negative balance %d", path, w.state.Balance)
	}
	return w, nil
}

func (w *FileWallet) Credit(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("credit %d: %w", amount, ErrInvalidAmount)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Balance += amount
	w.touch()
	w.logger.Info().Int("amount", amount).Int("balance", w.state.Balance).Msg("Wallet credited")
	return nil
}

func (w *FileWallet) Spend(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("spend %d: %w", amount, ErrInvalidAmount)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.Balance < amount {
		return fmt.Errorf("spend %d with balance %d: %w", amount, w.state.Balance, ErrInsufficientFunds)
	}
	w.state.Balance -= amount
	w.touch()
	return nil
}

func (w *FileWallet) Balance() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state.Balance
}

// Dirty reports whether there are changes not yet saved
func (w *FileWallet) Dirty() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dirty
}

// Save writes the balance to disk through a temp file and rename
func (w *FileWallet) Save() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := json.MarshalIndent(w.state, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("creating wallet directory: %w", err)
	}

	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing wallet: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		return fmt.Errorf("replacing wallet: %w", err)
	}

	w.dirty = false
	w.logger.Debug().Int("balance", w.state.Balance).Msg("Wallet saved")
	return nil
}

func (w *FileWallet) touch() {
	w.state.UpdatedAt = time.Now().UTC()
	w.dirty = true
}

// AutoSave credits a FileWallet and saves it straight away
type AutoSave struct {
	w *FileWallet
}

var _ Crediter = (*AutoSave)(nil)

// NewAutoSave wraps w so every credit is persisted
func NewAutoSave(w *FileWallet) *AutoSave {
	return &AutoSave{w: w}
}

func (a *AutoSave) Credit(amount int) error {
	if err := a.w.Credit(amount); err != nil {
		return err
	}
	return a.w.Save()
}
