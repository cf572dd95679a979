// Package wallet holds the player's persistent currency balance, the collaborator
// credited when a game is won.
package wallet

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Crediter is the single capability the game engine needs
type Crediter interface {
	Credit(amount int) error
}

// Wallet is a currency balance that can be credited and spent
type Wallet interface {
	Crediter
	Spend(amount int) error
	Balance() int
}

// MemoryWallet keeps the balance in memory only
type MemoryWallet struct {
	mu      sync.Mutex
	balance int
}

var _ Wallet = (*MemoryWallet)(nil)

// NewMemoryWallet creates a wallet with the given starting balance
func NewMemoryWallet(initial int) *MemoryWallet {
	return &MemoryWallet{balance: initial}
}

func (w *MemoryWallet) Credit(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("credit %d: %w", amount, ErrInvalidAmount)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.balance += amount
	return nil
}

func (w *MemoryWallet) Spend(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("spend %d: %w", amount, ErrInvalidAmount)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.balance < amount {
		return fmt.Errorf("spend %d with balance %d: %w", amount, w.balance, ErrInsufficientFunds)
	}
	w.balance -= amount
	return nil
}

func (w *MemoryWallet) Balance() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balance
}
