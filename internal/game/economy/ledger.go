package economy

import (
	"fmt"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
)

// Account is one faction's economy
type Account struct {
	Coins    int
	MaxUnits int
}

// Ledger tracks coins and unit caps for both factions. Debits that would
// overdraw an account are rejected rather than clamped.
type Ledger struct {
	accounts core.PerFaction[Account]
}

// NewLedger creates a ledger with both factions starting from the same account
func NewLedger(startingCoins, startingUnitCap int) *Ledger {
	return &Ledger{
		accounts: core.NewPerFaction(Account{Coins: startingCoins, MaxUnits: startingUnitCap}),
	}
}

// Account returns a copy of f's account
func (l *Ledger) Account(f core.Faction) Account { return l.accounts.Get(f) }

func (l *Ledger) Coins(f core.Faction) int    { return l.accounts.Ptr(f).Coins }
func (l *Ledger) MaxUnits(f core.Faction) int { return l.accounts.Ptr(f).MaxUnits }

// CanAfford reports whether f holds at least amount coins
func (l *Ledger) CanAfford(f core.Faction, amount int) bool {
	return l.accounts.Ptr(f).Coins >= amount
}

// Debit removes amount coins from f. The account is untouched on error.
func (l *Ledger) Debit(f core.Faction, amount int) error {
	if amount < 0 {
		return fmt.Errorf("debit of negative amount %d", amount)
	}
	acct := l.accounts.Ptr(f)
	if acct.Coins < amount {
		return fmt.Errorf("%s has %d coins, needs %d: %w", f, acct.Coins, amount, core.ErrInsufficientCoins)
	}
	acct.Coins -= amount
	return nil
}

// Credit adds amount coins to f
func (l *Ledger) Credit(f core.Faction, amount int) {
	l.accounts.Ptr(f).Coins += amount
}

// SetCoins overwrites f's balance. Used by scenario setup.
func (l *Ledger) SetCoins(f core.Faction, coins int) {
	l.accounts.Ptr(f).Coins = coins
}

// GrowUnitCap raises f's unit cap by n. Caps never shrink.
func (l *Ledger) GrowUnitCap(f core.Faction, n int) {
	if n <= 0 {
		return
	}
	l.accounts.Ptr(f).MaxUnits += n
}

// HasUnitCapacity reports whether f may field another unit given its current count
func (l *Ledger) HasUnitCapacity(f core.Faction, current int) bool {
	return current < l.accounts.Ptr(f).MaxUnits
}

// Clone returns a copy of the ledger
func (l *Ledger) Clone() *Ledger {
	return &Ledger{accounts: l.accounts}
}
