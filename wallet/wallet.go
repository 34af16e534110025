package wallet

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"crashpilot/models"
)

// Wallet is the external balance collaborator. Reserve debits a stake before
// a bet is sequenced; Credit pays out and must be idempotent per ref (the
// engine keys every credit by bet id so a retry can never pay twice).
type Wallet interface {
	Reserve(ctx context.Context, playerID string, amount decimal.Decimal) error
	Credit(ctx context.Context, playerID, ref string, amount decimal.Decimal) error
}

// Memory is an in-process wallet used by the demo surface and tests.
type Memory struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
	credited map[string]bool
	seed     decimal.Decimal
}

// NewMemory returns a wallet that seeds unseen players with the given
// starting balance.
func NewMemory(seed decimal.Decimal) *Memory {
	return &Memory{
		balances: make(map[string]decimal.Decimal),
		credited: make(map[string]bool),
		seed:     seed,
	}
}

func (m *Memory) balance(playerID string) decimal.Decimal {
	if b, ok := m.balances[playerID]; ok {
		return b
	}
	m.balances[playerID] = m.seed
	return m.seed
}

func (m *Memory) Reserve(_ context.Context, playerID string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.balance(playerID)
	if b.LessThan(amount) {
		return models.ErrInsufficientFunds
	}
	m.balances[playerID] = b.Sub(amount)
	return nil
}

func (m *Memory) Credit(_ context.Context, playerID, ref string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.credited[ref] {
		return nil
	}
	m.credited[ref] = true
	m.balances[playerID] = m.balance(playerID).Add(amount)
	return nil
}

// Balance returns the player's current balance, seeding them if unseen.
func (m *Memory) Balance(playerID string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance(playerID)
}
