package game

import (
	"time"

	"github.com/shopspring/decimal"

	"crashpilot/models"
)

// Ledger holds every bet placed in one round and is the only place a bet's
// terminal state is written. Not safe for concurrent use: the engine owns it
// and serializes all access through its command loop.
type Ledger struct {
	roundID int64
	bets    map[string]*models.Bet
	order   []string // placement order, drives deterministic settlement
	settled bool
}

func NewLedger(roundID int64) *Ledger {
	return &Ledger{
		roundID: roundID,
		bets:    make(map[string]*models.Bet),
	}
}

// Place attaches an active bet to the round. Stake bounds and wallet checks
// happen before the bet reaches the ledger.
func (l *Ledger) Place(bet *models.Bet) {
	bet.RoundID = l.roundID
	bet.Status = models.BetActive
	l.bets[bet.ID] = bet
	l.order = append(l.order, bet.ID)
}

// Get returns the bet with the given id, if it belongs to this round.
func (l *Ledger) Get(betID string) (*models.Bet, bool) {
	b, ok := l.bets[betID]
	return b, ok
}

// CashOut settles a single active bet as a win at the given multiplier.
// Payout is floored to the smallest currency unit so the realized edge is
// never below the sampled one.
func (l *Ledger) CashOut(betID string, multiplier float64, at time.Time) (*models.Bet, error) {
	b, ok := l.bets[betID]
	if !ok {
		return nil, models.ErrBetNotFound
	}
	if b.Settled() {
		return nil, models.ErrBetAlreadySettled
	}
	b.Status = models.BetCashedOut
	b.CashOutMultiplier = multiplier
	b.Payout = Payout(b.Stake, multiplier)
	b.SettledAt = at
	return b, nil
}

// AutoCashOuts settles, in placement order, every active bet whose target is
// within the given multiplier. Each winner is paid exactly its own target.
func (l *Ledger) AutoCashOuts(multiplier float64, at time.Time) []*models.Bet {
	var won []*models.Bet
	for _, id := range l.order {
		b := l.bets[id]
		if b.Status != models.BetActive || b.AutoCashOut <= 0 {
			continue
		}
		if b.AutoCashOut <= multiplier {
			b.Status = models.BetCashedOut
			b.CashOutMultiplier = b.AutoCashOut
			b.Payout = Payout(b.Stake, b.AutoCashOut)
			b.SettledAt = at
			won = append(won, b)
		}
	}
	return won
}

// SettleLosses marks every bet still active as lost with zero payout.
// Idempotent: a second call is a no-op.
func (l *Ledger) SettleLosses(at time.Time) []*models.Bet {
	if l.settled {
		return nil
	}
	l.settled = true
	var lost []*models.Bet
	for _, id := range l.order {
		b := l.bets[id]
		if b.Status != models.BetActive {
			continue
		}
		b.Status = models.BetLost
		b.Payout = decimal.Zero
		b.SettledAt = at
		lost = append(lost, b)
	}
	return lost
}

// RefundAll voids the round: every active bet gets its stake back. Used on
// shutdown and on restart recovery, never during normal play.
func (l *Ledger) RefundAll(at time.Time) []*models.Bet {
	l.settled = true
	var refunded []*models.Bet
	for _, id := range l.order {
		b := l.bets[id]
		if b.Status != models.BetActive {
			continue
		}
		b.Status = models.BetRefunded
		b.Payout = b.Stake
		b.SettledAt = at
		refunded = append(refunded, b)
	}
	return refunded
}

// Bets returns every bet in placement order.
func (l *Ledger) Bets() []models.Bet {
	out := make([]models.Bet, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.bets[id])
	}
	return out
}

// ActiveCount returns the number of bets still awaiting settlement.
func (l *Ledger) ActiveCount() int {
	n := 0
	for _, b := range l.bets {
		if b.Status == models.BetActive {
			n++
		}
	}
	return n
}

// Payout computes stake x multiplier floored to the smallest currency unit.
func Payout(stake decimal.Decimal, multiplier float64) decimal.Decimal {
	return stake.Mul(decimal.NewFromFloat(multiplier)).RoundFloor(2)
}
