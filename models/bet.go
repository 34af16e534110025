package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BetStatus transitions exactly once from "active" to one of the terminal
// states and never reverts.
type BetStatus string

const (
	BetActive    BetStatus = "active"
	BetCashedOut BetStatus = "cashed_out"
	BetLost      BetStatus = "lost"
	BetRefunded  BetStatus = "refunded"
)

// Bet belongs to exactly one round. CashOutMultiplier and Payout are set only
// when Status is cashed_out.
type Bet struct {
	ID                string          `json:"id" bson:"id"`
	RoundID           int64           `json:"roundId" bson:"roundId"`
	PlayerID          string          `json:"playerId" bson:"playerId"`
	Stake             decimal.Decimal `json:"stake" bson:"stake"`
	AutoCashOut       float64         `json:"autoCashOut,omitempty" bson:"autoCashOut"` // 0 = none
	Status            BetStatus       `json:"status" bson:"status"`
	CashOutMultiplier float64         `json:"cashOutMultiplier,omitempty" bson:"cashOutMultiplier"`
	Payout            decimal.Decimal `json:"payout" bson:"payout"`
	PlacedAt          time.Time       `json:"placedAt" bson:"placedAt"`
	SettledAt         time.Time       `json:"settledAt,omitempty" bson:"settledAt"`
}

// Settled reports whether the bet has reached a terminal status.
func (b *Bet) Settled() bool {
	return b.Status != BetActive
}
