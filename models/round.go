package models

import (
	"time"
)

// Phase is the lifecycle stage of a round.
// waiting -> flying -> crashed -> settling -> (next round) waiting
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhaseFlying   Phase = "flying"
	PhaseCrashed  Phase = "crashed"
	PhaseSettling Phase = "settling"
)

// Round is one play cycle of the crash game. CrashMultiplier and ServerSeed
// are never serialized while the round is live; clients only learn them from
// the crash broadcast and the history feed.
type Round struct {
	ID              int64     `json:"id" bson:"id"`
	Phase           Phase     `json:"phase" bson:"phase"`
	CrashMultiplier float64   `json:"-" bson:"crashMultiplier"`
	ServerSeed      string    `json:"-" bson:"serverSeed"`
	SeedHash        string    `json:"seedHash" bson:"seedHash"`
	StartedAt       time.Time `json:"startedAt" bson:"startedAt"`
	BettingClosesAt time.Time `json:"bettingClosesAt" bson:"bettingClosesAt"`
	FlightStartedAt time.Time `json:"flightStartedAt,omitempty" bson:"flightStartedAt"`
	CrashedAt       time.Time `json:"crashedAt,omitempty" bson:"crashedAt"`
}

// HistoryEntry is the immutable snapshot of a completed round, with the
// server seed revealed so the crash point can be verified offline.
type HistoryEntry struct {
	ID              int64     `json:"id" bson:"id"`
	CrashMultiplier float64   `json:"crashMultiplier" bson:"crashMultiplier"`
	SeedHash        string    `json:"seedHash" bson:"seedHash"`
	ServerSeed      string    `json:"serverSeed" bson:"serverSeed"`
	CrashedAt       time.Time `json:"crashedAt" bson:"crashedAt"`
}

// RoundRecord is the archive document written on flight start and replaced on
// settlement: the round plus every bet attached to it.
type RoundRecord struct {
	Round   Round     `json:"round" bson:"round"`
	Bets    []Bet     `json:"bets" bson:"bets"`
	Settled bool      `json:"settled" bson:"settled"`
	Voided  bool      `json:"voided" bson:"voided"`
	SavedAt time.Time `json:"savedAt" bson:"savedAt"`
}
