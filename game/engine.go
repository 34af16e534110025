package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"crashpilot/models"
	"crashpilot/utils/logger"
	"crashpilot/wallet"
)

// Archive receives round snapshots off the tick path. RoundOpened fires when
// a flight starts, RoundClosed when the round reaches a terminal state.
// Implementations must not block.
type Archive interface {
	RoundOpened(rec models.RoundRecord)
	RoundClosed(rec models.RoundRecord)
}

// Options wires the engine's collaborators and tuning.
type Options struct {
	Curve        Curve
	Sampler      CrashSampler
	Wallet       wallet.Wallet
	Recorder     *Recorder
	Archive      Archive                           // optional
	Publish      func(event string, data interface{}) // optional, must not block
	MinStake     decimal.Decimal
	MaxStake     decimal.Decimal
	WaitDuration time.Duration
	DisplayDelay time.Duration
}

// Engine runs the crash game: one goroutine owns the current round, its
// ledger, and the tick stream that is the only clock that matters. Bets and
// cash-outs from any number of callers are serialized into that same
// sequence, so "did the cash-out arrive before the crash tick" is answered
// by program order alone.
type Engine struct {
	curve        Curve
	sampler      CrashSampler
	wallet       wallet.Wallet
	recorder     *Recorder
	archive      Archive
	publish      func(string, interface{})
	minStake     decimal.Decimal
	maxStake     decimal.Decimal
	waitDuration time.Duration
	displayDelay time.Duration

	cmds     chan command
	done     chan struct{}
	stopOnce sync.Once

	// Owned by the run loop. now and current advance only on ticks; wall
	// clock reads elsewhere never decide settlement.
	round         *models.Round
	ledger        *Ledger
	now           time.Time
	current       float64
	nextID        int64
	lastCountdown int
}

type command interface{ apply(e *Engine) }

type placeBetCmd struct {
	bet   *models.Bet
	reply chan betReply
}

type cashOutCmd struct {
	betID string
	at    float64
	reply chan betReply
}

type betReply struct {
	bet models.Bet
	err error
}

type snapshotCmd struct {
	reply chan Snapshot
}

// Snapshot is the client-visible view of the current round. The crash point
// stays hidden until the round has crashed.
type Snapshot struct {
	RoundID         int64        `json:"roundId"`
	Phase           models.Phase `json:"phase"`
	SeedHash        string       `json:"seedHash"`
	Multiplier      float64      `json:"multiplier"`
	CrashMultiplier float64      `json:"crashMultiplier,omitempty"`
	BettingClosesAt time.Time    `json:"bettingClosesAt,omitempty"`
	Bets            int          `json:"bets"`
}

func NewEngine(opts Options) *Engine {
	if opts.Sampler == nil {
		opts.Sampler = NewFairSampler(0.03, 5000)
	}
	if opts.Recorder == nil {
		opts.Recorder = NewRecorder(200)
	}
	if opts.WaitDuration <= 0 {
		opts.WaitDuration = 5 * time.Second
	}
	if opts.DisplayDelay <= 0 {
		opts.DisplayDelay = 3 * time.Second
	}
	if opts.MinStake.IsZero() {
		opts.MinStake = decimal.NewFromInt(1)
	}
	if opts.MaxStake.IsZero() {
		opts.MaxStake = decimal.NewFromInt(100000)
	}
	return &Engine{
		curve:        opts.Curve,
		sampler:      opts.Sampler,
		wallet:       opts.Wallet,
		recorder:     opts.Recorder,
		archive:      opts.Archive,
		publish:      opts.Publish,
		minStake:     opts.MinStake,
		maxStake:     opts.MaxStake,
		waitDuration: opts.WaitDuration,
		displayDelay: opts.DisplayDelay,
		cmds:         make(chan command, 256),
		done:         make(chan struct{}),
		current:      1.0,
		nextID:       time.Now().Unix(),
	}
}

// Run consumes the tick stream until it closes or Stop is called. The first
// tick opens the first round.
func (e *Engine) Run(ticks <-chan time.Time) {
	for {
		select {
		case <-e.done:
			e.voidRound()
			return
		case t, ok := <-ticks:
			if !ok {
				e.Stop()
				e.voidRound()
				return
			}
			e.onTick(t)
		case c := <-e.cmds:
			c.apply(e)
		}
	}
}

// Stop shuts the engine down; the run loop voids the in-flight round and
// refunds its active bets.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.done) })
}

// Recorder exposes the history log for the read-only surfaces.
func (e *Engine) Recorder() *Recorder {
	return e.recorder
}

// PlaceBet reserves the stake with the wallet and sequences the bet into the
// round. Legal only while the round is waiting; on rejection the stake is
// credited back.
func (e *Engine) PlaceBet(ctx context.Context, playerID string, stake decimal.Decimal, autoCashOut float64) (models.Bet, error) {
	if playerID == "" {
		return models.Bet{}, models.ErrInvalidPlayer
	}
	if stake.LessThan(e.minStake) || stake.GreaterThan(e.maxStake) {
		return models.Bet{}, models.ErrInvalidStake
	}
	if autoCashOut != 0 && autoCashOut <= 1.0 {
		return models.Bet{}, models.ErrInvalidAutoCashOut
	}
	if err := e.wallet.Reserve(ctx, playerID, stake); err != nil {
		return models.Bet{}, err
	}
	bet := &models.Bet{
		ID:          uuid.NewString(),
		PlayerID:    playerID,
		Stake:       stake,
		AutoCashOut: autoCashOut,
		Status:      models.BetActive,
		PlacedAt:    time.Now(),
	}
	reply := make(chan betReply, 1)
	if err := e.send(ctx, placeBetCmd{bet: bet, reply: reply}); err != nil {
		e.creditAsync(playerID, bet.ID, stake)
		return models.Bet{}, err
	}
	placed, err := e.await(reply)
	if err != nil {
		e.creditAsync(playerID, bet.ID, stake)
	}
	return placed, err
}

// CashOut locks in the current multiplier for an active bet. The accepted
// multiplier is min(atMultiplier, multiplier at the last processed tick);
// pass 0 to take whatever the current multiplier is.
func (e *Engine) CashOut(ctx context.Context, betID string, atMultiplier float64) (models.Bet, error) {
	reply := make(chan betReply, 1)
	if err := e.send(ctx, cashOutCmd{betID: betID, at: atMultiplier, reply: reply}); err != nil {
		return models.Bet{}, err
	}
	return e.await(reply)
}

// Snapshot returns the current round as clients may see it.
func (e *Engine) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if err := e.send(ctx, snapshotCmd{reply: reply}); err != nil {
		return Snapshot{}, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-e.done:
		select {
		case s := <-reply:
			return s, nil
		default:
			return Snapshot{}, models.ErrEngineStopped
		}
	}
}

func (e *Engine) send(ctx context.Context, c command) error {
	select {
	case e.cmds <- c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return models.ErrEngineStopped
	}
}

// await waits for the run loop's reply. A stopped engine never drains its
// queue, so the engine's done channel doubles as the abort signal; a reply
// that raced the shutdown is still honored.
func (e *Engine) await(reply chan betReply) (models.Bet, error) {
	select {
	case r := <-reply:
		return r.bet, r.err
	case <-e.done:
		select {
		case r := <-reply:
			return r.bet, r.err
		default:
			return models.Bet{}, models.ErrEngineStopped
		}
	}
}

// --- run-loop internals ---

func (e *Engine) onTick(t time.Time) {
	e.now = t
	if e.round == nil {
		e.startRound(t)
		return
	}
	switch e.round.Phase {
	case models.PhaseWaiting:
		if !t.Before(e.round.BettingClosesAt) {
			e.startFlight(t)
			return
		}
		// Once per second, not per tick.
		remaining := int((e.round.BettingClosesAt.Sub(t) + time.Second - 1) / time.Second)
		if remaining != e.lastCountdown {
			e.lastCountdown = remaining
			e.emit("countdown", map[string]interface{}{
				"roundId": e.round.ID,
				"seconds": remaining,
			})
		}
	case models.PhaseFlying:
		raw := e.curve.At(t.Sub(e.round.FlightStartedAt))
		effective := raw
		if effective > e.round.CrashMultiplier {
			effective = e.round.CrashMultiplier
		}
		e.current = effective
		// Auto cash-outs settle before crash detection: a target equal to
		// the crash point still wins.
		for _, b := range e.ledger.AutoCashOuts(effective, t) {
			e.creditAsync(b.PlayerID, b.ID, b.Payout)
			e.emit("cashed_out", cashOutEvent(b))
		}
		if raw >= e.round.CrashMultiplier {
			e.crash(t)
			return
		}
		e.emit("tick", map[string]interface{}{
			"roundId":    e.round.ID,
			"multiplier": effective,
			"ts":         t.UnixMilli(),
		})
	case models.PhaseCrashed:
		if !t.Before(e.round.CrashedAt.Add(e.displayDelay)) {
			e.settle(t)
		}
	}
}

func (e *Engine) startRound(t time.Time) {
	e.nextID++
	seed, hash := e.sampler.NewSeed()
	e.round = &models.Round{
		ID:              e.nextID,
		Phase:           models.PhaseWaiting,
		ServerSeed:      seed,
		SeedHash:        hash,
		StartedAt:       t,
		BettingClosesAt: t.Add(e.waitDuration),
	}
	e.ledger = NewLedger(e.round.ID)
	e.current = 1.0
	e.lastCountdown = -1
	e.emit("round_started", map[string]interface{}{
		"roundId":         e.round.ID,
		"seedHash":        e.round.SeedHash,
		"bettingClosesAt": e.round.BettingClosesAt,
	})
}

func (e *Engine) startFlight(t time.Time) {
	point := e.sampler.CrashPoint(e.round.ServerSeed, e.round.ID)
	if point < 1.0 {
		// Sampler fault is fatal to this round only: void it and move on.
		logger.Errorf("round %d: sampler returned invalid crash point %v, voiding", e.round.ID, point)
		e.voidRound()
		e.startRound(t)
		return
	}
	e.round.CrashMultiplier = point
	e.round.Phase = models.PhaseFlying
	e.round.FlightStartedAt = t
	e.emit("flight_started", map[string]interface{}{
		"roundId": e.round.ID,
		"ts":      t.UnixMilli(),
	})
	if e.archive != nil {
		e.archive.RoundOpened(e.record(false, false))
	}
}

func (e *Engine) crash(t time.Time) {
	e.round.Phase = models.PhaseCrashed
	e.round.CrashedAt = t
	e.current = e.round.CrashMultiplier
	lost := e.ledger.SettleLosses(t)
	for _, b := range lost {
		e.emit("bet_lost", map[string]interface{}{"betId": b.ID, "roundId": b.RoundID})
	}
	entry := models.HistoryEntry{
		ID:              e.round.ID,
		CrashMultiplier: e.round.CrashMultiplier,
		SeedHash:        e.round.SeedHash,
		ServerSeed:      e.round.ServerSeed,
		CrashedAt:       t,
	}
	e.recorder.Record(entry)
	e.emit("round_crashed", entry)
}

func (e *Engine) settle(t time.Time) {
	e.round.Phase = models.PhaseSettling
	if e.archive != nil {
		e.archive.RoundClosed(e.record(true, false))
	}
	e.startRound(t)
}

// voidRound refunds every active bet and archives the round as voided. Used
// on shutdown and on sampler faults; a flying round is never cancelled any
// other way.
func (e *Engine) voidRound() {
	if e.round == nil {
		return
	}
	if e.round.Phase == models.PhaseCrashed || e.round.Phase == models.PhaseSettling {
		// Already settled on its own; just make sure the archive has the
		// terminal record before the round is dropped.
		if e.archive != nil {
			e.archive.RoundClosed(e.record(true, false))
		}
		e.round = nil
		e.ledger = nil
		return
	}
	at := e.now
	if at.IsZero() {
		at = time.Now()
	}
	refunded := e.ledger.RefundAll(at)
	for _, b := range refunded {
		e.creditAsync(b.PlayerID, b.ID, b.Stake)
	}
	if len(refunded) > 0 {
		logger.Infof("round %d voided, refunded %d bets", e.round.ID, len(refunded))
	}
	e.emit("round_voided", map[string]interface{}{"roundId": e.round.ID})
	if e.archive != nil {
		e.archive.RoundClosed(e.record(true, true))
	}
	e.round = nil
	e.ledger = nil
}

func (e *Engine) record(settled, voided bool) models.RoundRecord {
	return models.RoundRecord{
		Round:   *e.round,
		Bets:    e.ledger.Bets(),
		Settled: settled,
		Voided:  voided,
		SavedAt: time.Now(),
	}
}

func (c placeBetCmd) apply(e *Engine) {
	if e.round == nil || e.round.Phase != models.PhaseWaiting {
		c.reply <- betReply{err: models.ErrRoundNotAcceptingBets}
		return
	}
	e.ledger.Place(c.bet)
	e.emit("bet_placed", map[string]interface{}{
		"betId":    c.bet.ID,
		"roundId":  c.bet.RoundID,
		"playerId": c.bet.PlayerID,
		"stake":    c.bet.Stake,
	})
	c.reply <- betReply{bet: *c.bet}
}

func (c cashOutCmd) apply(e *Engine) {
	if e.round == nil {
		c.reply <- betReply{err: models.ErrBetNotFound}
		return
	}
	switch e.round.Phase {
	case models.PhaseCrashed, models.PhaseSettling:
		c.reply <- betReply{err: models.ErrRoundAlreadyCrashed}
		return
	case models.PhaseWaiting:
		if _, ok := e.ledger.Get(c.betID); !ok {
			c.reply <- betReply{err: models.ErrBetNotFound}
		} else {
			c.reply <- betReply{err: models.ErrRoundNotAcceptingBets}
		}
		return
	}
	m := e.current
	if c.at > 0 && c.at < m {
		m = c.at
	}
	b, err := e.ledger.CashOut(c.betID, m, e.now)
	if err != nil {
		c.reply <- betReply{err: err}
		return
	}
	e.creditAsync(b.PlayerID, b.ID, b.Payout)
	e.emit("cashed_out", cashOutEvent(b))
	c.reply <- betReply{bet: *b}
}

func (c snapshotCmd) apply(e *Engine) {
	if e.round == nil {
		c.reply <- Snapshot{Phase: models.PhaseWaiting, Multiplier: 1.0}
		return
	}
	s := Snapshot{
		RoundID:         e.round.ID,
		Phase:           e.round.Phase,
		SeedHash:        e.round.SeedHash,
		Multiplier:      e.current,
		BettingClosesAt: e.round.BettingClosesAt,
		Bets:            len(e.ledger.Bets()),
	}
	if e.round.Phase == models.PhaseCrashed || e.round.Phase == models.PhaseSettling {
		s.CrashMultiplier = e.round.CrashMultiplier
	}
	c.reply <- s
}

func (e *Engine) emit(event string, data interface{}) {
	if e.publish != nil {
		e.publish(event, data)
	}
}

// creditAsync pays the wallet off the tick path. Credits are keyed by bet id
// so a retry after failure can be replayed safely.
func (e *Engine) creditAsync(playerID, ref string, amount decimal.Decimal) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.wallet.Credit(ctx, playerID, ref, amount); err != nil {
			logger.Errorf("wallet credit failed for bet %s: %v", ref, err)
		}
	}()
}

func cashOutEvent(b *models.Bet) map[string]interface{} {
	return map[string]interface{}{
		"betId":      b.ID,
		"roundId":    b.RoundID,
		"playerId":   b.PlayerID,
		"multiplier": b.CashOutMultiplier,
		"payout":     b.Payout,
	}
}
