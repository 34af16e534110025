package game

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"crashpilot/models"
)

func newBet(id string, stake int64, auto float64) *models.Bet {
	return &models.Bet{
		ID:          id,
		PlayerID:    "p-" + id,
		Stake:       decimal.NewFromInt(stake),
		AutoCashOut: auto,
		Status:      models.BetActive,
	}
}

func TestLedger_CashOutOnce(t *testing.T) {
	l := NewLedger(1)
	l.Place(newBet("a", 100, 0))
	now := time.Now()

	b, err := l.CashOut("a", 1.5, now)
	if err != nil {
		t.Fatalf("cash out: %v", err)
	}
	if b.Status != models.BetCashedOut || b.CashOutMultiplier != 1.5 {
		t.Fatalf("bet = %+v", b)
	}
	if !b.Payout.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("payout = %s, want 150", b.Payout)
	}

	if _, err := l.CashOut("a", 2.0, now); err != models.ErrBetAlreadySettled {
		t.Fatalf("second cash out err = %v, want ErrBetAlreadySettled", err)
	}
	if _, err := l.CashOut("missing", 2.0, now); err != models.ErrBetNotFound {
		t.Fatalf("unknown bet err = %v, want ErrBetNotFound", err)
	}
}

func TestLedger_PayoutFloorsToCurrencyUnit(t *testing.T) {
	// 33.33 x 1.27 = 42.3291; floor, never round up.
	got := Payout(decimal.RequireFromString("33.33"), 1.27)
	if !got.Equal(decimal.RequireFromString("42.32")) {
		t.Fatalf("payout = %s, want 42.32", got)
	}
}

func TestLedger_AutoCashOutsInPlacementOrder(t *testing.T) {
	l := NewLedger(1)
	l.Place(newBet("late", 100, 1.8))
	l.Place(newBet("early", 100, 1.2))
	l.Place(newBet("none", 100, 0))

	won := l.AutoCashOuts(1.5, time.Now())
	if len(won) != 1 || won[0].ID != "early" {
		t.Fatalf("won = %v", won)
	}
	if won[0].CashOutMultiplier != 1.2 {
		t.Fatalf("auto cash-out paid %v, want its own target 1.2", won[0].CashOutMultiplier)
	}

	won = l.AutoCashOuts(2.0, time.Now())
	if len(won) != 1 || won[0].ID != "late" {
		t.Fatalf("second pass won = %v", won)
	}
	if b, _ := l.Get("none"); b.Status != models.BetActive {
		t.Fatal("bet without target should remain active")
	}
}

func TestLedger_SettleLossesIdempotent(t *testing.T) {
	l := NewLedger(1)
	l.Place(newBet("a", 100, 0))
	l.Place(newBet("b", 50, 0))
	if _, err := l.CashOut("a", 2.0, time.Now()); err != nil {
		t.Fatal(err)
	}

	lost := l.SettleLosses(time.Now())
	if len(lost) != 1 || lost[0].ID != "b" {
		t.Fatalf("lost = %v", lost)
	}
	if !lost[0].Payout.Equal(decimal.Zero) {
		t.Fatalf("lost payout = %s, want 0", lost[0].Payout)
	}
	if again := l.SettleLosses(time.Now()); again != nil {
		t.Fatalf("second settle returned %v, want nil", again)
	}
}

func TestLedger_RefundAll(t *testing.T) {
	l := NewLedger(1)
	l.Place(newBet("a", 100, 0))
	l.Place(newBet("b", 50, 0))
	if _, err := l.CashOut("a", 1.1, time.Now()); err != nil {
		t.Fatal(err)
	}

	refunded := l.RefundAll(time.Now())
	if len(refunded) != 1 || refunded[0].ID != "b" {
		t.Fatalf("refunded = %v", refunded)
	}
	if !refunded[0].Payout.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("refund payout = %s, want the stake back", refunded[0].Payout)
	}
	if b, _ := l.Get("a"); b.Status != models.BetCashedOut {
		t.Fatal("cashed-out bet must not be touched by a refund")
	}
}

func TestLedger_EveryBetEndsTerminal(t *testing.T) {
	// A bet must always end in exactly one of cashed_out, lost, refunded.
	l := NewLedger(1)
	for _, id := range []string{"a", "b", "c", "d"} {
		l.Place(newBet(id, 10, 0))
	}
	l.CashOut("a", 1.3, time.Now())
	l.SettleLosses(time.Now())
	for _, b := range l.Bets() {
		if b.Status == models.BetActive {
			t.Fatalf("bet %s still active after settlement", b.ID)
		}
	}
	if l.ActiveCount() != 0 {
		t.Fatalf("ActiveCount = %d, want 0", l.ActiveCount())
	}
}
