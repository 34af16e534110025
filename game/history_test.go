package game

import (
	"testing"
	"time"

	"crashpilot/models"
)

func TestRecorder_NewestFirstAndCapped(t *testing.T) {
	r := NewRecorder(5)
	for i := 1; i <= 8; i++ {
		r.Record(models.HistoryEntry{
			ID:              int64(i),
			CrashMultiplier: float64(i),
			CrashedAt:       time.Now(),
		})
	}
	if r.Len() != 5 {
		t.Fatalf("Len = %d, want cap of 5", r.Len())
	}
	recent := r.Recent(3)
	if len(recent) != 3 {
		t.Fatalf("Recent(3) returned %d entries", len(recent))
	}
	for i, want := range []int64{8, 7, 6} {
		if recent[i].ID != want {
			t.Errorf("recent[%d].ID = %d, want %d", i, recent[i].ID, want)
		}
	}
	if all := r.Recent(0); len(all) != 5 {
		t.Errorf("Recent(0) returned %d entries, want all 5", len(all))
	}
}
