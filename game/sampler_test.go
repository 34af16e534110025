package game

import (
	"testing"
)

func TestFairSampler_Deterministic(t *testing.T) {
	s := NewFairSampler(0.03, 5000)
	seed, hash := s.NewSeed()
	if seed == "" || hash == "" {
		t.Fatal("NewSeed returned empty seed or hash")
	}
	if SeedHash(seed) != hash {
		t.Fatal("hash does not commit to seed")
	}
	a := s.CrashPoint(seed, 42)
	b := s.CrashPoint(seed, 42)
	if a != b {
		t.Fatalf("same seed and round gave %v and %v", a, b)
	}
}

func TestFairSampler_Verify(t *testing.T) {
	s := NewFairSampler(0.03, 5000)
	seed, hash := s.NewSeed()
	point := s.CrashPoint(seed, 7)
	if !s.Verify(seed, hash, 7, point) {
		t.Fatal("genuine round failed verification")
	}
	if s.Verify("deadbeef", hash, 7, point) {
		t.Fatal("wrong seed passed verification")
	}
	if s.Verify(seed, hash, 8, point) {
		t.Fatal("wrong round id passed verification")
	}
}

func TestFairSampler_Clamps(t *testing.T) {
	s := NewFairSampler(0.03, 10)
	sawInstant := false
	for i := 0; i < 20_000; i++ {
		seed, _ := s.NewSeed()
		p := s.CrashPoint(seed, int64(i))
		if p < 1.0 {
			t.Fatalf("crash point %v below 1.0", p)
		}
		if p > 10 {
			t.Fatalf("crash point %v above max", p)
		}
		if p == 1.0 {
			sawInstant = true
		}
	}
	if !sawInstant {
		t.Error("instant crashes never occurred; distribution looks wrong")
	}
}

func TestFairSampler_Distribution(t *testing.T) {
	// P(crash >= m) should be (1 - edge) / m.
	s := NewFairSampler(0.03, 100000)
	const rounds = 200_000
	over2, over10 := 0, 0
	for i := 0; i < rounds; i++ {
		seed, _ := s.NewSeed()
		p := s.CrashPoint(seed, int64(i))
		if p >= 2.0 {
			over2++
		}
		if p >= 10.0 {
			over10++
		}
	}
	if got, want := float64(over2)/rounds, 0.485; got < want-0.01 || got > want+0.01 {
		t.Errorf("P(crash >= 2) = %.4f, want ~%.3f", got, want)
	}
	if got, want := float64(over10)/rounds, 0.097; got < want-0.01 || got > want+0.01 {
		t.Errorf("P(crash >= 10) = %.4f, want ~%.3f", got, want)
	}
}

func TestFairSampler_HouseEdgeConvergence(t *testing.T) {
	// A player who always cashes out at 2.00 should realize a long-run
	// return of (1 - houseEdge) regardless of that choice of target.
	s := NewFairSampler(0.03, 100000)
	const rounds = 200_000
	staked, paid := 0.0, 0.0
	for i := 0; i < rounds; i++ {
		seed, _ := s.NewSeed()
		staked += 1.0
		if s.CrashPoint(seed, int64(i)) >= 2.0 {
			paid += 2.0
		}
	}
	rtp := paid / staked
	if rtp < 0.95 || rtp > 0.99 {
		t.Errorf("realized RTP %.4f, want ~0.97", rtp)
	}
}
