package game

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
)

// CrashSampler produces the terminal multiplier for a round. The seed is
// committed (by hash) before betting closes and revealed after the crash, so
// the sampled point can be verified offline.
type CrashSampler interface {
	NewSeed() (seed, hash string)
	CrashPoint(seed string, roundID int64) float64
}

// FairSampler realizes a long-run return-to-player of (1 - HouseEdge):
// P(crash point >= m) = (1 - HouseEdge) / m for m >= 1.
type FairSampler struct {
	HouseEdge float64
	MaxCrash  float64
}

func NewFairSampler(houseEdge, maxCrash float64) *FairSampler {
	if houseEdge <= 0 || houseEdge >= 1 {
		houseEdge = 0.03
	}
	if maxCrash <= 1 {
		maxCrash = 5000.0
	}
	return &FairSampler{HouseEdge: houseEdge, MaxCrash: maxCrash}
}

// NewSeed returns a fresh 32-byte CSPRNG seed and its SHA-256 commitment.
func (s *FairSampler) NewSeed() (string, string) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the host entropy source is broken;
		// an instant crash pays nobody more than the house owes.
		return "", ""
	}
	seed := hex.EncodeToString(b)
	return seed, SeedHash(seed)
}

// SeedHash is the public commitment for a server seed.
func SeedHash(seed string) string {
	h := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(h[:])
}

// CrashPoint derives the round's terminal multiplier from the seed and round
// id. Deterministic: the same seed and round id always give the same point,
// which is what makes the commit-then-reveal scheme verifiable.
func (s *FairSampler) CrashPoint(seed string, roundID int64) float64 {
	if seed == "" {
		return 1.0
	}
	u := deriveFloat64(seed, roundID)
	// Inverse transform of P(X >= m) = (1-edge)/m.
	p := (1 - s.HouseEdge) / (1 - u)
	p = math.Floor(p*100) / 100
	if p < 1.0 {
		p = 1.0
	}
	if p > s.MaxCrash {
		p = s.MaxCrash
	}
	return p
}

// deriveFloat64 maps HMAC-SHA256(seed, roundID) to a uniform float in [0, 1).
func deriveFloat64(seed string, roundID int64) float64 {
	mac := hmac.New(sha256.New, []byte(seed))
	mac.Write([]byte(fmt.Sprintf("round|%d", roundID)))
	sum := mac.Sum(nil)
	n := new(big.Int).SetBytes(sum[:8])
	max := new(big.Int).Lsh(big.NewInt(1), 64)
	f, _ := new(big.Rat).SetFrac(n, max).Float64()
	return f
}

// Verify recomputes the crash point for a revealed seed and reports whether
// it matches the published commitment and result.
func (s *FairSampler) Verify(seed, hash string, roundID int64, crashPoint float64) bool {
	if SeedHash(seed) != hash {
		return false
	}
	return s.CrashPoint(seed, roundID) == crashPoint
}
