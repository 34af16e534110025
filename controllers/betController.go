package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"crashpilot/game"
	"crashpilot/models"
)

type placeBetRequest struct {
	PlayerID    string          `json:"playerId" binding:"required"`
	Stake       decimal.Decimal `json:"stake"`
	AutoCashOut float64         `json:"autoCashOut"`
}

type cashOutRequest struct {
	AtMultiplier float64 `json:"atMultiplier"`
}

// PlaceBetHandler sequences a bet into the current round.
func PlaceBetHandler(engine *game.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req placeBetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		bet, err := engine.PlaceBet(c.Request.Context(), req.PlayerID, req.Stake, req.AutoCashOut)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"bet": bet})
	}
}

// CashOutHandler locks in the current multiplier for a flying bet.
func CashOutHandler(engine *game.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		betID := c.Param("id")
		if betID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bet id required"})
			return
		}
		var req cashOutRequest
		_ = c.ShouldBindJSON(&req) // body optional
		bet, err := engine.CashOut(c.Request.Context(), betID, req.AtMultiplier)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"bet":        bet,
			"multiplier": bet.CashOutMultiplier,
			"payout":     bet.Payout,
		})
	}
}

// statusFor maps the engine's error taxonomy onto HTTP statuses: validation
// 400, timing 409, funds 402, everything else 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidStake),
		errors.Is(err, models.ErrInvalidAutoCashOut),
		errors.Is(err, models.ErrInvalidPlayer):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrRoundNotAcceptingBets),
		errors.Is(err, models.ErrRoundAlreadyCrashed),
		errors.Is(err, models.ErrBetAlreadySettled):
		return http.StatusConflict
	case errors.Is(err, models.ErrBetNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
