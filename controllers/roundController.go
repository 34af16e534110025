package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"crashpilot/game"
	"crashpilot/wallet"
)

// CurrentRoundHandler returns the live round snapshot; the crash point stays
// hidden until the round has crashed.
func CurrentRoundHandler(engine *game.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := engine.Snapshot(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"round": snap})
	}
}

// HistoryHandler returns recent crash points, newest first, with server
// seeds revealed for offline verification.
func HistoryHandler(engine *game.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 20
		if s := c.Query("limit"); s != "" {
			if v, err := strconv.Atoi(s); err == nil && v > 0 && v <= 200 {
				limit = v
			}
		}
		c.JSON(http.StatusOK, gin.H{"history": engine.Recorder().Recent(limit)})
	}
}

// BalanceHandler exposes the demo wallet's balance for a player.
func BalanceHandler(w *wallet.Memory) gin.HandlerFunc {
	return func(c *gin.Context) {
		player := c.Query("player")
		if player == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player parameter is required"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"player": player, "balance": w.Balance(player)})
	}
}
