package routes

import (
	"github.com/gin-gonic/gin"

	"crashpilot/controllers"
	"crashpilot/game"
	"crashpilot/wallet"
)

// RoundRoutes registers the round endpoints. The balance endpoint only
// exists for the in-memory wallet; an external platform owns balances when
// one is configured.
func RoundRoutes(r *gin.Engine, engine *game.Engine, w *wallet.Memory) {
	r.GET("/api/rounds/current", controllers.CurrentRoundHandler(engine))
	r.GET("/api/history", controllers.HistoryHandler(engine))
	if w != nil {
		r.GET("/api/balance", controllers.BalanceHandler(w))
	}
}
