package routes

import (
	"github.com/gin-gonic/gin"

	"crashpilot/controllers"
	"crashpilot/game"
)

func BetRoutes(r *gin.Engine, engine *game.Engine) {
	r.POST("/api/bets", controllers.PlaceBetHandler(engine))
	r.POST("/api/bets/:id/cashout", controllers.CashOutHandler(engine))
}
