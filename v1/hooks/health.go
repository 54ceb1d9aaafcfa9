package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Health() gin.HandlerFunc {
	return func(c *gin.Context) {

		// Return the health state
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"status": "UP",
			},
		})

	}
}
