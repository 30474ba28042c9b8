package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	clientsvc "cartbridge/internal/service/client"
)

func getOrCreateClientHandler(svc ClientService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req clientsvc.GetOrCreateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		session, err := svc.GetOrCreate(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}
