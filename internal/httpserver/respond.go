package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cartbridge/internal/domain"
)

// errorStatus maps the domain error taxonomy onto HTTP status codes.
func errorStatus(err error) int {
	var validation *domain.ValidationError
	var stock *domain.InsufficientStockError
	switch {
	case errors.As(err, &validation), errors.As(err, &stock):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}
