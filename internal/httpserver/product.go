package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cartbridge/internal/domain"
	productrepo "cartbridge/internal/repository/product"
)

func listProductsHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.List(c.Request.Context(), productrepo.ListFilter{
			Name:        c.Query("name"),
			Description: c.Query("description"),
		})
		if err != nil {
			respondError(c, err)
			return
		}

		if len(products) == 0 {
			c.JSON(http.StatusOK, gin.H{
				"message": "no products matched the given filters",
				"data":    []domain.Product{},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("found %d product(s)", len(products)),
			"count":   len(products),
			"data":    products,
		})
	}
}

func getProductHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("productID"), 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}

		product, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": product})
	}
}
