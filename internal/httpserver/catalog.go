package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func listProductsHandler(catalog catalogBackend) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var err error
		var products interface{}
		if categoryID := c.Query("category"); categoryID != "" {
			products, err = catalog.ProductsByCategory(ctx, categoryID)
		} else {
			products, err = catalog.Products(ctx)
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

func getProductHandler(catalog catalogBackend) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := catalog.ProductByID(c.Request.Context(), c.Param("productID"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func listCategoriesHandler(catalog catalogBackend) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := catalog.Categories(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}
