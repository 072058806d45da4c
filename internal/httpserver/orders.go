package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func listOrdersHandler(orders orderBackend) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.ListByCustomer(c.Request.Context(), c.Param("customerID"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}

func getOrderHandler(orders orderBackend) gin.HandlerFunc {
	return func(c *gin.Context) {
		placed, err := orders.Get(c.Request.Context(), c.Param("orderID"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": placed})
	}
}
