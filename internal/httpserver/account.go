package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-gateway/internal/account"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func registerHandler(accounts accountBackend) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "name, email and password required")
			return
		}

		customer, err := accounts.Register(c.Request.Context(), account.RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Phone:    req.Phone,
			Address:  req.Address,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"customer": customer})
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler(accounts accountBackend) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "email and password required")
			return
		}

		customer, err := accounts.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			// A refusal here means bad credentials, not a bad request.
			if errors.Is(err, account.ErrDenied) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"customer": customer})
	}
}

type validateEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

func validateEmailHandler(accounts accountBackend) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validateEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "email required")
			return
		}

		exists, err := accounts.ValidateEmail(c.Request.Context(), req.Email)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"exists": exists})
	}
}

func profileHandler(accounts accountBackend) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, err := accounts.Profile(c.Request.Context(), c.Param("customerID"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"customer": customer})
	}
}

type updateProfileRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	TaxID    string `json:"taxId"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	PostCode string `json:"postCode"`
}

func updateProfileHandler(accounts accountBackend) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "name and email required")
			return
		}

		customer, err := accounts.UpdateProfile(c.Request.Context(), c.Param("customerID"), account.ProfileUpdate{
			Name:     req.Name,
			Email:    req.Email,
			Phone:    req.Phone,
			TaxID:    req.TaxID,
			Address:  req.Address,
			City:     req.City,
			State:    req.State,
			PostCode: req.PostCode,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"customer": customer})
	}
}
