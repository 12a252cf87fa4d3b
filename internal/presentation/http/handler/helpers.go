package handler

import (
	"strconv"
	"time"

	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserEmail extracts the user email from the Gin context
func GetUserEmail(c *gin.Context) string {
	email, exists := c.Get("user_email")
	if !exists {
		return ""
	}
	return email.(string)
}

// GetAccountType extracts the account type from the Gin context
func GetAccountType(c *gin.Context) enum.AccountType {
	accountType, exists := c.Get("account_type")
	if !exists {
		return ""
	}
	value, ok := accountType.(string)
	if !ok {
		return ""
	}
	return enum.AccountType(value)
}

// IsFreelancer checks if the authenticated user is a freelancer account
func IsFreelancer(c *gin.Context) bool {
	return GetAccountType(c) == enum.AccountTypeFreelancer
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// parsePageParams reads page/per_page query parameters with defaults.
func parsePageParams(c *gin.Context) (int, int) {
	page := 1
	perPage := 15
	if p := c.Query("page"); p != "" {
		if parsed, err := parsePositiveInt(p); err == nil {
			page = parsed
		}
	}
	if pp := c.Query("per_page"); pp != "" {
		if parsed, err := parsePositiveInt(pp); err == nil {
			perPage = parsed
		}
	}
	return page, perPage
}

// parseDate parses a YYYY-MM-DD date string.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
