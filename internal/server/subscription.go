package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/smallbiznis/subsense/internal/subscription/domain"
)

func (s *Server) CreateSubscription(c *gin.Context) {
	var req subscriptiondomain.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.subscriptionSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSubscriptions(c *gin.Context) {
	var query struct {
		Category     string `form:"category"`
		BillingCycle string `form:"billing_cycle"`
		Search       string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.subscriptionSvc.List(c.Request.Context(), subscriptiondomain.ListSubscriptionRequest{
		Category:     strings.TrimSpace(query.Category),
		BillingCycle: strings.TrimSpace(query.BillingCycle),
		Search:       strings.TrimSpace(query.Search),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Subscriptions})
}

func (s *Server) GetSubscriptionByID(c *gin.Context) {
	item, err := s.subscriptionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) UpdateSubscription(c *gin.Context) {
	var req subscriptiondomain.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.subscriptionSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) DeleteSubscription(c *gin.Context) {
	if err := s.subscriptionSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) MarkSubscriptionUsed(c *gin.Context) {
	item, err := s.subscriptionSvc.MarkUsed(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) UpdateBillingDate(c *gin.Context) {
	var req struct {
		NextBillingDate time.Time `json:"next_billing_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("next_billing_date", "invalid_next_billing_date", "invalid next billing date"))
		return
	}

	item, err := s.subscriptionSvc.Update(c.Request.Context(), c.Param("id"), subscriptiondomain.UpdateSubscriptionRequest{
		NextBillingDate: &req.NextBillingDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}
