package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/smallbiznis/subsense/internal/subscription/domain"
)

func (s *Server) GetInsightsSummary(c *gin.Context) {
	subs, err := s.listAll(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"summary":  s.insightsEngine.Summarize(subs),
			"rollup":   s.insightsEngine.CategoryRollup(subs),
			"unused":   s.insightsEngine.Unused(subs),
			"upcoming": s.insightsEngine.Upcoming(subs),
		},
	})
}

func (s *Server) GetInsightsTrend(c *gin.Context) {
	subs, err := s.listAll(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.insightsEngine.MonthlyTrend(subs)})
}

func (s *Server) GetInsightsAdvanced(c *gin.Context) {
	subs, err := s.listAll(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.insightsEngine.Advanced(subs)})
}

func (s *Server) GetCalendar(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1970 || year > 9999 {
		AbortWithError(c, newValidationError("year", "invalid_year", "invalid year"))
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		AbortWithError(c, newValidationError("month", "invalid_month", "invalid month"))
		return
	}

	subs, err := s.listAll(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.insightsEngine.Calendar(subs, year, time.Month(month))})
}

func (s *Server) listAll(c *gin.Context) ([]subscriptiondomain.Subscription, error) {
	resp, err := s.subscriptionSvc.List(c.Request.Context(), subscriptiondomain.ListSubscriptionRequest{})
	if err != nil {
		return nil, err
	}
	return resp.Subscriptions, nil
}
