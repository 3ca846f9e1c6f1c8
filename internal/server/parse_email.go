package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/subsense/internal/extractor"
	subscriptiondomain "github.com/smallbiznis/subsense/internal/subscription/domain"
)

const parseEmailFailureMessage = "Couldn't detect subscription details. Try selecting text that includes the service name and price."

// numeric day-month-year first, ISO, then long-form month names.
var detectedDateLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"2-1-2006",
	"2-1-06",
	"2006-01-02",
	"January 2, 2006",
	"January 2 2006",
}

// ParseEmail runs the vendor extractor over pasted receipt text and stores
// one subscription per detection.
func (s *Server) ParseEmail(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if len(strings.TrimSpace(req.Text)) < extractor.MinInputLength {
		AbortWithError(c, newValidationError("text", "text_too_short", "paste more of the email, including the service name and price"))
		return
	}

	extraction := s.extractorSvc.Extract(req.Text)
	if len(extraction.Results) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message":  parseEmailFailureMessage,
			"no_price": extraction.NoPrice,
		})
		return
	}

	created := make([]subscriptiondomain.Subscription, 0, len(extraction.Results))
	for _, result := range extraction.Results {
		subscription, err := s.subscriptionSvc.Create(c.Request.Context(), subscriptiondomain.CreateSubscriptionRequest{
			ServiceName:     result.ServiceName,
			Category:        result.Category,
			MonthlyCost:     result.MonthlyCost,
			BillingCycle:    result.BillingCycle,
			NextBillingDate: parseDetectedDate(result.NextBillingDate),
			Metadata: map[string]any{
				"vendor_id":     result.VendorID,
				"auto_detected": true,
			},
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}
		created = append(created, subscription)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     created,
		"no_price": extraction.NoPrice,
	})
}

// parseDetectedDate interprets the raw matched date string. Unparseable
// dates return nil and the service applies its cycle-based default.
func parseDetectedDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range detectedDateLayouts {
		parsed, err := time.ParseInLocation(layout, raw, time.UTC)
		if err != nil {
			continue
		}
		return &parsed
	}
	return nil
}
