package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ExportSubscriptionsCSV(c *gin.Context) {
	out, err := s.reportSvc.SubscriptionsCSV(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="subscriptions.csv"`)
	c.Data(http.StatusOK, "text/csv", out)
}

func (s *Server) ExportUsageCSV(c *gin.Context) {
	out, err := s.reportSvc.UsageCSV(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="usage.csv"`)
	c.Data(http.StatusOK, "text/csv", out)
}

func (s *Server) ExportSpendReportPDF(c *gin.Context) {
	out, err := s.reportSvc.SpendReportPDF(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="spend-report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", out)
}
