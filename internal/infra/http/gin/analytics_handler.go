package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"wayfare/internal/app/commands"
	AnalyticsApp "wayfare/internal/app/handlers/analytics"
	"wayfare/internal/app/queries"
)

type AnalyticsHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h AnalyticsHandler) Summary(c *gin.Context) {
	q := AnalyticsApp.SummaryQuery{Currency: c.Query("currency")}
	summary, err := queries.Ask[AnalyticsApp.SummaryQuery, AnalyticsApp.Summary](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h AnalyticsHandler) ExportReport(c *gin.Context) {
	cmd := AnalyticsApp.ExportReportCommand{Currency: c.Query("currency")}
	result, err := commands.Dispatch[AnalyticsApp.ExportReportCommand, *AnalyticsApp.ExportReportResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

var _ AnalyticsHTTP = AnalyticsHandler{}
