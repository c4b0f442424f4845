package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parking-ledger-backend/internal/export"
	"parking-ledger-backend/internal/ledger"
	"parking-ledger-backend/internal/model"
)

func historyFilterFromQuery(c *gin.Context) (ledger.HistoryFilter, bool) {
	filter := ledger.HistoryFilter{
		Plate:    c.Query("plate"),
		DateFrom: c.Query("from"),
		DateTo:   c.Query("to"),
	}
	if raw := c.Query("class"); raw != "" {
		class, ok := model.ParseVehicleClass(raw)
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ledger.ErrInvalidVehicleClass.Error()})
			return filter, false
		}
		filter.Class = class
	}
	return filter, true
}

// QueryHistory handles GET /api/history.
func (h *Handler) QueryHistory(c *gin.Context) {
	filter, ok := historyFilterFromQuery(c)
	if !ok {
		return
	}

	visits, err := h.ledger.QueryHistory(c.Request.Context(), filter)
	if err != nil {
		abortLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, visits)
}

// ExportHistory handles GET /api/history/export, streaming the filtered
// history as a CSV attachment.
func (h *Handler) ExportHistory(filename string) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := historyFilterFromQuery(c)
		if !ok {
			return
		}

		visits, err := h.ledger.QueryHistory(c.Request.Context(), filter)
		if err != nil {
			abortLedgerError(c, err)
			return
		}

		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Status(http.StatusOK)
		if err := export.WriteCSV(c.Writer, visits); err != nil {
			// Headers are already out; report through gin's error sink.
			_ = c.Error(err)
		}
	}
}
