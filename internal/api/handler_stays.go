package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parking-ledger-backend/internal/ledger"
)

type timestampPayload struct {
	Date   string `json:"date" binding:"required"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
}

func (p *timestampPayload) toTimestamp() *ledger.Timestamp {
	if p == nil {
		return nil
	}
	return &ledger.Timestamp{Date: p.Date, Hour: p.Hour, Minute: p.Minute}
}

type openStayRequest struct {
	Plate string            `json:"plate" binding:"required"`
	Class string            `json:"class" binding:"required"`
	Entry *timestampPayload `json:"entry"`
	Actor string            `json:"actor"`
}

// OpenStay handles POST /api/stays.
func (h *Handler) OpenStay(c *gin.Context) {
	var req openStayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stay, err := h.ledger.OpenStay(c.Request.Context(), ledger.OpenRequest{
		Plate: req.Plate,
		Class: req.Class,
		Entry: req.Entry.toTimestamp(),
		Actor: req.Actor,
	})
	if err != nil {
		abortLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"plate": stay.Plate,
		"class": stay.Class,
		"entry": ledger.Timestamp{Date: stay.EntryDate, Hour: stay.EntryHour, Minute: stay.EntryMinute},
	})
}

type closeStayRequest struct {
	Exit  *timestampPayload `json:"exit"`
	Actor string            `json:"actor"`
}

// CloseStay handles POST /api/stays/{plate}/exit.
func (h *Handler) CloseStay(c *gin.Context) {
	var req closeStayRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	receipt, err := h.ledger.CloseStay(c.Request.Context(), ledger.CloseRequest{
		Plate: c.Param("plate"),
		Exit:  req.Exit.toTimestamp(),
		Actor: req.Actor,
	})
	if err != nil {
		abortLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

// ListActive handles GET /api/stays.
func (h *Handler) ListActive(c *gin.Context) {
	stays, err := h.ledger.ListActive(c.Request.Context())
	if err != nil {
		abortLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, stays)
}
