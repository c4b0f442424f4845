package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"parking-ledger-backend/internal/ledger"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	ledger ledger.Ledger
}

// NewHandler creates a new API handler.
func NewHandler(l ledger.Ledger) *Handler {
	return &Handler{ledger: l}
}

// abortLedgerError translates a ledger error into an HTTP response with an
// explicit reason string. Nothing below this boundary leaks as a panic.
func abortLedgerError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrInvalidPlate),
		errors.Is(err, ledger.ErrInvalidVehicleClass),
		errors.Is(err, ledger.ErrInvalidEntryTime),
		errors.Is(err, ledger.ErrInvalidExitTime):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrDuplicateActiveStay):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrStayNotFound):
		status = http.StatusNotFound
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
