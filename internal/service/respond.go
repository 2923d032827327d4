// Package service implements the HTTP API: group CRUD, membership, expense
// recording (explicit and AI-parsed) and the fairness analysis endpoint.
package service

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SinghAman21/spendsplit/internal/models"
)

// respondError maps domain errors onto the API's status codes. Validation
// failures are the client's fault (400), unknown resources are 404, and
// everything else is an internal error that must not leak details.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrGroupFull),
		errors.Is(err, models.ErrDuplicateMember),
		errors.Is(err, models.ErrInvalidGroupType),
		errors.Is(err, models.ErrSplitMismatch),
		errors.Is(err, models.ErrPayerNotMember):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("Request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// isoTime formats a Unix timestamp the way the original API did: ISO 8601.
func isoTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}

// monthWindow returns the [from, to) Unix range of now's calendar month,
// the window over which balances and transaction counts are computed.
func monthWindow(now time.Time) (int64, int64) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)
	return from.Unix(), to.Unix()
}
