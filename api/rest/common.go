package rest

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mireuk/gameledger/audit"
	"github.com/mireuk/gameledger/game/economy"
	mw "github.com/mireuk/gameledger/middleware"
	"go.uber.org/zap"
)

// writeDomainError maps a service-layer error kind to an HTTP status.
// Internal details are logged, never returned to the client.
func writeDomainError(c *gin.Context, logger *zap.Logger, err error) {
	var de *economy.Error
	if !errors.As(err, &de) {
		logger.Error("unclassified handler error", zap.Error(err),
			zap.String("trace_id", mw.GetTraceID(c)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	var status int
	switch de.Kind {
	case economy.KindNotFound:
		status = http.StatusNotFound
	case economy.KindConflict:
		status = http.StatusConflict
	case economy.KindInsufficient:
		status = http.StatusPaymentRequired
	case economy.KindInvalidState:
		status = http.StatusBadRequest
	case economy.KindTransient:
		status = http.StatusServiceUnavailable
	default:
		logger.Error("internal handler error", zap.Error(err),
			zap.String("trace_id", mw.GetTraceID(c)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": de.Error(), "code": de.Code})
}

// recordAudit enqueues one economy mutation for the async audit writer.
func recordAudit(c *gin.Context, aud *audit.Service, action string, charID int64, start time.Time, req, resp interface{}, opErr error) {
	if aud == nil {
		return
	}
	userID := mw.GetUserID(c)
	entry := audit.Entry{
		TraceID:     mw.GetTraceID(c),
		CharacterID: &charID,
		Action:      action,
		Request:     req,
		Response:    resp,
		IP:          c.ClientIP(),
		DurationMs:  int(time.Since(start).Milliseconds()),
	}
	if userID != 0 {
		entry.UserID = &userID
	}
	if opErr != nil {
		entry.Error = opErr.Error()
	}
	aud.Log(entry)
}

// isUniqueViolation reports whether err comes from a unique index, in a
// way that works for both sqlite and mysql error strings.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") ||
		strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "already exists")
}
