package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with the structured events the platform emits
type Logger struct {
	*slog.Logger
}

// New builds a logger from LOG_LEVEL. Debug mode writes text, other gin modes write JSON.
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	if gin.Mode() == gin.DebugMode {
		return NewWithHandler(slog.NewTextHandler(os.Stdout, opts))
	}
	return NewWithHandler(slog.NewJSONHandler(os.Stdout, opts))
}

// NewWithHandler wraps an existing slog handler, mainly for tests and custom sinks
func NewWithHandler(handler slog.Handler) *Logger {
	return &Logger{Logger: slog.New(handler)}
}

var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// getLogLevel maps a LOG_LEVEL value to a level, defaulting to info
func getLogLevel(name string) slog.Level {
	if level, ok := levels[strings.ToLower(strings.TrimSpace(name))]; ok {
		return level
	}
	return slog.LevelInfo
}

// WithUserID adds user ID to logger context
func (l *Logger) WithUserID(userID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("user_id", userID)),
	}
}

// LogHTTPRequest logs an HTTP request. Server errors are logged at error level.
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	level := slog.LevelInfo
	if c.Writer.Status() >= 500 {
		level = slog.LevelError
	}
	l.Logger.Log(c.Request.Context(), level,
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
		slog.String("user_id", c.GetString("user_id")),
	)
}

// Domain events

// LogPurchaseCompleted logs a finalized checkout
func (l *Logger) LogPurchaseCompleted(ctx context.Context, purchaseRef, clientID, total, method string) {
	l.Logger.InfoContext(ctx,
		"Purchase Completed",
		slog.String("purchase_ref", purchaseRef),
		slog.String("client_id", clientID),
		slog.String("total", total),
		slog.String("payment_method", method),
	)
}

// LogRefundDecision logs an administrator approving or rejecting a refund request
func (l *Logger) LogRefundDecision(ctx context.Context, clientID, itemID, kind, decision string) {
	l.Logger.InfoContext(ctx,
		"Refund Decision",
		slog.String("client_id", clientID),
		slog.String("item_id", itemID),
		slog.String("kind", kind),
		slog.String("decision", decision),
	)
}

// LogBidPlaced logs a bid escrowed against an offer
func (l *Logger) LogBidPlaced(ctx context.Context, offerID, bidID, bidderID, amount string) {
	l.Logger.InfoContext(ctx,
		"Bid Placed",
		slog.String("offer_id", offerID),
		slog.String("bid_id", bidID),
		slog.String("bidder_id", bidderID),
		slog.String("amount", amount),
	)
}

// LogOfferClosed logs an offer leaving the active list
func (l *Logger) LogOfferClosed(ctx context.Context, offerID, status string) {
	l.Logger.InfoContext(ctx,
		"Offer Closed",
		slog.String("offer_id", offerID),
		slog.String("status", status),
	)
}

// LogEventCancelled logs an event cancellation
func (l *Logger) LogEventCancelled(ctx context.Context, eventID, by, reason string) {
	l.Logger.InfoContext(ctx,
		"Event Cancelled",
		slog.String("event_id", eventID),
		slog.String("cancelled_by", by),
		slog.String("reason", reason),
	)
}

// LogAuthSuccess logs successful authentication
func (l *Logger) LogAuthSuccess(ctx context.Context, userID, method string) {
	l.Logger.InfoContext(ctx,
		"Authentication Success",
		slog.String("user_id", userID),
		slog.String("method", method),
	)
}

// LogAuthFailure logs failed authentication
func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

// LogRateLimitExceeded logs rate limit exceeded
func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx,
		"Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}

var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}
