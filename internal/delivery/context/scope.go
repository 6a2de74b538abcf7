// Package context carries the identity of an HTTP request through context.Context:
// its request ID, the authenticated session behind it and a logger annotated with both.
package context

import (
	"context"
	"log/slog"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	KeyRequestID ContextKey = "request_id"
	KeySession   ContextKey = "session"
	KeyLogger    ContextKey = "logger"

	// HeaderXRequestID is the HTTP header name for request ID.
	HeaderXRequestID = "X-Request-Id"
)

// Session identifies the user and tracked session a request was authenticated for.
type Session struct {
	UserID    string
	SessionID string
}

// WithRequest stores the request ID and a logger that tags every line with it.
func WithRequest(ctx context.Context, logger *slog.Logger, requestID string) context.Context {
	ctx = context.WithValue(ctx, KeyRequestID, requestID)

	return WithLogger(ctx, logger.With(slog.String("request_id", requestID)))
}

// RequestID returns the request ID, or "" outside a request.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(KeyRequestID).(string); ok {
		return id
	}

	return ""
}

// WithSession stores the authenticated session and extends the request logger with it.
func WithSession(ctx context.Context, fallback *slog.Logger, session Session) context.Context {
	logger := GetLoggerOrDefault(ctx, fallback).With(
		slog.String("user_id", session.UserID),
		slog.String("session_id", session.SessionID),
	)
	ctx = context.WithValue(ctx, KeySession, session)

	return WithLogger(ctx, logger)
}

// SessionFrom returns the authenticated session, if the request has one.
func SessionFrom(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(KeySession).(Session)

	return session, ok
}

// GetLogger extracts the request-scoped logger from context.Context.
// If not found, returns nil.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(KeyLogger).(*slog.Logger); ok {
		return logger
	}

	return nil
}

// GetLoggerOrDefault returns the request-scoped logger, or fallback outside a request.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := GetLogger(ctx); logger != nil {
		return logger
	}

	return fallback
}

// WithLogger returns a new context with the logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}
