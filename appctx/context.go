package appctx

import (
	"context"

	"userconsole/usecases/console"
)

// Context keys for the console session
type contextKey string

const (
	ConsoleContextKey   contextKey = "console"
	SessionIDContextKey contextKey = "session_id"
)

// SetConsole adds the session's console and id to the request context
func SetConsole(ctx context.Context, sessionID string, c *console.Console) context.Context {
	ctx = context.WithValue(ctx, SessionIDContextKey, sessionID)
	return context.WithValue(ctx, ConsoleContextKey, c)
}

// GetConsole extracts the session's console from the request context
func GetConsole(ctx context.Context) (*console.Console, bool) {
	c, ok := ctx.Value(ConsoleContextKey).(*console.Console)
	return c, ok
}

func GetSessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDContextKey).(string)
	return id, ok
}
