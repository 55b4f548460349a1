package logging

import "context"

type contextKey string

const (
	triggerKey      contextKey = "trigger"
	notificationKey contextKey = "notification_id"
)

// WithTrigger adds the key of the trigger being handled to the context.
func WithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, triggerKey, trigger)
}

// WithNotificationID adds a notification id to the context.
func WithNotificationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, notificationKey, id)
}

// GetTrigger retrieves the trigger key from the context.
// Returns empty string if not present.
func GetTrigger(ctx context.Context) string {
	if k, ok := ctx.Value(triggerKey).(string); ok {
		return k
	}
	return ""
}

// GetNotificationID retrieves the notification id from the context.
// Returns empty string if not present.
func GetNotificationID(ctx context.Context) string {
	if id, ok := ctx.Value(notificationKey).(string); ok {
		return id
	}
	return ""
}
