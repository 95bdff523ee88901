package ctxkeys

import (
	"context"

	"github.com/shametoflame/ministry/internal/config"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	AdminEmailKey contextKey = "admin_email"
	ConfigKey     contextKey = "config"
)

// AdminEmail returns the authenticated admin's email, empty when the request
// is unauthenticated.
func AdminEmail(ctx context.Context) string {
	email, _ := ctx.Value(AdminEmailKey).(string)
	return email
}

func WithAdminEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, AdminEmailKey, email)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}
