package access

import "context"

type AccessRepository interface {
	GetSettings(ctx context.Context) (Settings, error)
	SetMode(ctx context.Context, mode Mode) (Settings, error)
	ListAllowedIPs(ctx context.Context, activeOnly bool) ([]AllowedIP, error)
	CreateAllowedIP(ctx context.Context, entry AllowedIP) (AllowedIP, error)
	DeleteAllowedIP(ctx context.Context, id string) error
}
