package access

import (
	"context"
	"net/netip"
)

type AccessService interface {
	GetSettings(ctx context.Context) (SettingsResponse, error)
	SetMode(ctx context.Context, req SetModeRequest) (SettingsResponse, error)
	ListAllowedIPs(ctx context.Context) ([]AllowedIPResponse, error)
	AddAllowedIP(ctx context.Context, req CreateAllowedIPRequest) (AllowedIPResponse, error)
	RemoveAllowedIP(ctx context.Context, id string) error
	// Check reads the configuration fresh and returns ErrAccessDenied when addr is not admitted.
	Check(ctx context.Context, addr netip.Addr) error
}
