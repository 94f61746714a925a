package access

import (
	"context"
	"fmt"
	"log/slog"
	"net/netip"
	"strings"
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/domain/access"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/validator"
)

type AccessServiceImpl struct {
	repo access.AccessRepository
}

func NewAccessService(repo access.AccessRepository) access.AccessService {
	return &AccessServiceImpl{repo: repo}
}

func (s *AccessServiceImpl) settingsResponse(ctx context.Context, settings access.Settings) (access.SettingsResponse, error) {
	active, err := s.repo.ListAllowedIPs(ctx, true)
	if err != nil {
		return access.SettingsResponse{}, err
	}

	resp := access.SettingsResponse{
		Mode:          settings.Mode,
		ActiveEntries: len(active),
	}
	if !settings.UpdatedAt.IsZero() {
		resp.UpdatedAt = settings.UpdatedAt.Format(time.RFC3339)
	}
	return resp, nil
}

func (s *AccessServiceImpl) GetSettings(ctx context.Context) (access.SettingsResponse, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return access.SettingsResponse{}, err
	}
	return s.settingsResponse(ctx, settings)
}

func (s *AccessServiceImpl) SetMode(ctx context.Context, req access.SetModeRequest) (access.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return access.SettingsResponse{}, err
	}

	settings, err := s.repo.SetMode(ctx, req.Mode)
	if err != nil {
		return access.SettingsResponse{}, err
	}

	slog.Info("ip access mode changed", "mode", settings.Mode)
	return s.settingsResponse(ctx, settings)
}

func (s *AccessServiceImpl) ListAllowedIPs(ctx context.Context) ([]access.AllowedIPResponse, error) {
	entries, err := s.repo.ListAllowedIPs(ctx, false)
	if err != nil {
		return nil, err
	}

	resp := make([]access.AllowedIPResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, access.NewAllowedIPResponse(e))
	}
	return resp, nil
}

func (s *AccessServiceImpl) AddAllowedIP(ctx context.Context, req access.CreateAllowedIPRequest) (access.AllowedIPResponse, error) {
	if err := req.Validate(); err != nil {
		return access.AllowedIPResponse{}, err
	}

	addr := netip.MustParseAddr(req.IPAddress).Unmap()
	entry, err := s.repo.CreateAllowedIP(ctx, access.AllowedIP{
		IPAddress:    addr.String(),
		SubnetPrefix: req.SubnetPrefix,
		Description:  trimmed(req.Description),
		Active:       true,
	})
	if err != nil {
		return access.AllowedIPResponse{}, err
	}
	return access.NewAllowedIPResponse(entry), nil
}

func (s *AccessServiceImpl) RemoveAllowedIP(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return access.ErrAllowedIPNotFound
	}
	return s.repo.DeleteAllowedIP(ctx, id)
}

// Check reads the mode and the allowed list on every call so admin changes apply immediately.
func (s *AccessServiceImpl) Check(ctx context.Context, addr netip.Addr) error {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to read ip access settings: %w", err)
	}

	var allowed []access.AllowedIP
	if settings.Mode == access.ModeEnforceList {
		allowed, err = s.repo.ListAllowedIPs(ctx, true)
		if err != nil {
			return fmt.Errorf("failed to read allowed ips: %w", err)
		}
	}

	if !access.Permits(settings.Mode, allowed, addr) {
		return access.ErrAccessDenied
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
