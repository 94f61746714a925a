package access

import (
	"net/netip"
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/pkg/validator"
)

type SetModeRequest struct {
	Mode Mode `json:"mode"`
}

func (r *SetModeRequest) Validate() error {
	if !r.Mode.Valid() {
		return validator.ValidationErrors{{Field: "mode", Message: ErrInvalidMode.Error()}}
	}
	return nil
}

type SettingsResponse struct {
	Mode          Mode   `json:"mode"`
	UpdatedAt     string `json:"updated_at"`
	ActiveEntries int    `json:"active_entries"`
}

type CreateAllowedIPRequest struct {
	IPAddress    string  `json:"ip_address"`
	SubnetPrefix *int    `json:"subnet_prefix,omitempty"`
	Description  *string `json:"description,omitempty"`
}

func (r *CreateAllowedIPRequest) Validate() error {
	var errs validator.ValidationErrors

	addr, err := netip.ParseAddr(r.IPAddress)
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "ip_address", Message: "ip_address must be a valid IPv4 or IPv6 address"})
	} else if r.SubnetPrefix != nil && (*r.SubnetPrefix < 0 || *r.SubnetPrefix > addr.Unmap().BitLen()) {
		errs = append(errs, validator.ValidationError{Field: "subnet_prefix", Message: "subnet_prefix is out of range for the address family"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AllowedIPResponse struct {
	ID           string  `json:"id"`
	IPAddress    string  `json:"ip_address"`
	SubnetPrefix *int    `json:"subnet_prefix,omitempty"`
	Description  *string `json:"description,omitempty"`
	Active       bool    `json:"active"`
	CreatedAt    string  `json:"created_at"`
}

func NewAllowedIPResponse(a AllowedIP) AllowedIPResponse {
	return AllowedIPResponse{
		ID:           a.ID,
		IPAddress:    a.IPAddress,
		SubnetPrefix: a.SubnetPrefix,
		Description:  a.Description,
		Active:       a.Active,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
	}
}
