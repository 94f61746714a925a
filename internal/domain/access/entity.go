package access

import (
	"net/netip"
	"time"
)

// Mode decides how employee requests are filtered by client address.
type Mode string

const (
	ModeEnforceList Mode = "enforce_list"
	ModeAllowAll    Mode = "allow_all"
	ModeBlockAll    Mode = "block_all"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeEnforceList, ModeAllowAll, ModeBlockAll:
		return true
	}
	return false
}

// Settings is the single-row access configuration.
type Settings struct {
	Mode      Mode
	UpdatedAt time.Time
}

type AllowedIP struct {
	ID           string
	IPAddress    string
	SubnetPrefix *int
	Description  *string
	Active       bool
	CreatedAt    time.Time
}

// Prefix returns the network the entry admits. A missing prefix admits the single address.
func (a AllowedIP) Prefix() (netip.Prefix, error) {
	addr, err := netip.ParseAddr(a.IPAddress)
	if err != nil {
		return netip.Prefix{}, err
	}
	addr = addr.Unmap()
	bits := addr.BitLen()
	if a.SubnetPrefix != nil {
		bits = *a.SubnetPrefix
	}
	return addr.Prefix(bits)
}

// Permits reports whether addr may reach employee routes under mode and the active entries.
// Entries that fail to parse never admit anything.
func Permits(mode Mode, allowed []AllowedIP, addr netip.Addr) bool {
	switch mode {
	case ModeAllowAll:
		return true
	case ModeBlockAll:
		return false
	}
	addr = addr.Unmap()
	for _, entry := range allowed {
		if !entry.Active {
			continue
		}
		prefix, err := entry.Prefix()
		if err != nil {
			continue
		}
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
