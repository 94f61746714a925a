package access

import "errors"

var (
	ErrInvalidMode       = errors.New("mode must be one of: enforce_list, allow_all, block_all")
	ErrAllowedIPNotFound = errors.New("allowed ip not found")
	ErrAllowedIPExists   = errors.New("allowed ip already exists")
	ErrAccessDenied      = errors.New("access from this network is not allowed")
	ErrInvalidClientAddr = errors.New("could not determine client address")
)
