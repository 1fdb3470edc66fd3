package service

import (
	"errors"
	"fmt"
)

// ErrPermissionDenied is the sentinel wrapped by every authorization
// refusal surfaced from a service. Handlers map it to 403.
var ErrPermissionDenied = errors.New("permission denied")

// denied wraps a policy denial reason so callers can both match the
// sentinel and surface the reason.
func denied(reason string) error {
	if reason == "" {
		return ErrPermissionDenied
	}
	return fmt.Errorf("%w: %s", ErrPermissionDenied, reason)
}
