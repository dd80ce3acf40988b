package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrAccessDenied         = errors.New("access denied")
	ErrThrottled            = errors.New("throttled")
	ErrUnavailable          = errors.New("server unavailable")
	ErrServerFault          = errors.New("server fault")
	ErrUnexpectedStatus     = errors.New("unexpected http status")
	ErrProvisioningRequired = errors.New("provisioning required")
	ErrProvisioningDenied   = errors.New("provisioning denied")
	ErrInvalidSyncKey       = errors.New("invalid sync key")
	ErrCommandFailed        = errors.New("command failed")
	ErrUndecodableBody      = errors.New("undecodable response body")
	ErrNoCommonVersion      = errors.New("no common protocol version")
	ErrOffline              = errors.New("offline")
)

// StatusError is returned for any non-200 HTTP response. It matches the
// sentinel chosen by the status code through errors.Is.
type StatusError struct {
	Code        int
	Fault       string
	BodyPreview string
	Err         error
}

func (e *StatusError) Error() string {
	switch {
	case e.Fault != "":
		return fmt.Sprintf("%v (http %d): %s", e.Err, e.Code, e.Fault)
	case e.BodyPreview != "":
		return fmt.Sprintf("%v (http %d): %s", e.Err, e.Code, e.BodyPreview)
	default:
		return fmt.Sprintf("%v (http %d)", e.Err, e.Code)
	}
}

func (e *StatusError) Unwrap() error { return e.Err }

// CommandError reports a non-success status inside a command response.
type CommandError struct {
	Command string
	Status  int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s status %d: %v", e.Command, e.Status, e.Unwrap())
}

// Unwrap maps the status to ErrInvalidSyncKey, ErrProvisioningRequired or
// ErrCommandFailed.
func (e *CommandError) Unwrap() error {
	switch {
	case e.Command == "Sync" && e.Status == 3, e.Command == "FolderSync" && e.Status == 9:
		return ErrInvalidSyncKey
	case e.Status >= 142 && e.Status <= 144:
		return ErrProvisioningRequired
	default:
		return ErrCommandFailed
	}
}
