package services

import (
	"context"
	"errors"
	"net"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/client"
)

// Reason is the caller-facing category of a failed operation.
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonNotConnected: connect first, or the server cannot be reached.
	ReasonNotConnected
	// ReasonAuthRequired: credentials were rejected; prompt the user.
	ReasonAuthRequired
	// ReasonProvisioningDenied: the device policy was not accepted.
	ReasonProvisioningDenied
	// ReasonRetryable: a later attempt of the whole cycle may succeed.
	ReasonRetryable
	ReasonFatal
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNotConnected:
		return "not connected"
	case ReasonAuthRequired:
		return "auth required"
	case ReasonProvisioningDenied:
		return "provisioning denied"
	case ReasonRetryable:
		return "retryable"
	default:
		return "fatal"
	}
}

// Classify maps an error returned by SyncService to a Reason.
func Classify(err error) Reason {
	var netErr net.Error
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrNotConnected),
		errors.Is(err, client.ErrOffline),
		errors.Is(err, client.ErrProvisioningRequired):
		return ReasonNotConnected
	case errors.Is(err, client.ErrUnauthorized),
		errors.Is(err, client.ErrAccessDenied):
		return ReasonAuthRequired
	case errors.Is(err, client.ErrProvisioningDenied):
		return ReasonProvisioningDenied
	case errors.Is(err, ErrAlreadyRunning),
		errors.Is(err, client.ErrThrottled),
		errors.Is(err, client.ErrUnavailable),
		errors.Is(err, client.ErrServerFault),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.As(err, &netErr):
		return ReasonRetryable
	default:
		return ReasonFatal
	}
}
