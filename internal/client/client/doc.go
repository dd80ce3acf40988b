// Package client implements the command side of the ActiveSync protocol.
//
// # Overview
//
// The package provides:
//  1. The Client contract used by the sync service: Discover, Provision,
//     FolderSync, Sync, Ping and Reset.
//  2. EASClient, which marshals command bodies with encoding/xml, encodes
//     them as WBXML (or plain XML in diagnostic mode), sends them through an
//     injected Transport and parses the answers with package parser.
//  3. HTTPTransport, a thin net/http implementation of Transport.
//
// # Error Handling
//
// HTTP outcomes other than 200 are returned as *StatusError and match one of
// ErrUnauthorized, ErrAccessDenied, ErrThrottled, ErrUnavailable,
// ErrServerFault, ErrProvisioningRequired or ErrUnexpectedStatus through
// errors.Is. Command level failures are *CommandError values matching
// ErrInvalidSyncKey, ErrProvisioningRequired or ErrCommandFailed.
//
// # Concurrency & Contexts
//
// Every exchange runs under Options.CallTimeout and honors the caller's
// context. Nothing is retried.
package client
