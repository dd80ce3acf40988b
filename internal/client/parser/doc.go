// Package parser turns decoded command responses into domain objects.
//
// The caller states which command the document answers; element names such
// as Add or Status mean different things in FolderSync, Sync and Provision
// responses, so the kind is never guessed from content. Records that fail
// validation are dropped and counted, they never fail the whole response.
package parser
