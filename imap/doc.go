// Package imap is the IMAP session used by the mail sorter.
//
// It is a small, pragmatic TLS client covering exactly the verbs the
// sorting engine needs:
//
//   - Connecting over TLS and authenticating with LOGIN or XOAUTH2
//   - Selecting the watched mailbox
//   - Listing, creating, and subscribing mailboxes
//   - Fetching per-message UIDs and recipient headers (UID FETCH)
//   - Bulk-moving messages (UID MOVE)
//   - Blocking on IMAP IDLE until the mailbox changes
//
// The connection is owned by a single goroutine; none of the methods are
// safe for concurrent use on the same Dialer.
package imap
