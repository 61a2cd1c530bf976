package sorter

import (
	"time"

	"github.com/levitatingpineapple/mail-sort/imap"
)

// Session is the slice of the IMAP client the engine drives. It is consumed
// by exactly one goroutine; every call within a pass is sequential.
// *imap.Dialer satisfies it.
type Session interface {
	// GetFolders returns every mailbox currently on the server.
	GetFolders() ([]string, error)
	// CreateFolder creates a mailbox; imap.ErrMailboxExists is not fatal.
	CreateFolder(folder string) error
	// SubscribeFolder adds a mailbox to the subscribed list.
	SubscribeFolder(folder string) error
	// FetchHeaders returns the UID and named header block for every message
	// in the watched mailbox.
	FetchHeaders(field string) ([]imap.MessageHeader, error)
	// MoveUIDs bulk-moves messages to a destination mailbox.
	MoveUIDs(uids []uint32, folder string) error
	// WaitForChange blocks until the mailbox changes, the timeout elapses,
	// or the session fails.
	WaitForChange(timeout time.Duration) (imap.WaitOutcome, error)
}

// Notifier receives the destination mailboxes touched by one pass. The
// engine fires it on its own goroutine and never waits for it.
type Notifier interface {
	Notify(mailboxes []string)
}
