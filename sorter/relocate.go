package sorter

import (
	"errors"
	"fmt"
)

// relocate bulk-moves each bucket of res to its destination mailbox. A
// failed batch does not stop the remaining batches, but any failure taints
// the pass: the joined error is returned once every batch has been tried.
func (e *Engine) relocate(res Result) error {
	var errs []error
	for mailbox, uids := range res {
		if err := e.Session.MoveUIDs(uids, mailbox); err != nil {
			e.Log.Error("move failed", "mailbox", mailbox, "error", err)
			errs = append(errs, fmt.Errorf("move to %q: %w", mailbox, err))
			continue
		}
		e.Log.Info("moved messages", "mailbox", mailbox, "count", len(uids))
	}
	return errors.Join(errs...)
}
