package sorter

import (
	"errors"
	"fmt"

	"github.com/levitatingpineapple/mail-sort/imap"
)

// reconcile makes every destination mailbox in res exist on the server,
// creating and subscribing missing ancestors parent-before-child. The
// created set is pass-scoped on purpose: mailboxes can be removed
// externally between passes, so nothing learned here outlives the pass.
func (e *Engine) reconcile(res Result, existing map[string]struct{}) error {
	created := make(map[string]struct{}, len(res))
	for mailbox := range res {
		if _, ok := existing[mailbox]; ok {
			continue
		}
		for ancestor := range Ancestors(mailbox) {
			if ancestor == "" {
				// Domainless addresses derive paths with an empty leading
				// segment; there is no mailbox to create for it.
				continue
			}
			if _, ok := existing[ancestor]; ok {
				continue
			}
			if _, ok := created[ancestor]; ok {
				continue
			}
			err := e.Session.CreateFolder(ancestor)
			if errors.Is(err, imap.ErrMailboxExists) {
				// Someone else created it since we listed; still ours to use.
				e.Log.Debug("mailbox appeared concurrently", "mailbox", ancestor)
			} else if err != nil {
				return fmt.Errorf("create mailbox %q: %w", ancestor, err)
			}
			if err := e.Session.SubscribeFolder(ancestor); err != nil {
				return fmt.Errorf("subscribe mailbox %q: %w", ancestor, err)
			}
			created[ancestor] = struct{}{}
			e.Log.Info("created mailbox", "mailbox", ancestor)
		}
	}
	return nil
}
