// Package notify sends one advisory Pushover summary per sort pass.
package notify

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/gregdel/pushover"
)

// Messenger is the part of the Pushover client the notifier uses.
type Messenger interface {
	SendMessage(message *pushover.Message, recipient *pushover.Recipient) (*pushover.Response, error)
}

// Notifier sends a single summary notification naming the mailboxes a sort
// pass touched. It is immutable after construction and safe to share
// between in-flight notifications.
type Notifier struct {
	app        Messenger
	recipient  *pushover.Recipient
	subscribed map[string]struct{}
	log        *slog.Logger
}

// New builds a Notifier for the given application token and recipient user
// key. subscribed lists the mailboxes whose movement warrants a normal-
// priority notification; everything else goes out quietly.
func New(token, user string, subscribed []string, log *slog.Logger) *Notifier {
	set := make(map[string]struct{}, len(subscribed))
	for _, m := range subscribed {
		set[m] = struct{}{}
	}
	return &Notifier{
		app:        pushover.New(token),
		recipient:  pushover.NewRecipient(user),
		subscribed: set,
		log:        log,
	}
}

// Notify sends at most one notification for the touched mailboxes. An
// empty set sends nothing. Delivery failure is logged and swallowed; the
// notification is advisory, never gating.
func (n *Notifier) Notify(mailboxes []string) {
	if len(mailboxes) == 0 {
		return
	}

	text := Summary(mailboxes)
	priority := n.priority(mailboxes)
	n.log.Info("notifying", "text", text, "priority", priority)

	message := &pushover.Message{Message: text, Priority: priority}
	if _, err := n.app.SendMessage(message, n.recipient); err != nil {
		n.log.Warn("notification delivery failed", "error", err)
	}
}

// priority is normal when a subscribed mailbox moved and low otherwise,
// distinguishing "something you care about" from background sorting.
func (n *Notifier) priority(mailboxes []string) int {
	for _, m := range mailboxes {
		if _, ok := n.subscribed[m]; ok {
			return pushover.PriorityNormal
		}
	}
	return pushover.PriorityLow
}

// Summary renders the touched mailboxes as a stable, human-readable line:
// lexicographically sorted, comma-joined.
func Summary(mailboxes []string) string {
	names := slices.Clone(mailboxes)
	slices.Sort(names)
	return strings.Join(names, ", ")
}
