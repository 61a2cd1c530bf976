package notify

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/gregdel/pushover"
)

type fakeMessenger struct {
	sent []*pushover.Message
	err  error
}

func (f *fakeMessenger) SendMessage(message *pushover.Message, recipient *pushover.Recipient) (*pushover.Response, error) {
	f.sent = append(f.sent, message)
	if f.err != nil {
		return nil, f.err
	}
	return &pushover.Response{}, nil
}

func newTestNotifier(app Messenger, subscribed ...string) *Notifier {
	set := make(map[string]struct{}, len(subscribed))
	for _, m := range subscribed {
		set[m] = struct{}{}
	}
	return &Notifier{
		app:        app,
		recipient:  pushover.NewRecipient("user-key"),
		subscribed: set,
		log:        slog.New(slog.DiscardHandler),
	}
}

func TestNotifyEmptySetSendsNothing(t *testing.T) {
	app := &fakeMessenger{}
	n := newTestNotifier(app, "example_com.a")

	n.Notify(nil)
	n.Notify([]string{})

	if len(app.sent) != 0 {
		t.Errorf("sent %d messages, want 0", len(app.sent))
	}
}

func TestNotifySummaryAndPriority(t *testing.T) {
	tests := []struct {
		name         string
		touched      []string
		subscribed   []string
		wantText     string
		wantPriority int
	}{
		{
			name:         "subscribed mailbox touched",
			touched:      []string{"example_org.c", "example_com.a_b"},
			subscribed:   []string{"example_com.a_b"},
			wantText:     "example_com.a_b, example_org.c",
			wantPriority: pushover.PriorityNormal,
		},
		{
			name:         "nothing subscribed touched",
			touched:      []string{"example_org.c", "example_com.a_b"},
			subscribed:   []string{"another.mailbox"},
			wantText:     "example_com.a_b, example_org.c",
			wantPriority: pushover.PriorityLow,
		},
		{
			name:         "no subscriptions at all",
			touched:      []string{"only.one"},
			wantText:     "only.one",
			wantPriority: pushover.PriorityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &fakeMessenger{}
			n := newTestNotifier(app, tt.subscribed...)

			n.Notify(tt.touched)

			if len(app.sent) != 1 {
				t.Fatalf("sent %d messages, want 1", len(app.sent))
			}
			msg := app.sent[0]
			if msg.Message != tt.wantText {
				t.Errorf("text = %q, want %q", msg.Message, tt.wantText)
			}
			if msg.Priority != tt.wantPriority {
				t.Errorf("priority = %d, want %d", msg.Priority, tt.wantPriority)
			}
		})
	}
}

// Delivery failure is advisory: logged, swallowed, at most one attempt.
func TestNotifyDeliveryFailureSwallowed(t *testing.T) {
	app := &fakeMessenger{err: errors.New("pushover unreachable")}
	n := newTestNotifier(app)

	n.Notify([]string{"example_com.a"})

	if len(app.sent) != 1 {
		t.Errorf("sent %d messages, want exactly 1 attempt", len(app.sent))
	}
}

func TestSummary(t *testing.T) {
	got := Summary([]string{"b.two", "a.one", "c.three"})
	want := "a.one, b.two, c.three"
	if got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
}

func TestSummaryDoesNotMutateInput(t *testing.T) {
	in := []string{"b", "a"}
	Summary(in)
	if in[0] != "b" {
		t.Errorf("input reordered: %v", in)
	}
}
