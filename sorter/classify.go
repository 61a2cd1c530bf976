package sorter

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/jhillyerd/enmime/v2"
)

// recipientField is the header that decides where a message sorts.
const recipientField = "To"

// dotAtomRE matches a bare local part: atext tokens joined by dots.
var dotAtomRE = regexp.MustCompile("^[A-Za-z0-9!#$%&'*+/=?^_`{|}~-]+(?:\\.[A-Za-z0-9!#$%&'*+/=?^_`{|}~-]+)*$")

// Classify derives the destination mailbox path from a raw recipient header
// block. The second return is false when the message should stay where it
// is: no header value, an unparseable value, or a group address. Those are
// skips, not errors. A bare local part such as "postmaster" is routable.
func Classify(header []byte) (string, bool) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(header))
	if err != nil {
		return "", false
	}
	value := env.GetHeader(recipientField)
	if isGroupList(value) {
		// Group-addressed mail is left in place.
		return "", false
	}
	addrs, err := env.AddressList(recipientField)
	if err != nil {
		// The address grammar in net/mail requires a domain; a bare
		// local part never parses, so route it by hand.
		if v := strings.TrimSpace(value); dotAtomRE.MatchString(v) {
			return MailboxFor(v), true
		}
		return "", false
	}
	if len(addrs) == 0 {
		return "", false
	}
	return MailboxFor(addrs[0].Address), true
}

// isGroupList reports whether the first entry of an address header uses
// group syntax: a display name closed by a colon before any mailbox
// appears. Quoted strings and comments are opaque to the scan, so a colon
// inside a display name does not count.
func isGroupList(value string) bool {
	depth := 0
	for i := 0; i < len(value); i++ {
		switch c := value[i]; {
		case c == '\\':
			i++
		case c == '"' && depth == 0:
			for i++; i < len(value); i++ {
				if value[i] == '\\' {
					i++
				} else if value[i] == '"' {
					break
				}
			}
		case c == '(':
			depth++
		case c == ')' && depth > 0:
			depth--
		case depth > 0:
		case c == ':':
			return true
		case c == '<' || c == '@' || c == ',':
			return false
		}
	}
	return false
}

// MailboxFor converts an email address into a mailbox path. The domain
// leads so mail groups by provider, and dots inside the address components
// become underscores so they never read as hierarchy separators:
//
//	auth.service@example.com -> example_com.auth_service
//
// An address without an @ keeps an empty leading segment.
func MailboxFor(address string) string {
	local, domain, _ := strings.Cut(address, "@")
	b := strings.Builder{}
	b.Grow(len(address) + 1)
	writeNoDots(&b, domain)
	b.WriteByte('.')
	writeNoDots(&b, local)
	return strings.ToLower(b.String())
}

func writeNoDots(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			b.WriteByte('_')
		} else {
			b.WriteByte(s[i])
		}
	}
}
