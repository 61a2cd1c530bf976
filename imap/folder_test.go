package imap

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseListLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   string
		wantOK bool
	}{
		{
			name:   "quoted name",
			line:   `* LIST (\HasNoChildren) "." "example_com.a_b"`,
			want:   "example_com.a_b",
			wantOK: true,
		},
		{
			name:   "bare name",
			line:   `* LIST (\HasNoChildren) "." INBOX`,
			want:   "INBOX",
			wantOK: true,
		},
		{
			name:   "escaped quote in name",
			line:   `* LIST () "." "weird\"name"`,
			want:   `weird"name`,
			wantOK: true,
		},
		{
			name:   "literal continuation",
			line:   "* LIST () \".\" {7}\nfolders",
			want:   "folders",
			wantOK: true,
		},
		{
			name:   "empty line",
			line:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseListLine([]byte(tt.line))
			if ok != tt.wantOK {
				t.Fatalf("parseListLine(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("parseListLine(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestIsMailboxExists(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "rfc 5530 response code",
			err:  fmt.Errorf("imap command failed: [ALREADYEXISTS] Mailbox already exists"),
			want: true,
		},
		{
			name: "plain response text",
			err:  fmt.Errorf("imap command failed: NO Mailbox already exists"),
			want: true,
		},
		{
			name: "unrelated failure",
			err:  errors.New("imap command failed: NO [CANNOT] Invalid mailbox name"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isMailboxExists(tt.err); got != tt.want {
				t.Errorf("isMailboxExists(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
