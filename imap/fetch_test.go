package imap

import (
	"fmt"
	"strings"
	"testing"
)

func headerRecords(t *testing.T, resp string) [][]*Token {
	t.Helper()
	d := &Dialer{}
	records, err := d.ParseFetchResponse(resp)
	if err != nil {
		t.Fatalf("ParseFetchResponse error: %v", err)
	}
	return records
}

func TestParseHeaderRecords(t *testing.T) {
	hdr := "To: a.b@example.com\r\n\r\n"
	resp := fmt.Sprintf("* 1 FETCH (UID 42 BODY[HEADER.FIELDS (TO)] {%d}\r\n%s)\r\n", len(hdr), hdr)

	headers, err := parseHeaderRecords(headerRecords(t, resp))
	if err != nil {
		t.Fatalf("parseHeaderRecords error: %v", err)
	}
	if len(headers) != 1 {
		t.Fatalf("got %d headers, want 1", len(headers))
	}
	if headers[0].UID != 42 {
		t.Errorf("UID = %d, want 42", headers[0].UID)
	}
	if string(headers[0].Header) != hdr {
		t.Errorf("Header = %q, want %q", headers[0].Header, hdr)
	}
}

// A message with no To header still carries an (empty) literal; that is a
// valid record, and judging the empty value is the caller's business.
func TestParseHeaderRecordsEmptyHeaderBlock(t *testing.T) {
	resp := "* 1 FETCH (UID 5 BODY[HEADER.FIELDS (TO)] {0}\r\n)\r\n"

	headers, err := parseHeaderRecords(headerRecords(t, resp))
	if err != nil {
		t.Fatalf("parseHeaderRecords error: %v", err)
	}
	if len(headers) != 1 || headers[0].UID != 5 {
		t.Fatalf("headers = %v, want one record with UID 5", headers)
	}
	if len(headers[0].Header) != 0 {
		t.Errorf("Header = %q, want empty", headers[0].Header)
	}
}

func TestParseHeaderRecordsMissingUID(t *testing.T) {
	hdr := "To: a@example.com\r\n\r\n"
	resp := fmt.Sprintf("* 1 FETCH (BODY[HEADER.FIELDS (TO)] {%d}\r\n%s)\r\n", len(hdr), hdr)

	_, err := parseHeaderRecords(headerRecords(t, resp))
	if err == nil || !strings.Contains(err.Error(), "UID") {
		t.Fatalf("error = %v, want missing UID error", err)
	}
}

func TestParseHeaderRecordsMissingHeaderBlock(t *testing.T) {
	resp := "* 1 FETCH (UID 9)\r\n"

	_, err := parseHeaderRecords(headerRecords(t, resp))
	if err == nil || !strings.Contains(err.Error(), "header block") {
		t.Fatalf("error = %v, want missing header block error", err)
	}
}

// NIL in place of the header literal means the server returned no data at
// all for the section, which is a hard error, not an empty header.
func TestParseHeaderRecordsNilHeaderBlock(t *testing.T) {
	resp := "* 1 FETCH (UID 9 BODY[HEADER.FIELDS (TO)] NIL)\r\n"

	_, err := parseHeaderRecords(headerRecords(t, resp))
	if err == nil || !strings.Contains(err.Error(), "header block") {
		t.Fatalf("error = %v, want missing header block error", err)
	}
}
