package imap

import (
	"fmt"

	retry "github.com/StirlingMarketingGroup/go-retry"
	"github.com/davecgh/go-spew/spew"
	humanize "github.com/dustin/go-humanize"
)

// MessageHeader is one message's UID paired with the raw bytes of a
// requested header block. The UID is only valid for the lifetime of the
// session that produced it.
type MessageHeader struct {
	UID    uint32
	Header []byte
}

// FetchHeaders fetches the UID and the named header field for every message
// in the currently selected folder. A message whose FETCH record lacks
// either the UID or the header literal fails the whole call; a present but
// empty header block is returned as-is for the caller to judge.
func (d *Dialer) FetchHeaders(field string) (headers []MessageHeader, err error) {
	var records [][]*Token
	err = retry.Retry(func() (err error) {
		r, err := d.Exec("UID FETCH 1:* (UID BODY.PEEK[HEADER.FIELDS ("+field+")])", true, 0, nil)
		if err != nil {
			return
		}

		if len(r) == 0 {
			records = nil
			return
		}

		debugLog(d.ConnNum, d.Folder, "fetched headers", "field", field, "size", humanize.Bytes(uint64(len(r))))

		records, err = d.ParseFetchResponse(r)
		return
	}, RetryCount, func(err error) error {
		warnLog(d.ConnNum, d.Folder, "header fetch failed, closing connection", "error", err)
		_ = d.Close()
		return nil
	}, func() error {
		return d.Reconnect()
	})
	if err != nil {
		return nil, err
	}

	return parseHeaderRecords(records)
}

// parseHeaderRecords extracts (UID, header bytes) pairs from parsed FETCH
// records. The header block arrives as the record's single {n} literal.
func parseHeaderRecords(records [][]*Token) ([]MessageHeader, error) {
	headers := make([]MessageHeader, 0, len(records))
	for _, tks := range records {
		// Defensively flatten if the record is a single container wrapper.
		for len(tks) == 1 && tks[0].Type == TContainer {
			tks = tks[0].Tokens
		}

		var uid uint32
		var header []byte
		headerSeen := false
		for i, t := range tks {
			switch {
			case t.Type == TLiteral && t.Str == "UID":
				if i+1 >= len(tks) || tks[i+1].Type != TNumber {
					return nil, fmt.Errorf("expected number after UID in %v", tks)
				}
				uid = uint32(tks[i+1].Num)
			case t.Type == TAtom:
				header = []byte(t.Str)
				headerSeen = true
			}
		}

		if uid == 0 {
			debugLog(-1, "", "fetch record missing UID", "record", spew.Sdump(tks))
			return nil, fmt.Errorf("fetch record missing UID")
		}
		if !headerSeen {
			debugLog(-1, "", "fetch record missing header block", "record", spew.Sdump(tks))
			return nil, fmt.Errorf("fetch record %d missing header block", uid)
		}

		headers = append(headers, MessageHeader{UID: uid, Header: header})
	}
	return headers, nil
}
