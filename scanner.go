// 扫描游标定义
package htable

import (
	"bytes"
	"context"

	"github.com/Golang-Tools/htable/wire"
)

// Scanner iterates a row range in key order. It owns at most one
// server-side cursor at a time; when the cursor's region is exhausted the
// scanner silently re-opens against the next region, so callers never see
// region boundaries. After a mid-scan relocation the scan resumes at the
// successor of the last row already delivered, so no row is repeated.
type Scanner struct {
	c     *Client
	table string
	spec  *wire.ScanRequest

	// region currently being read
	loc       *wire.RegionLocation
	scannerID int32
	opened    bool

	// start row for the next cursor open
	nextStart []byte
	// where to resume after losing a cursor mid-region
	resume []byte

	buf    []*wire.Result
	done   bool
	closed bool
}

func newScanner(c *Client, table string, spec *wire.ScanRequest) *Scanner {
	s := &Scanner{
		c:         c,
		table:     table,
		spec:      spec,
		nextStart: spec.StartRow,
		resume:    spec.StartRow,
	}
	if s.spec.Caching <= 0 {
		s.spec.Caching = c.Opts.ScanCaching
	}
	return s
}

// successor is the smallest row key strictly greater than row.
func successor(row []byte) []byte {
	next := make([]byte, len(row)+1)
	copy(next, row)
	return next
}

// Next returns the next row of the scan, nil when the range is exhausted.
// An empty range yields nil on the first call, not an error.
func (s *Scanner) Next(ctx context.Context) (*wire.Result, error) {
	if s.closed {
		return nil, ErrScannerClosed
	}
	for {
		if len(s.buf) > 0 {
			row := s.buf[0]
			s.buf = s.buf[1:]
			s.resume = successor(row.Row)
			return row, nil
		}
		if s.done {
			return nil, nil
		}
		if !s.opened {
			if err := s.openRegion(ctx); err != nil {
				return nil, err
			}
			continue
		}
		rows, err := s.fetch(ctx)
		if err != nil {
			if isCursorLost(err) {
				// the region moved (or the server dropped our cursor) while
				// we were reading it; resume after the last delivered row
				s.c.Opts.Logger.WithError(err).Error("scan cursor lost, reopening")
				s.c.locator.Invalidate(s.loc)
				s.opened = false
				s.nextStart = s.resume
				continue
			}
			return nil, err
		}
		if len(rows) == 0 {
			s.releaseCursor(ctx)
			s.advanceRegion()
			continue
		}
		s.buf = rows
	}
}

func (s *Scanner) openRegion(ctx context.Context) error {
	if s.pastStop(s.nextStart) {
		s.done = true
		return nil
	}
	regionScan := *s.spec
	regionScan.StartRow = s.nextStart
	var id int32
	loc, err := s.c.dispatch(ctx, s.table, s.nextStart, func(conn *Conn) error {
		var err2 error
		id, err2 = conn.ScanOpen(ctx, s.table, &regionScan)
		return err2
	})
	if err != nil {
		return err
	}
	s.loc = loc
	s.scannerID = id
	s.opened = true
	return nil
}

func (s *Scanner) fetch(ctx context.Context) ([]*wire.Result, error) {
	var rows []*wire.Result
	err := s.c.do(s.loc.Addr, func(conn *Conn) error {
		var err2 error
		rows, err2 = conn.ScanNext(ctx, s.scannerID, s.spec.Caching)
		return err2
	})
	return rows, err
}

// advanceRegion moves the scan to the region after the current one, or ends
// the scan at the table's last region or the stop row.
func (s *Scanner) advanceRegion() {
	if len(s.loc.EndKey) == 0 || s.pastStop(s.loc.EndKey) {
		s.done = true
		return
	}
	s.nextStart = s.loc.EndKey
}

func (s *Scanner) pastStop(row []byte) bool {
	return len(s.spec.StopRow) > 0 && bytes.Compare(row, s.spec.StopRow) >= 0
}

// releaseCursor frees the server-side cursor. Release failures are logged,
// never propagated, so they cannot mask the scan's own outcome.
func (s *Scanner) releaseCursor(ctx context.Context) {
	if !s.opened {
		return
	}
	s.opened = false
	id := s.scannerID
	err := s.c.do(s.loc.Addr, func(conn *Conn) error {
		return conn.ScanClose(ctx, id)
	})
	if err != nil {
		s.c.Opts.Logger.WithError(err).Error("close scanner error")
	}
}

// Close releases the server-side cursor. Idempotent.
func (s *Scanner) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.releaseCursor(context.Background())
	return nil
}

func isCursorLost(err error) bool {
	if wire.IsStaleRegion(err) {
		return true
	}
	re, ok := err.(*wire.RemoteException)
	return ok && re.Code == wire.CodeUnknownScanner
}
