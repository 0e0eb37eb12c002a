// 区域位置缓存定义
package htable

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/Golang-Tools/htable/wire"
	logrus "github.com/sirupsen/logrus"
	"github.com/tchap/go-patricia/v2/patricia"
	"golang.org/x/sync/singleflight"
)

// locateFunc fetches a region location from the coordinator.
type locateFunc func(ctx context.Context, table string, row []byte, reload bool) (*wire.RegionLocation, error)

// locator caches region ownership. Entries live in a patricia trie keyed by
// table name + region start key, so a row is resolved by walking the
// table's subtree in key order until the covering [startKey, endKey) range
// is found. Concurrent misses for the same row collapse into a single
// coordinator call.
type locator struct {
	mu     sync.RWMutex
	trie   *patricia.Trie
	group  singleflight.Group
	locate locateFunc
	logger logrus.FieldLogger
}

func newLocator(locate locateFunc, logger logrus.FieldLogger) *locator {
	return &locator{
		trie:   patricia.NewTrie(),
		locate: locate,
		logger: logger,
	}
}

// table names cannot contain NUL, so it is a safe separator
func locatorKey(table string, startKey []byte) patricia.Prefix {
	key := make([]byte, 0, len(table)+1+len(startKey))
	key = append(key, table...)
	key = append(key, 0)
	key = append(key, startKey...)
	return key
}

var errStopVisit = errors.New("stop visit")

// cached returns the cached region covering row, nil on a miss.
func (l *locator) cached(table string, row []byte) *wire.RegionLocation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var found *wire.RegionLocation
	err := l.trie.VisitSubtree(locatorKey(table, nil), func(_ patricia.Prefix, item patricia.Item) error {
		loc := item.(*wire.RegionLocation)
		if bytes.Compare(loc.StartKey, row) > 0 {
			// subtree visits run in key order, nothing further can cover row
			return errStopVisit
		}
		if loc.Contains(row) {
			found = loc
		}
		return nil
	})
	if err != nil && err != errStopVisit {
		l.logger.WithError(err).Error("region cache visit error")
	}
	return found
}

// Locate resolves the region owning (table, row), from cache when possible.
func (l *locator) Locate(ctx context.Context, table string, row []byte) (*wire.RegionLocation, error) {
	if loc := l.cached(table, row); loc != nil {
		return loc, nil
	}
	v, err, _ := l.group.Do(string(locatorKey(table, row)), func() (interface{}, error) {
		// a racing caller may have filled the cache while we queued
		if loc := l.cached(table, row); loc != nil {
			return loc, nil
		}
		return l.fetch(ctx, table, row, false)
	})
	if err != nil {
		return nil, err
	}
	return v.(*wire.RegionLocation), nil
}

// Refresh bypasses both this cache and the coordinator's, used after a
// stale-location fault.
func (l *locator) Refresh(ctx context.Context, table string, row []byte) (*wire.RegionLocation, error) {
	return l.fetch(ctx, table, row, true)
}

func (l *locator) fetch(ctx context.Context, table string, row []byte, reload bool) (*wire.RegionLocation, error) {
	loc, err := l.locate(ctx, table, row, reload)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, ErrNoRegion
	}
	l.mu.Lock()
	l.trie.Set(locatorKey(loc.Table, loc.StartKey), loc)
	l.mu.Unlock()
	return loc, nil
}

// Invalidate drops one cached region after the owning server disowned it.
func (l *locator) Invalidate(loc *wire.RegionLocation) {
	l.mu.Lock()
	l.trie.Delete(locatorKey(loc.Table, loc.StartKey))
	l.mu.Unlock()
}

// InvalidateTable drops every cached region of a table.
func (l *locator) InvalidateTable(table string) {
	l.mu.Lock()
	l.trie.DeleteSubtree(locatorKey(table, nil))
	l.mu.Unlock()
}
