package htable

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Golang-Tools/htable/wire"
	"github.com/stretchr/testify/require"
)

type regionDirectory struct {
	regions []*wire.RegionLocation
	calls   int32
	reloads int32
	delay   time.Duration
}

func (d *regionDirectory) locate(ctx context.Context, table string, row []byte, reload bool) (*wire.RegionLocation, error) {
	atomic.AddInt32(&d.calls, 1)
	if reload {
		atomic.AddInt32(&d.reloads, 1)
	}
	if d.delay > 0 {
		time.Sleep(d.delay)
	}
	for _, loc := range d.regions {
		if loc.Table == table && loc.Contains(row) {
			cp := *loc
			return &cp, nil
		}
	}
	return nil, nil
}

func newTestLocator(d *regionDirectory) *locator {
	return newLocator(d.locate, DefaultOptions.Logger)
}

func demoRegions() []*wire.RegionLocation {
	return []*wire.RegionLocation{
		{Table: "demo", StartKey: nil, EndKey: []byte("m"), Addr: "rs1"},
		{Table: "demo", StartKey: []byte("m"), EndKey: nil, Addr: "rs2"},
	}
}

func TestLocatorCacheHit(t *testing.T) {
	d := &regionDirectory{regions: demoRegions()}
	l := newTestLocator(d)
	ctx := context.Background()

	loc, err := l.Locate(ctx, "demo", []byte("alpha"))
	require.NoError(t, err)
	require.Equal(t, "rs1", loc.Addr)

	// a second row in the same region is served from the cache
	loc, err = l.Locate(ctx, "demo", []byte("beta"))
	require.NoError(t, err)
	require.Equal(t, "rs1", loc.Addr)
	require.Equal(t, int32(1), atomic.LoadInt32(&d.calls))
}

func TestLocatorRouting(t *testing.T) {
	d := &regionDirectory{regions: demoRegions()}
	l := newTestLocator(d)
	ctx := context.Background()

	low, err := l.Locate(ctx, "demo", []byte("alpha"))
	require.NoError(t, err)
	require.Equal(t, "rs1", low.Addr)

	high, err := l.Locate(ctx, "demo", []byte("zulu"))
	require.NoError(t, err)
	require.Equal(t, "rs2", high.Addr)

	// the boundary row belongs to the region starting at it
	edge, err := l.Locate(ctx, "demo", []byte("m"))
	require.NoError(t, err)
	require.Equal(t, "rs2", edge.Addr)
	require.Equal(t, int32(2), atomic.LoadInt32(&d.calls))
}

func TestLocatorTablesDoNotCollide(t *testing.T) {
	d := &regionDirectory{regions: []*wire.RegionLocation{
		{Table: "demo", StartKey: nil, EndKey: nil, Addr: "rs1"},
		{Table: "demo2", StartKey: nil, EndKey: nil, Addr: "rs9"},
	}}
	l := newTestLocator(d)
	ctx := context.Background()

	loc, err := l.Locate(ctx, "demo", []byte("row"))
	require.NoError(t, err)
	require.Equal(t, "rs1", loc.Addr)

	loc, err = l.Locate(ctx, "demo2", []byte("row"))
	require.NoError(t, err)
	require.Equal(t, "rs9", loc.Addr)
}

func TestLocatorInvalidate(t *testing.T) {
	d := &regionDirectory{regions: demoRegions()}
	l := newTestLocator(d)
	ctx := context.Background()

	loc, err := l.Locate(ctx, "demo", []byte("alpha"))
	require.NoError(t, err)
	l.Invalidate(loc)

	_, err = l.Locate(ctx, "demo", []byte("alpha"))
	require.NoError(t, err)
	require.Equal(t, int32(2), atomic.LoadInt32(&d.calls))
}

func TestLocatorInvalidateTable(t *testing.T) {
	d := &regionDirectory{regions: demoRegions()}
	l := newTestLocator(d)
	ctx := context.Background()

	_, err := l.Locate(ctx, "demo", []byte("alpha"))
	require.NoError(t, err)
	_, err = l.Locate(ctx, "demo", []byte("zulu"))
	require.NoError(t, err)

	l.InvalidateTable("demo")
	_, err = l.Locate(ctx, "demo", []byte("alpha"))
	require.NoError(t, err)
	require.Equal(t, int32(3), atomic.LoadInt32(&d.calls))
}

func TestLocatorRefresh(t *testing.T) {
	d := &regionDirectory{regions: demoRegions()}
	l := newTestLocator(d)
	ctx := context.Background()

	_, err := l.Locate(ctx, "demo", []byte("alpha"))
	require.NoError(t, err)

	// Refresh always consults the coordinator, bypassing the cache, and
	// asks it to bypass its own
	_, err = l.Refresh(ctx, "demo", []byte("alpha"))
	require.NoError(t, err)
	require.Equal(t, int32(2), atomic.LoadInt32(&d.calls))
	require.Equal(t, int32(1), atomic.LoadInt32(&d.reloads))
}

func TestLocatorNoRegion(t *testing.T) {
	d := &regionDirectory{}
	l := newTestLocator(d)

	_, err := l.Locate(context.Background(), "demo", []byte("alpha"))
	require.ErrorIs(t, err, ErrNoRegion)
}

func TestLocatorConcurrentMissesCollapse(t *testing.T) {
	d := &regionDirectory{regions: demoRegions(), delay: time.Millisecond * 20}
	l := newTestLocator(d)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loc, err := l.Locate(ctx, "demo", []byte("alpha"))
			require.NoError(t, err)
			require.Equal(t, "rs1", loc.Addr)
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), atomic.LoadInt32(&d.calls))
}
