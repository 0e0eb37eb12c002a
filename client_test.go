package htable

import (
	"bytes"
	"context"
	"net"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Golang-Tools/htable/wire"
	"github.com/apache/thrift/lib/go/thrift"
	"github.com/stretchr/testify/require"
)

// fakeCluster emulates a coordinator plus a set of region servers. Every
// dialed connection is a net.Pipe carrying the real framed binary protocol,
// so the whole client path down to the wire codec is exercised.
type fakeCluster struct {
	mu          sync.Mutex
	regions     []*wire.RegionLocation
	rows        map[string][]*wire.Cell
	ts          int64
	scanners    map[int32]*fakeCursor
	nextScanner int32
	locates     int
	batches     map[string]int
	released    []int32
}

type fakeCursor struct {
	keys      []string
	family    []byte
	qualifier []byte
}

func newFakeCluster(regions ...*wire.RegionLocation) *fakeCluster {
	return &fakeCluster{
		regions:  regions,
		rows:     map[string][]*wire.Cell{},
		scanners: map[int32]*fakeCursor{},
		batches:  map[string]int{},
	}
}

func (fc *fakeCluster) dial(addr string, connTimeout, soTimeout time.Duration) (*Conn, error) {
	cli, srv := net.Pipe()
	go fc.serve(addr, srv)
	return newConn(thrift.NewTFramedTransport(thrift.NewTSocketFromConnTimeout(cli, 0))), nil
}

func (fc *fakeCluster) serve(addr string, conn net.Conn) {
	defer conn.Close()
	transport := thrift.NewTFramedTransport(thrift.NewTSocketFromConnTimeout(conn, 0))
	proto := thrift.NewTBinaryProtocolFactoryDefault().GetProtocol(transport)
	for {
		name, _, seqID, err := proto.ReadMessageBegin()
		if err != nil {
			return
		}
		result := fc.handle(addr, name, proto)
		if result == nil {
			return
		}
		if err := proto.ReadMessageEnd(); err != nil {
			return
		}
		if err := proto.WriteMessageBegin(name, thrift.REPLY, seqID); err != nil {
			return
		}
		if err := result.Write(proto); err != nil {
			return
		}
		if err := proto.WriteMessageEnd(); err != nil {
			return
		}
		if err := proto.Flush(context.Background()); err != nil {
			return
		}
	}
}

func staleEx() *wire.RemoteException {
	return &wire.RemoteException{Code: wire.CodeStaleRegion, Message: "region moved"}
}

func matchCell(c *wire.Cell, family, qualifier []byte) bool {
	if len(family) == 0 {
		return true
	}
	if !bytes.Equal(c.Family, family) {
		return false
	}
	return len(qualifier) == 0 || bytes.Equal(c.Qualifier, qualifier)
}

// regionFor and owns run with fc.mu held.
func (fc *fakeCluster) regionFor(row []byte) *wire.RegionLocation {
	for _, loc := range fc.regions {
		if loc.Contains(row) {
			return loc
		}
	}
	return nil
}

func (fc *fakeCluster) owns(addr string, row []byte) bool {
	loc := fc.regionFor(row)
	return loc != nil && loc.Addr == addr
}

func (fc *fakeCluster) rowResult(key string, family, qualifier []byte) *wire.Result {
	res := wire.NewResult()
	res.Row = []byte(key)
	for _, c := range fc.rows[key] {
		if matchCell(c, family, qualifier) {
			res.Cells = append(res.Cells, c)
		}
	}
	res.SortCells()
	return res
}

func (fc *fakeCluster) applyPut(put *wire.PutRequest) {
	for _, col := range put.Columns {
		fc.ts++
		fc.rows[string(put.Row)] = append(fc.rows[string(put.Row)], &wire.Cell{
			Family:    col.Family,
			Qualifier: col.Qualifier,
			Timestamp: fc.ts,
			Value:     col.Value,
		})
	}
}

func (fc *fakeCluster) handle(addr, method string, p thrift.TProtocol) thrift.TStruct {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	switch method {
	case wire.MethodLocateRegion:
		args := new(wire.LocateArgs)
		if args.Read(p) != nil {
			return nil
		}
		fc.locates++
		for _, loc := range fc.regions {
			if loc.Table == args.Table && loc.Contains(args.Row) {
				cp := *loc
				return &wire.LocateResult{Location: &cp}
			}
		}
		return &wire.LocateResult{Ex: &wire.RemoteException{Code: wire.CodeUnknownTable, Message: args.Table}}

	case wire.MethodGet:
		args := new(wire.GetArgs)
		if args.Read(p) != nil {
			return nil
		}
		if !fc.owns(addr, args.Get.Row) {
			return &wire.GetResult{Ex: staleEx()}
		}
		return &wire.GetResult{Success: fc.rowResult(string(args.Get.Row), args.Get.Family, args.Get.Qualifier)}

	case wire.MethodPut:
		args := new(wire.PutArgs)
		if args.Read(p) != nil {
			return nil
		}
		if !fc.owns(addr, args.Put.Row) {
			return &wire.VoidResult{Ex: staleEx()}
		}
		fc.applyPut(args.Put)
		return new(wire.VoidResult)

	case wire.MethodPutMultiple:
		args := new(wire.PutMultiArgs)
		if args.Read(p) != nil {
			return nil
		}
		fc.batches[addr]++
		for _, put := range args.Puts {
			if !fc.owns(addr, put.Row) {
				return &wire.VoidResult{Ex: staleEx()}
			}
		}
		for _, put := range args.Puts {
			fc.applyPut(put)
		}
		return new(wire.VoidResult)

	case wire.MethodDelete:
		args := new(wire.DeleteArgs)
		if args.Read(p) != nil {
			return nil
		}
		if !fc.owns(addr, args.Delete.Row) {
			return &wire.VoidResult{Ex: staleEx()}
		}
		kept := []*wire.Cell{}
		for _, c := range fc.rows[string(args.Delete.Row)] {
			if bytes.Equal(c.Family, args.Delete.Family) &&
				(len(args.Delete.Qualifier) == 0 || bytes.Equal(c.Qualifier, args.Delete.Qualifier)) {
				continue
			}
			kept = append(kept, c)
		}
		fc.rows[string(args.Delete.Row)] = kept
		return new(wire.VoidResult)

	case wire.MethodScanOpen:
		args := new(wire.ScanOpenArgs)
		if args.Read(p) != nil {
			return nil
		}
		if !fc.owns(addr, args.Scan.StartRow) {
			return &wire.ScanOpenResult{Ex: staleEx()}
		}
		region := fc.regionFor(args.Scan.StartRow)
		keys := []string{}
		for key := range fc.rows {
			k := []byte(key)
			if bytes.Compare(k, args.Scan.StartRow) < 0 {
				continue
			}
			if len(region.EndKey) > 0 && bytes.Compare(k, region.EndKey) >= 0 {
				continue
			}
			if len(args.Scan.StopRow) > 0 && bytes.Compare(k, args.Scan.StopRow) >= 0 {
				continue
			}
			keys = append(keys, key)
		}
		sort.Strings(keys)
		fc.nextScanner++
		fc.scanners[fc.nextScanner] = &fakeCursor{keys: keys, family: args.Scan.Family, qualifier: args.Scan.Qualifier}
		return &wire.ScanOpenResult{ScannerID: fc.nextScanner}

	case wire.MethodScanNext:
		args := new(wire.ScanNextArgs)
		if args.Read(p) != nil {
			return nil
		}
		cur, ok := fc.scanners[args.ScannerID]
		if !ok {
			return &wire.ScanNextResult{Ex: &wire.RemoteException{Code: wire.CodeUnknownScanner}}
		}
		rows := []*wire.Result{}
		for len(cur.keys) > 0 && len(rows) < int(args.NumRows) {
			key := cur.keys[0]
			cur.keys = cur.keys[1:]
			res := fc.rowResult(key, cur.family, cur.qualifier)
			if res.Empty() {
				continue
			}
			rows = append(rows, res)
		}
		return &wire.ScanNextResult{Rows: rows}

	case wire.MethodScanClose:
		args := new(wire.ScanCloseArgs)
		if args.Read(p) != nil {
			return nil
		}
		delete(fc.scanners, args.ScannerID)
		fc.released = append(fc.released, args.ScannerID)
		return new(wire.VoidResult)
	}
	return nil
}

func (fc *fakeCluster) moveRegion(startKey, newAddr string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	for _, loc := range fc.regions {
		if string(loc.StartKey) == startKey {
			loc.Addr = newAddr
		}
	}
}

func (fc *fakeCluster) dropScanners() {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.scanners = map[int32]*fakeCursor{}
}

func (fc *fakeCluster) locateCount() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.locates
}

func (fc *fakeCluster) releasedScanners() []int32 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return append([]int32{}, fc.released...)
}

func (fc *fakeCluster) batchCount(addr string) int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.batches[addr]
}

func splitLayout(table string) []*wire.RegionLocation {
	return []*wire.RegionLocation{
		{Table: table, StartKey: nil, EndKey: []byte("m"), Addr: "rs1"},
		{Table: table, StartKey: []byte("m"), EndKey: nil, Addr: "rs2"},
	}
}

func newTestClient(t *testing.T, fc *fakeCluster) *Client {
	t.Helper()
	o := DefaultOptions
	o.Quorum = []string{"coord"}
	o.Poolconfig = &PoolConfig{
		MaxConn:     4,
		IdleTimeout: time.Minute * 15,
		Timeout:     time.Second,
		Interval:    time.Millisecond * 10,
		Dial:        fc.dial,
	}
	c, err := New(WithOptions(&o))
	require.NoError(t, err)
	return c
}

func TestClientPutGetRoundTrip(t *testing.T) {
	fc := newFakeCluster(splitLayout("demo")...)
	c := newTestClient(t, fc)
	defer c.HardClose()
	ctx := context.Background()

	put := wire.NewPut([]byte("alpha")).AddColumn([]byte("cf"), []byte("name"), []byte{1, 2, 3})
	require.NoError(t, c.Put(ctx, "demo", put))

	res, err := c.Get(ctx, "demo", wire.NewGet([]byte("alpha")))
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, res.Value([]byte("cf"), []byte("name")))

	// an absent row is an empty result, never nil and never an error
	missing, err := c.Get(ctx, "demo", wire.NewGet([]byte("nothing")))
	require.NoError(t, err)
	require.NotNil(t, missing)
	require.True(t, missing.Empty())

	ok, err := c.Exists(ctx, "demo", wire.NewGet([]byte("alpha")))
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = c.Exists(ctx, "demo", wire.NewGet([]byte("nothing")))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestClientGetNarrowing(t *testing.T) {
	fc := newFakeCluster(splitLayout("demo")...)
	c := newTestClient(t, fc)
	defer c.HardClose()
	ctx := context.Background()

	put := wire.NewPut([]byte("alpha")).
		AddColumn([]byte("cf1"), []byte("a"), []byte("v1")).
		AddColumn([]byte("cf1"), []byte("b"), []byte("v2")).
		AddColumn([]byte("cf2"), []byte("c"), []byte("v3"))
	require.NoError(t, c.Put(ctx, "demo", put))

	whole, err := c.Get(ctx, "demo", wire.NewGet([]byte("alpha")))
	require.NoError(t, err)
	require.Len(t, whole.Cells, 3)

	family, err := c.Get(ctx, "demo", wire.NewGet([]byte("alpha")).AddFamily([]byte("cf1")))
	require.NoError(t, err)
	require.Len(t, family.Cells, 2)
	for _, cell := range family.Cells {
		require.Equal(t, []byte("cf1"), cell.Family)
		require.Equal(t, cell.Value, whole.Value(cell.Family, cell.Qualifier))
	}

	column, err := c.Get(ctx, "demo", wire.NewGet([]byte("alpha")).AddColumn([]byte("cf1"), []byte("a")))
	require.NoError(t, err)
	require.Len(t, column.Cells, 1)
	require.Equal(t, []byte("v1"), column.Value([]byte("cf1"), []byte("a")))
}

func TestClientDelete(t *testing.T) {
	fc := newFakeCluster(splitLayout("demo")...)
	c := newTestClient(t, fc)
	defer c.HardClose()
	ctx := context.Background()

	put := wire.NewPut([]byte("alpha")).
		AddColumn([]byte("cf1"), []byte("a"), []byte("v1")).
		AddColumn([]byte("cf1"), []byte("b"), []byte("v2")).
		AddColumn([]byte("cf2"), []byte("c"), []byte("v3"))
	require.NoError(t, c.Put(ctx, "demo", put))

	require.NoError(t, c.Delete(ctx, "demo", wire.NewDelete([]byte("alpha")).AddColumn([]byte("cf1"), []byte("a"))))
	res, err := c.Get(ctx, "demo", wire.NewGet([]byte("alpha")))
	require.NoError(t, err)
	require.Nil(t, res.Value([]byte("cf1"), []byte("a")))
	require.Equal(t, []byte("v2"), res.Value([]byte("cf1"), []byte("b")))

	require.NoError(t, c.Delete(ctx, "demo", wire.NewDelete([]byte("alpha")).AddFamily([]byte("cf1"))))
	res, err = c.Get(ctx, "demo", wire.NewGet([]byte("alpha")))
	require.NoError(t, err)
	require.Nil(t, res.Value([]byte("cf1"), []byte("b")))
	require.Equal(t, []byte("v3"), res.Value([]byte("cf2"), []byte("c")))
}

func TestClientPutMultipleBatchesPerServer(t *testing.T) {
	fc := newFakeCluster(splitLayout("demo")...)
	c := newTestClient(t, fc)
	defer c.HardClose()
	ctx := context.Background()

	puts := []*wire.PutRequest{
		wire.NewPut([]byte("alpha")).AddColumn([]byte("cf"), []byte("q"), []byte("v1")),
		wire.NewPut([]byte("zulu")).AddColumn([]byte("cf"), []byte("q"), []byte("v2")),
		wire.NewPut([]byte("beta")).AddColumn([]byte("cf"), []byte("q"), []byte("v3")),
	}
	require.NoError(t, c.PutMultiple(ctx, "demo", puts))

	// rows sharing a destination travel in one request
	require.Equal(t, 1, fc.batchCount("rs1"))
	require.Equal(t, 1, fc.batchCount("rs2"))

	for i, row := range []string{"alpha", "zulu", "beta"} {
		res, err := c.Get(ctx, "demo", wire.NewGet([]byte(row)))
		require.NoError(t, err)
		require.Equal(t, puts[i].Columns[0].Value, res.Value([]byte("cf"), []byte("q")))
	}
}

func TestClientStaleRegionRetry(t *testing.T) {
	fc := newFakeCluster(splitLayout("demo")...)
	c := newTestClient(t, fc)
	defer c.HardClose()
	ctx := context.Background()

	put := wire.NewPut([]byte("alpha")).AddColumn([]byte("cf"), []byte("q"), []byte("v1"))
	require.NoError(t, c.Put(ctx, "demo", put))

	// reassign the low region; the cached location now points at the wrong
	// server and the next call must relocate and retry
	fc.moveRegion("", "rs2")
	before := fc.locateCount()

	res, err := c.Get(ctx, "demo", wire.NewGet([]byte("alpha")))
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), res.Value([]byte("cf"), []byte("q")))
	require.Equal(t, before+1, fc.locateCount())
}

func TestClientScanAcrossRegions(t *testing.T) {
	fc := newFakeCluster(splitLayout("demo")...)
	c := newTestClient(t, fc)
	defer c.HardClose()
	ctx := context.Background()

	for _, row := range []string{"alpha", "beta", "mike", "zulu"} {
		put := wire.NewPut([]byte(row)).AddColumn([]byte("cf"), []byte("q"), []byte("v-"+row))
		require.NoError(t, c.Put(ctx, "demo", put))
	}

	sc, err := c.Scan(ctx, "demo", wire.NewScan().AddFamily([]byte("cf")))
	require.NoError(t, err)
	defer sc.Close()

	got := []string{}
	for {
		row, err := sc.Next(ctx)
		require.NoError(t, err)
		if row == nil {
			break
		}
		got = append(got, string(row.Row))
	}
	// the region boundary at "m" is invisible to the caller
	require.Equal(t, []string{"alpha", "beta", "mike", "zulu"}, got)
}

func TestClientScanEmptyRange(t *testing.T) {
	fc := newFakeCluster(splitLayout("demo")...)
	c := newTestClient(t, fc)
	defer c.HardClose()
	ctx := context.Background()

	put := wire.NewPut([]byte("alpha")).AddColumn([]byte("cf"), []byte("q"), []byte("v"))
	require.NoError(t, c.Put(ctx, "demo", put))

	sc, err := c.Scan(ctx, "demo", wire.NewScan().SetRange([]byte("x1"), []byte("x2")))
	require.NoError(t, err)
	defer sc.Close()

	row, err := sc.Next(ctx)
	require.NoError(t, err)
	require.Nil(t, row)
}

func TestScannerRecoversLostCursor(t *testing.T) {
	fc := newFakeCluster(splitLayout("demo")...)
	c := newTestClient(t, fc)
	defer c.HardClose()
	ctx := context.Background()

	for _, row := range []string{"alpha", "beta", "delta"} {
		put := wire.NewPut([]byte(row)).AddColumn([]byte("cf"), []byte("q"), []byte("v-"+row))
		require.NoError(t, c.Put(ctx, "demo", put))
	}

	sc, err := c.Scan(ctx, "demo", wire.NewScan().AddFamily([]byte("cf")).SetCaching(1))
	require.NoError(t, err)
	defer sc.Close()

	first, err := sc.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "alpha", string(first.Row))

	// the server drops every cursor; the scan must reopen after the last
	// delivered row without repeating it
	fc.dropScanners()

	got := []string{}
	for {
		row, err := sc.Next(ctx)
		require.NoError(t, err)
		if row == nil {
			break
		}
		got = append(got, string(row.Row))
	}
	require.Equal(t, []string{"beta", "delta"}, got)
}

func TestScannerCloseReleasesCursor(t *testing.T) {
	fc := newFakeCluster(splitLayout("demo")...)
	c := newTestClient(t, fc)
	defer c.HardClose()
	ctx := context.Background()

	put := wire.NewPut([]byte("alpha")).AddColumn([]byte("cf"), []byte("q"), []byte("v"))
	require.NoError(t, c.Put(ctx, "demo", put))

	sc, err := c.Scan(ctx, "demo", wire.NewScan().AddFamily([]byte("cf")))
	require.NoError(t, err)

	row, err := sc.Next(ctx)
	require.NoError(t, err)
	require.NotNil(t, row)

	require.NoError(t, sc.Close())
	require.Len(t, fc.releasedScanners(), 1)

	// closed is closed
	require.NoError(t, sc.Close())
	_, err = sc.Next(ctx)
	require.ErrorIs(t, err, ErrScannerClosed)
}

func TestClientClosed(t *testing.T) {
	fc := newFakeCluster(splitLayout("demo")...)
	c := newTestClient(t, fc)

	require.NoError(t, c.HardClose())
	_, err := c.Get(context.Background(), "demo", wire.NewGet([]byte("alpha")))
	require.ErrorIs(t, err, ErrClientClosed)

	require.NoError(t, c.Open())
	put := wire.NewPut([]byte("alpha")).AddColumn([]byte("cf"), []byte("q"), []byte("v"))
	require.NoError(t, c.Put(context.Background(), "demo", put))
	require.NoError(t, c.HardClose())
}
