// 区域服务器连接定义
package htable

import (
	"context"
	"time"

	"github.com/Golang-Tools/htable/wire"
	"github.com/apache/thrift/lib/go/thrift"
)

// Conn is one channel to one server endpoint: a framed socket transport with
// the binary protocol on top. Region servers and the coordinator speak the
// same protocol, so the same Conn type talks to both.
type Conn struct {
	client    *thrift.TStandardClient
	transport thrift.TTransport
	// last time the connection entered the idle queue
	t time.Time
}

func NewConn(addr string, connTimeout, soTimeout time.Duration) (*Conn, error) {
	sock, err := thrift.NewTSocketTimeout(addr, connTimeout)
	if err != nil {
		return nil, err
	}
	transport := thrift.NewTFramedTransport(sock)
	if err := transport.Open(); err != nil {
		return nil, err
	}
	if err := sock.SetTimeout(soTimeout); err != nil {
		return nil, err
	}
	return newConn(transport), nil
}

func newConn(transport thrift.TTransport) *Conn {
	protocolFactory := thrift.NewTBinaryProtocolFactoryDefault()
	return &Conn{
		client: thrift.NewTStandardClient(
			protocolFactory.GetProtocol(transport),
			protocolFactory.GetProtocol(transport),
		),
		transport: transport,
	}
}

// Check reports whether the connection is still usable.
func (c *Conn) Check() bool {
	if c.transport == nil || c.client == nil {
		return false
	}
	return c.IsOpen()
}

func (c *Conn) Close() error {
	return c.transport.Close()
}
func (c *Conn) Open() error {
	return c.transport.Open()
}
func (c *Conn) IsOpen() bool {
	return c.transport.IsOpen()
}

// Get fetches one logical row. A row with no match comes back as an empty,
// never nil, result.
func (c *Conn) Get(ctx context.Context, table string, get *wire.GetRequest) (*wire.Result, error) {
	args := &wire.GetArgs{Table: table, Get: get}
	result := new(wire.GetResult)
	if err := c.client.Call(ctx, wire.MethodGet, args, result); err != nil {
		return nil, err
	}
	if result.Ex != nil {
		return nil, result.Ex
	}
	if result.Success == nil {
		result.Success = wire.NewResult()
	}
	return result.Success, nil
}

// Put commits one row mutation.
func (c *Conn) Put(ctx context.Context, table string, put *wire.PutRequest) error {
	args := &wire.PutArgs{Table: table, Put: put}
	result := new(wire.VoidResult)
	if err := c.client.Call(ctx, wire.MethodPut, args, result); err != nil {
		return err
	}
	if result.Ex != nil {
		return result.Ex
	}
	return nil
}

// PutMultiple commits a batch of row mutations addressed to this server.
func (c *Conn) PutMultiple(ctx context.Context, table string, puts []*wire.PutRequest) error {
	args := &wire.PutMultiArgs{Table: table, Puts: puts}
	result := new(wire.VoidResult)
	if err := c.client.Call(ctx, wire.MethodPutMultiple, args, result); err != nil {
		return err
	}
	if result.Ex != nil {
		return result.Ex
	}
	return nil
}

// Delete removes a family, or a single column when the request names a
// qualifier.
func (c *Conn) Delete(ctx context.Context, table string, tdelete *wire.DeleteRequest) error {
	args := &wire.DeleteArgs{Table: table, Delete: tdelete}
	result := new(wire.VoidResult)
	if err := c.client.Call(ctx, wire.MethodDelete, args, result); err != nil {
		return err
	}
	if result.Ex != nil {
		return result.Ex
	}
	return nil
}

// ScanOpen opens a server-side cursor and returns its id.
func (c *Conn) ScanOpen(ctx context.Context, table string, tscan *wire.ScanRequest) (int32, error) {
	args := &wire.ScanOpenArgs{Table: table, Scan: tscan}
	result := new(wire.ScanOpenResult)
	if err := c.client.Call(ctx, wire.MethodScanOpen, args, result); err != nil {
		return 0, err
	}
	if result.Ex != nil {
		return 0, result.Ex
	}
	return result.ScannerID, nil
}

// ScanNext fetches up to numRows rows from an open cursor. An empty slice
// means the cursor is exhausted on this server.
func (c *Conn) ScanNext(ctx context.Context, scannerID int32, numRows int32) ([]*wire.Result, error) {
	args := &wire.ScanNextArgs{ScannerID: scannerID, NumRows: numRows}
	result := new(wire.ScanNextResult)
	if err := c.client.Call(ctx, wire.MethodScanNext, args, result); err != nil {
		return nil, err
	}
	if result.Ex != nil {
		return nil, result.Ex
	}
	return result.Rows, nil
}

// ScanClose frees the server-side cursor.
func (c *Conn) ScanClose(ctx context.Context, scannerID int32) error {
	args := &wire.ScanCloseArgs{ScannerID: scannerID}
	result := new(wire.VoidResult)
	if err := c.client.Call(ctx, wire.MethodScanClose, args, result); err != nil {
		return err
	}
	if result.Ex != nil {
		return result.Ex
	}
	return nil
}

// Locate asks the coordinator which server currently owns the region
// containing row. reload bypasses the coordinator's own cache.
func (c *Conn) Locate(ctx context.Context, table string, row []byte, reload bool) (*wire.RegionLocation, error) {
	args := &wire.LocateArgs{Table: table, Row: row, Reload: reload}
	result := new(wire.LocateResult)
	if err := c.client.Call(ctx, wire.MethodLocateRegion, args, result); err != nil {
		return nil, err
	}
	if result.Ex != nil {
		return nil, result.Ex
	}
	return result.Location, nil
}
