// 表句柄定义
package htable

import (
	"context"
	"sync"

	"github.com/Golang-Tools/htable/wire"
)

// Cursor is an open scan. Next returns nil when the range is exhausted.
type Cursor interface {
	Next(ctx context.Context) (*wire.Result, error)
	Close() error
}

// Table is a per-operation handle to one table. Handles are cheap and not
// shared: acquire one, use it, Close it. All calls route through the owning
// client's shared connection pools.
type Table interface {
	Name() string
	Get(ctx context.Context, get *wire.GetRequest) (*wire.Result, error)
	Put(ctx context.Context, put *wire.PutRequest) error
	PutMultiple(ctx context.Context, puts []*wire.PutRequest) error
	Delete(ctx context.Context, tdelete *wire.DeleteRequest) error
	Scan(ctx context.Context, tscan *wire.ScanRequest) (Cursor, error)
	Close() error
}

//Table 获取一个表句柄
func (c *Client) Table(name string) Table {
	return &tableHandle{c: c, name: name}
}

type tableHandle struct {
	c    *Client
	name string

	mu     sync.Mutex
	closed bool
}

func (t *tableHandle) Name() string {
	return t.name
}

func (t *tableHandle) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *tableHandle) Get(ctx context.Context, get *wire.GetRequest) (*wire.Result, error) {
	if t.isClosed() {
		return nil, ErrTableClosed
	}
	return t.c.Get(ctx, t.name, get)
}

func (t *tableHandle) Put(ctx context.Context, put *wire.PutRequest) error {
	if t.isClosed() {
		return ErrTableClosed
	}
	return t.c.Put(ctx, t.name, put)
}

func (t *tableHandle) PutMultiple(ctx context.Context, puts []*wire.PutRequest) error {
	if t.isClosed() {
		return ErrTableClosed
	}
	return t.c.PutMultiple(ctx, t.name, puts)
}

func (t *tableHandle) Delete(ctx context.Context, tdelete *wire.DeleteRequest) error {
	if t.isClosed() {
		return ErrTableClosed
	}
	return t.c.Delete(ctx, t.name, tdelete)
}

func (t *tableHandle) Scan(ctx context.Context, tscan *wire.ScanRequest) (Cursor, error) {
	if t.isClosed() {
		return nil, ErrTableClosed
	}
	return t.c.Scan(ctx, t.name, tscan)
}

// Close releases the handle. Idempotent; the underlying connections belong
// to the client and stay open.
func (t *tableHandle) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}
