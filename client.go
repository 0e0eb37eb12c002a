// 客户端定义
package htable

import (
	"context"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Golang-Tools/htable/wire"
	"github.com/apache/thrift/lib/go/thrift"
)

type Client struct {
	Opts Options
	// coordinator endpoints derived from the quorum
	coord []string
	// one channel pool per server endpoint
	poolmu sync.Mutex
	pools  map[string]*Pool

	locator *locator
	status  uint32
}

func New(opts ...Option) (*Client, error) {
	c := new(Client)
	c.Opts = DefaultOptions
	for _, opt := range opts {
		opt.Apply(&c.Opts)
	}
	if len(c.Opts.Quorum) == 0 {
		return nil, ErrQuorumNotSet
	}
	if c.Opts.Poolconfig == nil {
		c.Opts.Poolconfig = defaultPoolConfig()
	}
	if c.Opts.ScanCaching <= 0 {
		c.Opts.ScanCaching = DEFAULT_SCAN_CACHING
	}
	for _, host := range c.Opts.Quorum {
		if strings.Contains(host, ":") {
			c.coord = append(c.coord, host)
		} else {
			port := c.Opts.QuorumPort
			if port <= 0 {
				port = DEFAULT_QUORUM_PORT
			}
			c.coord = append(c.coord, net.JoinHostPort(host, strconv.Itoa(port)))
		}
	}
	c.pools = map[string]*Pool{}
	c.locator = newLocator(c.locateRegion, c.Opts.Logger)
	c.status = uint32(PoolStatus_Open)
	return c, nil
}

// NewCtx 根据注册的超时时间构造一个上下文
func (c *Client) NewCtx() (ctx context.Context, cancel context.CancelFunc) {
	if c.Opts.QueryTimeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), c.Opts.QueryTimeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	return
}

//Close 关闭客户端,默认如果设置请求超时则等待一个请求超时的时间,否则等待1s
func (c *Client) Close() error {
	err := c.HardClose()
	if err != nil {
		return err
	}
	if c.Opts.QueryTimeout > 0 {
		time.Sleep(c.Opts.QueryTimeout)
	} else {
		time.Sleep(DEFAULT_POOL_CLOSE_TIMEOUT)
	}
	return nil
}

//HardClose 强制关闭客户端
func (c *Client) HardClose() error {
	if !c.IsOpen() {
		return ErrPoolClosed
	}
	atomic.StoreUint32(&c.status, uint32(PoolStatus_Stoped))
	c.poolmu.Lock()
	defer c.poolmu.Unlock()
	for _, pool := range c.pools {
		pool.Release()
	}
	return nil
}

//SoftClose 设置等待时长以软关闭客户端
func (c *Client) SoftClose(timeout time.Duration) error {
	err := c.HardClose()
	if err != nil {
		return err
	}
	time.Sleep(timeout)
	return nil
}

//Open 开启客户端
func (c *Client) Open() error {
	if c.IsOpen() {
		return ErrPoolAlreadyOpened
	}
	atomic.StoreUint32(&c.status, uint32(PoolStatus_Open))
	c.poolmu.Lock()
	defer c.poolmu.Unlock()
	for _, pool := range c.pools {
		pool.Recover()
	}
	return nil
}

//IsOpen 判断客户端是否已经开启
func (c *Client) IsOpen() bool {
	return atomic.LoadUint32(&c.status) != uint32(PoolStatus_Stoped)
}

// poolFor returns the channel pool of one endpoint, creating it on first
// use. Creation is guarded so racing callers cannot end up with two pools
// (and two sets of connections) for the same address.
func (c *Client) poolFor(addr string) *Pool {
	c.poolmu.Lock()
	defer c.poolmu.Unlock()
	pool, ok := c.pools[addr]
	if !ok {
		config := *c.Opts.Poolconfig
		config.Addr = addr
		pool = NewPool(&config)
		c.pools[addr] = pool
	}
	return pool
}

// do 通过闭包中调用来处理连接池中的连接对象的上下文
func (c *Client) do(addr string, fn func(conn *Conn) error) error {
	var (
		client *Conn
		err    error
	)
	pool := c.poolFor(addr)
	defer func() {
		if client != nil {
			if err == nil {
				rErr := pool.Put(client)
				if rErr != nil {
					c.Opts.Logger.WithError(rErr).Error("Release Client error")
				}
			} else if _, ok := err.(net.Error); ok {
				pool.CloseConn(client)
			} else if _, ok = err.(thrift.TTransportException); ok {
				pool.CloseConn(client)
			} else {
				if rErr := pool.Put(client); rErr != nil {
					c.Opts.Logger.WithError(rErr).Error("Release Client error")
				}
			}
		}
	}()
	client, err = pool.Get()
	if err != nil {
		return err
	}
	err = fn(client)
	if err != nil {
		if isTransportError(err) {
			c.Opts.Logger.WithError(err).Error("Retry TCP error")
			// 网络错误,重建连接
			client, err = pool.Reconnect(client)
			if err != nil {
				return err
			}
			err = fn(client)
			return err
		}
		return err
	}
	return nil
}

func isTransportError(err error) bool {
	if _, ok := err.(net.Error); ok {
		return true
	}
	_, ok := err.(thrift.TTransportException)
	return ok
}

// locateRegion consults the coordinator, trying each quorum endpoint in turn
// until one answers. It backs the locator cache.
func (c *Client) locateRegion(ctx context.Context, table string, row []byte, reload bool) (*wire.RegionLocation, error) {
	var lastErr error
	for _, addr := range c.coord {
		var loc *wire.RegionLocation
		err := c.do(addr, func(conn *Conn) error {
			var err2 error
			loc, err2 = conn.Locate(ctx, table, row, reload)
			return err2
		})
		if err == nil {
			return loc, nil
		}
		lastErr = err
		if isTransportError(err) || err == ErrOverMax || err == ErrSocketDisconnect {
			// this quorum endpoint is unreachable, try the next one
			c.Opts.Logger.WithError(err).Error("coordinator endpoint unreachable")
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

// dispatch routes one row-addressed call to the server owning the row's
// region. On a stale-location fault the cached entry is dropped, the fresh
// owner fetched, and the call retried exactly once; every other failure
// propagates after the single attempt.
func (c *Client) dispatch(ctx context.Context, table string, row []byte, fn func(conn *Conn) error) (*wire.RegionLocation, error) {
	loc, err := c.locator.Locate(ctx, table, row)
	if err != nil {
		return nil, err
	}
	err = c.do(loc.Addr, fn)
	if err == nil || !wire.IsStaleRegion(err) {
		return loc, err
	}
	c.Opts.Logger.WithError(err).Error("stale region location, refreshing")
	c.locator.Invalidate(loc)
	loc, err = c.locator.Refresh(ctx, table, row)
	if err != nil {
		return nil, err
	}
	return loc, c.do(loc.Addr, fn)
}

// Get fetches one logical row, optionally narrowed to a family or a single
// (family, qualifier) pair by the request. A row with no match comes back
// as an empty result, not an error.
func (c *Client) Get(ctx context.Context, table string, get *wire.GetRequest) (*wire.Result, error) {
	if !c.IsOpen() {
		return nil, ErrClientClosed
	}
	var result *wire.Result
	_, err := c.dispatch(ctx, table, get.Row, func(conn *Conn) error {
		var err2 error
		result, err2 = conn.Get(ctx, table, get)
		return err2
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Exists reports whether the row has at least one cell matching the
// request's selection.
func (c *Client) Exists(ctx context.Context, table string, get *wire.GetRequest) (bool, error) {
	result, err := c.Get(ctx, table, get)
	if err != nil {
		return false, err
	}
	return !result.Empty(), nil
}

// Put commits one row mutation to the region owning its row.
func (c *Client) Put(ctx context.Context, table string, put *wire.PutRequest) error {
	if !c.IsOpen() {
		return ErrClientClosed
	}
	_, err := c.dispatch(ctx, table, put.Row, func(conn *Conn) error {
		return conn.Put(ctx, table, put)
	})
	return err
}

// PutMultiple commits a batch of puts, grouped so each destination server
// receives a single request for all of its rows.
func (c *Client) PutMultiple(ctx context.Context, table string, puts []*wire.PutRequest) error {
	if !c.IsOpen() {
		return ErrClientClosed
	}
	if len(puts) == 0 {
		return nil
	}
	try := func() error {
		order := []string{}
		groups := map[string][]*wire.PutRequest{}
		for _, put := range puts {
			loc, err := c.locator.Locate(ctx, table, put.Row)
			if err != nil {
				return err
			}
			if _, ok := groups[loc.Addr]; !ok {
				order = append(order, loc.Addr)
			}
			groups[loc.Addr] = append(groups[loc.Addr], put)
		}
		for _, addr := range order {
			batch := groups[addr]
			err := c.do(addr, func(conn *Conn) error {
				return conn.PutMultiple(ctx, table, batch)
			})
			if err != nil {
				return err
			}
		}
		return nil
	}
	err := try()
	if err != nil && wire.IsStaleRegion(err) {
		c.Opts.Logger.WithError(err).Error("stale region location, refreshing")
		c.locator.InvalidateTable(table)
		return try()
	}
	return err
}

// Delete removes a whole family of a row, or a single column when the
// request names a qualifier.
func (c *Client) Delete(ctx context.Context, table string, tdelete *wire.DeleteRequest) error {
	if !c.IsOpen() {
		return ErrClientClosed
	}
	_, err := c.dispatch(ctx, table, tdelete.Row, func(conn *Conn) error {
		return conn.Delete(ctx, table, tdelete)
	})
	return err
}

// Scan opens a cursor over the scan's row range. Region boundary crossings
// are handled inside the returned scanner; callers just iterate Next until
// it returns nil and then Close.
func (c *Client) Scan(ctx context.Context, table string, tscan *wire.ScanRequest) (*Scanner, error) {
	if !c.IsOpen() {
		return nil, ErrClientClosed
	}
	return newScanner(c, table, tscan), nil
}
