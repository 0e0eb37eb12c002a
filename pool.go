// 连接池定义
package htable

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"
)

// PoolStatus 池状态
type PoolStatus uint32

const (
	PoolStatus_Stoped PoolStatus = iota
	PoolStatus_Open
)

// DialFunc creates one connection to addr.
type DialFunc func(addr string, connTimeout, soTimeout time.Duration) (*Conn, error)

// PoolConfig configures the channel pool of a single server endpoint.
type PoolConfig struct {
	// server endpoint address
	Addr string
	// 最大连接数
	MaxConn int32
	// connection establishment timeout
	ConnTimeout time.Duration
	// per-call socket timeout
	SoTimeout time.Duration
	// idle connections older than this are closed by the sweeper
	IdleTimeout time.Duration
	// how long Get waits for a free slot before ErrOverMax
	Timeout time.Duration
	// pause between free-slot retries
	Interval time.Duration
	// Dial overrides connection creation, NewConn when nil
	Dial DialFunc
}

// Pool holds the channels to one server endpoint. The client keeps one Pool
// per region server address plus one per coordinator address, so one
// endpoint never has more than one pool owning its connections.
type Pool struct {
	idle list.List
	// 同步锁,确保count/status/idle等公共数据并发操作安全
	lock *sync.Mutex
	// number of connections currently created, bounded by MaxConn
	count int32
	// open or stopped
	status uint32
	config *PoolConfig
}

var nowFunc = time.Now

// NewPool 创建一个新的池对象
func NewPool(config *PoolConfig) *Pool {
	if config.Dial == nil {
		config.Dial = NewConn
	}
	pool := &Pool{
		lock:   &sync.Mutex{},
		config: config,
		status: uint32(PoolStatus_Open),
		count:  0,
	}
	// 定期清理过期空闲连接
	go pool.ClearConn()
	return pool
}

// ClearConn 定时清空闲置连接
func (p *Pool) ClearConn() {
	sleepTime := DEFAULT_CHECKINTERVAL * time.Second
	if sleepTime < p.config.IdleTimeout {
		sleepTime = p.config.IdleTimeout
	}
	for {
		p.CheckTimeout()
		time.Sleep(sleepTime)
	}
}

// CheckTimeout closes idle connections that have outlived IdleTimeout.
func (p *Pool) CheckTimeout() {
	p.lock.Lock()
	for p.idle.Len() != 0 {
		ele := p.idle.Back()
		if ele == nil {
			break
		}
		v := ele.Value.(*Conn)
		if v.t.Add(p.config.IdleTimeout).After(nowFunc()) {
			break
		}
		//timeout && clear
		p.idle.Remove(ele)
		p.lock.Unlock()
		v.Close()
		atomic.AddInt32(&p.count, -1)
		p.lock.Lock()
	}
	p.lock.Unlock()
}

// Get returns an idle connection, dialing a new one when the pool is below
// MaxConn.
func (p *Pool) Get() (*Conn, error) {
	return p.get(nowFunc().Add(p.config.Timeout))
}

// expire is the point at which waiting for a free slot gives up with
// ErrOverMax. The wait loops instead of recursing so a long queue cannot
// overflow the stack.
func (p *Pool) get(expire time.Time) (*Conn, error) {
	if atomic.LoadUint32(&p.status) == uint32(PoolStatus_Stoped) {
		return nil, ErrPoolClosed
	}

	p.lock.Lock()
	if p.idle.Len() == 0 && atomic.LoadInt32(&p.count) >= p.config.MaxConn {
		p.lock.Unlock()
		for {
			time.Sleep(p.config.Interval)
			if nowFunc().After(expire) {
				return nil, ErrOverMax
			}
			p.lock.Lock()
			if p.idle.Len() == 0 && atomic.LoadInt32(&p.count) >= p.config.MaxConn {
				p.lock.Unlock()
			} else {
				break
			}
		}
	}

	if p.idle.Len() == 0 {
		// count goes up before the dial finishes so a slow TCP handshake
		// cannot let concurrent callers overshoot MaxConn
		atomic.AddInt32(&p.count, 1)
		p.lock.Unlock()
		client, err := p.config.Dial(p.config.Addr, p.config.ConnTimeout, p.config.SoTimeout)
		if err != nil {
			atomic.AddInt32(&p.count, -1)
			return nil, err
		}
		if !client.Check() {
			atomic.AddInt32(&p.count, -1)
			return nil, ErrSocketDisconnect
		}
		return client, nil
	}

	// 从队头中获取空闲连接
	ele := p.idle.Front()
	idlec := ele.Value.(*Conn)
	p.idle.Remove(ele)
	p.lock.Unlock()

	// an idle connection may have been closed by the peer, check again
	if !idlec.Check() {
		atomic.AddInt32(&p.count, -1)
		return nil, ErrSocketDisconnect
	}
	return idlec, nil
}

//Put 归还连接
func (p *Pool) Put(client *Conn) error {
	if client == nil {
		return ErrInvalidConn
	}

	if atomic.LoadUint32(&p.status) == uint32(PoolStatus_Stoped) {
		err := client.Close()
		client = nil
		return err
	}

	if atomic.LoadInt32(&p.count) > p.config.MaxConn || !client.Check() {
		atomic.AddInt32(&p.count, -1)
		err := client.Close()
		client = nil
		return err
	}

	p.lock.Lock()
	client.t = nowFunc()
	p.idle.PushFront(client)
	p.lock.Unlock()

	return nil
}

// Reconnect closes a broken connection and dials a fresh one in its place.
func (p *Pool) Reconnect(client *Conn) (newClient *Conn, err error) {
	if client != nil {
		client.Close()
	}
	client = nil
	newClient, err = p.config.Dial(p.config.Addr, p.config.ConnTimeout, p.config.SoTimeout)
	if err != nil {
		atomic.AddInt32(&p.count, -1)
		return
	}
	if !newClient.Check() {
		atomic.AddInt32(&p.count, -1)
		return nil, ErrSocketDisconnect
	}
	return
}

//CloseConn 关闭指定连接
func (p *Pool) CloseConn(client *Conn) {
	if client != nil {
		client.Close()
	}
	atomic.AddInt32(&p.count, -1)
}

//GetIdleCount 获取现在闲置连接个数
func (p *Pool) GetIdleCount() uint32 {
	if p != nil {
		return uint32(p.idle.Len())
	}
	return 0
}

//GetConnCount 获取当前连接数
func (p *Pool) GetConnCount() int32 {
	if p != nil {
		return atomic.LoadInt32(&p.count)
	}
	return 0
}

//Release 释放连接池
func (p *Pool) Release() {
	atomic.StoreUint32(&p.status, uint32(PoolStatus_Stoped))
	atomic.StoreInt32(&p.count, 0)

	p.lock.Lock()
	idle := p.idle
	p.idle.Init()
	p.lock.Unlock()

	for iter := idle.Front(); iter != nil; iter = iter.Next() {
		iter.Value.(*Conn).Close()
	}
}

//Recover 恢复连接池
func (p *Pool) Recover() {
	atomic.StoreUint32(&p.status, uint32(PoolStatus_Open))
}

// IsOpen 查看池是否开着
func (p *Pool) IsOpen() bool {
	return atomic.LoadUint32(&p.status) != uint32(PoolStatus_Stoped)
}
