// 异常定义
package htable

import "errors"

//error
var (
	//ErrOverMax Pool has reached its configured connection limit
	ErrOverMax = errors.New("htable: connection count over pool limit")
	//ErrInvalidConn a nil connection was returned to the pool
	ErrInvalidConn = errors.New("htable: invalid connection returned to pool")
	//ErrPoolClosed the pool has been released
	ErrPoolClosed = errors.New("htable: pool is closed")
	//ErrPoolAlreadyOpened the pool is already open
	ErrPoolAlreadyOpened = errors.New("htable: pool is already open")
	//ErrSocketDisconnect the connection's socket is no longer open
	ErrSocketDisconnect = errors.New("htable: socket disconnected")
	//ErrQuorumNotSet Client created without a quorum address
	ErrQuorumNotSet = errors.New("htable: quorum address not set")
	//ErrClientClosed operation attempted on a closed client
	ErrClientClosed = errors.New("htable: client is closed")
	//ErrTableClosed operation attempted on a released table handle
	ErrTableClosed = errors.New("htable: table handle is closed")
	//ErrScannerClosed Next called on a closed scanner
	ErrScannerClosed = errors.New("htable: scanner is closed")
	//ErrNoRegion the coordinator answered with no region for the row
	ErrNoRegion = errors.New("htable: no region found for row")
)
