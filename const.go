// 常量定义
package htable

import "time"

const (
	DEFAULT_CHECKINTERVAL      = 120 // idle connection sweep interval, seconds
	DEFAULT_POOL_CLOSE_TIMEOUT = time.Duration(1) * time.Second
	DEFAULT_SCAN_CACHING       = 100 // rows fetched per scanner round trip
	DEFAULT_QUORUM_PORT        = 2181
)
