// 初始化配置项
package htable

import (
	"time"

	logrus "github.com/sirupsen/logrus"
)

//Options 客户端配置
type Options struct {
	// quorum host list, the coordinator is reached through these
	Quorum []string
	// port appended to quorum hosts given without one
	QuorumPort int
	// template for the per-endpoint channel pools
	Poolconfig   *PoolConfig
	QueryTimeout time.Duration
	// rows per scanner round trip when the scan spec does not say
	ScanCaching int32
	Logger      logrus.FieldLogger
}

func defaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxConn: 60,
		// 创建连接超时时间
		ConnTimeout: time.Second * 2,
		// per-call socket timeout, 0 inherits the OS default
		SoTimeout: 0,
		// 空闲客户端超时时间,超时主动释放连接,关闭客户端
		IdleTimeout: time.Minute * 15,
		// 获取连接超时时间
		Timeout: time.Second * 5,
		// 获取连接失败重试间隔
		Interval: time.Millisecond * 50,
	}
}

var DefaultOptions = Options{
	QuorumPort:  DEFAULT_QUORUM_PORT,
	Poolconfig:  defaultPoolConfig(),
	ScanCaching: DEFAULT_SCAN_CACHING,
	Logger:      logrus.New().WithField("logger", "htable"),
}

// Option configures how we set up the connection.
type Option interface {
	Apply(*Options)
}

type funcOption struct {
	f func(*Options)
}

func (fo *funcOption) Apply(do *Options) {
	fo.f(do)
}

func newFuncOption(f func(*Options)) *funcOption {
	return &funcOption{
		f: f,
	}
}

func ensurePoolConfig(o *Options) *PoolConfig {
	if o.Poolconfig == nil {
		o.Poolconfig = defaultPoolConfig()
	}
	return o.Poolconfig
}

//WithOptions 设置option
func WithOptions(opts *Options) Option {
	return newFuncOption(func(o *Options) {
		o.Quorum = opts.Quorum
		o.QuorumPort = opts.QuorumPort
		o.Poolconfig = opts.Poolconfig
		o.QueryTimeout = opts.QueryTimeout
		o.ScanCaching = opts.ScanCaching
		o.Logger = opts.Logger
	})
}

//WithQuorum 设置quorum主机列表,如`host`或`host:port`形式
func WithQuorum(hosts ...string) Option {
	return newFuncOption(func(o *Options) {
		o.Quorum = hosts
	})
}

//WithQuorumPort 设置quorum默认端口
func WithQuorumPort(port int) Option {
	return newFuncOption(func(o *Options) {
		o.QuorumPort = port
	})
}

//WithQueryTimeoutMS 设置最大请求超时,单位ms
func WithQueryTimeoutMS(QueryTimeout int) Option {
	return newFuncOption(func(o *Options) {
		o.QueryTimeout = time.Duration(QueryTimeout) * time.Millisecond
	})
}

//WithScanCaching 设置scan每次取行数
func WithScanCaching(n int32) Option {
	return newFuncOption(func(o *Options) {
		o.ScanCaching = n
	})
}

//WithMaxConns 设置每个服务端地址连接池的最大连接数
func WithMaxConns(MaxConns int32) Option {
	return newFuncOption(func(o *Options) {
		ensurePoolConfig(o).MaxConn = MaxConns
	})
}

//WithConnTimeoutS 创建连接超时时间,单位s
func WithConnTimeoutS(ConnTimeoutS int) Option {
	return newFuncOption(func(o *Options) {
		ensurePoolConfig(o).ConnTimeout = time.Duration(ConnTimeoutS) * time.Second
	})
}

//WithSoTimeoutS 单次调用socket超时时间,单位s
func WithSoTimeoutS(SoTimeoutS int) Option {
	return newFuncOption(func(o *Options) {
		ensurePoolConfig(o).SoTimeout = time.Duration(SoTimeoutS) * time.Second
	})
}

//WithIdleTimeoutS 空闲连接超时时间,超时主动释放连接,单位s
func WithIdleTimeoutS(IdleTimeoutS int) Option {
	return newFuncOption(func(o *Options) {
		ensurePoolConfig(o).IdleTimeout = time.Duration(IdleTimeoutS) * time.Second
	})
}

// WithTimeoutS 获取连接超时时间,单位s
func WithTimeoutS(TimeoutS int) Option {
	return newFuncOption(func(o *Options) {
		ensurePoolConfig(o).Timeout = time.Duration(TimeoutS) * time.Second
	})
}

//WithIntervalMS 获取连接失败重试间隔,单位ms
func WithIntervalMS(IntervalMS int) Option {
	return newFuncOption(func(o *Options) {
		ensurePoolConfig(o).Interval = time.Duration(IntervalMS) * time.Millisecond
	})
}

//WithDial 替换连接创建函数,测试用
func WithDial(dial DialFunc) Option {
	return newFuncOption(func(o *Options) {
		ensurePoolConfig(o).Dial = dial
	})
}

//WithLogger 指定使用logger
func WithLogger(logger logrus.FieldLogger) Option {
	return newFuncOption(func(o *Options) {
		o.Logger = logger
	})
}
