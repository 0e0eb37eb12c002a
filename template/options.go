// 初始化配置项
package template

import (
	"github.com/kelseyhightower/envconfig"
	logrus "github.com/sirupsen/logrus"
)

// ConnectionFactory builds the shared connection from the effective
// configuration properties. The default factory dials a htable client; the
// hook exists so the template can run against any conforming client.
type ConnectionFactory func(props map[string]string, o *Options) (Connection, error)

//Options 模板配置
type Options struct {
	// comma separated quorum host list, overrides PropQuorum when set
	Quorum string
	// quorum client port, overrides PropClientPort when set
	Port int
	// arbitrary key-value configuration merged into the base configuration
	Properties map[string]string
	// IANA charset name used to turn string identifiers into bytes,
	// UTF-8 when blank
	Encoding string
	// 只对proxy有效,设置初始化后回调并行执行而非串行执行
	Parallelcallback bool
	Logger           logrus.FieldLogger

	factory ConnectionFactory
}

var DefaultOptions = Options{
	Logger: logrus.New().WithField("logger", "htable-template"),
}

// Option configures the template.
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

//WithOptions 设置option
func WithOptions(opts *Options) Option {
	return newFuncOption(func(o *Options) {
		o.Quorum = opts.Quorum
		o.Port = opts.Port
		o.Properties = opts.Properties
		o.Encoding = opts.Encoding
		o.Parallelcallback = opts.Parallelcallback
		o.Logger = opts.Logger
		o.factory = opts.factory
	})
}

//WithZkQuorum 设置zookeeper quorum地址,逗号分隔
func WithZkQuorum(quorum string) Option {
	return newFuncOption(func(o *Options) {
		o.Quorum = quorum
	})
}

//WithZkPort 设置zookeeper客户端端口
func WithZkPort(port int) Option {
	return newFuncOption(func(o *Options) {
		o.Port = port
	})
}

//WithProperties 合并配置属性
func WithProperties(props map[string]string) Option {
	return newFuncOption(func(o *Options) {
		if o.Properties == nil {
			o.Properties = map[string]string{}
		}
		for k, v := range props {
			o.Properties[k] = v
		}
	})
}

//WithProperty 设置单个配置属性
func WithProperty(key, value string) Option {
	return newFuncOption(func(o *Options) {
		if o.Properties == nil {
			o.Properties = map[string]string{}
		}
		o.Properties[key] = value
	})
}

//WithEncoding 设置字符串标识符的编码,默认UTF-8
func WithEncoding(name string) Option {
	return newFuncOption(func(o *Options) {
		o.Encoding = name
	})
}

//WithParallelCallback 只对proxy有效,设置初始化后回调并行执行而非串行执行
func WithParallelCallback() Option {
	return newFuncOption(func(o *Options) {
		o.Parallelcallback = true
	})
}

//WithLogger 指定使用logger
func WithLogger(logger logrus.FieldLogger) Option {
	return newFuncOption(func(o *Options) {
		o.Logger = logger
	})
}

//WithConnectionFactory 替换连接创建工厂,测试或接入其他客户端时使用
func WithConnectionFactory(factory ConnectionFactory) Option {
	return newFuncOption(func(o *Options) {
		o.factory = factory
	})
}

type envSpec struct {
	ZkQuorum string `envconfig:"ZK_QUORUM"`
	ZkPort   int    `envconfig:"ZK_PORT"`
	Encoding string `envconfig:"ENCODING"`
}

//FromEnv 从环境变量读取配置,变量名为HTABLE_ZK_QUORUM/HTABLE_ZK_PORT/HTABLE_ENCODING
func FromEnv() (Option, error) {
	var spec envSpec
	if err := envconfig.Process("htable", &spec); err != nil {
		return nil, err
	}
	return newFuncOption(func(o *Options) {
		if spec.ZkQuorum != "" {
			o.Quorum = spec.ZkQuorum
		}
		if spec.ZkPort != 0 {
			o.Port = spec.ZkPort
		}
		if spec.Encoding != "" {
			o.Encoding = spec.Encoding
		}
	}), nil
}
