// 连接与配置访问器定义
package template

import (
	"strconv"
	"strings"
	"sync"

	"github.com/Golang-Tools/htable"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Recognized keys of the merged configuration properties.
const (
	//PropQuorum zookeeper quorum地址,逗号分隔
	PropQuorum = "hbase.zookeeper.quorum"
	//PropClientPort zookeeper客户端端口
	PropClientPort = "hbase.zookeeper.property.clientPort"
)

// Connection is the shared handle every template operation routes through.
// *htable.Client satisfies it.
type Connection interface {
	Table(name string) htable.Table
	IsOpen() bool
	Close() error
}

// ConnState tracks the shared handle's lifecycle.
type ConnState uint32

const (
	StateDisconnected ConnState = iota
	StateConnected
	// StateAborted means a previously live handle was found closed or
	// aborted; the next acquisition reconnects
	StateAborted
)

// Accessor owns the configuration properties and the lazily created shared
// connection. Creation failures degrade to an unavailable handle instead of
// propagating: callers see ErrConnectionUnavailable from the template and
// may simply retry later, by which time acquisition will have tried again.
type Accessor struct {
	Opts Options

	// effective configuration after merging properties with quorum/port
	props map[string]string
	enc   encoding.Encoding

	mu    sync.Mutex
	conn  Connection
	state ConnState
}

func NewAccessor(opts ...Option) (*Accessor, error) {
	a := new(Accessor)
	a.Opts = DefaultOptions
	for _, opt := range opts {
		opt.Apply(&a.Opts)
	}
	if a.Opts.factory == nil {
		a.Opts.factory = defaultFactory
	}

	enc, err := resolveEncoding(a.Opts.Encoding)
	if err != nil {
		return nil, err
	}
	a.enc = enc

	a.props = map[string]string{}
	for k, v := range a.Opts.Properties {
		a.props[k] = v
	}
	// quorum and port are applied last so they override any same-named
	// keys already present in the merged properties
	if strings.TrimSpace(a.Opts.Quorum) != "" {
		a.props[PropQuorum] = strings.TrimSpace(a.Opts.Quorum)
	}
	if a.Opts.Port != 0 {
		a.props[PropClientPort] = strconv.Itoa(a.Opts.Port)
	}
	return a, nil
}

func resolveEncoding(name string) (encoding.Encoding, error) {
	if strings.TrimSpace(name) == "" {
		return unicode.UTF8, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, ErrUnsupportedEncoding
	}
	return enc, nil
}

// Property returns one effective configuration value.
func (a *Accessor) Property(key string) string {
	return a.props[key]
}

// Properties returns a copy of the effective configuration.
func (a *Accessor) Properties() map[string]string {
	out := make(map[string]string, len(a.props))
	for k, v := range a.props {
		out[k] = v
	}
	return out
}

// Bytes converts a string identifier to bytes in the configured charset.
func (a *Accessor) Bytes(s string) []byte {
	b, err := a.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		a.Opts.Logger.WithError(err).Error("encode identifier error")
		return []byte(s)
	}
	return b
}

// Connection returns the shared handle, creating it on first use and
// recreating it when the previous one is found closed or aborted. The
// double-checked section below is the whole point: many goroutines may
// race to discover a dead handle, and all of them must converge on one
// replacement connection rather than leak parallel ones. Returns nil when
// no connection can be established.
func (a *Accessor) Connection() Connection {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn != nil {
		if a.conn.IsOpen() && a.state == StateConnected {
			return a.conn
		}
		a.state = StateAborted
	}
	a.createConnection()
	return a.conn
}

// State reports the handle lifecycle state.
func (a *Accessor) State() ConnState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// createConnection runs with a.mu held. Failures are logged, not
// propagated: the handle stays unavailable until the next acquisition.
func (a *Accessor) createConnection() {
	conn, err := a.Opts.factory(a.Properties(), &a.Opts)
	if err != nil {
		a.Opts.Logger.WithError(err).Error("create connection error")
		a.conn = nil
		a.state = StateDisconnected
		return
	}
	a.conn = conn
	a.state = StateConnected
}

// Destroy closes the shared handle on shutdown. Close failures are logged
// and suppressed; surfacing a new error during cleanup would only mask the
// outcome the caller cares about.
func (a *Accessor) Destroy() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.Opts.Logger.WithError(err).Error("close connection error")
		}
	}
	a.conn = nil
	a.state = StateDisconnected
}

func defaultFactory(props map[string]string, o *Options) (Connection, error) {
	quorum := props[PropQuorum]
	if strings.TrimSpace(quorum) == "" {
		return nil, htable.ErrQuorumNotSet
	}
	hosts := []string{}
	for _, host := range strings.Split(quorum, ",") {
		host = strings.TrimSpace(host)
		if host != "" {
			hosts = append(hosts, host)
		}
	}
	clientOpts := []htable.Option{
		htable.WithQuorum(hosts...),
		htable.WithLogger(o.Logger),
	}
	if portText := props[PropClientPort]; portText != "" {
		port, err := strconv.Atoi(portText)
		if err != nil {
			return nil, err
		}
		clientOpts = append(clientOpts, htable.WithQuorumPort(port))
	}
	return htable.New(clientOpts...)
}
