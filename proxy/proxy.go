//数据访问模板代理
package proxy

import (
	"errors"

	"github.com/Golang-Tools/htable/template"
)

//ErrProxyAllreadySettedTemplate 代理已经设置过模板对象
var ErrProxyAllreadySettedTemplate = errors.New("proxy allready setted template")

//Callback 模板初始化后的回调函数
type Callback func(t *template.Template) error

//Proxy 数据访问模板的代理
type Proxy struct {
	*template.Template
	callBacks []Callback
}

// New 创建一个新的模板代理
func New() *Proxy {
	proxy := new(Proxy)
	return proxy
}

// IsOk 检查代理是否已经可用
func (proxy *Proxy) IsOk() bool {
	return proxy.Template != nil
}

// Init 初始化代理对象
func (proxy *Proxy) Init(opts ...template.Option) error {
	t, err := template.New(opts...)
	if err != nil {
		return err
	}
	proxy.Template = t
	o := t.Opts
	if o.Parallelcallback {
		for _, cb := range proxy.callBacks {
			go func(cb Callback) {
				err := cb(proxy.Template)
				if err != nil {
					o.Logger.WithError(err).Error("regist callback get error")
				} else {
					o.Logger.Debug("regist callback done")
				}
			}(cb)
		}
	} else {
		for _, cb := range proxy.callBacks {
			err := cb(proxy.Template)
			if err != nil {
				o.Logger.WithError(err).Error("regist callback get error")
			} else {
				o.Logger.Debug("regist callback done")
			}
		}
	}
	return nil
}

// Regist 注册回调函数,在init执行后执行回调函数
//如果对象已经设置了被代理模板则无法再注册回调函数
func (proxy *Proxy) Regist(cb Callback) error {
	if proxy.IsOk() {
		return ErrProxyAllreadySettedTemplate
	}
	proxy.callBacks = append(proxy.callBacks, cb)
	return nil
}

//Default 默认的模板代理对象
var Default = New()
