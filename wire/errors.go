// 服务端异常定义
package wire

import (
	"errors"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// ErrorCode classifies a server-side fault.
type ErrorCode int32

const (
	CodeIOError ErrorCode = iota
	CodeUnknownTable
	// CodeStaleRegion means the addressed server no longer owns the region,
	// usually after a split or reassignment. The client must invalidate its
	// cached location and look the region up again.
	CodeStaleRegion
	CodeServerAborting
	CodeIllegalArgument
	CodeUnknownScanner
)

// RemoteException is a fault raised by a region server or the coordinator,
// carried back inside the call result.
type RemoteException struct {
	Code    ErrorCode
	Message string
}

func (e *RemoteException) Error() string {
	return fmt.Sprintf("remote exception (code %d): %s", e.Code, e.Message)
}

// IsStaleRegion reports whether err is a stale region location fault.
func IsStaleRegion(err error) bool {
	var re *RemoteException
	return errors.As(err, &re) && re.Code == CodeStaleRegion
}

func (e *RemoteException) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("RemoteException"); err != nil {
		return err
	}
	if e.Code != 0 {
		if err := writeI32Field(p, "code", 1, int32(e.Code)); err != nil {
			return err
		}
	}
	if e.Message != "" {
		if err := writeStringField(p, "message", 2, e.Message); err != nil {
			return err
		}
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (e *RemoteException) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && ftype == thrift.I32:
			var v int32
			v, err = p.ReadI32()
			e.Code = ErrorCode(v)
		case id == 2 && ftype == thrift.STRING:
			e.Message, err = p.ReadString()
		default:
			return false, nil
		}
		return true, err
	})
}
