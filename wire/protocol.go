// 协议编码辅助函数
package wire

import (
	"github.com/apache/thrift/lib/go/thrift"
)

// Field helpers shared by every TStruct in this package. Zero values are
// omitted on the wire; readers treat a missing field as its zero value.

func writeBinaryField(p thrift.TProtocol, name string, id int16, v []byte) error {
	if err := p.WriteFieldBegin(name, thrift.STRING, id); err != nil {
		return err
	}
	if err := p.WriteBinary(v); err != nil {
		return err
	}
	return p.WriteFieldEnd()
}

func writeStringField(p thrift.TProtocol, name string, id int16, v string) error {
	if err := p.WriteFieldBegin(name, thrift.STRING, id); err != nil {
		return err
	}
	if err := p.WriteString(v); err != nil {
		return err
	}
	return p.WriteFieldEnd()
}

func writeI64Field(p thrift.TProtocol, name string, id int16, v int64) error {
	if err := p.WriteFieldBegin(name, thrift.I64, id); err != nil {
		return err
	}
	if err := p.WriteI64(v); err != nil {
		return err
	}
	return p.WriteFieldEnd()
}

func writeI32Field(p thrift.TProtocol, name string, id int16, v int32) error {
	if err := p.WriteFieldBegin(name, thrift.I32, id); err != nil {
		return err
	}
	if err := p.WriteI32(v); err != nil {
		return err
	}
	return p.WriteFieldEnd()
}

func writeBoolField(p thrift.TProtocol, name string, id int16, v bool) error {
	if err := p.WriteFieldBegin(name, thrift.BOOL, id); err != nil {
		return err
	}
	if err := p.WriteBool(v); err != nil {
		return err
	}
	return p.WriteFieldEnd()
}

func writeStructField(p thrift.TProtocol, name string, id int16, v thrift.TStruct) error {
	if err := p.WriteFieldBegin(name, thrift.STRUCT, id); err != nil {
		return err
	}
	if err := v.Write(p); err != nil {
		return err
	}
	return p.WriteFieldEnd()
}

func writeStructListField(p thrift.TProtocol, name string, id int16, n int, elem func(i int) thrift.TStruct) error {
	if err := p.WriteFieldBegin(name, thrift.LIST, id); err != nil {
		return err
	}
	if err := p.WriteListBegin(thrift.STRUCT, n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := elem(i).Write(p); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(); err != nil {
		return err
	}
	return p.WriteFieldEnd()
}

func readStructListField(p thrift.TProtocol, elem func() thrift.TStruct) error {
	_, n, err := p.ReadListBegin()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := elem().Read(p); err != nil {
			return err
		}
	}
	return p.ReadListEnd()
}

// readStruct drives the generic read loop: begin, dispatch each field by id
// to the callback, skip unknown ids, end. The callback must consume exactly
// one field value of the given type.
func readStruct(p thrift.TProtocol, field func(id int16, ftype thrift.TType) (bool, error)) error {
	if _, err := p.ReadStructBegin(); err != nil {
		return err
	}
	for {
		_, ftype, id, err := p.ReadFieldBegin()
		if err != nil {
			return err
		}
		if ftype == thrift.STOP {
			break
		}
		handled, err := field(id, ftype)
		if err != nil {
			return err
		}
		if !handled {
			if err := p.Skip(ftype); err != nil {
				return err
			}
		}
		if err := p.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return p.ReadStructEnd()
}
