// RPC方法参数与结果定义
package wire

import (
	"github.com/apache/thrift/lib/go/thrift"
)

// Method names of the region server service and the coordinator service.
// Both speak the same framed binary protocol; the coordinator only answers
// locateRegion.
const (
	MethodGet          = "get"
	MethodPut          = "put"
	MethodPutMultiple  = "putMultiple"
	MethodDelete       = "deleteSingle"
	MethodScanOpen     = "scanOpen"
	MethodScanNext     = "scanNext"
	MethodScanClose    = "scanClose"
	MethodLocateRegion = "locateRegion"
)

// Every result struct follows the thrift service convention: field 0 is the
// success value, field 1 the service exception.

type GetArgs struct {
	Table string
	Get   *GetRequest
}

func (a *GetArgs) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("get_args"); err != nil {
		return err
	}
	if err := writeStringField(p, "table", 1, a.Table); err != nil {
		return err
	}
	if err := writeStructField(p, "get", 2, a.Get); err != nil {
		return err
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (a *GetArgs) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && ftype == thrift.STRING:
			a.Table, err = p.ReadString()
		case id == 2 && ftype == thrift.STRUCT:
			a.Get = new(GetRequest)
			err = a.Get.Read(p)
		default:
			return false, nil
		}
		return true, err
	})
}

type GetResult struct {
	Success *Result
	Ex      *RemoteException
}

func (r *GetResult) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("get_result"); err != nil {
		return err
	}
	if r.Success != nil {
		if err := writeStructField(p, "success", 0, r.Success); err != nil {
			return err
		}
	}
	if r.Ex != nil {
		if err := writeStructField(p, "ex", 1, r.Ex); err != nil {
			return err
		}
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (r *GetResult) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 0 && ftype == thrift.STRUCT:
			r.Success = NewResult()
			err = r.Success.Read(p)
		case id == 1 && ftype == thrift.STRUCT:
			r.Ex = new(RemoteException)
			err = r.Ex.Read(p)
		default:
			return false, nil
		}
		return true, err
	})
}

type PutArgs struct {
	Table string
	Put   *PutRequest
}

func (a *PutArgs) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("put_args"); err != nil {
		return err
	}
	if err := writeStringField(p, "table", 1, a.Table); err != nil {
		return err
	}
	if err := writeStructField(p, "put", 2, a.Put); err != nil {
		return err
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (a *PutArgs) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && ftype == thrift.STRING:
			a.Table, err = p.ReadString()
		case id == 2 && ftype == thrift.STRUCT:
			a.Put = new(PutRequest)
			err = a.Put.Read(p)
		default:
			return false, nil
		}
		return true, err
	})
}

// VoidResult is shared by every mutation call that only reports a fault.
type VoidResult struct {
	Ex *RemoteException
}

func (r *VoidResult) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("void_result"); err != nil {
		return err
	}
	if r.Ex != nil {
		if err := writeStructField(p, "ex", 1, r.Ex); err != nil {
			return err
		}
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (r *VoidResult) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		if id == 1 && ftype == thrift.STRUCT {
			r.Ex = new(RemoteException)
			return true, r.Ex.Read(p)
		}
		return false, nil
	})
}

type PutMultiArgs struct {
	Table string
	Puts  []*PutRequest
}

func (a *PutMultiArgs) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("putMultiple_args"); err != nil {
		return err
	}
	if err := writeStringField(p, "table", 1, a.Table); err != nil {
		return err
	}
	err := writeStructListField(p, "puts", 2, len(a.Puts), func(i int) thrift.TStruct {
		return a.Puts[i]
	})
	if err != nil {
		return err
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (a *PutMultiArgs) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && ftype == thrift.STRING:
			a.Table, err = p.ReadString()
		case id == 2 && ftype == thrift.LIST:
			err = readStructListField(p, func() thrift.TStruct {
				put := new(PutRequest)
				a.Puts = append(a.Puts, put)
				return put
			})
		default:
			return false, nil
		}
		return true, err
	})
}

type DeleteArgs struct {
	Table  string
	Delete *DeleteRequest
}

func (a *DeleteArgs) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("deleteSingle_args"); err != nil {
		return err
	}
	if err := writeStringField(p, "table", 1, a.Table); err != nil {
		return err
	}
	if err := writeStructField(p, "tdelete", 2, a.Delete); err != nil {
		return err
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (a *DeleteArgs) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && ftype == thrift.STRING:
			a.Table, err = p.ReadString()
		case id == 2 && ftype == thrift.STRUCT:
			a.Delete = new(DeleteRequest)
			err = a.Delete.Read(p)
		default:
			return false, nil
		}
		return true, err
	})
}

type ScanOpenArgs struct {
	Table string
	Scan  *ScanRequest
}

func (a *ScanOpenArgs) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("scanOpen_args"); err != nil {
		return err
	}
	if err := writeStringField(p, "table", 1, a.Table); err != nil {
		return err
	}
	if err := writeStructField(p, "tscan", 2, a.Scan); err != nil {
		return err
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (a *ScanOpenArgs) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && ftype == thrift.STRING:
			a.Table, err = p.ReadString()
		case id == 2 && ftype == thrift.STRUCT:
			a.Scan = new(ScanRequest)
			err = a.Scan.Read(p)
		default:
			return false, nil
		}
		return true, err
	})
}

type ScanOpenResult struct {
	ScannerID int32
	Ex        *RemoteException
}

func (r *ScanOpenResult) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("scanOpen_result"); err != nil {
		return err
	}
	if r.Ex == nil {
		if err := writeI32Field(p, "success", 0, r.ScannerID); err != nil {
			return err
		}
	} else {
		if err := writeStructField(p, "ex", 1, r.Ex); err != nil {
			return err
		}
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (r *ScanOpenResult) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 0 && ftype == thrift.I32:
			r.ScannerID, err = p.ReadI32()
		case id == 1 && ftype == thrift.STRUCT:
			r.Ex = new(RemoteException)
			err = r.Ex.Read(p)
		default:
			return false, nil
		}
		return true, err
	})
}

type ScanNextArgs struct {
	ScannerID int32
	NumRows   int32
}

func (a *ScanNextArgs) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("scanNext_args"); err != nil {
		return err
	}
	if err := writeI32Field(p, "scannerId", 1, a.ScannerID); err != nil {
		return err
	}
	if err := writeI32Field(p, "numRows", 2, a.NumRows); err != nil {
		return err
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (a *ScanNextArgs) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && ftype == thrift.I32:
			a.ScannerID, err = p.ReadI32()
		case id == 2 && ftype == thrift.I32:
			a.NumRows, err = p.ReadI32()
		default:
			return false, nil
		}
		return true, err
	})
}

type ScanNextResult struct {
	Rows []*Result
	Ex   *RemoteException
}

func (r *ScanNextResult) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("scanNext_result"); err != nil {
		return err
	}
	if r.Ex == nil {
		err := writeStructListField(p, "success", 0, len(r.Rows), func(i int) thrift.TStruct {
			return r.Rows[i]
		})
		if err != nil {
			return err
		}
	} else {
		if err := writeStructField(p, "ex", 1, r.Ex); err != nil {
			return err
		}
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (r *ScanNextResult) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 0 && ftype == thrift.LIST:
			err = readStructListField(p, func() thrift.TStruct {
				row := NewResult()
				r.Rows = append(r.Rows, row)
				return row
			})
		case id == 1 && ftype == thrift.STRUCT:
			r.Ex = new(RemoteException)
			err = r.Ex.Read(p)
		default:
			return false, nil
		}
		return true, err
	})
}

type ScanCloseArgs struct {
	ScannerID int32
}

func (a *ScanCloseArgs) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("scanClose_args"); err != nil {
		return err
	}
	if err := writeI32Field(p, "scannerId", 1, a.ScannerID); err != nil {
		return err
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (a *ScanCloseArgs) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		if id == 1 && ftype == thrift.I32 {
			var err error
			a.ScannerID, err = p.ReadI32()
			return true, err
		}
		return false, nil
	})
}

type LocateArgs struct {
	Table string
	Row   []byte
	// Reload asks the coordinator to bypass its own cache and consult meta.
	Reload bool
}

func (a *LocateArgs) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("locateRegion_args"); err != nil {
		return err
	}
	if err := writeStringField(p, "table", 1, a.Table); err != nil {
		return err
	}
	if err := writeBinaryField(p, "row", 2, a.Row); err != nil {
		return err
	}
	if a.Reload {
		if err := writeBoolField(p, "reload", 3, a.Reload); err != nil {
			return err
		}
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (a *LocateArgs) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && ftype == thrift.STRING:
			a.Table, err = p.ReadString()
		case id == 2 && ftype == thrift.STRING:
			a.Row, err = p.ReadBinary()
		case id == 3 && ftype == thrift.BOOL:
			a.Reload, err = p.ReadBool()
		default:
			return false, nil
		}
		return true, err
	})
}

type LocateResult struct {
	Location *RegionLocation
	Ex       *RemoteException
}

func (r *LocateResult) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("locateRegion_result"); err != nil {
		return err
	}
	if r.Location != nil {
		if err := writeStructField(p, "success", 0, r.Location); err != nil {
			return err
		}
	}
	if r.Ex != nil {
		if err := writeStructField(p, "ex", 1, r.Ex); err != nil {
			return err
		}
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (r *LocateResult) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 0 && ftype == thrift.STRUCT:
			r.Location = new(RegionLocation)
			err = r.Location.Read(p)
		case id == 1 && ftype == thrift.STRUCT:
			r.Ex = new(RemoteException)
			err = r.Ex.Read(p)
		default:
			return false, nil
		}
		return true, err
	})
}
