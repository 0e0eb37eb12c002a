// 请求类型定义
package wire

import (
	"bytes"

	"github.com/apache/thrift/lib/go/thrift"
)

// GetRequest selects one logical row. An unscoped request returns the whole
// row; AddFamily narrows it to one family; AddColumn narrows it to a single
// (family, qualifier) pair.
type GetRequest struct {
	Row         []byte
	Family      []byte
	Qualifier   []byte
	MaxVersions int32
}

func NewGet(row []byte) *GetRequest {
	return &GetRequest{Row: row}
}

//AddFamily narrows the selection to one column family
func (g *GetRequest) AddFamily(family []byte) *GetRequest {
	g.Family = family
	g.Qualifier = nil
	return g
}

//AddColumn narrows the selection to a single (family, qualifier) pair
func (g *GetRequest) AddColumn(family, qualifier []byte) *GetRequest {
	g.Family = family
	g.Qualifier = qualifier
	return g
}

func (g *GetRequest) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("GetRequest"); err != nil {
		return err
	}
	if err := writeBinaryField(p, "row", 1, g.Row); err != nil {
		return err
	}
	if len(g.Family) > 0 {
		if err := writeBinaryField(p, "family", 2, g.Family); err != nil {
			return err
		}
	}
	if len(g.Qualifier) > 0 {
		if err := writeBinaryField(p, "qualifier", 3, g.Qualifier); err != nil {
			return err
		}
	}
	if g.MaxVersions != 0 {
		if err := writeI32Field(p, "maxVersions", 4, g.MaxVersions); err != nil {
			return err
		}
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (g *GetRequest) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && ftype == thrift.STRING:
			g.Row, err = p.ReadBinary()
		case id == 2 && ftype == thrift.STRING:
			g.Family, err = p.ReadBinary()
		case id == 3 && ftype == thrift.STRING:
			g.Qualifier, err = p.ReadBinary()
		case id == 4 && ftype == thrift.I32:
			g.MaxVersions, err = p.ReadI32()
		default:
			return false, nil
		}
		return true, err
	})
}

// PutColumn is one column write inside a PutRequest. A zero Timestamp lets
// the server assign the current time.
type PutColumn struct {
	Family    []byte
	Qualifier []byte
	Timestamp int64
	Value     []byte
}

func (c *PutColumn) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("PutColumn"); err != nil {
		return err
	}
	if err := writeBinaryField(p, "family", 1, c.Family); err != nil {
		return err
	}
	if err := writeBinaryField(p, "qualifier", 2, c.Qualifier); err != nil {
		return err
	}
	if c.Timestamp != 0 {
		if err := writeI64Field(p, "timestamp", 3, c.Timestamp); err != nil {
			return err
		}
	}
	if err := writeBinaryField(p, "value", 4, c.Value); err != nil {
		return err
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (c *PutColumn) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && ftype == thrift.STRING:
			c.Family, err = p.ReadBinary()
		case id == 2 && ftype == thrift.STRING:
			c.Qualifier, err = p.ReadBinary()
		case id == 3 && ftype == thrift.I64:
			c.Timestamp, err = p.ReadI64()
		case id == 4 && ftype == thrift.STRING:
			c.Value, err = p.ReadBinary()
		default:
			return false, nil
		}
		return true, err
	})
}

// PutRequest writes one or more columns of a single row.
type PutRequest struct {
	Row     []byte
	Columns []*PutColumn
}

func NewPut(row []byte) *PutRequest {
	return &PutRequest{Row: row}
}

func (r *PutRequest) AddColumn(family, qualifier, value []byte) *PutRequest {
	r.Columns = append(r.Columns, &PutColumn{Family: family, Qualifier: qualifier, Value: value})
	return r
}

func (r *PutRequest) AddColumnTS(family, qualifier, value []byte, ts int64) *PutRequest {
	r.Columns = append(r.Columns, &PutColumn{Family: family, Qualifier: qualifier, Value: value, Timestamp: ts})
	return r
}

func (r *PutRequest) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("PutRequest"); err != nil {
		return err
	}
	if err := writeBinaryField(p, "row", 1, r.Row); err != nil {
		return err
	}
	if len(r.Columns) > 0 {
		err := writeStructListField(p, "columns", 2, len(r.Columns), func(i int) thrift.TStruct {
			return r.Columns[i]
		})
		if err != nil {
			return err
		}
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (r *PutRequest) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && ftype == thrift.STRING:
			r.Row, err = p.ReadBinary()
		case id == 2 && ftype == thrift.LIST:
			err = readStructListField(p, func() thrift.TStruct {
				c := new(PutColumn)
				r.Columns = append(r.Columns, c)
				return c
			})
		default:
			return false, nil
		}
		return true, err
	})
}

// DeleteRequest removes a whole family of a row, or, when Qualifier is set,
// only that column's history.
type DeleteRequest struct {
	Row       []byte
	Family    []byte
	Qualifier []byte
}

func NewDelete(row []byte) *DeleteRequest {
	return &DeleteRequest{Row: row}
}

func (d *DeleteRequest) AddFamily(family []byte) *DeleteRequest {
	d.Family = family
	d.Qualifier = nil
	return d
}

func (d *DeleteRequest) AddColumn(family, qualifier []byte) *DeleteRequest {
	d.Family = family
	d.Qualifier = qualifier
	return d
}

func (d *DeleteRequest) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("DeleteRequest"); err != nil {
		return err
	}
	if err := writeBinaryField(p, "row", 1, d.Row); err != nil {
		return err
	}
	if err := writeBinaryField(p, "family", 2, d.Family); err != nil {
		return err
	}
	if len(d.Qualifier) > 0 {
		if err := writeBinaryField(p, "qualifier", 3, d.Qualifier); err != nil {
			return err
		}
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (d *DeleteRequest) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && ftype == thrift.STRING:
			d.Row, err = p.ReadBinary()
		case id == 2 && ftype == thrift.STRING:
			d.Family, err = p.ReadBinary()
		case id == 3 && ftype == thrift.STRING:
			d.Qualifier, err = p.ReadBinary()
		default:
			return false, nil
		}
		return true, err
	})
}

// ScanRequest describes a server-side cursor over [StartRow, StopRow).
// Empty StopRow scans to the end of the table. Caching is the number of
// rows fetched per round trip.
type ScanRequest struct {
	StartRow  []byte
	StopRow   []byte
	Family    []byte
	Qualifier []byte
	Caching   int32
}

func NewScan() *ScanRequest {
	return new(ScanRequest)
}

func (s *ScanRequest) SetRange(start, stop []byte) *ScanRequest {
	s.StartRow = start
	s.StopRow = stop
	return s
}

func (s *ScanRequest) AddFamily(family []byte) *ScanRequest {
	s.Family = family
	s.Qualifier = nil
	return s
}

func (s *ScanRequest) AddColumn(family, qualifier []byte) *ScanRequest {
	s.Family = family
	s.Qualifier = qualifier
	return s
}

func (s *ScanRequest) SetCaching(n int32) *ScanRequest {
	s.Caching = n
	return s
}

func (s *ScanRequest) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("ScanRequest"); err != nil {
		return err
	}
	if len(s.StartRow) > 0 {
		if err := writeBinaryField(p, "startRow", 1, s.StartRow); err != nil {
			return err
		}
	}
	if len(s.StopRow) > 0 {
		if err := writeBinaryField(p, "stopRow", 2, s.StopRow); err != nil {
			return err
		}
	}
	if len(s.Family) > 0 {
		if err := writeBinaryField(p, "family", 3, s.Family); err != nil {
			return err
		}
	}
	if len(s.Qualifier) > 0 {
		if err := writeBinaryField(p, "qualifier", 4, s.Qualifier); err != nil {
			return err
		}
	}
	if s.Caching != 0 {
		if err := writeI32Field(p, "caching", 5, s.Caching); err != nil {
			return err
		}
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (s *ScanRequest) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && ftype == thrift.STRING:
			s.StartRow, err = p.ReadBinary()
		case id == 2 && ftype == thrift.STRING:
			s.StopRow, err = p.ReadBinary()
		case id == 3 && ftype == thrift.STRING:
			s.Family, err = p.ReadBinary()
		case id == 4 && ftype == thrift.STRING:
			s.Qualifier, err = p.ReadBinary()
		case id == 5 && ftype == thrift.I32:
			s.Caching, err = p.ReadI32()
		default:
			return false, nil
		}
		return true, err
	})
}

// RegionLocation is the coordinator's answer to a locate call: the region
// [StartKey, EndKey) of Table currently owned by the server at Addr. An
// empty EndKey means the region extends to the end of the table.
type RegionLocation struct {
	Table    string
	StartKey []byte
	EndKey   []byte
	Addr     string
}

// Contains reports whether row falls inside the region's key range.
func (l *RegionLocation) Contains(row []byte) bool {
	if bytes.Compare(row, l.StartKey) < 0 {
		return false
	}
	return len(l.EndKey) == 0 || bytes.Compare(row, l.EndKey) < 0
}

func (l *RegionLocation) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("RegionLocation"); err != nil {
		return err
	}
	if err := writeStringField(p, "table", 1, l.Table); err != nil {
		return err
	}
	if len(l.StartKey) > 0 {
		if err := writeBinaryField(p, "startKey", 2, l.StartKey); err != nil {
			return err
		}
	}
	if len(l.EndKey) > 0 {
		if err := writeBinaryField(p, "endKey", 3, l.EndKey); err != nil {
			return err
		}
	}
	if err := writeStringField(p, "addr", 4, l.Addr); err != nil {
		return err
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (l *RegionLocation) Read(p thrift.TProtocol) error {
	return readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && ftype == thrift.STRING:
			l.Table, err = p.ReadString()
		case id == 2 && ftype == thrift.STRING:
			l.StartKey, err = p.ReadBinary()
		case id == 3 && ftype == thrift.STRING:
			l.EndKey, err = p.ReadBinary()
		case id == 4 && ftype == thrift.STRING:
			l.Addr, err = p.ReadString()
		default:
			return false, nil
		}
		return true, err
	})
}
