// 单元格与行结果定义
package wire

import (
	"bytes"
	"sort"

	"github.com/apache/thrift/lib/go/thrift"
)

// Cell is one (family, qualifier, timestamp, value) entry of a row.
// Several cells may share (family, qualifier) and differ only in timestamp,
// forming the version history of that column.
type Cell struct {
	Family    []byte
	Qualifier []byte
	Timestamp int64
	Value     []byte
}

func (c *Cell) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("Cell"); err != nil {
		return err
	}
	if len(c.Family) > 0 {
		if err := writeBinaryField(p, "family", 1, c.Family); err != nil {
			return err
		}
	}
	if len(c.Qualifier) > 0 {
		if err := writeBinaryField(p, "qualifier", 2, c.Qualifier); err != nil {
			return err
		}
	}
	if c.Timestamp != 0 {
		if err := writeI64Field(p, "timestamp", 3, c.Timestamp); err != nil {
			return err
		}
	}
	if len(c.Value) > 0 {
		if err := writeBinaryField(p, "value", 4, c.Value); err != nil {
			return err
		}
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (c *Cell) Read(p thrift.TProtocol) error {
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

// Result is one decoded logical row. Cells are kept ordered by family, then
// qualifier, then descending timestamp, so the first cell of a column is
// always its newest version.
type Result struct {
	Row   []byte
	Cells []*Cell
}

func NewResult() *Result {
	return new(Result)
}

// Empty reports whether the row had no matching cells. A Get with no match
// yields an empty, never nil, Result.
func (r *Result) Empty() bool {
	return len(r.Cells) == 0
}

// Value returns the newest value of (family, qualifier), nil if absent.
func (r *Result) Value(family, qualifier []byte) []byte {
	for _, c := range r.Cells {
		if bytes.Equal(c.Family, family) && bytes.Equal(c.Qualifier, qualifier) {
			return c.Value
		}
	}
	return nil
}

// ColumnCells returns the full version history of (family, qualifier),
// newest first.
func (r *Result) ColumnCells(family, qualifier []byte) []*Cell {
	var out []*Cell
	for _, c := range r.Cells {
		if bytes.Equal(c.Family, family) && bytes.Equal(c.Qualifier, qualifier) {
			out = append(out, c)
		}
	}
	return out
}

// FamilyMap returns qualifier->newest value for one family.
func (r *Result) FamilyMap(family []byte) map[string][]byte {
	out := map[string][]byte{}
	for _, c := range r.Cells {
		if !bytes.Equal(c.Family, family) {
			continue
		}
		if _, ok := out[string(c.Qualifier)]; !ok {
			out[string(c.Qualifier)] = c.Value
		}
	}
	return out
}

// SortCells restores the canonical cell order. Stable, so cells with equal
// (family, qualifier, timestamp) keep their arrival order.
func (r *Result) SortCells() {
	sort.SliceStable(r.Cells, func(i, j int) bool {
		a, b := r.Cells[i], r.Cells[j]
		if c := bytes.Compare(a.Family, b.Family); c != 0 {
			return c < 0
		}
		if c := bytes.Compare(a.Qualifier, b.Qualifier); c != 0 {
			return c < 0
		}
		return a.Timestamp > b.Timestamp
	})
}

func (r *Result) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("Result"); err != nil {
		return err
	}
	if len(r.Row) > 0 {
		if err := writeBinaryField(p, "row", 1, r.Row); err != nil {
			return err
		}
	}
	if len(r.Cells) > 0 {
		err := writeStructListField(p, "cells", 2, len(r.Cells), func(i int) thrift.TStruct {
			return r.Cells[i]
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

func (r *Result) Read(p thrift.TProtocol) error {
	err := readStruct(p, func(id int16, ftype thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && ftype == thrift.STRING:
			r.Row, err = p.ReadBinary()
		case id == 2 && ftype == thrift.LIST:
			err = readStructListField(p, func() thrift.TStruct {
				c := new(Cell)
				r.Cells = append(r.Cells, c)
				return c
			})
		default:
			return false, nil
		}
		return true, err
	})
	if err != nil {
		return err
	}
	// decoding is the single place the cell order invariant is established
	r.SortCells()
	return nil
}
