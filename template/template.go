// 数据访问模板定义
package template

import (
	"context"

	"github.com/Golang-Tools/htable"
	"github.com/Golang-Tools/htable/wire"
)

// RowMapper converts one decoded row into a domain value. rowNum is the
// row's index within the operation; single-row reads always call it with 0,
// including when the row had no match (the result is then empty, not nil),
// so the mapper decides what "absent" maps to.
type RowMapper func(r *wire.Result, rowNum int) (interface{}, error)

// ResultsExtractor consumes an entire open cursor and produces one
// aggregate value. The cursor is closed by the template after extraction,
// on every exit path.
type ResultsExtractor func(cursor htable.Cursor) (interface{}, error)

// TableCallback runs one unit of work against an acquired table handle.
type TableCallback func(table htable.Table) (interface{}, error)

// Template is the central access point for row-level operations. It
// executes the core acquire/invoke/release workflow, leaving application
// code to invoke actions and extract results.
type Template struct {
	*Accessor
}

func New(opts ...Option) (*Template, error) {
	a, err := NewAccessor(opts...)
	if err != nil {
		return nil, err
	}
	return &Template{Accessor: a}, nil
}

// Execute acquires a table handle, runs the callback, and releases the
// handle on every exit path, including a panicking callback. Callback
// failures come back wrapped as a DataAccessError exactly once; panics
// propagate untouched.
func (t *Template) Execute(tableName string, action TableCallback) (interface{}, error) {
	if action == nil {
		return nil, ErrCallbackRequired
	}
	if tableName == "" {
		return nil, ErrTableNameRequired
	}
	conn := t.Connection()
	if conn == nil {
		return nil, ErrConnectionUnavailable
	}
	table := conn.Table(tableName)
	defer func() {
		if err := table.Close(); err != nil {
			t.Opts.Logger.WithError(err).Error("release table error")
		}
	}()
	result, err := action(table)
	if err != nil {
		return nil, Translate(err)
	}
	return result, nil
}

// Get maps a whole row through mapper.
func (t *Template) Get(ctx context.Context, tableName, rowName string, mapper RowMapper) (interface{}, error) {
	return t.GetColumn(ctx, tableName, rowName, "", "", mapper)
}

// GetFamily maps one family of a row through mapper.
func (t *Template) GetFamily(ctx context.Context, tableName, rowName, familyName string, mapper RowMapper) (interface{}, error) {
	return t.GetColumn(ctx, tableName, rowName, familyName, "", mapper)
}

// GetColumn maps a single (family, qualifier) of a row through mapper.
// Empty familyName selects the whole row; empty qualifier with a family
// selects the whole family, so each narrowing step returns a subset of the
// previous one.
func (t *Template) GetColumn(ctx context.Context, tableName, rowName, familyName, qualifier string, mapper RowMapper) (interface{}, error) {
	if rowName == "" {
		return nil, ErrRowRequired
	}
	return t.Execute(tableName, func(table htable.Table) (interface{}, error) {
		get := wire.NewGet(t.Bytes(rowName))
		if familyName != "" {
			if qualifier != "" {
				get.AddColumn(t.Bytes(familyName), t.Bytes(qualifier))
			} else {
				get.AddFamily(t.Bytes(familyName))
			}
		}
		result, err := table.Get(ctx, get)
		if err != nil {
			return nil, err
		}
		return mapper(result, 0)
	})
}

// GetRequest maps an arbitrary caller-built request through mapper.
func (t *Template) GetRequest(ctx context.Context, tableName string, get *wire.GetRequest, mapper RowMapper) (interface{}, error) {
	return t.Execute(tableName, func(table htable.Table) (interface{}, error) {
		result, err := table.Get(ctx, get)
		if err != nil {
			return nil, err
		}
		return mapper(result, 0)
	})
}

// Put writes value under (rowName, familyName, qualifier).
func (t *Template) Put(ctx context.Context, tableName, rowName, familyName, qualifier string, value []byte) error {
	if rowName == "" {
		return ErrRowRequired
	}
	if familyName == "" {
		return ErrFamilyRequired
	}
	if qualifier == "" {
		return ErrQualifierRequired
	}
	if value == nil {
		return ErrValueRequired
	}
	_, err := t.Execute(tableName, func(table htable.Table) (interface{}, error) {
		put := wire.NewPut(t.Bytes(rowName)).
			AddColumn(t.Bytes(familyName), t.Bytes(qualifier), value)
		return nil, table.Put(ctx, put)
	})
	return err
}

// Delete removes the whole family of a row.
func (t *Template) Delete(ctx context.Context, tableName, rowName, familyName string) error {
	return t.DeleteColumn(ctx, tableName, rowName, familyName, "")
}

// DeleteColumn removes a single column's history; with an empty qualifier
// it removes the whole family.
func (t *Template) DeleteColumn(ctx context.Context, tableName, rowName, familyName, qualifier string) error {
	if rowName == "" {
		return ErrRowRequired
	}
	if familyName == "" {
		return ErrFamilyRequired
	}
	_, err := t.Execute(tableName, func(table htable.Table) (interface{}, error) {
		tdelete := wire.NewDelete(t.Bytes(rowName))
		if qualifier != "" {
			tdelete.AddColumn(t.Bytes(familyName), t.Bytes(qualifier))
		} else {
			tdelete.AddFamily(t.Bytes(familyName))
		}
		return nil, table.Delete(ctx, tdelete)
	})
	return err
}

// Find scans one family and hands the open cursor to the extractor.
func (t *Template) Find(ctx context.Context, tableName, familyName string, action ResultsExtractor) (interface{}, error) {
	scan := wire.NewScan().AddFamily(t.Bytes(familyName))
	return t.FindScan(ctx, tableName, scan, action)
}

// FindColumn scans one (family, qualifier) and hands the open cursor to the
// extractor.
func (t *Template) FindColumn(ctx context.Context, tableName, familyName, qualifier string, action ResultsExtractor) (interface{}, error) {
	scan := wire.NewScan().AddColumn(t.Bytes(familyName), t.Bytes(qualifier))
	return t.FindScan(ctx, tableName, scan, action)
}

// FindScan runs an arbitrary scan spec through the extractor. The cursor is
// closed on every exit path, whether or not extraction fails.
func (t *Template) FindScan(ctx context.Context, tableName string, scan *wire.ScanRequest, action ResultsExtractor) (interface{}, error) {
	return t.Execute(tableName, func(table htable.Table) (interface{}, error) {
		cursor, err := table.Scan(ctx, scan)
		if err != nil {
			return nil, err
		}
		defer func() {
			if cErr := cursor.Close(); cErr != nil {
				t.Opts.Logger.WithError(cErr).Error("close scanner error")
			}
		}()
		return action(cursor)
	})
}

// FindRows scans one family and maps every row in scan order.
func (t *Template) FindRows(ctx context.Context, tableName, familyName string, mapper RowMapper) ([]interface{}, error) {
	scan := wire.NewScan().AddFamily(t.Bytes(familyName))
	return t.FindRowsScan(ctx, tableName, scan, mapper)
}

// FindRowsColumn scans one (family, qualifier) and maps every row in scan
// order.
func (t *Template) FindRowsColumn(ctx context.Context, tableName, familyName, qualifier string, mapper RowMapper) ([]interface{}, error) {
	scan := wire.NewScan().AddColumn(t.Bytes(familyName), t.Bytes(qualifier))
	return t.FindRowsScan(ctx, tableName, scan, mapper)
}

// FindRowsScan maps every row produced by an arbitrary scan spec,
// preserving scan order. An empty range yields an empty, never nil, slice.
func (t *Template) FindRowsScan(ctx context.Context, tableName string, scan *wire.ScanRequest, mapper RowMapper) ([]interface{}, error) {
	v, err := t.FindScan(ctx, tableName, scan, rowMapperExtractor(ctx, mapper))
	if err != nil {
		return nil, err
	}
	return v.([]interface{}), nil
}

// rowMapperExtractor adapts a per-row mapper into a whole-cursor extractor,
// collecting mapped rows in scan order.
func rowMapperExtractor(ctx context.Context, mapper RowMapper) ResultsExtractor {
	return func(cursor htable.Cursor) (interface{}, error) {
		out := []interface{}{}
		for i := 0; ; i++ {
			row, err := cursor.Next(ctx)
			if err != nil {
				return nil, err
			}
			if row == nil {
				return out, nil
			}
			v, err := mapper(row, i)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
}
