// 异常定义与转换
package template

import (
	"errors"
	"fmt"
)

//error
var (
	//ErrConnectionUnavailable no live connection could be established; retryable, not fatal
	ErrConnectionUnavailable = errors.New("template: connection unavailable")
	//ErrCallbackRequired Execute called without a callback
	ErrCallbackRequired = errors.New("template: callback must not be nil")
	//ErrTableNameRequired an operation was given an empty table name
	ErrTableNameRequired = errors.New("template: no table specified")
	//ErrRowRequired an operation was given an empty row key
	ErrRowRequired = errors.New("template: row must not be empty")
	//ErrFamilyRequired an operation was given an empty column family
	ErrFamilyRequired = errors.New("template: family must not be empty")
	//ErrQualifierRequired Put was given an empty qualifier
	ErrQualifierRequired = errors.New("template: qualifier must not be empty")
	//ErrValueRequired Put was given a nil value
	ErrValueRequired = errors.New("template: value must not be nil")
	//ErrUnsupportedEncoding the configured encoding name is not a known charset
	ErrUnsupportedEncoding = errors.New("template: unsupported encoding")
)

// DataAccessError is the single translated error kind every underlying
// client failure is wrapped into, so calling code never depends on the
// client library's own error types. The original cause stays attached for
// diagnostics.
type DataAccessError struct {
	Cause error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("template: data access error: %v", e.Cause)
}

func (e *DataAccessError) Unwrap() error {
	return e.Cause
}

// Translate converts an underlying client error into a DataAccessError.
// An error that is already translated passes through unchanged, so a
// failure is wrapped exactly once no matter how many layers it crosses.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	var dae *DataAccessError
	if errors.As(err, &dae) {
		return err
	}
	return &DataAccessError{Cause: err}
}
