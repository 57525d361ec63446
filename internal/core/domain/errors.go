package domain

import (
	"fmt"
)

// DatabaseError is a failed database call with the vendor error code attached.
// Code is the SQL Server error number, the PostgreSQL SQLSTATE or the SQLite
// result code, rendered as a string. It is empty when the driver gave none.
type DatabaseError struct {
	Op   string
	Code string
	Err  error
}

func (e *DatabaseError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: error code %s: %v", e.Op, e.Code, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// AcquisitionError means the source file could not be obtained.
type AcquisitionError struct {
	Path string
	Err  error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquire %s: %v", e.Path, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// InsertError is a row insert that failed and aborted the load.
type InsertError struct {
	ID  int64
	Err error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("insert alternate name %d: %v", e.ID, e.Err)
}

func (e *InsertError) Unwrap() error { return e.Err }

// ConfigurationError is a missing or invalid setting.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Key, e.Reason)
}
