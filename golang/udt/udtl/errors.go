package udtl

import "fmt"

//DataError reports a data set that can not be used to build or evaluate a tree.
type DataError struct {
	Reason string
}

func (e *DataError) Error() string {
	return "invalid data: " + e.Reason
}

func dataErrorf(format string, args ...interface{}) *DataError {
	return &DataError{Reason: fmt.Sprintf(format, args...)}
}

//PersistenceError wraps a failure of a storage backend (model files, tree store, npy files).
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
