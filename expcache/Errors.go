package expcache

import "errors"

// CacheError implements errors unique to an experience cache
type CacheError struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *CacheError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

var errEmptyCache error = errors.New("cache empty")

// IsEmptyCache returns whether or not an error reports that an
// experience cache holds no transitions
func IsEmptyCache(err error) bool {
	if cacheErr, ok := err.(*CacheError); ok {
		err = cacheErr.Err
	}
	return err == errEmptyCache
}
