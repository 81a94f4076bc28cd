package storage

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"gorm.io/gorm"
)

// Sentinel errors returned by the stores. Handlers pick response shapes with
// errors.Is instead of sniffing error text.
var (
	// ErrNotFound means the requested idea (or its owner scope) does not exist.
	ErrNotFound = errors.New("idea not found")

	// ErrUnavailable means the backing database could not be reached, e.g.
	// it was never provisioned or the connection dropped.
	ErrUnavailable = errors.New("database unavailable")
)

// classify maps a GORM error to one of the sentinel errors, wrapping so the
// original cause stays inspectable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
