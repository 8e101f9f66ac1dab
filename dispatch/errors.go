package dispatch

import "errors"

// ErrPoolClosed is returned by Submit after the pool has been closed.
var ErrPoolClosed = errors.New("dispatch pool is closed")
