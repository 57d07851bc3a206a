// Package id generates ULID identifiers for closures and transactions.
package id

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy io.Reader = ulid.Monotonic(rand.Reader, 0)
)

// New returns a ULID string. ULIDs sort by generation time, so closure
// and transaction listings ordered by primary key come out
// chronological, and ids generated within the same millisecond stay
// strictly increasing thanks to the monotonic entropy source.
func New() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String()
}
