// Package id issues time-sortable identifiers for users and certificates.
package id

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator hands out monotonic ULIDs. The zero value is not usable; call
// NewGenerator.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

// NewGenerator seeds a monotonic entropy source from crypto/rand. now may
// be nil, in which case time.Now is used.
func NewGenerator(now func() time.Time) *Generator {
	var seed int64
	_ = binary.Read(cryptorand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
		now:     now,
	}
}

// New returns a ULID string. IDs made within the same millisecond still
// sort in creation order.
func (g *Generator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(g.now().UTC()), g.entropy)
	if err != nil {
		// only possible if the clock reports a time past year 10889
		panic(err)
	}
	return id.String()
}

// Prefixed returns "<prefix>_<ulid>" with the ULID lower-cased.
func (g *Generator) Prefixed(prefix string) string {
	return prefix + "_" + strings.ToLower(g.New())
}

var std = NewGenerator(nil)

// New returns a ULID from the package generator.
func New() string { return std.New() }

// Prefixed returns a prefixed ULID from the package generator.
func Prefixed(prefix string) string { return std.Prefixed(prefix) }

// Time extracts the creation time from a ULID or prefixed ULID.
func Time(s string) (time.Time, error) {
	if i := strings.LastIndexByte(s, '_'); i >= 0 {
		s = s[i+1:]
	}
	u, err := ulid.ParseStrict(strings.ToUpper(s))
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
