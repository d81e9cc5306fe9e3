// Package store persists user records and the global certificate list.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/pnlhub/account"
)

var (
	ErrNotFound       = errors.New("store: not found")
	ErrDuplicateEmail = errors.New("store: email already registered")
	ErrHistoryRewrite = errors.New("store: pnl history is append-only")
	ErrMissingID      = errors.New("store: user id is required")
)

// UserStore loads and saves whole user records. Implementations return
// copies; mutating a returned user has no effect until Save.
type UserStore interface {
	Get(ctx context.Context, id string) (*account.User, error)
	GetByEmail(ctx context.Context, email string) (*account.User, error)
	List(ctx context.Context) ([]*account.User, error)
	Save(ctx context.Context, u *account.User) error
	Delete(ctx context.Context, id string) error
}

// CertificateStore is the global, append-only certificate list used for
// numbering.
type CertificateStore interface {
	AddCertificate(ctx context.Context, c account.Certificate) error
	ListCertificates(ctx context.Context) ([]account.Certificate, error)
	CountCertificates(ctx context.Context) (int, error)
}

// Store is everything the desk service needs from persistence.
type Store interface {
	UserStore
	CertificateStore
	Close() error
}

// Kinds accepted by Open.
const (
	KindMemory = "memory"
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// Open returns the adapter for kind. path is ignored for memory.
func Open(kind, path string, log zerolog.Logger) (Store, error) {
	switch kind {
	case KindMemory:
		return NewMemory(), nil
	case KindFile:
		return NewFile(path, log)
	case KindSQLite:
		return NewSQLite(path, log)
	default:
		return nil, fmt.Errorf("store: unknown kind %q", kind)
	}
}

// checkAppendOnly rejects a save that would shorten the stored history.
func checkAppendOnly(prev, next *account.User) error {
	if prev != nil && len(next.PnLHistory) < len(prev.PnLHistory) {
		return fmt.Errorf("%w: user %s has %d entries, save has %d",
			ErrHistoryRewrite, next.ID, len(prev.PnLHistory), len(next.PnLHistory))
	}
	return nil
}

func sortUsers(users []*account.User) {
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
}
