package store

import (
	"context"
	"sync"

	"github.com/rustyeddy/pnlhub/account"
)

// Memory keeps everything in maps. It is the test double and the backing
// table for File.
type Memory struct {
	mu     sync.RWMutex
	users  map[string]*account.User
	emails map[string]string // email key -> user id
	certs  []account.Certificate
}

func NewMemory() *Memory {
	return &Memory{
		users:  make(map[string]*account.User),
		emails: make(map[string]string),
	}
}

func (m *Memory) Get(_ context.Context, id string) (*account.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

func (m *Memory) GetByEmail(_ context.Context, email string) (*account.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.emails[account.EmailKey(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return m.users[id].Clone(), nil
}

func (m *Memory) List(_ context.Context) ([]*account.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*account.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u.Clone())
	}
	sortUsers(out)
	return out, nil
}

func (m *Memory) Save(_ context.Context, u *account.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save(u)
}

func (m *Memory) save(u *account.User) error {
	if u.ID == "" {
		return ErrMissingID
	}
	key := account.EmailKey(u.Email)
	if owner, ok := m.emails[key]; ok && owner != u.ID {
		return ErrDuplicateEmail
	}
	prev := m.users[u.ID]
	if err := checkAppendOnly(prev, u); err != nil {
		return err
	}
	if prev != nil {
		delete(m.emails, account.EmailKey(prev.Email))
	}
	m.users[u.ID] = u.Clone()
	m.emails[key] = u.ID
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.emails, account.EmailKey(u.Email))
	delete(m.users, id)
	return nil
}

// restore puts back prev as the stored user id, or removes id when prev is
// nil. Callers hold m.mu.
func (m *Memory) restore(id string, prev *account.User) {
	if cur, ok := m.users[id]; ok {
		delete(m.emails, account.EmailKey(cur.Email))
		delete(m.users, id)
	}
	if prev != nil {
		m.users[id] = prev
		m.emails[account.EmailKey(prev.Email)] = id
	}
}

func (m *Memory) AddCertificate(_ context.Context, c account.Certificate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.certs = append(m.certs, c)
	return nil
}

func (m *Memory) ListCertificates(_ context.Context) ([]account.Certificate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]account.Certificate{}, m.certs...), nil
}

func (m *Memory) CountCertificates(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.certs), nil
}

func (m *Memory) Close() error { return nil }
