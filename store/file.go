package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/pnlhub/account"
)

// snapshot is the on-disk document: the whole users table plus the
// global certificate list, like the browser's "users" and
// "allCertificates" keys.
type snapshot struct {
	Users        []*account.User       `json:"users"`
	Certificates []account.Certificate `json:"allCertificates"`
}

// File is a Memory table that rewrites a single JSON document after every
// mutation. The write goes to a temp file that is renamed into place.
type File struct {
	*Memory
	path string
	log  zerolog.Logger
}

func NewFile(path string, log zerolog.Logger) (*File, error) {
	if path == "" {
		return nil, errors.New("store: file path is required")
	}
	f := &File{
		Memory: NewMemory(),
		path:   path,
		log:    log.With().Str("store", "file").Logger(),
	}
	if err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) load() error {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse %s: %w", f.path, err)
	}
	for _, u := range snap.Users {
		u.Normalize()
		if err := f.Memory.save(u); err != nil {
			return fmt.Errorf("load user %s: %w", u.ID, err)
		}
	}
	f.Memory.certs = snap.Certificates

	f.log.Debug().
		Int("users", len(snap.Users)).
		Int("certificates", len(snap.Certificates)).
		Str("path", f.path).
		Msg("Loaded snapshot")
	return nil
}

// flush must be called with f.mu held.
func (f *File) flush() error {
	snap := snapshot{
		Users:        make([]*account.User, 0, len(f.users)),
		Certificates: f.certs,
	}
	for _, u := range f.users {
		snap.Users = append(snap.Users, u)
	}
	sortUsers(snap.Users)
	if snap.Certificates == nil {
		snap.Certificates = []account.Certificate{}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".pnlhub-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (f *File) Save(_ context.Context, u *account.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev := f.users[u.ID]
	if err := f.Memory.save(u); err != nil {
		return err
	}
	if err := f.flush(); err != nil {
		f.restore(u.ID, prev)
		return err
	}
	return nil
}

func (f *File) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return ErrNotFound
	}
	delete(f.emails, account.EmailKey(u.Email))
	delete(f.users, id)
	if err := f.flush(); err != nil {
		f.restore(id, u)
		return err
	}
	return nil
}

func (f *File) AddCertificate(_ context.Context, c account.Certificate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.certs)
	f.certs = append(f.certs, c)
	if err := f.flush(); err != nil {
		f.certs = f.certs[:n]
		return err
	}
	return nil
}
