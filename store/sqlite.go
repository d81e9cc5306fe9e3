package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rustyeddy/pnlhub/account"
	"github.com/rustyeddy/pnlhub/ledger"
)

type SQLite struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewSQLite(path string, log zerolog.Logger) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("store: sqlite path is required")
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// one writer keeps read-modify-write saves serialized
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db, log: log.With().Str("store", "sqlite").Logger()}, nil
}

func (s *SQLite) Get(ctx context.Context, id string) (*account.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT record FROM users WHERE id = ?`, id)
	return s.scanUser(ctx, row)
}

func (s *SQLite) GetByEmail(ctx context.Context, email string) (*account.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT record FROM users WHERE email_key = ?`, account.EmailKey(email))
	return s.scanUser(ctx, row)
}

func (s *SQLite) scanUser(ctx context.Context, row *sql.Row) (*account.User, error) {
	var record string
	if err := row.Scan(&record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u, err := decodeUser(record)
	if err != nil {
		return nil, err
	}
	if u.PnLHistory, err = s.history(ctx, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *SQLite) List(ctx context.Context) ([]*account.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var out []*account.User
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u, err := decodeUser(record)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	rows.Close()

	for _, u := range out {
		if u.PnLHistory, err = s.history(ctx, u.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLite) history(ctx context.Context, userID string) ([]ledger.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, amount, description
		FROM pnl_entries
		WHERE user_id = ?
		ORDER BY seq ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query pnl entries: %w", err)
	}
	defer rows.Close()

	out := []ledger.Event{}
	for rows.Next() {
		var e ledger.Event
		if err := rows.Scan(&e.Date, &e.Amount, &e.Description); err != nil {
			return nil, fmt.Errorf("scan pnl entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pnl entries: %w", err)
	}
	return out, nil
}

// Save upserts the record and inserts history entries past the stored
// count in one transaction.
func (s *SQLite) Save(ctx context.Context, u *account.User) error {
	if u.ID == "" {
		return ErrMissingID
	}
	record, err := encodeUser(u)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var stored int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pnl_entries WHERE user_id = ?`, u.ID,
	).Scan(&stored); err != nil {
		return fmt.Errorf("count pnl entries: %w", err)
	}
	if len(u.PnLHistory) < stored {
		return fmt.Errorf("%w: user %s has %d entries, save has %d",
			ErrHistoryRewrite, u.ID, stored, len(u.PnLHistory))
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, email_key, record, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email_key = excluded.email_key,
			record = excluded.record,
			updated_at = excluded.updated_at`,
		u.ID, account.EmailKey(u.Email), record, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("upsert user %s: %w", u.ID, err)
	}

	for i := stored; i < len(u.PnLHistory); i++ {
		e := u.PnLHistory[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pnl_entries (user_id, seq, date, amount, description)
			VALUES (?, ?, ?, ?, ?)`,
			u.ID, i, e.Date, e.Amount, e.Description,
		); err != nil {
			return fmt.Errorf("insert pnl entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.log.Debug().
		Str("user", u.ID).
		Int("new_entries", len(u.PnLHistory)-stored).
		Msg("Saved user")
	return nil
}

// Delete removes the user and its history. Issued certificates stay in the
// global list.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM pnl_entries WHERE user_id = ?`, id); err != nil {
		return fmt.Errorf("delete pnl entries %s: %w", id, err)
	}
	return tx.Commit()
}

func (s *SQLite) AddCertificate(ctx context.Context, c account.Certificate) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO certificates
		(id, certificate_number, user_id, user_name, account_size, date_issued, date_generated)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.CertificateNumber, c.UserID, c.UserName, c.AccountSize,
		c.DateIssued, c.DateGenerated.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert certificate %s: %w", c.ID, err)
	}
	return nil
}

func (s *SQLite) ListCertificates(ctx context.Context) ([]account.Certificate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, certificate_number, user_id, user_name, account_size, date_issued, date_generated
		FROM certificates
		ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query certificates: %w", err)
	}
	defer rows.Close()

	out := []account.Certificate{}
	for rows.Next() {
		var (
			c         account.Certificate
			generated string
		)
		if err := rows.Scan(&c.ID, &c.CertificateNumber, &c.UserID, &c.UserName,
			&c.AccountSize, &c.DateIssued, &generated); err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		if c.DateGenerated, err = time.Parse(time.RFC3339Nano, generated); err != nil {
			return nil, fmt.Errorf("certificate %s date: %w", c.ID, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate certificates: %w", err)
	}
	return out, nil
}

func (s *SQLite) CountCertificates(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM certificates`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count certificates: %w", err)
	}
	return n, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func encodeUser(u *account.User) (string, error) {
	rec := *u
	rec.PnLHistory = nil
	data, err := json.Marshal(&rec)
	if err != nil {
		return "", fmt.Errorf("encode user %s: %w", u.ID, err)
	}
	return string(data), nil
}

func decodeUser(record string) (*account.User, error) {
	var u account.User
	if err := json.Unmarshal([]byte(record), &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	u.Normalize()
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
