// Package desk is the single entry point for reading and changing
// accounts. Every mutation loads the user, applies one rule, saves, and
// returns freshly derived ledger figures, so derived values are never
// persisted or left stale.
package desk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/pnlhub/account"
	"github.com/rustyeddy/pnlhub/ledger"
	"github.com/rustyeddy/pnlhub/pkg/id"
	"github.com/rustyeddy/pnlhub/store"
)

var ErrInvalidCredentials = errors.New("desk: invalid email or password")

// RecentActivityLimit is how many events the dashboard lists.
const RecentActivityLimit = 7

// Options wires a Service. Users and Certificates are required.
type Options struct {
	Users        store.UserStore
	Certificates store.CertificateStore
	Now          func() time.Time
	Location     *time.Location
	IDs          *id.Generator
	Log          zerolog.Logger
}

type Service struct {
	// mu serializes read-modify-write cycles within this process. Writers in
	// other processes sharing the same store still race (last write wins).
	mu    sync.Mutex
	users store.UserStore
	certs store.CertificateStore
	now   func() time.Time
	loc   *time.Location
	ids   *id.Generator
	log   zerolog.Logger
}

func New(opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.IDs == nil {
		opts.IDs = id.NewGenerator(opts.Now)
	}
	return &Service{
		users: opts.Users,
		certs: opts.Certificates,
		now:   opts.Now,
		loc:   opts.Location,
		ids:   opts.IDs,
		log:   opts.Log.With().Str("component", "desk").Logger(),
	}
}

// Today is the service clock in the configured ledger timezone.
func (s *Service) Today() time.Time {
	return ledger.Today(s.now, s.loc)
}

func (s *Service) view(u *account.User) account.Account {
	return account.NewAccount(u, s.Today())
}

// update loads a user, applies fn and saves it under s.mu.
func (s *Service) update(ctx context.Context, userID string, fn func(u *account.User, now time.Time) error) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return account.Account{}, fmt.Errorf("load user %s: %w", userID, err)
	}
	now := s.now()
	if err := fn(u, now); err != nil {
		return account.Account{}, err
	}
	if err := s.save(ctx, u, now); err != nil {
		return account.Account{}, err
	}
	return s.view(u), nil
}

// save must be called with s.mu held.
func (s *Service) save(ctx context.Context, u *account.User, now time.Time) error {
	u.UpdatedAt = now.UTC()
	if err := s.users.Save(ctx, u); err != nil {
		return fmt.Errorf("save user %s: %w", u.ID, err)
	}
	return nil
}

// CreateUser registers a new account with an empty PnL history.
func (s *Service) CreateUser(ctx context.Context, p account.Profile) (account.Account, error) {
	u := &account.User{}
	u.ApplyProfile(p)
	u.Normalize()
	if err := u.Validate(); err != nil {
		return account.Account{}, err
	}

	now := s.now().UTC()
	u.ID = s.ids.New()
	u.CreatedAt = now
	u.UpdatedAt = now
	u.PnLHistory = []ledger.Event{}
	u.Certificates = []account.Certificate{}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.users.Save(ctx, u); err != nil {
		return account.Account{}, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().
		Str("user", u.ID).
		Str("email", u.Email).
		Str("initial_balance", u.InitialBalance.String()).
		Msg("Created user")
	return s.view(u), nil
}

// UpdateUser replaces the editable profile of a user.
func (s *Service) UpdateUser(ctx context.Context, userID string, p account.Profile) (account.Account, error) {
	return s.update(ctx, userID, func(u *account.User, _ time.Time) error {
		u.ApplyProfile(p)
		u.Normalize()
		return u.Validate()
	})
}

// DeleteUser removes a user together with its PnL history.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user %s: %w", userID, err)
	}
	s.log.Info().Str("user", userID).Msg("Deleted user")
	return nil
}

func (s *Service) GetAccount(ctx context.Context, userID string) (account.Account, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return account.Account{}, fmt.Errorf("load user %s: %w", userID, err)
	}
	return s.view(u), nil
}

func (s *Service) FindAccount(ctx context.Context, email string) (account.Account, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return account.Account{}, fmt.Errorf("find user %s: %w", email, err)
	}
	return s.view(u), nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]account.Account, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	today := s.Today()
	out := make([]account.Account, 0, len(users))
	for _, u := range users {
		out = append(out, account.NewAccount(u, today))
	}
	return out, nil
}

// Authenticate matches email and password. Banned users still log in and
// see their ban on the dashboard.
func (s *Service) Authenticate(ctx context.Context, email, password string) (account.Account, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return account.Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return account.Account{}, fmt.Errorf("authenticate: %w", err)
	}
	if !u.CheckPassword(password) {
		s.log.Warn().Str("email", email).Msg("Rejected login")
		return account.Account{}, ErrInvalidCredentials
	}
	return s.view(u), nil
}

// AddPnL appends a validated event to the user's history.
func (s *Service) AddPnL(ctx context.Context, userID string, e ledger.Event) (account.Account, error) {
	if err := e.Validate(); err != nil {
		return account.Account{}, err
	}
	a, err := s.update(ctx, userID, func(u *account.User, _ time.Time) error {
		u.AddPnL(e)
		return nil
	})
	if err != nil {
		return a, err
	}
	s.log.Info().
		Str("user", userID).
		Str("date", e.Date).
		Str("amount", e.Amount.String()).
		Str("balance", a.Balance.String()).
		Msg("Added PnL entry")
	return a, nil
}

func (s *Service) Ban(ctx context.Context, userID, reason string) (account.Account, error) {
	return s.update(ctx, userID, func(u *account.User, now time.Time) error {
		u.Ban(reason, now.UTC())
		return nil
	})
}

func (s *Service) Unban(ctx context.Context, userID string) (account.Account, error) {
	return s.update(ctx, userID, func(u *account.User, _ time.Time) error {
		u.Unban()
		return nil
	})
}

// SubmitKYC records the user's document upload.
func (s *Service) SubmitKYC(ctx context.Context, userID string, up account.Upload) (account.Account, error) {
	return s.update(ctx, userID, func(u *account.User, now time.Time) error {
		if u.Banned {
			return account.ErrBanned
		}
		return u.SubmitDocuments(up, now.UTC())
	})
}

// ReviewKYC records the admin decision on submitted documents.
func (s *Service) ReviewKYC(ctx context.Context, userID string, status account.DocumentStatus) (account.Account, error) {
	return s.update(ctx, userID, func(u *account.User, now time.Time) error {
		return u.Review(status, now.UTC())
	})
}

// ConfirmKYCPayment accepts the user's TRC20 bypass payment.
func (s *Service) ConfirmKYCPayment(ctx context.Context, userID string) (account.Account, error) {
	return s.update(ctx, userID, func(u *account.User, now time.Time) error {
		if u.Banned {
			return account.ErrBanned
		}
		return u.ConfirmBypassPayment(now.UTC())
	})
}

func (s *Service) RequestWithdrawal(ctx context.Context, userID, wallet string) (account.Account, error) {
	a, err := s.update(ctx, userID, func(u *account.User, _ time.Time) error {
		return u.RequestWithdrawal(wallet)
	})
	if err != nil {
		return a, err
	}
	s.log.Info().
		Str("user", userID).
		Str("amount", a.User.ApprovedWithdrawalAmount.String()).
		Msg("Withdrawal requested")
	return a, nil
}

// IssueCertificate creates the next certificate for an eligible user and
// records it on the user and in the global list. The user is saved first so
// a failed save leaves no numbered certificate behind.
func (s *Service) IssueCertificate(ctx context.Context, userID string) (account.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return account.Certificate{}, fmt.Errorf("load user %s: %w", userID, err)
	}
	if u.Banned {
		return account.Certificate{}, account.ErrBanned
	}
	n, err := s.certs.CountCertificates(ctx)
	if err != nil {
		return account.Certificate{}, fmt.Errorf("count certificates: %w", err)
	}
	now := s.now()
	cert, err := account.NewCertificate(s.view(u), s.ids.Prefixed("cert"), n+1, now.In(s.loc))
	if err != nil {
		return account.Certificate{}, err
	}

	held := len(u.Certificates)
	u.Certificates = append(u.Certificates, cert)
	if err := s.save(ctx, u, now); err != nil {
		return account.Certificate{}, err
	}
	if err := s.certs.AddCertificate(ctx, cert); err != nil {
		// take it back off the user so both lists agree
		u.Certificates = u.Certificates[:held]
		if rerr := s.save(ctx, u, now); rerr != nil {
			s.log.Error().Err(rerr).
				Str("user", userID).
				Str("certificate", cert.CertificateNumber).
				Msg("Certificate kept on user after global record failed")
		}
		return account.Certificate{}, fmt.Errorf("record certificate: %w", err)
	}

	s.log.Info().
		Str("user", userID).
		Str("certificate", cert.CertificateNumber).
		Msg("Issued certificate")
	return cert, nil
}

func (s *Service) ListCertificates(ctx context.Context) ([]account.Certificate, error) {
	certs, err := s.certs.ListCertificates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return certs, nil
}
