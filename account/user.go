// Package account holds the persisted user record and the business rules
// that gate KYC, withdrawals and certificates.
package account

import (
	"errors"
	"strings"
	"time"

	"github.com/rustyeddy/pnlhub/ledger"
	"github.com/shopspring/decimal"
)

var (
	ErrNameRequired     = errors.New("account: name is required")
	ErrEmailRequired    = errors.New("account: email is required")
	ErrPasswordRequired = errors.New("account: password is required")
	ErrNegativeAmount   = errors.New("account: amounts must not be negative")
	ErrBanned           = errors.New("account: user is banned")
	ErrInvalidKYCStatus = errors.New("account: kyc status must be verified or not-verified")
)

// KYCStatus is the account-level verification flag.
type KYCStatus string

const (
	KYCVerified    KYCStatus = "verified"
	KYCNotVerified KYCStatus = "not-verified"
)

// CertificateOverrides replace computed certificate fields when set.
type CertificateOverrides struct {
	Name              string          `json:"name,omitempty"`
	CertificateNumber string          `json:"certificateNumber,omitempty"`
	AccountSize       decimal.Decimal `json:"accountSize"`
}

// User is the persisted record. Ledger figures are deliberately absent:
// they are derived from PnLHistory on every read (see Account).
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`

	InitialBalance        decimal.Decimal `json:"initialBalance"`
	ProfitTarget          decimal.Decimal `json:"profitTarget"`
	Monetized             bool            `json:"monetized"`
	Passed                bool            `json:"passed"`
	TradeStartDate        string          `json:"tradeStartDate,omitempty"`
	AccountPurchaseAmount decimal.Decimal `json:"accountPurchaseAmount"`
	TransferredFromServer string          `json:"transferredFromServer,omitempty"`

	ApprovedWithdrawalAmount decimal.Decimal `json:"approvedWithdrawalAmount"`
	WithdrawalRequested      bool            `json:"withdrawalRequested"`
	WalletAddress            string          `json:"walletAddress,omitempty"`

	Banned    bool       `json:"isBanned"`
	BanReason string     `json:"banReason,omitempty"`
	BanDate   *time.Time `json:"banDate,omitempty"`

	KYCStatus       KYCStatus        `json:"kycStatus"`
	KYCRequirements *KYCRequirements `json:"kycRequirements,omitempty"`
	KYCDocuments    *KYCDocuments    `json:"kycDocuments,omitempty"`
	KYCPaid         bool             `json:"kycPaid"`

	CertificateOverrides CertificateOverrides `json:"certificateOverrides"`
	Certificates         []Certificate        `json:"certificates"`

	PnLHistory []ledger.Event `json:"pnlHistory"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the fields the admin form requires.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(u.Email) == "" {
		return ErrEmailRequired
	}
	if u.Password == "" {
		return ErrPasswordRequired
	}
	if u.KYCStatus != KYCVerified && u.KYCStatus != KYCNotVerified {
		return ErrInvalidKYCStatus
	}
	for _, v := range []decimal.Decimal{u.InitialBalance, u.ProfitTarget, u.AccountPurchaseAmount, u.ApprovedWithdrawalAmount} {
		if v.IsNegative() {
			return ErrNegativeAmount
		}
	}
	return nil
}

// Normalize fills defaults for fields older records may leave empty.
func (u *User) Normalize() {
	u.Email = strings.TrimSpace(u.Email)
	if u.Name == "" {
		u.Name = LocalPart(u.Email)
	}
	if u.KYCStatus == "" {
		u.KYCStatus = KYCVerified
	}
	if u.KYCStatus == KYCNotVerified {
		if u.KYCRequirements == nil {
			req := DefaultKYCRequirements()
			u.KYCRequirements = &req
		}
		if u.KYCDocuments == nil {
			u.KYCDocuments = &KYCDocuments{Status: DocsNotSubmitted}
		}
	}
	if u.PnLHistory == nil {
		u.PnLHistory = []ledger.Event{}
	}
	if u.Certificates == nil {
		u.Certificates = []Certificate{}
	}
}

// Clone returns a copy that shares no slices or pointers with u.
func (u *User) Clone() *User {
	c := *u
	c.PnLHistory = append([]ledger.Event(nil), u.PnLHistory...)
	c.Certificates = append([]Certificate(nil), u.Certificates...)
	if u.BanDate != nil {
		t := *u.BanDate
		c.BanDate = &t
	}
	if u.KYCRequirements != nil {
		r := *u.KYCRequirements
		c.KYCRequirements = &r
	}
	if u.KYCDocuments != nil {
		d := u.KYCDocuments.clone()
		c.KYCDocuments = &d
	}
	return &c
}

// AddPnL appends an event to the history without touching the caller's
// previous slice.
func (u *User) AddPnL(e ledger.Event) {
	u.PnLHistory = ledger.Append(u.PnLHistory, e)
}

// Ban flags the user with a reason and timestamp.
func (u *User) Ban(reason string, now time.Time) {
	u.Banned = true
	u.BanReason = reason
	u.BanDate = &now
}

// Unban clears ban state.
func (u *User) Unban() {
	u.Banned = false
	u.BanReason = ""
	u.BanDate = nil
}

// CheckPassword compares against the stored plaintext password.
func (u *User) CheckPassword(password string) bool {
	return u.Password != "" && u.Password == password
}

// LocalPart returns the part of an email address before '@'.
func LocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

// EmailKey is the case-insensitive lookup key for an email address.
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
