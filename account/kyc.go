package account

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrKYCTransition = errors.New("account: kyc transition not allowed")
	ErrNoDocuments   = errors.New("account: at least one required document must be provided")
	ErrInvalidReview = errors.New("account: review status must be verified or rejected")
)

// DocumentStatus tracks an uploaded KYC document set.
type DocumentStatus string

const (
	DocsNotSubmitted DocumentStatus = "not-submitted"
	DocsPending      DocumentStatus = "pending"
	DocsVerified     DocumentStatus = "verified"
	DocsRejected     DocumentStatus = "rejected"
)

// KYCRequirements is what the admin asks a not-verified user for.
type KYCRequirements struct {
	BankStatement  bool            `json:"bankStatement"`
	TINCertificate bool            `json:"tinCertificate"`
	TRC20Bypass    bool            `json:"trc20Bypass"`
	BypassAmount   decimal.Decimal `json:"bypassAmount"`
	TRC20Address   string          `json:"trc20Address,omitempty"`
}

// DefaultKYCRequirements asks for a bank statement only, with a 10 USDT
// bypass fee should the bypass be enabled.
func DefaultKYCRequirements() KYCRequirements {
	return KYCRequirements{
		BankStatement: true,
		BypassAmount:  decimal.NewFromInt(10),
	}
}

// KYCDocuments records the submitted document references.
type KYCDocuments struct {
	BankStatement  string         `json:"bankStatement,omitempty"`
	TINCertificate string         `json:"tinCertificate,omitempty"`
	Status         DocumentStatus `json:"status"`
	SubmittedAt    *time.Time     `json:"submittedAt,omitempty"`
	ReviewedAt     *time.Time     `json:"reviewedAt,omitempty"`
}

func (d KYCDocuments) clone() KYCDocuments {
	if d.SubmittedAt != nil {
		t := *d.SubmittedAt
		d.SubmittedAt = &t
	}
	if d.ReviewedAt != nil {
		t := *d.ReviewedAt
		d.ReviewedAt = &t
	}
	return d
}

// Upload names the documents a user submits. Empty fields are omitted.
type Upload struct {
	BankStatement  string `json:"bankStatement,omitempty"`
	TINCertificate string `json:"tinCertificate,omitempty"`
}

func (u *User) docStatus() DocumentStatus {
	if u.KYCDocuments == nil || u.KYCDocuments.Status == "" {
		return DocsNotSubmitted
	}
	return u.KYCDocuments.Status
}

// EffectiveKYCStatus is the badge shown to the user: verified wins, then
// the document status.
func (u *User) EffectiveKYCStatus() DocumentStatus {
	if u.KYCStatus == KYCVerified {
		return DocsVerified
	}
	return u.docStatus()
}

// CanUpload reports whether documents may be (re)submitted.
func (u *User) CanUpload() bool {
	if u.KYCStatus != KYCNotVerified {
		return false
	}
	s := u.docStatus()
	return s == DocsNotSubmitted || s == DocsRejected
}

// ShowBypass reports whether the paid TRC20 bypass is on offer.
func (u *User) ShowBypass() bool {
	return u.KYCStatus == KYCNotVerified &&
		u.docStatus() == DocsRejected &&
		u.KYCRequirements != nil && u.KYCRequirements.TRC20Bypass
}

// SubmitDocuments moves the document set to pending.
func (u *User) SubmitDocuments(up Upload, now time.Time) error {
	if !u.CanUpload() {
		return fmt.Errorf("%w: submit from %s", ErrKYCTransition, u.EffectiveKYCStatus())
	}
	if up.BankStatement == "" && up.TINCertificate == "" {
		return ErrNoDocuments
	}
	docs := KYCDocuments{Status: DocsNotSubmitted}
	if u.KYCDocuments != nil {
		docs = u.KYCDocuments.clone()
	}
	docs.BankStatement = up.BankStatement
	docs.TINCertificate = up.TINCertificate
	docs.Status = DocsPending
	docs.SubmittedAt = &now
	u.KYCDocuments = &docs
	return nil
}

// Review records an admin decision. Verifying the documents also verifies
// the account.
func (u *User) Review(status DocumentStatus, now time.Time) error {
	if status != DocsVerified && status != DocsRejected {
		return fmt.Errorf("%w: %q", ErrInvalidReview, status)
	}
	if u.KYCDocuments == nil {
		u.KYCDocuments = &KYCDocuments{Status: DocsNotSubmitted}
	}
	u.KYCDocuments.Status = status
	u.KYCDocuments.ReviewedAt = &now
	if status == DocsVerified {
		u.KYCStatus = KYCVerified
	}
	return nil
}

// ConfirmBypassPayment marks the bypass fee as paid and verifies the user.
func (u *User) ConfirmBypassPayment(now time.Time) error {
	if !u.ShowBypass() {
		return fmt.Errorf("%w: bypass not offered", ErrKYCTransition)
	}
	u.KYCPaid = true
	u.KYCDocuments.Status = DocsVerified
	u.KYCDocuments.ReviewedAt = &now
	u.KYCStatus = KYCVerified
	return nil
}
