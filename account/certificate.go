package account

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotEligible = errors.New("account: profit target not reached")

// IssuedLayout formats Certificate.DateIssued.
const IssuedLayout = "January 2, 2006"

// Certificate is a funded-trader certificate issued once the profit
// target is met.
type Certificate struct {
	ID                string          `json:"id"`
	CertificateNumber string          `json:"certificateNumber"`
	UserID            string          `json:"userId"`
	UserName          string          `json:"userName"`
	AccountSize       decimal.Decimal `json:"accountSize"`
	DateIssued        string          `json:"dateIssued"`
	DateGenerated     time.Time       `json:"dateGenerated"`
}

// CertificateNumber formats the global sequence number, e.g. PNL-007.
func CertificateNumber(seq int) string {
	return fmt.Sprintf("PNL-%03d", seq)
}

// NewCertificate builds the certificate for a, with seq the 1-based
// position in the global certificate list. Overrides on the user replace
// the computed number, name and account size.
func NewCertificate(a Account, certID string, seq int, now time.Time) (Certificate, error) {
	if !a.HasPassedTarget() {
		return Certificate{}, ErrNotEligible
	}
	u := a.User
	ov := u.CertificateOverrides

	c := Certificate{
		ID:                certID,
		CertificateNumber: ov.CertificateNumber,
		UserID:            u.ID,
		UserName:          ov.Name,
		AccountSize:       ov.AccountSize,
		DateIssued:        now.Format(IssuedLayout),
		DateGenerated:     now.UTC(),
	}
	if c.CertificateNumber == "" {
		c.CertificateNumber = CertificateNumber(seq)
	}
	if c.UserName == "" {
		c.UserName = u.Name
	}
	if c.UserName == "" {
		c.UserName = LocalPart(u.Email)
	}
	if !c.AccountSize.IsPositive() {
		c.AccountSize = u.InitialBalance
	}
	return c, nil
}
