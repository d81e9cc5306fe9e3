package account

import (
	"testing"

	"github.com/rustyeddy/pnlhub/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyProfileKeepsHistory(t *testing.T) {
	t.Parallel()

	u := newUser()
	u.AddPnL(ledger.Event{Date: "2024-01-01", Amount: d("100")})
	u.Certificates = append(u.Certificates, Certificate{ID: "c1"})

	p := ProfileOf(u)
	assert.Empty(t, p.Password)
	p.Name = "Renamed"
	p.InitialBalance = d("20000")
	p.Monetized = true
	u.ApplyProfile(p)

	assert.Equal(t, "Renamed", u.Name)
	assert.Equal(t, "secret", u.Password)
	assert.True(t, u.Monetized)
	require.Len(t, u.PnLHistory, 1)
	require.Len(t, u.Certificates, 1)
	assert.True(t, NewAccount(u, today).Balance.Equal(d("20100")))
}

func TestApplyProfileSwitchesKYC(t *testing.T) {
	t.Parallel()

	u := newUser()
	p := ProfileOf(u)
	p.Password = "rotated"
	p.KYCStatus = KYCNotVerified
	p.KYCRequirements = &KYCRequirements{TINCertificate: true}
	u.ApplyProfile(p)
	u.Normalize()

	assert.Equal(t, "rotated", u.Password)
	assert.Equal(t, KYCNotVerified, u.KYCStatus)
	assert.True(t, u.KYCRequirements.TINCertificate)
	require.NotNil(t, u.KYCDocuments)
	assert.True(t, u.CanUpload())

	p.KYCRequirements.BankStatement = true
	assert.False(t, u.KYCRequirements.BankStatement)
}

func TestApplyProfileDemotionResetsDocuments(t *testing.T) {
	t.Parallel()

	u := newUser()
	u.KYCStatus = KYCNotVerified
	u.Normalize()
	require.NoError(t, u.SubmitDocuments(Upload{BankStatement: "bank.pdf"}, today))
	require.NoError(t, u.Review(DocsVerified, today))
	require.Equal(t, KYCVerified, u.KYCStatus)

	p := ProfileOf(u)
	p.KYCStatus = KYCNotVerified
	u.ApplyProfile(p)
	u.Normalize()

	assert.Equal(t, KYCNotVerified, u.KYCStatus)
	assert.Equal(t, DocsNotSubmitted, u.KYCDocuments.Status)
	assert.Equal(t, DocsNotSubmitted, u.EffectiveKYCStatus())
	assert.False(t, u.KYCPaid)
	assert.True(t, u.CanUpload())
	assert.NoError(t, u.SubmitDocuments(Upload{BankStatement: "bank2.pdf"}, today))
}

func TestApplyProfileKeepsPendingDocuments(t *testing.T) {
	t.Parallel()

	u := newUser()
	u.KYCStatus = KYCNotVerified
	u.Normalize()
	require.NoError(t, u.SubmitDocuments(Upload{BankStatement: "bank.pdf"}, today))

	p := ProfileOf(u)
	p.Name = "Edited"
	u.ApplyProfile(p)

	assert.Equal(t, DocsPending, u.KYCDocuments.Status)
	assert.Equal(t, "bank.pdf", u.KYCDocuments.BankStatement)
}
