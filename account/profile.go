package account

import (
	"github.com/shopspring/decimal"
)

// Profile is the admin-editable part of a user. History, certificates,
// KYC documents and ban state are managed by their own operations and are
// never touched by ApplyProfile.
type Profile struct {
	Name                     string               `json:"name"`
	Email                    string               `json:"email"`
	Password                 string               `json:"password,omitempty"`
	InitialBalance           decimal.Decimal      `json:"initialBalance"`
	ProfitTarget             decimal.Decimal      `json:"profitTarget"`
	Monetized                bool                 `json:"monetized"`
	Passed                   bool                 `json:"passed"`
	TradeStartDate           string               `json:"tradeStartDate,omitempty"`
	AccountPurchaseAmount    decimal.Decimal      `json:"accountPurchaseAmount"`
	TransferredFromServer    string               `json:"transferredFromServer,omitempty"`
	ApprovedWithdrawalAmount decimal.Decimal      `json:"approvedWithdrawalAmount"`
	WithdrawalRequested      bool                 `json:"withdrawalRequested"`
	WalletAddress            string               `json:"walletAddress,omitempty"`
	KYCStatus                KYCStatus            `json:"kycStatus,omitempty"`
	KYCRequirements          *KYCRequirements     `json:"kycRequirements,omitempty"`
	CertificateOverrides     CertificateOverrides `json:"certificateOverrides"`
}

// ApplyProfile copies p onto u. An empty password keeps the current one.
// Moving a verified user back to not-verified resets the document set.
func (u *User) ApplyProfile(p Profile) {
	u.Name = p.Name
	u.Email = p.Email
	if p.Password != "" {
		u.Password = p.Password
	}
	u.InitialBalance = p.InitialBalance
	u.ProfitTarget = p.ProfitTarget
	u.Monetized = p.Monetized
	u.Passed = p.Passed
	u.TradeStartDate = p.TradeStartDate
	u.AccountPurchaseAmount = p.AccountPurchaseAmount
	u.TransferredFromServer = p.TransferredFromServer
	u.ApprovedWithdrawalAmount = p.ApprovedWithdrawalAmount
	u.WithdrawalRequested = p.WithdrawalRequested
	u.WalletAddress = p.WalletAddress
	if p.KYCStatus != "" {
		// a demoted user starts KYC over
		if p.KYCStatus == KYCNotVerified && u.KYCStatus == KYCVerified {
			u.KYCDocuments = &KYCDocuments{Status: DocsNotSubmitted}
			u.KYCPaid = false
		}
		u.KYCStatus = p.KYCStatus
	}
	if p.KYCRequirements != nil {
		r := *p.KYCRequirements
		u.KYCRequirements = &r
	}
	u.CertificateOverrides = p.CertificateOverrides
}

// ProfileOf extracts the editable fields of u, without the password.
func ProfileOf(u *User) Profile {
	p := Profile{
		Name:                     u.Name,
		Email:                    u.Email,
		InitialBalance:           u.InitialBalance,
		ProfitTarget:             u.ProfitTarget,
		Monetized:                u.Monetized,
		Passed:                   u.Passed,
		TradeStartDate:           u.TradeStartDate,
		AccountPurchaseAmount:    u.AccountPurchaseAmount,
		TransferredFromServer:    u.TransferredFromServer,
		ApprovedWithdrawalAmount: u.ApprovedWithdrawalAmount,
		WithdrawalRequested:      u.WithdrawalRequested,
		WalletAddress:            u.WalletAddress,
		KYCStatus:                u.KYCStatus,
		CertificateOverrides:     u.CertificateOverrides,
	}
	if u.KYCRequirements != nil {
		r := *u.KYCRequirements
		p.KYCRequirements = &r
	}
	return p
}
