package server

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/pnlhub/account"
	"github.com/rustyeddy/pnlhub/desk"
	"github.com/rustyeddy/pnlhub/ledger"
)

// userDTO is a user as sent over the wire. It never carries the password.
type userDTO struct {
	ID                       string                       `json:"id"`
	Name                     string                       `json:"name"`
	Email                    string                       `json:"email"`
	InitialBalance           decimal.Decimal              `json:"initialBalance"`
	ProfitTarget             decimal.Decimal              `json:"profitTarget"`
	Monetized                bool                         `json:"monetized"`
	Passed                   bool                         `json:"passed"`
	TradeStartDate           string                       `json:"tradeStartDate,omitempty"`
	AccountPurchaseAmount    decimal.Decimal              `json:"accountPurchaseAmount"`
	TransferredFromServer    string                       `json:"transferredFromServer,omitempty"`
	ApprovedWithdrawalAmount decimal.Decimal              `json:"approvedWithdrawalAmount"`
	WithdrawalRequested      bool                         `json:"withdrawalRequested"`
	WalletAddress            string                       `json:"walletAddress,omitempty"`
	Banned                   bool                         `json:"isBanned"`
	BanReason                string                       `json:"banReason,omitempty"`
	BanDate                  *time.Time                   `json:"banDate,omitempty"`
	KYCStatus                account.KYCStatus            `json:"kycStatus"`
	KYCRequirements          *account.KYCRequirements     `json:"kycRequirements,omitempty"`
	KYCDocuments             *account.KYCDocuments        `json:"kycDocuments,omitempty"`
	KYCPaid                  bool                         `json:"kycPaid"`
	CertificateOverrides     account.CertificateOverrides `json:"certificateOverrides"`
	Certificates             []account.Certificate        `json:"certificates"`
	PnLHistory               []ledger.Event               `json:"pnlHistory"`
	CreatedAt                time.Time                    `json:"createdAt"`
	UpdatedAt                time.Time                    `json:"updatedAt"`
}

func toUserDTO(u *account.User) userDTO {
	return userDTO{
		ID:                       u.ID,
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
		Banned:                   u.Banned,
		BanReason:                u.BanReason,
		BanDate:                  u.BanDate,
		KYCStatus:                u.KYCStatus,
		KYCRequirements:          u.KYCRequirements,
		KYCDocuments:             u.KYCDocuments,
		KYCPaid:                  u.KYCPaid,
		CertificateOverrides:     u.CertificateOverrides,
		Certificates:             u.Certificates,
		PnLHistory:               u.PnLHistory,
		CreatedAt:                u.CreatedAt,
		UpdatedAt:                u.UpdatedAt,
	}
}

// accountDTO is a user plus its derived ledger figures.
type accountDTO struct {
	User userDTO `json:"user"`
	ledger.State
}

func toAccountDTO(a account.Account) accountDTO {
	return accountDTO{User: toUserDTO(a.User), State: a.State}
}

func toAccountDTOs(accts []account.Account) []accountDTO {
	out := make([]accountDTO, 0, len(accts))
	for _, a := range accts {
		out = append(out, toAccountDTO(a))
	}
	return out
}

type dashboardDTO struct {
	Account         accountDTO             `json:"account"`
	ProgressPercent decimal.Decimal        `json:"progressPercent"`
	DrawdownPercent decimal.Decimal        `json:"drawdownPercent"`
	PassedTarget    bool                   `json:"passedTarget"`
	RecentActivity  []ledger.Event         `json:"recentActivity"`
	Series          []ledger.Point         `json:"series"`
	KYC             account.DocumentStatus `json:"kyc"`
	CanUploadKYC    bool                   `json:"canUploadKyc"`
	ShowKYCBypass   bool                   `json:"showKycBypass"`
	Payout          payoutDTO              `json:"payout"`
}

func toDashboardDTO(d desk.Dashboard) dashboardDTO {
	return dashboardDTO{
		Account:         toAccountDTO(d.Account),
		ProgressPercent: d.ProgressPercent,
		DrawdownPercent: d.DrawdownPercent,
		PassedTarget:    d.PassedTarget,
		RecentActivity:  d.RecentActivity,
		Series:          d.Series,
		KYC:             d.KYC,
		CanUploadKYC:    d.CanUploadKYC,
		ShowKYCBypass:   d.ShowKYCBypass,
		Payout:          toPayoutDTO(d),
	}
}

type payoutDTO struct {
	Split               decimal.Decimal `json:"payoutSplit"`
	ApprovedAmount      decimal.Decimal `json:"approvedWithdrawalAmount"`
	WithdrawalRequested bool            `json:"withdrawalRequested"`
	WalletAddress       string          `json:"walletAddress,omitempty"`
	CanWithdraw         bool            `json:"canWithdraw"`
	Reason              string          `json:"reason,omitempty"`
}

func toPayoutDTO(d desk.Dashboard) payoutDTO {
	u := d.Account.User
	p := payoutDTO{
		Split:               d.PayoutSplit,
		ApprovedAmount:      u.ApprovedWithdrawalAmount,
		WithdrawalRequested: u.WithdrawalRequested,
		WalletAddress:       u.WalletAddress,
		CanWithdraw:         d.WithdrawalError == nil,
	}
	if d.WithdrawalError != nil {
		p.Reason = d.WithdrawalError.Error()
	}
	return p
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string     `json:"token"`
	Account accountDTO `json:"account"`
}

type withdrawalRequest struct {
	WalletAddress string `json:"walletAddress"`
}

type banRequest struct {
	Reason string `json:"reason"`
}

type reviewRequest struct {
	Status account.DocumentStatus `json:"status"`
}
