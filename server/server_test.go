package server

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/pnlhub/account"
	"github.com/rustyeddy/pnlhub/desk"
	"github.com/rustyeddy/pnlhub/store"
)

const testAdmin = "admin-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mem := store.NewMemory()
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	svc := desk.New(desk.Options{
		Users:        mem,
		Certificates: mem,
		Now:          func() time.Time { return now },
		Log:          zerolog.Nop(),
	})
	s := New(Config{
		Log:           zerolog.Nop(),
		Desk:          svc,
		AdminPassword: testAdmin,
		DevMode:       true,
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

type call struct {
	method string
	path   string
	body   any
	admin  bool
	token  string
}

func do(t *testing.T, ts *httptest.Server, c call) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if c.body != nil {
		b, err := json.Marshal(c.body)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(c.method, ts.URL+c.path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.admin {
		req.Header.Set(adminHeader, testAdmin)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeInto(t *testing.T, data []byte, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, v), string(data))
}

type wireAccount struct {
	User struct {
		ID         string `json:"id"`
		Email      string `json:"email"`
		IsBanned   bool   `json:"isBanned"`
		PnLHistory []struct {
			Date   string `json:"date"`
			Amount string `json:"amount"`
		} `json:"pnlHistory"`
	} `json:"user"`
	Balance        string   `json:"balance"`
	AchievedProfit string   `json:"achievedProfit"`
	TodaysPnL      string   `json:"todaysPnL"`
	Last7Days      []string `json:"last7Days"`
}

func createUser(t *testing.T, ts *httptest.Server, email string) wireAccount {
	t.Helper()
	resp, data := do(t, ts, call{method: "POST", path: "/api/admin/users", admin: true, body: map[string]any{
		"name":           "Trader",
		"email":          email,
		"password":       "pw",
		"initialBalance": "10000",
		"profitTarget":   "500",
	}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	var a wireAccount
	decodeInto(t, data, &a)
	return a
}

func login(t *testing.T, ts *httptest.Server, email string) string {
	t.Helper()
	resp, data := do(t, ts, call{method: "POST", path: "/api/login", body: loginRequest{Email: email, Password: "pw"}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var lr struct {
		Token string `json:"token"`
	}
	decodeInto(t, data, &lr)
	require.NotEmpty(t, lr.Token)
	return lr.Token
}

func addPnL(t *testing.T, ts *httptest.Server, id, date, amount string) (*http.Response, []byte) {
	t.Helper()
	return do(t, ts, call{method: "POST", path: "/api/admin/users/" + id + "/pnl", admin: true,
		body: map[string]string{"date": date, "amount": amount}})
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, data := do(t, ts, call{method: "GET", path: "/health"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"status":"healthy"`)
}

func TestAdminRequiresPassword(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := do(t, ts, call{method: "GET", path: "/api/admin/users"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, data := do(t, ts, call{method: "GET", path: "/api/admin/users", admin: true})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(data))
}

func TestCreateUserOmitsPassword(t *testing.T) {
	ts := newTestServer(t)
	a := createUser(t, ts, "jane@example.com")
	assert.Equal(t, "10000", a.Balance)
	assert.Len(t, a.Last7Days, 7)

	resp, data := do(t, ts, call{method: "GET", path: "/api/admin/users/" + a.User.ID, admin: true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(data), `"password"`)

	resp, _ = do(t, ts, call{method: "POST", path: "/api/admin/users", admin: true, body: map[string]any{
		"email": "JANE@example.com", "password": "x",
	}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = do(t, ts, call{method: "POST", path: "/api/admin/users", admin: true, body: map[string]any{
		"email": "nopw@example.com",
	}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, ts, call{method: "POST", path: "/api/admin/users", admin: true, body: map[string]any{
		"email": "bogus@example.com", "password": "x", "kycStatus": "bogus",
	}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddPnLDerivesLedger(t *testing.T) {
	ts := newTestServer(t)
	a := createUser(t, ts, "pnl@example.com")

	resp, _ := addPnL(t, ts, a.User.ID, "2024-01-09", "70")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, data := addPnL(t, ts, a.User.ID, "2024-01-10", "50")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got wireAccount
	decodeInto(t, data, &got)
	assert.Equal(t, "10120", got.Balance)
	assert.Equal(t, "120", got.AchievedProfit)
	assert.Equal(t, "50", got.TodaysPnL)
	assert.Equal(t, []string{"0", "0", "0", "0", "0", "70", "50"}, got.Last7Days)
	assert.Len(t, got.User.PnLHistory, 2)

	resp, _ = addPnL(t, ts, a.User.ID, "01/10/2024", "5")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = addPnL(t, ts, a.User.ID, "2024-01-10", "0")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = addPnL(t, ts, "nobody", "2024-01-10", "5")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateAndDeleteUser(t *testing.T) {
	ts := newTestServer(t)
	a := createUser(t, ts, "edit@example.com")
	resp, _ := addPnL(t, ts, a.User.ID, "2024-01-10", "25")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, data := do(t, ts, call{method: "PUT", path: "/api/admin/users/" + a.User.ID, admin: true, body: map[string]any{
		"name":           "Renamed",
		"email":          "edit@example.com",
		"initialBalance": "20000",
		"profitTarget":   "500",
	}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var got wireAccount
	decodeInto(t, data, &got)
	assert.Equal(t, "20025", got.Balance)
	assert.Len(t, got.User.PnLHistory, 1)

	token := login(t, ts, "edit@example.com")

	resp, _ = do(t, ts, call{method: "DELETE", path: "/api/admin/users/" + a.User.ID, admin: true})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, ts, call{method: "GET", path: "/api/admin/users/" + a.User.ID, admin: true})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = do(t, ts, call{method: "GET", path: "/api/me", token: token})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginAndDashboard(t *testing.T) {
	ts := newTestServer(t)
	a := createUser(t, ts, "me@example.com")
	resp, _ := addPnL(t, ts, a.User.ID, "2024-01-10", "-100")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = do(t, ts, call{method: "POST", path: "/api/login", body: loginRequest{Email: "me@example.com", Password: "bad"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, ts, call{method: "GET", path: "/api/me"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := login(t, ts, "me@example.com")
	resp, data := do(t, ts, call{method: "GET", path: "/api/me", token: token})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var dash struct {
		Account         wireAccount `json:"account"`
		DrawdownPercent string      `json:"drawdownPercent"`
		Series          []struct {
			Date string `json:"date"`
		} `json:"series"`
		RecentActivity []any `json:"recentActivity"`
		Payout         struct {
			CanWithdraw bool   `json:"canWithdraw"`
			Reason      string `json:"reason"`
		} `json:"payout"`
	}
	decodeInto(t, data, &dash)
	assert.Equal(t, "9900", dash.Account.Balance)
	assert.Equal(t, "1", dash.DrawdownPercent)
	require.Len(t, dash.Series, 7)
	assert.Equal(t, "2024-01-10", dash.Series[6].Date)
	assert.Len(t, dash.RecentActivity, 1)
	assert.False(t, dash.Payout.CanWithdraw)
	assert.NotEmpty(t, dash.Payout.Reason)

	resp, _ = do(t, ts, call{method: "POST", path: "/api/logout", token: token})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, ts, call{method: "GET", path: "/api/me", token: token})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWithdrawalFlow(t *testing.T) {
	ts := newTestServer(t)
	a := createUser(t, ts, "w@example.com")
	token := login(t, ts, "w@example.com")

	resp, _ := do(t, ts, call{method: "POST", path: "/api/me/withdrawal", token: token, body: withdrawalRequest{WalletAddress: "T123"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, data := do(t, ts, call{method: "PUT", path: "/api/admin/users/" + a.User.ID, admin: true, body: map[string]any{
		"name":                     "Trader",
		"email":                    "w@example.com",
		"initialBalance":           "10000",
		"profitTarget":             "500",
		"monetized":                true,
		"approvedWithdrawalAmount": "250",
	}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	resp, data = do(t, ts, call{method: "GET", path: "/api/me/payout", token: token})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"payoutSplit":"80"`)
	assert.Contains(t, string(data), `"canWithdraw":true`)

	resp, _ = do(t, ts, call{method: "POST", path: "/api/me/withdrawal", token: token, body: withdrawalRequest{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = do(t, ts, call{method: "POST", path: "/api/me/withdrawal", token: token, body: withdrawalRequest{WalletAddress: "T123"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, ts, call{method: "POST", path: "/api/me/withdrawal", token: token, body: withdrawalRequest{WalletAddress: "T123"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestKYCFlow(t *testing.T) {
	ts := newTestServer(t)
	resp, data := do(t, ts, call{method: "POST", path: "/api/admin/users", admin: true, body: map[string]any{
		"email":     "kyc@example.com",
		"password":  "pw",
		"kycStatus": "not-verified",
		"kycRequirements": map[string]any{
			"bankStatement": true,
			"trc20Bypass":   true,
			"bypassAmount":  "10",
		},
	}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	var a wireAccount
	decodeInto(t, data, &a)
	token := login(t, ts, "kyc@example.com")

	resp, _ = do(t, ts, call{method: "POST", path: "/api/me/kyc", token: token, body: map[string]string{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = do(t, ts, call{method: "POST", path: "/api/me/kyc", token: token, body: map[string]string{"bankStatement": "bank.pdf"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, ts, call{method: "POST", path: "/api/me/kyc", token: token, body: map[string]string{"bankStatement": "bank.pdf"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	review := "/api/admin/users/" + a.User.ID + "/kyc/review"
	resp, _ = do(t, ts, call{method: "POST", path: review, admin: true, body: reviewRequest{Status: "maybe"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = do(t, ts, call{method: "POST", path: review, admin: true, body: reviewRequest{Status: "rejected"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, data = do(t, ts, call{method: "GET", path: "/api/me", token: token})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"showKycBypass":true`)

	resp, data = do(t, ts, call{method: "POST", path: "/api/me/kyc/payment", token: token})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"kycStatus":"verified"`)
}

func TestBanUnban(t *testing.T) {
	ts := newTestServer(t)
	a := createUser(t, ts, "ban@example.com")
	path := "/api/admin/users/" + a.User.ID

	resp, data := do(t, ts, call{method: "POST", path: path + "/ban", admin: true, body: banRequest{Reason: "abuse"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got wireAccount
	decodeInto(t, data, &got)
	assert.True(t, got.User.IsBanned)
	assert.Contains(t, string(data), `"banReason":"abuse"`)

	resp, data = do(t, ts, call{method: "POST", path: path + "/unban", admin: true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, data, &got)
	assert.False(t, got.User.IsBanned)
}

func TestCertificates(t *testing.T) {
	ts := newTestServer(t)
	a := createUser(t, ts, "cert@example.com")
	token := login(t, ts, "cert@example.com")

	resp, _ := do(t, ts, call{method: "POST", path: "/api/me/certificates", token: token})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = addPnL(t, ts, a.User.ID, "2024-01-10", "600")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, data := do(t, ts, call{method: "POST", path: "/api/me/certificates", token: token})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	assert.Contains(t, string(data), `"certificateNumber":"PNL-001"`)
	assert.Contains(t, string(data), `"dateIssued":"January 10, 2024"`)

	resp, data = do(t, ts, call{method: "GET", path: "/api/admin/certificates", admin: true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var certs []map[string]any
	decodeInto(t, data, &certs)
	assert.Len(t, certs, 1)
}

func TestStatementCSV(t *testing.T) {
	ts := newTestServer(t)
	a := createUser(t, ts, "csv@example.com")
	for i, amt := range []string{"10", "-2.5"} {
		resp, _ := addPnL(t, ts, a.User.ID, fmt.Sprintf("2024-01-0%d", i+8), amt)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	token := login(t, ts, "csv@example.com")

	resp, data := do(t, ts, call{method: "GET", path: "/api/me/statement.csv", token: token})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2024-01-09", "-2.50", "", "10007.50"}, rows[2])
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{store.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("load user x: %w", store.ErrNotFound), http.StatusNotFound},
		{desk.ErrInvalidCredentials, http.StatusUnauthorized},
		{store.ErrDuplicateEmail, http.StatusConflict},
		{account.ErrInvalidKYCStatus, http.StatusBadRequest},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
