package server

import (
	"fmt"
	"net/http"

	"github.com/rustyeddy/pnlhub/account"
	"github.com/rustyeddy/pnlhub/journal"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := s.desk.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	token := s.sessions.Create(a.User.ID)
	s.log.Info().Str("user", a.User.ID).Msg("User logged in")
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Account: toAccountDTO(a)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Revoke(bearerToken(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.desk.Dashboard(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardDTO(d))
}

func (s *Server) handlePayout(w http.ResponseWriter, r *http.Request) {
	d, err := s.desk.Dashboard(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayoutDTO(d))
}

func (s *Server) handleSubmitKYC(w http.ResponseWriter, r *http.Request) {
	var up account.Upload
	if err := decode(r, &up); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := s.desk.SubmitKYC(r.Context(), userID(r), up)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(a))
}

func (s *Server) handleKYCPayment(w http.ResponseWriter, r *http.Request) {
	a, err := s.desk.ConfirmKYCPayment(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(a))
}

func (s *Server) handleWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req withdrawalRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := s.desk.RequestWithdrawal(r.Context(), userID(r), req.WalletAddress)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(a))
}

func (s *Server) handleIssueCertificate(w http.ResponseWriter, r *http.Request) {
	c, err := s.desk.IssueCertificate(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	a, err := s.desk.GetAccount(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "statement-"+a.Today.Format("2006-01-02")+".csv"))
	if err := journal.WriteCSV(w, a); err != nil {
		s.log.Error().Err(err).Str("user", a.User.ID).Msg("Failed to write statement")
	}
}
