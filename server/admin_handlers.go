package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rustyeddy/pnlhub/account"
	"github.com/rustyeddy/pnlhub/ledger"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	accts, err := s.desk.ListAccounts(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTOs(accts))
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var p account.Profile
	if err := decode(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := s.desk.CreateUser(r.Context(), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountDTO(a))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	a, err := s.desk.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(a))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var p account.Profile
	if err := decode(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := s.desk.UpdateUser(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(a))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.desk.DeleteUser(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.sessions.RevokeUser(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddPnL(w http.ResponseWriter, r *http.Request) {
	var e ledger.Event
	if err := decode(r, &e); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := s.desk.AddPnL(r.Context(), chi.URLParam(r, "id"), e)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountDTO(a))
}

func (s *Server) handleBan(w http.ResponseWriter, r *http.Request) {
	var req banRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := s.desk.Ban(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(a))
}

func (s *Server) handleUnban(w http.ResponseWriter, r *http.Request) {
	a, err := s.desk.Unban(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(a))
}

func (s *Server) handleReviewKYC(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := s.desk.ReviewKYC(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(a))
}

func (s *Server) handleListCertificates(w http.ResponseWriter, r *http.Request) {
	certs, err := s.desk.ListCertificates(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, certs)
}
