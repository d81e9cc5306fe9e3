package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rustyeddy/pnlhub/account"
	"github.com/rustyeddy/pnlhub/desk"
	"github.com/rustyeddy/pnlhub/ledger"
	"github.com/rustyeddy/pnlhub/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

var (
	badRequest = []error{
		account.ErrNameRequired,
		account.ErrEmailRequired,
		account.ErrPasswordRequired,
		account.ErrNegativeAmount,
		account.ErrInvalidKYCStatus,
		account.ErrNoDocuments,
		account.ErrInvalidReview,
		account.ErrWalletRequired,
		ledger.ErrInvalidDate,
		ledger.ErrZeroAmount,
		store.ErrMissingID,
	}
	conflict = []error{
		store.ErrDuplicateEmail,
		store.ErrHistoryRewrite,
		account.ErrBanned,
		account.ErrKYCTransition,
		account.ErrNotMonetized,
		account.ErrNoApprovedAmount,
		account.ErrWithdrawalPending,
		account.ErrNotEligible,
	}
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, desk.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	for _, e := range badRequest {
		if errors.Is(err, e) {
			return http.StatusBadRequest
		}
	}
	for _, e := range conflict {
		if errors.Is(err, e) {
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}

// fail maps err to a status. Internal errors are logged and not echoed.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
