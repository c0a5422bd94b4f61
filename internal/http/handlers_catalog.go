package http

import (
	"net/http"

	"ledger/internal/core"
	"ledger/internal/log"
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().JSON(s.app.Categories()).Write(w)
}

func (s *Server) handlePaymentMethods(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().JSON(s.app.PaymentMethods()).Write(w)
}

type defaultsResponse struct {
	Category      *core.Category      `json:"category"`
	PaymentMethod *core.PaymentMethod `json:"paymentMethod"`
}

func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	cat, method := s.app.Defaults()
	NewJSONResponse().JSON(defaultsResponse{Category: cat, PaymentMethod: method}).Write(w)
}

type draftResponse struct {
	EditingID string          `json:"editingId,omitempty"`
	Draft     core.DraftInput `json:"draft"`
}

// handleGetDraft returns the record form prefill.
func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	editor := s.app.Editor()
	resp := draftResponse{Draft: editor.PrefillDraft().Input()}
	if current, ok := editor.Current(); ok {
		resp.EditingID = current.ID
	}
	NewJSONResponse().JSON(resp).Write(w)
}

// handleSaveDraft submits the record form: 201 for a new transaction, 200
// when it updated the one being edited.
func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	draft, resp := parseDraft(r)
	if resp != nil {
		resp.Write(w)
		return
	}

	_, editing := s.app.Editor().Current()
	saved, err := s.app.Editor().Save(r.Context(), draft)
	if err != nil {
		errorResponse(r, log.OpCreate, err).Write(w)
		return
	}

	status, op := http.StatusCreated, log.OpCreate
	if editing {
		status, op = http.StatusOK, log.OpUpdate
	}
	log.LogMutation(r.Context(), log.FromContext(r.Context()), op, log.NewFields().WithTransaction(saved))
	NewJSONResponse().Status(status).JSON(saved).Write(w)
}

func (s *Server) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	t, err := s.app.BeginEdit(r.PathValue("id"))
	if err != nil {
		errorResponse(r, log.OpRead, err).Write(w)
		return
	}
	NewJSONResponse().JSON(t).Write(w)
}

func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	s.app.Editor().Cancel()
	w.WriteHeader(http.StatusNoContent)
}
