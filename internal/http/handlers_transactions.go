package http

import (
	"net/http"

	"ledger/internal/core"
	"ledger/internal/log"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	criteria, err := ParseCriteria(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	NewJSONResponse().JSON(s.app.Search(criteria)).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, ok := s.app.Store().Transaction(r.PathValue("id"))
	if !ok {
		NotFoundError("transaction not found").Write(w)
		return
	}
	NewJSONResponse().JSON(t).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	draft, resp := parseDraft(r)
	if resp != nil {
		resp.Write(w)
		return
	}

	created, err := s.app.Add(r.Context(), draft)
	if err != nil {
		errorResponse(r, log.OpCreate, err).Write(w)
		return
	}

	log.LogMutation(r.Context(), log.FromContext(r.Context()), log.OpCreate, log.NewFields().WithTransaction(created))
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+created.ID).
		JSON(created).
		Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	draft, resp := parseDraft(r)
	if resp != nil {
		resp.Write(w)
		return
	}

	t := draft.WithID(r.PathValue("id"))
	if err := s.app.Update(r.Context(), t); err != nil {
		errorResponse(r, log.OpUpdate, err).Write(w)
		return
	}

	log.LogMutation(r.Context(), log.FromContext(r.Context()), log.OpUpdate, log.NewFields().WithTransaction(t))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.app.Delete(r.Context(), id); err != nil {
		errorResponse(r, log.OpDelete, err).Write(w)
		return
	}

	log.LogMutation(r.Context(), log.FromContext(r.Context()), log.OpDelete,
		log.NewFields().WithTransaction(core.Transaction{ID: id}))
	w.WriteHeader(http.StatusNoContent)
}

// parseDraft reads a record form. Malformed bodies yield 400, invalid
// field values 422.
func parseDraft(r *http.Request) (core.Draft, *JSONResponseBuilder) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return core.Draft{}, BadRequestError("malformed request body")
	}
	d, err := p.DraftInput().Parse()
	if err != nil {
		return core.Draft{}, errorResponse(r, log.OpValidate, err)
	}
	return d, nil
}
