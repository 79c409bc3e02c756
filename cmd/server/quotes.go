package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Simplici0/print.works/internal/logger"
	"github.com/Simplici0/print.works/internal/quote"
)

// handleQuoteSave recomputes the quote server-side before storing it, so
// a stored snapshot never contains client-supplied prices.
func (s *server) handleQuoteSave(w http.ResponseWriter, r *http.Request) {
	req, doc, ok := s.decodeQuoteRequest(w, r)
	if !ok {
		return
	}

	saved, err := s.store.Save(doc, strings.TrimSpace(req.Title), strings.TrimSpace(req.Notes))
	if err != nil {
		logger.Error("save quote", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save quote")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	quotes, err := s.store.List(query)
	if err != nil {
		logger.Error("list quotes", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load quotes")
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

type quoteDetailResponse struct {
	Quote    quote.SavedQuote `json:"quote"`
	Document quote.Document   `json:"document"`
}

func (s *server) handleQuoteDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := quoteID(w, r)
	if !ok {
		return
	}

	saved, doc, err := s.store.Get(id)
	if errors.Is(err, quote.ErrNotFound) {
		writeError(w, http.StatusNotFound, "quote not found")
		return
	}
	if err != nil {
		logger.Error("load quote", zap.Int64("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load quote")
		return
	}
	writeJSON(w, http.StatusOK, quoteDetailResponse{Quote: saved, Document: doc})
}

func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	id, ok := quoteID(w, r)
	if !ok {
		return
	}

	_, doc, err := s.store.Get(id)
	if errors.Is(err, quote.ErrNotFound) {
		writeError(w, http.StatusNotFound, "quote not found")
		return
	}
	if err != nil {
		logger.Error("load quote", zap.Int64("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load quote")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(quote.Text(doc)))
}

func quoteID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid quote id")
		return 0, false
	}
	return id, true
}
