package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/print.works/internal/quote"
)

func saveCubeQuote(t *testing.T, srv *server, title, notes string) quote.SavedQuote {
	t.Helper()

	payload := fmt.Sprintf(`{
		"title": %q,
		"notes": %q,
		"items": [
			{
				"file_name": "cubo.stl",
				"volume_mm3": 1000,
				"size_mm": [10, 10, 10],
				"triangles": 12,
				"material": "PLA",
				"quality": "standard",
				"infill_percent": 15,
				"quantity": 1
			}
		]
	}`, title, notes)

	req := httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	srv.handleQuoteSave(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("save status = %d, body %s", rr.Code, rr.Body.String())
	}

	var saved quote.SavedQuote
	if err := json.Unmarshal(rr.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode saved quote: %v", err)
	}
	return saved
}

func requestWithID(method, target, id string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHandleQuoteSaveAndDetail(t *testing.T) {
	srv := newTestServer(t)

	saved := saveCubeQuote(t, srv, "Cubo de prueba", "primer pedido")
	if saved.ID == 0 {
		t.Fatalf("saved quote has no id")
	}
	if len(saved.Reference) != 36 {
		t.Errorf("reference = %q, want a uuid", saved.Reference)
	}
	if saved.Total != 162 {
		t.Errorf("total = %v, want 162", saved.Total)
	}
	if saved.Title != "Cubo de prueba" {
		t.Errorf("title = %q", saved.Title)
	}

	req := requestWithID(http.MethodGet, "/api/quotes/"+strconv.FormatInt(saved.ID, 10), strconv.FormatInt(saved.ID, 10))
	rr := httptest.NewRecorder()
	srv.handleQuoteDetail(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("detail status = %d, body %s", rr.Code, rr.Body.String())
	}

	var detail quoteDetailResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.Quote.Reference != saved.Reference {
		t.Errorf("detail reference = %q, want %q", detail.Quote.Reference, saved.Reference)
	}
	if detail.Document.Totals.Total != 162 {
		t.Errorf("document total = %v, want 162", detail.Document.Totals.Total)
	}
	if detail.Document.Title != "Cubo de prueba" {
		t.Errorf("document title = %q", detail.Document.Title)
	}
	if len(detail.Document.Items) != 1 || detail.Document.Items[0].FileName != "cubo.stl" {
		t.Errorf("document items = %+v", detail.Document.Items)
	}
}

func TestHandleQuoteText(t *testing.T) {
	srv := newTestServer(t)

	saved := saveCubeQuote(t, srv, "Cubo de prueba", "")

	req := requestWithID(http.MethodGet, "/api/quotes/1/text", strconv.FormatInt(saved.ID, 10))
	rr := httptest.NewRecorder()
	srv.handleQuoteText(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}

	body := rr.Body.String()
	for _, want := range []string{
		"Título: Cubo de prueba",
		"Referencia: " + saved.Reference,
		"Material: PLA",
		"Supuestos:",
		"Total: 162.00 COP",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("text missing %q:\n%s", want, body)
		}
	}
}

func TestHandleQuoteDetailNotFound(t *testing.T) {
	srv := newTestServer(t)

	req := requestWithID(http.MethodGet, "/api/quotes/999", "999")
	rr := httptest.NewRecorder()
	srv.handleQuoteDetail(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "quote not found") {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestHandleQuoteDetailInvalidID(t *testing.T) {
	srv := newTestServer(t)

	req := requestWithID(http.MethodGet, "/api/quotes/abc", "abc")
	rr := httptest.NewRecorder()
	srv.handleQuoteDetail(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "invalid quote id") {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestHandleQuotesListFiltersBySearch(t *testing.T) {
	srv := newTestServer(t)

	saveCubeQuote(t, srv, "Llaveros corporativos", "lote de 40")
	saveCubeQuote(t, srv, "Casa para pájaros", "")

	req := httptest.NewRequest(http.MethodGet, "/api/quotes?q=Llaveros", nil)
	rr := httptest.NewRecorder()
	srv.handleQuotesList(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var quotes []quote.SavedQuote
	if err := json.Unmarshal(rr.Body.Bytes(), &quotes); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(quotes) != 1 || quotes[0].Title != "Llaveros corporativos" {
		t.Fatalf("filtered list = %+v", quotes)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/quotes", nil)
	rr = httptest.NewRecorder()
	srv.handleQuotesList(rr, req)

	quotes = nil
	if err := json.Unmarshal(rr.Body.Bytes(), &quotes); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("unfiltered list has %d quotes, want 2", len(quotes))
	}
}
