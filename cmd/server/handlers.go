package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Simplici0/print.works/internal/logger"
	"github.com/Simplici0/print.works/internal/mesh"
	"github.com/Simplici0/print.works/internal/pricing"
	"github.com/Simplici0/print.works/internal/quote"
	"github.com/Simplici0/print.works/pkg/geometry"
	"github.com/Simplici0/print.works/pkg/stl"
)

const maxUploadBytes = 64 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	valid, err := s.auth.validateCredentials(req.Email, req.Password)
	if err != nil {
		logger.Error("validate credentials", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "authentication error")
		return
	}
	if !valid {
		writeError(w, http.StatusUnauthorized, "Credenciales inválidas. Intenta de nuevo.")
		return
	}

	s.auth.setSessionCookie(w, req.Email)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type meshMetricsResponse struct {
	FileName  string     `json:"file_name,omitempty"`
	VolumeMm3 float64    `json:"volume_mm3"`
	VolumeCm3 float64    `json:"volume_cm3"`
	SizeMm    [3]float64 `json:"size_mm"`
	Triangles int        `json:"triangles"`
}

// handleMeshMetrics extracts volume, extents and triangle count from an
// STL file sent either as the raw request body or as a multipart "file"
// field.
func (s *server) handleMeshMetrics(w http.ResponseWriter, r *http.Request) {
	var (
		reader   io.Reader
		fileName string
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file es requerido")
			return
		}
		defer file.Close()
		reader = file
		fileName = header.Filename
	} else {
		reader = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	}

	model, err := stl.Parse(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	metrics, err := mesh.Compute(model.Coords())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, meshMetricsResponse{
		FileName:  fileName,
		VolumeMm3: metrics.VolumeMm3,
		VolumeCm3: metrics.VolumeMm3 / 1000.0,
		SizeMm:    [3]float64{metrics.Size.X, metrics.Size.Y, metrics.Size.Z},
		Triangles: metrics.Triangles,
	})
}

func (s *server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.pricing.Materials)
}

func (s *server) handlePricing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.pricing)
}

// quoteItemRequest carries the mesh figures and settings of one part.
// Empty material or quality and a zero quantity fall back to the
// defaults; an omitted infill percent means 0 (shells only).
type quoteItemRequest struct {
	FileName      string     `json:"file_name"`
	VolumeMm3     float64    `json:"volume_mm3"`
	SizeMm        [3]float64 `json:"size_mm"`
	Triangles     int        `json:"triangles"`
	Material      string     `json:"material"`
	Quality       string     `json:"quality"`
	InfillPercent float64    `json:"infill_percent"`
	Supports      bool       `json:"supports"`
	Quantity      int        `json:"quantity"`
}

func (it quoteItemRequest) settings() pricing.Settings {
	s := quote.DefaultSettings()
	if it.Material != "" {
		s.Material = it.Material
	}
	if it.Quality != "" {
		s.Quality = it.Quality
	}
	s.InfillPercent = it.InfillPercent
	s.Supports = it.Supports
	if it.Quantity != 0 {
		s.Quantity = it.Quantity
	}
	return s
}

type quoteRequest struct {
	Title string             `json:"title"`
	Notes string             `json:"notes"`
	Items []quoteItemRequest `json:"items"`
}

func (s *server) priceItemRequest(it quoteItemRequest) (quote.LineItem, error) {
	if it.VolumeMm3 < 0 || math.IsNaN(it.VolumeMm3) || math.IsInf(it.VolumeMm3, 0) {
		return quote.LineItem{}, fmt.Errorf("item %s: volume %v: %w", it.FileName, it.VolumeMm3, mesh.ErrInvalidMeshData)
	}
	metrics := mesh.Metrics{
		VolumeMm3: it.VolumeMm3,
		Size:      geometry.Vector3{X: it.SizeMm[0], Y: it.SizeMm[1], Z: it.SizeMm[2]},
		Triangles: it.Triangles,
	}
	return quote.NewLineItem(it.FileName, metrics, it.settings(), s.pricing)
}

func (s *server) buildDocument(items []quote.LineItem) (quote.Document, error) {
	q, err := quote.Build(items, s.pricing)
	if err != nil {
		return quote.Document{}, err
	}
	return quote.NewDocument(q, s.pricing), nil
}

// decodeQuoteRequest reads and prices a JSON quote request. On failure
// the error response has already been written and ok is false.
func (s *server) decodeQuoteRequest(w http.ResponseWriter, r *http.Request) (quoteRequest, quote.Document, bool) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, quote.Document{}, false
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items es requerido")
		return req, quote.Document{}, false
	}

	items := make([]quote.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		item, err := s.priceItemRequest(it)
		if err != nil {
			writeError(w, quoteErrorStatus(err), err.Error())
			return req, quote.Document{}, false
		}
		items = append(items, item)
	}

	doc, err := s.buildDocument(items)
	if err != nil {
		writeError(w, quoteErrorStatus(err), err.Error())
		return req, quote.Document{}, false
	}
	return req, doc, true
}

// handleQuote prices already-measured parts without touching the store.
func (s *server) handleQuote(w http.ResponseWriter, r *http.Request) {
	req, doc, ok := s.decodeQuoteRequest(w, r)
	if !ok {
		return
	}
	doc.Title = req.Title
	doc.Notes = req.Notes
	writeJSON(w, http.StatusOK, doc)
}

type uploadError struct {
	FileName string `json:"file_name"`
	Error    string `json:"error"`
}

type uploadResponse struct {
	Document *quote.Document `json:"document,omitempty"`
	Errors   []uploadError   `json:"errors,omitempty"`
}

// handleQuoteUpload parses, measures and prices uploaded STL files in
// one call. Files share the settings given as form fields. A file that
// fails to parse is reported in errors without affecting the others.
func (s *server) handleQuoteUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "files es requerido")
		return
	}
	settings, err := settingsFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		items      []quote.LineItem
		fileErrors []uploadError
	)
	for _, fh := range files {
		item, err := s.priceUpload(fh, settings)
		if err != nil {
			fileErrors = append(fileErrors, uploadError{FileName: fh.Filename, Error: err.Error()})
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, uploadResponse{Errors: fileErrors})
		return
	}

	doc, err := s.buildDocument(items)
	if err != nil {
		writeError(w, quoteErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{Document: &doc, Errors: fileErrors})
}

func (s *server) priceUpload(fh *multipart.FileHeader, settings pricing.Settings) (quote.LineItem, error) {
	f, err := fh.Open()
	if err != nil {
		return quote.LineItem{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	model, err := stl.Parse(f)
	if err != nil {
		return quote.LineItem{}, err
	}
	metrics, err := mesh.Compute(model.Coords())
	if err != nil {
		return quote.LineItem{}, err
	}
	return quote.NewLineItem(fh.Filename, metrics, settings, s.pricing)
}

func settingsFromForm(r *http.Request) (pricing.Settings, error) {
	s := quote.DefaultSettings()
	if v := strings.TrimSpace(r.FormValue("material")); v != "" {
		s.Material = v
	}
	if v := strings.TrimSpace(r.FormValue("quality")); v != "" {
		s.Quality = v
	}
	if v := r.FormValue("infill_percent"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return s, fmt.Errorf("infill_percent debe ser numérico")
		}
		s.InfillPercent = f
	}
	s.Supports = r.FormValue("supports") == "1"
	if v := r.FormValue("quantity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return s, fmt.Errorf("quantity debe ser numérico")
		}
		s.Quantity = n
	}
	return s, nil
}

func quoteErrorStatus(err error) int {
	switch {
	case errors.Is(err, pricing.ErrUnknownMaterial),
		errors.Is(err, pricing.ErrInvalidQualityTier),
		errors.Is(err, pricing.ErrInvalidSettings),
		errors.Is(err, mesh.ErrInvalidMeshData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
