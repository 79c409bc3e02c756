package quote

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound reports a quote id with no stored snapshot.
var ErrNotFound = errors.New("quote not found")

// Store persists accepted quote documents in sqlite. Stored quotes are
// snapshots: reading them back never reprices anything.
type Store struct {
	db *sql.DB
}

// NewStore creates a store on an open database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// SavedQuote represents the listing row of a stored quote.
type SavedQuote struct {
	ID        int64   `json:"id"`
	Reference string  `json:"reference"`
	CreatedAt string  `json:"created_at"`
	Title     string  `json:"title"`
	Notes     string  `json:"notes"`
	Currency  string  `json:"currency"`
	Total     float64 `json:"total"`
}

// Save stores a document under a fresh reference and returns the row
// metadata. The document is persisted verbatim alongside a few indexed
// columns for listing and search.
func (s *Store) Save(doc Document, title, notes string) (SavedQuote, error) {
	doc.Reference = uuid.NewString()
	doc.CreatedAt = time.Now().UTC().Format("2006-01-02 15:04:05")
	doc.Title = title
	doc.Notes = notes

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return SavedQuote{}, fmt.Errorf("marshal document: %w", err)
	}
	totalsJSON, err := json.Marshal(doc.Totals)
	if err != nil {
		return SavedQuote{}, fmt.Errorf("marshal totals: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return SavedQuote{}, fmt.Errorf("begin save quote: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		INSERT INTO quotes (reference, created_at, title, notes, currency, final_price, totals_json, document_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.Reference, doc.CreatedAt, title, notes, doc.Currency, doc.Totals.Total, string(totalsJSON), string(docJSON))
	if err != nil {
		return SavedQuote{}, fmt.Errorf("insert quote: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return SavedQuote{}, fmt.Errorf("quote id: %w", err)
	}

	for _, item := range doc.Items {
		_, err := tx.Exec(`
			INSERT INTO quote_items (quote_id, file_name, material, quality, infill_percent, supports, quantity, volume_cm3, grams, minutes, line_total)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, id, item.FileName, item.Material, item.Quality, item.InfillPercent, item.Supports,
			item.Quantity, item.VolumeCm3, item.Grams, item.Minutes, item.LineTotal)
		if err != nil {
			return SavedQuote{}, fmt.Errorf("insert quote item %s: %w", item.FileName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return SavedQuote{}, fmt.Errorf("commit save quote: %w", err)
	}

	return SavedQuote{
		ID:        id,
		Reference: doc.Reference,
		CreatedAt: doc.CreatedAt,
		Title:     title,
		Notes:     notes,
		Currency:  doc.Currency,
		Total:     doc.Totals.Total,
	}, nil
}

// List returns saved quotes newest first. A non-empty search term
// filters on title and notes.
func (s *Store) List(search string) ([]SavedQuote, error) {
	query := `
		SELECT id, reference, created_at, title, notes, currency, final_price
		FROM quotes
	`
	var args []any
	if search != "" {
		query += ` WHERE title LIKE ? OR notes LIKE ?`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY datetime(created_at) DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]SavedQuote, 0)
	for rows.Next() {
		var q SavedQuote
		if err := rows.Scan(&q.ID, &q.Reference, &q.CreatedAt, &q.Title, &q.Notes, &q.Currency, &q.Total); err != nil {
			return nil, fmt.Errorf("scan quote row: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}
	return quotes, nil
}

// Get returns one saved quote and its document snapshot exactly as stored.
func (s *Store) Get(id int64) (SavedQuote, Document, error) {
	var (
		q       SavedQuote
		docJSON string
	)
	err := s.db.QueryRow(`
		SELECT id, reference, created_at, title, notes, currency, final_price, document_json
		FROM quotes
		WHERE id = ?
	`, id).Scan(&q.ID, &q.Reference, &q.CreatedAt, &q.Title, &q.Notes, &q.Currency, &q.Total, &docJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedQuote{}, Document{}, fmt.Errorf("quote %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return SavedQuote{}, Document{}, fmt.Errorf("query quote %d: %w", id, err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(docJSON), &doc); err != nil {
		return SavedQuote{}, Document{}, fmt.Errorf("decode quote %d snapshot: %w", id, err)
	}
	return q, doc, nil
}
