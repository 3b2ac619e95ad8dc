// Package catalog keeps named word lists in SQLite so puzzles can be built
// from themes other than the built-in list. Only word lists are stored;
// puzzle sessions are never persisted.
package catalog

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robalobadob/wordsearch/internal/puzzle"
	"github.com/robalobadob/wordsearch/internal/words"
)

var (
	ErrNotFound    = errors.New("catalog: word list not found")
	ErrDuplicate   = errors.New("catalog: word list name taken")
	ErrEmptyList   = errors.New("catalog: word list has no valid words")
	ErrInvalidName = errors.New("catalog: name must be 1-64 chars")
	ErrInvalidWord = errors.New("catalog: invalid word")
)

// Sources recorded with each list.
const (
	SourceBuiltin   = "builtin"
	SourceManual    = "manual"
	SourceGenerated = "generated"
)

// List is a stored word list with its entries in display order.
type List struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
	Words     []string  `json:"words"`
}

// PuzzleWords normalizes the stored entries for the engine.
func (l *List) PuzzleWords() []puzzle.Word {
	ws, _ := words.Normalize(l.Words)
	return ws
}

// Meta is a lightweight listing entry.
type Meta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
	Count     int       `json:"count"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Create validates and inserts a new list. Every entry must normalize to a
// valid word; repeated keys are rejected as invalid too.
func (s *Store) Create(ctx context.Context, name, source string, displays []string) (*List, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 64 {
		return nil, ErrInvalidName
	}
	ws, skipped := words.Normalize(displays)
	if len(skipped) > 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWord, skipped[0])
	}
	if len(ws) == 0 {
		return nil, ErrEmptyList
	}

	var exists int
	_ = s.db.QueryRowContext(ctx, `SELECT 1 FROM word_lists WHERE lower(name)=lower(?)`, name).Scan(&exists)
	if exists == 1 {
		return nil, ErrDuplicate
	}

	l := &List{
		ID:        genID(),
		Name:      name,
		Source:    source,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Words:     words.Displays(ws),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO word_lists (id, name, source, created_at) VALUES (?,?,?,?)`,
		l.ID, l.Name, l.Source, l.CreatedAt.Format(time.RFC3339),
	); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert list: %w", err)
	}
	for i, d := range l.Words {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO word_list_entries (list_id, position, display) VALUES (?,?,?)`,
			l.ID, i, d,
		); err != nil {
			return nil, fmt.Errorf("insert entry %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit list: %w", err)
	}
	return l, nil
}

// Get loads a list by ID.
func (s *Store) Get(ctx context.Context, id string) (*List, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, source, created_at FROM word_lists WHERE id=?`, id)
	return s.load(ctx, row)
}

// GetByName loads a list by case-insensitive name.
func (s *Store) GetByName(ctx context.Context, name string) (*List, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, source, created_at FROM word_lists WHERE lower(name)=lower(?)`,
		strings.TrimSpace(name))
	return s.load(ctx, row)
}

func (s *Store) load(ctx context.Context, row *sql.Row) (*List, error) {
	var l List
	var created string
	if err := row.Scan(&l.ID, &l.Name, &l.Source, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	l.CreatedAt = mustParse(created)

	rows, err := s.db.QueryContext(ctx,
		`SELECT display FROM word_list_entries WHERE list_id=? ORDER BY position`, l.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		l.Words = append(l.Words, d)
	}
	return &l, rows.Err()
}

// List returns every stored list, newest first.
func (s *Store) List(ctx context.Context) ([]Meta, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT l.id, l.name, l.source, l.created_at, COUNT(e.position)
        FROM word_lists l
        LEFT JOIN word_list_entries e ON e.list_id = l.id
        GROUP BY l.id
        ORDER BY l.created_at DESC, l.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Meta{}
	for rows.Next() {
		var m Meta
		var created string
		if err := rows.Scan(&m.ID, &m.Name, &m.Source, &created, &m.Count); err != nil {
			return nil, err
		}
		m.CreatedAt = mustParse(created)
		out = append(out, m)
	}
	return out, rows.Err()
}

// EnsureDefault returns the list called name, creating it from displays
// when it does not exist yet.
func (s *Store) EnsureDefault(ctx context.Context, name string, displays []string) (*List, error) {
	l, err := s.GetByName(ctx, name)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return s.Create(ctx, name, SourceBuiltin, displays)
}

// mustParse parses RFC3339 timestamps; on error returns zero time.
func mustParse(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
