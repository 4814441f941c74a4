// Package store keeps extracted court cases and news articles in SQLite so
// repeated runs accumulate a history instead of separate result files.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alabama-forward/opal/courtportal"
	"github.com/alabama-forward/opal/news"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Custom errors for store operations
var (
	ErrCaseNotFound    = errors.New("case not found")
	ErrArticleNotFound = errors.New("article not found")
)

// Store manages cases and articles using SQLite.
type Store struct {
	db *sql.DB
}

// StoredCase is a court case together with when it was first and last seen
// in search results.
type StoredCase struct {
	courtportal.CourtCase
	FirstSeenAt time.Time `json:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
}

// StoredArticle is a news article with the time it was fetched.
type StoredArticle struct {
	news.Article
	FetchedAt time.Time `json:"fetched_at"`
}

// CaseFilter represents filtering options for listing cases.
type CaseFilter struct {
	Court  string // Filter by court name
	Status string // Filter by case status
	Limit  int    // Pagination limit
	Offset int    // Pagination offset
}

// Open opens the database at dsn and creates the tables if needed.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the tables if they don't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS court_cases (
		case_number TEXT PRIMARY KEY,
		court TEXT NOT NULL,
		case_link TEXT,
		case_title TEXT,
		classification TEXT,
		filed_date TEXT,
		status TEXT,
		first_seen_at TEXT NOT NULL,
		last_seen_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS articles (
		article_id TEXT PRIMARY KEY,
		url TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		author TEXT,
		date TEXT,
		lines TEXT NOT NULL,
		fetched_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveCases inserts new cases and updates the details of known ones, keyed by
// case number. Cases without a case number are skipped. It returns the number
// of cases written.
func (s *Store) SaveCases(cases []courtportal.CourtCase, seenAt time.Time) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO court_cases (
			case_number, court, case_link, case_title, classification,
			filed_date, status, first_seen_at, last_seen_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(case_number) DO UPDATE SET
			court = excluded.court,
			case_link = excluded.case_link,
			case_title = excluded.case_title,
			classification = excluded.classification,
			filed_date = excluded.filed_date,
			status = excluded.status,
			last_seen_at = excluded.last_seen_at
	`

	seen := formatTime(seenAt)
	saved := 0
	for _, c := range cases {
		if c.CaseNumber.Text == "" {
			continue
		}
		_, err := tx.Exec(query,
			c.CaseNumber.Text,
			c.Court,
			c.CaseNumber.Link,
			c.CaseTitle,
			c.Classification,
			c.FiledDate,
			c.Status,
			seen,
			seen,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to save case %s: %w", c.CaseNumber.Text, err)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit cases: %w", err)
	}
	return saved, nil
}

// GetCase retrieves a case by case number.
func (s *Store) GetCase(caseNumber string) (*StoredCase, error) {
	query := `
		SELECT case_number, court, case_link, case_title, classification,
		       filed_date, status, first_seen_at, last_seen_at
		FROM court_cases
		WHERE case_number = ?
	`

	c, err := scanCase(s.db.QueryRow(query, caseNumber))
	if err == sql.ErrNoRows {
		return nil, ErrCaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query case: %w", err)
	}
	return c, nil
}

// ListCases returns the stored cases matching filter, most recently filed
// first.
func (s *Store) ListCases(filter CaseFilter) ([]StoredCase, error) {
	query := `
		SELECT case_number, court, case_link, case_title, classification,
		       filed_date, status, first_seen_at, last_seen_at
		FROM court_cases
		WHERE 1=1
	`
	args := []any{}

	if filter.Court != "" {
		query += " AND court = ?"
		args = append(args, filter.Court)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}

	// Filed dates are MM/DD/YYYY, so order by the rearranged date
	query += " ORDER BY substr(filed_date, 7, 4) || substr(filed_date, 1, 2) || substr(filed_date, 4, 2) DESC, case_number"

	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cases: %w", err)
	}
	defer rows.Close()

	cases := []StoredCase{}
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		cases = append(cases, *c)
	}

	return cases, rows.Err()
}

// SaveArticles inserts new articles and refreshes known ones, keyed by URL.
// A refreshed article keeps the ID it was first stored with.
func (s *Store) SaveArticles(articles []news.Article, fetchedAt time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO articles (article_id, url, title, author, date, lines, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			date = excluded.date,
			lines = excluded.lines,
			fetched_at = excluded.fetched_at
	`

	fetched := formatTime(fetchedAt)
	for _, article := range articles {
		lines, err := json.Marshal(article.Lines)
		if err != nil {
			return fmt.Errorf("failed to marshal lines: %w", err)
		}

		id := article.ID
		if id == uuid.Nil {
			id = uuid.New()
		}

		_, err = tx.Exec(query,
			id.String(),
			article.URL,
			article.Title,
			article.Author,
			article.Date,
			string(lines),
			fetched,
		)
		if err != nil {
			return fmt.Errorf("failed to save article %s: %w", article.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit articles: %w", err)
	}
	return nil
}

// GetArticle retrieves an article by URL.
func (s *Store) GetArticle(url string) (*StoredArticle, error) {
	query := `
		SELECT article_id, url, title, author, date, lines, fetched_at
		FROM articles
		WHERE url = ?
	`

	article, err := scanArticle(s.db.QueryRow(query, url))
	if err == sql.ErrNoRows {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query article: %w", err)
	}
	return article, nil
}

// ListArticles returns stored articles, most recently fetched first. A
// non-positive limit returns all of them.
func (s *Store) ListArticles(limit int) ([]StoredArticle, error) {
	query := `
		SELECT article_id, url, title, author, date, lines, fetched_at
		FROM articles
		ORDER BY fetched_at DESC, url
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	articles := []StoredArticle{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *article)
	}

	return articles, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCase(row scanner) (*StoredCase, error) {
	var c StoredCase
	var link, title, classification, filed, status sql.NullString
	var firstSeen, lastSeen string

	err := row.Scan(
		&c.CaseNumber.Text, &c.Court, &link, &title, &classification,
		&filed, &status, &firstSeen, &lastSeen,
	)
	if err != nil {
		return nil, err
	}

	c.CaseNumber.Link = link.String
	c.CaseTitle = title.String
	c.Classification = classification.String
	c.FiledDate = filed.String
	c.Status = status.String
	c.FirstSeenAt = parseTime(firstSeen)
	c.LastSeenAt = parseTime(lastSeen)
	return &c, nil
}

func scanArticle(row scanner) (*StoredArticle, error) {
	var a StoredArticle
	var id, lines, fetched string
	var author, date sql.NullString

	if err := row.Scan(&id, &a.URL, &a.Title, &author, &date, &lines, &fetched); err != nil {
		return nil, err
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid article ID: %w", err)
	}
	if err := json.Unmarshal([]byte(lines), &a.Lines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lines: %w", err)
	}

	a.ID = parsedID
	a.Author = author.String
	a.Date = date.String
	a.LineCount = len(a.Lines)
	a.FetchedAt = parseTime(fetched)
	return &a, nil
}

func formatTime(t time.Time) string {
	// Strip monotonic clock for consistent storage and comparisons
	return t.Truncate(0).UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	// Try RFC3339Nano first, fall back to RFC3339 for compatibility
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t
}
