package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/misinfoguard/sentinel/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id TEXT PRIMARY KEY,
			document_hash TEXT NOT NULL,
			language TEXT NOT NULL,
			total_claims INTEGER NOT NULL,
			likely_true INTEGER NOT NULL,
			likely_false INTEGER NOT NULL,
			needs_verification INTEGER NOT NULL,
			processing_time_ms INTEGER NOT NULL,
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_hash ON analyses(document_hash)`,
		`CREATE TABLE IF NOT EXISTS verdict_results (
			id TEXT PRIMARY KEY,
			analysis_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			claim TEXT NOT NULL,
			verdict TEXT NOT NULL,
			confidence REAL NOT NULL,
			explanation TEXT NOT NULL,
			sources TEXT NOT NULL,
			total_sources_found INTEGER NOT NULL,
			red_flags INTEGER NOT NULL,
			timestamp DATETIME NOT NULL,
			FOREIGN KEY (analysis_id) REFERENCES analyses(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_analysis ON verdict_results(analysis_id)`,
		`CREATE TABLE IF NOT EXISTS api_keys (
			id TEXT PRIMARY KEY,
			key_hash TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			requests_per_minute INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			last_used_at DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_api_keys_hash ON api_keys(key_hash)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id TEXT PRIMARY KEY,
			api_key_id TEXT NOT NULL,
			endpoint TEXT NOT NULL,
			method TEXT NOT NULL,
			request_size INTEGER NOT NULL,
			response_code INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			timestamp DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_logs(timestamp)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveAnalysis stores an analysis summary.
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, analysis *models.Analysis) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, document_hash, language, total_claims, likely_true,
			likely_false, needs_verification, processing_time_ms, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		analysis.ID, analysis.DocumentHash, analysis.Language, analysis.TotalClaims,
		analysis.LikelyTrue, analysis.LikelyFalse, analysis.NeedsVerification,
		analysis.ProcessingTimeMs, analysis.Status, analysis.CreatedAt,
	)
	return err
}

// GetAnalysis retrieves an analysis by ID.
func (s *SQLiteStore) GetAnalysis(ctx context.Context, id string) (*models.Analysis, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, document_hash, language, total_claims, likely_true, likely_false,
			needs_verification, processing_time_ms, status, created_at
		FROM analyses WHERE id = ?`, id)
	return scanAnalysis(row)
}

// GetAnalysisByHash retrieves the most recent analysis for a document hash.
func (s *SQLiteStore) GetAnalysisByHash(ctx context.Context, hash string) (*models.Analysis, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, document_hash, language, total_claims, likely_true, likely_false,
			needs_verification, processing_time_ms, status, created_at
		FROM analyses WHERE document_hash = ? ORDER BY created_at DESC LIMIT 1`, hash)
	return scanAnalysis(row)
}

func scanAnalysis(row *sql.Row) (*models.Analysis, error) {
	var a models.Analysis
	err := row.Scan(&a.ID, &a.DocumentHash, &a.Language, &a.TotalClaims, &a.LikelyTrue,
		&a.LikelyFalse, &a.NeedsVerification, &a.ProcessingTimeMs, &a.Status, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAnalyses returns paginated analyses.
func (s *SQLiteStore) ListAnalyses(ctx context.Context, limit, offset int) ([]*models.Analysis, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_hash, language, total_claims, likely_true, likely_false,
			needs_verification, processing_time_ms, status, created_at
		FROM analyses ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*models.Analysis
	for rows.Next() {
		var a models.Analysis
		if err := rows.Scan(&a.ID, &a.DocumentHash, &a.Language, &a.TotalClaims,
			&a.LikelyTrue, &a.LikelyFalse, &a.NeedsVerification,
			&a.ProcessingTimeMs, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		analyses = append(analyses, &a)
	}
	return analyses, rows.Err()
}

// SaveResults stores the verdict results of an analysis. Sources are stored
// as a JSON blob; they are read back only for display, never rescored.
func (s *SQLiteStore) SaveResults(ctx context.Context, analysisID string, results []models.VerdictResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO verdict_results (id, analysis_id, position, claim, verdict, confidence,
			explanation, sources, total_sources_found, red_flags, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range results {
		sourcesJSON, _ := json.Marshal(r.Sources)
		_, err := stmt.ExecContext(ctx, uuid.New().String(), analysisID, i, r.Claim,
			string(r.Verdict), r.Confidence, r.Explanation, string(sourcesJSON),
			r.TotalSourcesFound, r.RedFlags, r.Timestamp)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetResultsByAnalysis retrieves the verdict results of an analysis in
// pipeline order.
func (s *SQLiteStore) GetResultsByAnalysis(ctx context.Context, analysisID string) ([]models.VerdictResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT claim, verdict, confidence, explanation, sources, total_sources_found, red_flags, timestamp
		FROM verdict_results WHERE analysis_id = ? ORDER BY position`, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.VerdictResult
	for rows.Next() {
		var r models.VerdictResult
		var verdictStr, sourcesJSON string
		if err := rows.Scan(&r.Claim, &verdictStr, &r.Confidence, &r.Explanation,
			&sourcesJSON, &r.TotalSourcesFound, &r.RedFlags, &r.Timestamp); err != nil {
			return nil, err
		}
		r.Verdict = models.Verdict(verdictStr)
		json.Unmarshal([]byte(sourcesJSON), &r.Sources)
		results = append(results, r)
	}
	return results, rows.Err()
}

// CreateAPIKey stores a new API key.
func (s *SQLiteStore) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_keys (id, key_hash, name, requests_per_minute, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		key.ID, key.KeyHash, key.Name, key.RequestsPerMinute, key.CreatedAt)
	return err
}

// GetAPIKeyByHash retrieves an API key by its hash.
func (s *SQLiteStore) GetAPIKeyByHash(ctx context.Context, hash string) (*models.APIKey, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, key_hash, name, requests_per_minute, created_at, last_used_at
		FROM api_keys WHERE key_hash = ?`, hash)

	var key models.APIKey
	err := row.Scan(&key.ID, &key.KeyHash, &key.Name, &key.RequestsPerMinute,
		&key.CreatedAt, &key.LastUsedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// UpdateAPIKeyLastUsed updates the last used timestamp.
func (s *SQLiteStore) UpdateAPIKeyLastUsed(ctx context.Context, id string, t time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE api_keys SET last_used_at = ? WHERE id = ?`, t, id)
	return err
}

// DeleteAPIKey removes an API key.
func (s *SQLiteStore) DeleteAPIKey(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = ?`, id)
	return err
}

// ListAPIKeys returns all API keys.
func (s *SQLiteStore) ListAPIKeys(ctx context.Context) ([]*models.APIKey, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, requests_per_minute, created_at, last_used_at
		FROM api_keys ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.RequestsPerMinute,
			&k.CreatedAt, &k.LastUsedAt); err != nil {
			return nil, err
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

// LogRequest stores an audit log entry.
func (s *SQLiteStore) LogRequest(ctx context.Context, log *models.AuditLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, api_key_id, endpoint, method, request_size, response_code, duration_ms, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.APIKeyID, log.Endpoint, log.Method, log.RequestSize,
		log.ResponseCode, log.DurationMs, log.Timestamp)
	return err
}

// GetAuditLogs returns paginated audit logs.
func (s *SQLiteStore) GetAuditLogs(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, api_key_id, endpoint, method, request_size, response_code, duration_ms, timestamp
		FROM audit_logs ORDER BY timestamp DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.ID, &l.APIKeyID, &l.Endpoint, &l.Method,
			&l.RequestSize, &l.ResponseCode, &l.DurationMs, &l.Timestamp); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
