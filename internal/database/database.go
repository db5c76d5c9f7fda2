// Package database provides the data access layer.
package database

import (
	"context"
	"time"

	"github.com/misinfoguard/sentinel/internal/models"
)

// Store defines the interface for data persistence.
type Store interface {
	// Analyses
	SaveAnalysis(ctx context.Context, analysis *models.Analysis) error
	GetAnalysis(ctx context.Context, id string) (*models.Analysis, error)
	GetAnalysisByHash(ctx context.Context, hash string) (*models.Analysis, error)
	ListAnalyses(ctx context.Context, limit, offset int) ([]*models.Analysis, error)

	// Verdict results
	SaveResults(ctx context.Context, analysisID string, results []models.VerdictResult) error
	GetResultsByAnalysis(ctx context.Context, analysisID string) ([]models.VerdictResult, error)

	// API Keys
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	GetAPIKeyByHash(ctx context.Context, hash string) (*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id string, t time.Time) error
	DeleteAPIKey(ctx context.Context, id string) error
	ListAPIKeys(ctx context.Context) ([]*models.APIKey, error)

	// Audit logs
	LogRequest(ctx context.Context, log *models.AuditLog) error
	GetAuditLogs(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)

	// Lifecycle
	Close() error
	Migrate() error
}
