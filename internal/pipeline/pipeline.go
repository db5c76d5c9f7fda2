// Package pipeline orchestrates the full analysis: classification gate,
// segmentation, claim extraction, evidence gathering and verdicts.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/misinfoguard/sentinel/internal/classify"
	"github.com/misinfoguard/sentinel/internal/config"
	"github.com/misinfoguard/sentinel/internal/database"
	"github.com/misinfoguard/sentinel/internal/extract"
	"github.com/misinfoguard/sentinel/internal/models"
	"github.com/misinfoguard/sentinel/internal/nlp"
	"github.com/misinfoguard/sentinel/internal/query"
	"github.com/misinfoguard/sentinel/internal/search"
	"github.com/misinfoguard/sentinel/internal/segment"
	"github.com/misinfoguard/sentinel/internal/verdict"
)

// ErrInappropriate reports that the text tripped the content screen.
var ErrInappropriate = fmt.Errorf("content rejected: inappropriate or sensitive material detected")

// Pipeline wires the analysis stages together.
type Pipeline struct {
	classifier *classify.Classifier
	splitter   *segment.Splitter
	extractor  *extract.Extractor
	builder    *query.Builder
	gatherer   *search.Gatherer
	engine     *verdict.Engine
	detector   nlp.LanguageDetector
	store      database.Store
	maxWorkers int
	screen     bool
}

// New assembles the pipeline from configuration. The store may be nil, in
// which case results are not persisted.
func New(cfg *config.Config, gatherer *search.Gatherer, sentiment nlp.SentimentAnalyzer, store database.Store) *Pipeline {
	detector := nlp.DetectorFunc(nlp.DetectLanguage)

	return &Pipeline{
		classifier: classify.New(classify.Config{
			NonNewsRejectScore: cfg.Pipeline.NonNewsRejectScore,
			NewsAcceptScore:    cfg.Pipeline.NewsAcceptScore,
		}),
		splitter:  segment.New(cfg.Pipeline.TopicMergeThreshold),
		extractor: extract.New(sentiment, detector, cfg.Pipeline.TopicMergeThreshold),
		builder:   query.New(),
		gatherer:  gatherer,
		engine: verdict.New(verdict.Config{
			RelevanceThreshold: cfg.Pipeline.RelevanceThreshold,
		}),
		detector:   detector,
		store:      store,
		maxWorkers: cfg.Pipeline.MaxWorkers,
		screen:     cfg.Pipeline.InappropriateScreen,
	}
}

// Analyze classifies text and extracts its claims without fetching evidence.
// Language and entities are optional caller-supplied metadata.
func (p *Pipeline) Analyze(ctx context.Context, text, lang string, entities []models.Entity) (*models.AnalyzeResponse, error) {
	if p.screen && classify.ContainsInappropriate(text) {
		return nil, ErrInappropriate
	}

	classification := p.classifier.Classify(text, entities)
	if lang == "" {
		lang = p.detector.Detect(text)
	}

	resp := &models.AnalyzeResponse{
		Classification: classification,
		Language:       lang,
	}
	if !classification.IsNews {
		return resp, nil
	}

	for _, seg := range p.splitter.Split(text) {
		resp.Claims = append(resp.Claims, p.extractor.Extract(ctx, seg, lang, entitiesFor(text, seg, entities))...)
	}
	return resp, nil
}

// Check runs the complete pipeline over text and returns verdicts for every
// extracted claim. Rejection at the classification gate is an ordinary
// response, not an error.
func (p *Pipeline) Check(ctx context.Context, text string) (*models.CheckResponse, error) {
	start := time.Now()

	hash := sha256.Sum256([]byte(text))
	docHash := hex.EncodeToString(hash[:])

	if p.store != nil {
		existing, err := p.store.GetAnalysisByHash(ctx, docHash)
		if err != nil {
			log.Error().Err(err).Msg("Failed to check for existing analysis")
		}
		if existing != nil {
			log.Info().Str("id", existing.ID).Msg("Returning stored analysis")
			results, _ := p.store.GetResultsByAnalysis(ctx, existing.ID)
			synthetic := models.Classification{
				IsNews:      existing.Status != "rejected",
				ContentType: models.ContentNews,
				Confidence:  1,
			}
			if !synthetic.IsNews {
				synthetic.ContentType = models.ContentInsufficient
			}
			return &models.CheckResponse{
				ID:             existing.ID,
				DocumentHash:   docHash,
				Classification: synthetic,
				Analysis:       *existing,
				Results:        results,
			}, nil
		}
	}

	analysis, err := p.analyzeForCheck(ctx, text, docHash)
	if err != nil {
		return nil, err
	}

	resp := &models.CheckResponse{
		ID:             analysis.analysis.ID,
		DocumentHash:   docHash,
		Classification: analysis.classification,
		Analysis:       analysis.analysis,
	}

	if !analysis.classification.IsNews {
		analysis.analysis.Status = "rejected"
		analysis.analysis.ProcessingTimeMs = time.Since(start).Milliseconds()
		resp.Analysis = analysis.analysis
		p.persist(ctx, resp)
		return resp, nil
	}

	log.Info().Int("claims", len(analysis.claims)).Str("language", analysis.analysis.Language).Msg("Evaluating claims")
	resp.Results, resp.Warnings = p.evaluateClaims(ctx, analysis.claims)

	for _, r := range resp.Results {
		switch r.Verdict {
		case models.VerdictLikelyTrue:
			resp.Analysis.LikelyTrue++
		case models.VerdictLikelyFalse:
			resp.Analysis.LikelyFalse++
		default:
			resp.Analysis.NeedsVerification++
		}
	}
	resp.Analysis.TotalClaims = len(resp.Results)
	resp.Analysis.Status = "completed"
	resp.Analysis.ProcessingTimeMs = time.Since(start).Milliseconds()

	p.persist(ctx, resp)

	log.Info().
		Str("id", resp.Analysis.ID).
		Int("claims", resp.Analysis.TotalClaims).
		Int64("duration_ms", resp.Analysis.ProcessingTimeMs).
		Msg("Check complete")

	return resp, nil
}

type checkAnalysis struct {
	classification models.Classification
	claims         []models.Claim
	analysis       models.Analysis
}

func (p *Pipeline) analyzeForCheck(ctx context.Context, text, docHash string) (*checkAnalysis, error) {
	analyzed, err := p.Analyze(ctx, text, "", nil)
	if err != nil {
		return nil, err
	}

	return &checkAnalysis{
		classification: analyzed.Classification,
		claims:         analyzed.Claims,
		analysis: models.Analysis{
			ID:           uuid.New().String(),
			DocumentHash: docHash,
			Language:     analyzed.Language,
			Status:       "processing",
			CreatedAt:    time.Now(),
		},
	}, nil
}

// CheckClaims evaluates a list of claims concurrently under a bounded worker
// count. Each claim's evidence is gathered and scored independently; no
// state is shared across claims, so cancelling one evaluation cannot corrupt
// a sibling's sources.
func (p *Pipeline) CheckClaims(ctx context.Context, claims []models.Claim) []models.VerdictResult {
	results, _ := p.evaluateClaims(ctx, claims)
	return results
}

// evaluateClaims runs the claim fan-out and collects provider-failure
// warnings, deduplicated across claims so a dead provider surfaces once.
func (p *Pipeline) evaluateClaims(ctx context.Context, claims []models.Claim) ([]models.VerdictResult, []models.Warning) {
	results := make([]models.VerdictResult, len(claims))
	claimWarnings := make([][]models.Warning, len(claims))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, p.maxWorkers)

	for i := range claims {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[idx], claimWarnings[idx] = p.checkClaim(ctx, claims[idx])
		}(i)
	}
	wg.Wait()

	var warnings []models.Warning
	seen := map[models.Warning]bool{}
	for _, ws := range claimWarnings {
		for _, w := range ws {
			if !seen[w] {
				seen[w] = true
				warnings = append(warnings, w)
			}
		}
	}
	return results, warnings
}

func (p *Pipeline) checkClaim(ctx context.Context, claim models.Claim) (models.VerdictResult, []models.Warning) {
	searchQuery := p.builder.Build(claim.Text, claim.Entities)
	log.Debug().Str("query", searchQuery).Msg("Gathering evidence")

	ev := p.gatherer.Gather(ctx, searchQuery)

	var warnings []models.Warning
	if ev.SearchErr != nil {
		warnings = append(warnings, models.Warning{Source: "search", Message: ev.SearchErr.Error()})
	}
	if ev.FactErr != nil {
		warnings = append(warnings, models.Warning{Source: "factcheck", Message: ev.FactErr.Error()})
	}

	if ev.AllFailed() {
		log.Warn().Str("claim", truncate(claim.Text, 50)).Msg("No evidence provider reachable, using heuristic fallback")
		return p.engine.Fallback(claim), warnings
	}

	return p.engine.Evaluate(claim, ev.Hits, ev.Records), warnings
}

func (p *Pipeline) persist(ctx context.Context, resp *models.CheckResponse) {
	if p.store == nil {
		return
	}
	if err := p.store.SaveAnalysis(ctx, &resp.Analysis); err != nil {
		log.Error().Err(err).Msg("Failed to save analysis")
	}
	if err := p.store.SaveResults(ctx, resp.Analysis.ID, resp.Results); err != nil {
		log.Error().Err(err).Msg("Failed to save results")
	}
}

// entitiesFor remaps caller-supplied entities onto a segment of the original
// text. Offsets are byte positions into the original input.
func entitiesFor(original, seg string, entities []models.Entity) []models.Entity {
	if len(entities) == 0 {
		return nil
	}
	// Segments are substrings of the input except for merge joins; a failed
	// lookup just means no entity metadata for that segment.
	offset := strings.Index(original, seg)
	if offset < 0 {
		return nil
	}
	var out []models.Entity
	for _, ent := range entities {
		if ent.Start >= offset && ent.End <= offset+len(seg) {
			remapped := ent
			remapped.Start -= offset
			remapped.End -= offset
			out = append(out, remapped)
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
