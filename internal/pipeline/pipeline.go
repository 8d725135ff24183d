package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/your-org/styleum/internal/ai"
	"github.com/your-org/styleum/internal/catalog"
	"github.com/your-org/styleum/internal/models"
	"github.com/your-org/styleum/internal/observability"
)

// CorrectionsStore loads a user's recent manual tag corrections.
type CorrectionsStore interface {
	RecentCorrections(ctx context.Context, userID uuid.UUID, limit int) ([]models.CorrectionRecord, error)
}

// AnchorIndex performs nearest-neighbor queries against the vibe anchor
// catalog.
type AnchorIndex interface {
	SearchAnchors(ctx context.Context, embedding []float32, threshold float64, topK int) ([]models.AnchorMatch, error)
}

// RecordStore writes the completed annotation to the item's permanent
// record in one atomic update.
type RecordStore interface {
	UpdateAnnotation(ctx context.Context, itemID uuid.UUID, annotation models.PersistedAnnotation) error
}

type Config struct {
	AnchorThreshold  float64
	AnchorTopK       int
	CorrectionLimit  int
	ReasoningTimeout time.Duration
	VibeTagThreshold float64
}

// Pipeline chains the analysis stages: caption ∥ OCR ∥ corrections →
// reasoning → extraction, with embedding running alongside, then anchor
// blending, tag derivation, and one atomic persist.
type Pipeline struct {
	captionChain []ai.VisionModel // primary first, then fallback
	ocrChain     []ai.VisionModel
	reasoner     ai.TextModel
	embedder     ai.EmbeddingModel
	corrections  CorrectionsStore
	anchors      AnchorIndex
	records      RecordStore
	catalog      catalog.Catalog
	cfg          Config
}

func New(
	captionChain, ocrChain []ai.VisionModel,
	reasoner ai.TextModel,
	embedder ai.EmbeddingModel,
	corrections CorrectionsStore,
	anchors AnchorIndex,
	records RecordStore,
	cat catalog.Catalog,
	cfg Config,
) *Pipeline {
	if cfg.AnchorTopK <= 0 {
		cfg.AnchorTopK = 5
	}
	if cfg.CorrectionLimit <= 0 {
		cfg.CorrectionLimit = 5
	}
	if cfg.ReasoningTimeout <= 0 {
		cfg.ReasoningTimeout = 60 * time.Second
	}
	if cfg.VibeTagThreshold <= 0 {
		cfg.VibeTagThreshold = 0.5
	}
	return &Pipeline{
		captionChain: captionChain,
		ocrChain:     ocrChain,
		reasoner:     reasoner,
		embedder:     embedder,
		corrections:  corrections,
		anchors:      anchors,
		records:      records,
		catalog:      cat,
		cfg:          cfg,
	}
}

// Dimensions returns the embedding dimensionality of the configured model,
// which the fallback generator matches exactly.
func (p *Pipeline) Dimensions() int {
	return p.embedder.Dimensions()
}

type embedResult struct {
	vector []float32
	err    error
}

// Analyze runs the full pipeline for one request. On any fatal error the
// run aborts before the write; nothing is persisted.
func (p *Pipeline) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.FashionAnalysis, error) {
	if req.ItemID == uuid.Nil {
		return nil, &MissingInputError{Field: "item_id"}
	}
	if req.ImageURL == "" {
		return nil, &MissingInputError{Field: "image_url"}
	}

	// Embedding depends only on the image URL, so it runs alongside the
	// caption/OCR/reasoning chain.
	embedCh := make(chan embedResult, 1)
	go func() {
		start := time.Now()
		vec, err := p.embedder.Embed(ctx, req.ImageURL)
		observability.StageDuration.WithLabelValues("embed").Observe(time.Since(start).Seconds())
		embedCh <- embedResult{vector: vec, err: err}
	}()

	var caption, ocrText, correctionContext string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		text, err := describeWithFallback(gctx, "caption", p.captionChain, req.ImageURL, captionPrompt)
		observability.StageDuration.WithLabelValues("caption").Observe(time.Since(start).Seconds())
		caption = text
		return err
	})
	g.Go(func() error {
		start := time.Now()
		text, err := describeWithFallback(gctx, "ocr", p.ocrChain, req.ImageURL, ocrPrompt)
		observability.StageDuration.WithLabelValues("ocr").Observe(time.Since(start).Seconds())
		ocrText = normalizeOCR(text)
		return err
	})
	g.Go(func() error {
		// Correction history is best-effort personalization; absence or a
		// store error never fails the run.
		if req.UserID == nil || p.corrections == nil {
			return nil
		}
		records, err := p.corrections.RecentCorrections(gctx, *req.UserID, p.cfg.CorrectionLimit)
		if err != nil {
			slog.Warn("load corrections", "user_id", *req.UserID, "error", err)
			return nil
		}
		correctionContext = buildCorrectionContext(records)
		return nil
	})
	if err := g.Wait(); err != nil {
		observability.AnalysesFailed.WithLabelValues("vision").Inc()
		return nil, err
	}

	// Reasoning is text-only and has no fallback: failure here is fatal.
	reasonCtx, cancel := context.WithTimeout(ctx, p.cfg.ReasoningTimeout)
	defer cancel()

	start := time.Now()
	prompt := buildReasoningPrompt(caption, ocrText, correctionContext, p.catalog)
	rawAnalysis, err := p.reasoner.Complete(reasonCtx, prompt)
	observability.StageDuration.WithLabelValues("reasoning").Observe(time.Since(start).Seconds())
	if err != nil {
		observability.AnalysesFailed.WithLabelValues("reasoning").Inc()
		return nil, err
	}

	analysis, err := ExtractAnalysis(rawAnalysis, p.catalog)
	if err != nil {
		observability.AnalysesFailed.WithLabelValues("extract").Inc()
		return nil, err
	}

	// The reasoning model is not trusted to echo the stage outputs
	// faithfully; overwrite with the real ones.
	analysis.DenseCaption = caption
	if ocrText == OCRNone {
		analysis.OCRText = ""
	} else {
		analysis.OCRText = ocrText
	}

	embedding := p.awaitEmbedding(ctx, embedCh, analysis)

	p.matchAnchors(ctx, embedding, analysis)

	tags := DeriveTags(analysis, p.catalog, p.cfg.VibeTagThreshold)

	start = time.Now()
	err = p.records.UpdateAnnotation(ctx, req.ItemID, models.PersistedAnnotation{
		Analysis:   *analysis,
		Embedding:  embedding,
		Tags:       tags,
		AnalyzedAt: time.Now().UTC(),
	})
	observability.StageDuration.WithLabelValues("persist").Observe(time.Since(start).Seconds())
	if err != nil {
		observability.AnalysesFailed.WithLabelValues("persist").Inc()
		return nil, &PersistenceError{Err: err}
	}

	return analysis, nil
}

// awaitEmbedding collects the concurrent embedding result, falling back to
// the deterministic generator when the primary model failed. The fallback is
// seeded from the serialized analysis so it is stable per item content and
// always matches the primary dimensionality.
func (p *Pipeline) awaitEmbedding(ctx context.Context, embedCh <-chan embedResult, analysis *models.FashionAnalysis) []float32 {
	var res embedResult
	select {
	case res = <-embedCh:
	case <-ctx.Done():
		res = embedResult{err: ctx.Err()}
	}

	dim := p.embedder.Dimensions()

	if res.err == nil && len(res.vector) == dim {
		if vec, ok := unitNormalize(res.vector); ok {
			return vec
		}
		slog.Warn("primary embedding had zero norm, using fallback")
	} else if res.err != nil {
		slog.Warn("embedding model failed, using deterministic fallback", "error", res.err)
	}

	observability.ModelFallbacks.WithLabelValues("embed").Inc()

	seed, err := json.Marshal(analysis)
	if err != nil {
		seed = []byte(analysis.DenseCaption)
	}
	return FallbackEmbedding(string(seed), dim)
}

// matchAnchors is best-effort: a failed similarity query keeps the
// reasoning-stage vibe scores unchanged.
func (p *Pipeline) matchAnchors(ctx context.Context, embedding []float32, analysis *models.FashionAnalysis) {
	if p.anchors == nil {
		return
	}
	start := time.Now()
	matches, err := p.anchors.SearchAnchors(ctx, embedding, p.cfg.AnchorThreshold, p.cfg.AnchorTopK)
	observability.StageDuration.WithLabelValues("anchors").Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Warn("vibe anchor search failed, keeping reasoning scores", "error", err)
		return
	}
	observability.AnchorMatches.Add(float64(len(matches)))
	blendAnchorScores(analysis, matches)
}

// unitNormalize returns an L2-normalized copy of v, or ok=false for a
// zero-norm input.
func unitNormalize(v []float32) ([]float32, bool) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return nil, false
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out, true
}
