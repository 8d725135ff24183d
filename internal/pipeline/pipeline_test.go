package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/styleum/internal/ai"
	"github.com/your-org/styleum/internal/catalog"
	"github.com/your-org/styleum/internal/models"
)

const reasoningOutput = `Here you go:
{
	"item_name": "Vintage Band Tee",
	"category": "top",
	"subcategory": "t-shirt",
	"primary_color": "black",
	"material": "cotton",
	"fit": "oversized",
	"formality": 1,
	"era": "1990s",
	"era_confidence": 0.85,
	"vibe_scores": {"grunge": 0.9, "streetwear": 0.4},
	"dense_caption": "model's own caption, to be replaced",
	"ocr_text": "model's own ocr, to be replaced"
}`

type fakeText struct {
	out        string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeText) Name() string { return "fake-reasoner" }

func (f *fakeText) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

type fakeEmbedder struct {
	vec   []float32
	err   error
	dim   int
	delay time.Duration
}

func (f *fakeEmbedder) Dimensions() int { return f.dim }

func (f *fakeEmbedder) Embed(ctx context.Context, imageURL string) ([]float32, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

type fakeCorrections struct {
	records []models.CorrectionRecord
	err     error
	calls   int
}

func (f *fakeCorrections) RecentCorrections(ctx context.Context, userID uuid.UUID, limit int) ([]models.CorrectionRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.records) > limit {
		return f.records[:limit], nil
	}
	return f.records, nil
}

type fakeAnchors struct {
	matches []models.AnchorMatch
	err     error
}

func (f *fakeAnchors) SearchAnchors(ctx context.Context, embedding []float32, threshold float64, topK int) ([]models.AnchorMatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

type fakeRecords struct {
	calls  int
	itemID uuid.UUID
	saved  models.PersistedAnnotation
	err    error
}

func (f *fakeRecords) UpdateAnnotation(ctx context.Context, itemID uuid.UUID, annotation models.PersistedAnnotation) error {
	f.calls++
	f.itemID = itemID
	f.saved = annotation
	return f.err
}

type fixture struct {
	caption  *fakeVision
	ocr      *fakeVision
	reasoner *fakeText
	embedder *fakeEmbedder
	corr     *fakeCorrections
	anchors  *fakeAnchors
	records  *fakeRecords
	pipe     *Pipeline
}

func newFixture() *fixture {
	f := &fixture{
		caption:  &fakeVision{name: "vision-primary", text: "a faded black cotton t-shirt"},
		ocr:      &fakeVision{name: "ocr-primary", text: "NIRVANA 1992 TOUR"},
		reasoner: &fakeText{out: reasoningOutput},
		embedder: &fakeEmbedder{vec: []float32{3, 4, 0, 0}, dim: 4},
		corr:     &fakeCorrections{},
		anchors:  &fakeAnchors{},
		records:  &fakeRecords{},
	}
	f.pipe = New(
		[]ai.VisionModel{f.caption},
		[]ai.VisionModel{f.ocr},
		f.reasoner,
		f.embedder,
		f.corr,
		f.anchors,
		f.records,
		catalog.Default(),
		Config{},
	)
	return f
}

func validRequest() models.AnalysisRequest {
	return models.AnalysisRequest{
		ItemID:   uuid.New(),
		ImageURL: "http://minio/items/photo.jpg",
	}
}

func TestAnalyze_HappyPath(t *testing.T) {
	f := newFixture()
	req := validRequest()

	analysis, err := f.pipe.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Vintage Band Tee", analysis.ItemName)
	assert.Equal(t, "top", analysis.Category)

	// Stage outputs overwrite whatever the model echoed back.
	assert.Equal(t, "a faded black cotton t-shirt", analysis.DenseCaption)
	assert.Equal(t, "NIRVANA 1992 TOUR", analysis.OCRText)

	require.Equal(t, 1, f.records.calls)
	assert.Equal(t, req.ItemID, f.records.itemID)
	assert.False(t, f.records.saved.AnalyzedAt.IsZero())
	assert.Contains(t, f.records.saved.Tags, "grunge")
	assert.Contains(t, f.records.saved.Tags, "vintage")

	// Primary embedding [3,4,0,0] normalized.
	require.Len(t, f.records.saved.Embedding, 4)
	assert.InDelta(t, 0.6, float64(f.records.saved.Embedding[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(f.records.saved.Embedding[1]), 1e-6)
}

func TestAnalyze_MissingInputs(t *testing.T) {
	f := newFixture()

	_, err := f.pipe.Analyze(context.Background(), models.AnalysisRequest{ImageURL: "http://x"})
	var missing *MissingInputError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "item_id", missing.Field)

	_, err = f.pipe.Analyze(context.Background(), models.AnalysisRequest{ItemID: uuid.New()})
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "image_url", missing.Field)

	assert.Equal(t, 0, f.records.calls)
}

func TestAnalyze_CaptionChainExhaustedIsFatal(t *testing.T) {
	f := newFixture()
	f.caption.err = errors.New("primary down")

	_, err := f.pipe.Analyze(context.Background(), validRequest())
	require.Error(t, err)
	assert.Equal(t, 0, f.records.calls, "nothing may be persisted on a fatal stage error")
}

func TestAnalyze_VisionFallbackUsed(t *testing.T) {
	f := newFixture()
	primary := &fakeVision{name: "vision-primary", err: &ai.ModelUnavailableError{Model: "vision-primary", Err: errors.New("503")}}
	secondary := &fakeVision{name: "vision-fallback", text: "fallback caption"}
	f.pipe = New(
		[]ai.VisionModel{primary, secondary},
		[]ai.VisionModel{f.ocr},
		f.reasoner, f.embedder, f.corr, f.anchors, f.records,
		catalog.Default(), Config{},
	)

	analysis, err := f.pipe.Analyze(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "fallback caption", analysis.DenseCaption)
	assert.Equal(t, 1, secondary.calls)
}

func TestAnalyze_ReasoningFailureIsFatal(t *testing.T) {
	f := newFixture()
	f.reasoner.err = &ai.ModelUnavailableError{Model: "fake-reasoner", Err: errors.New("timeout")}

	_, err := f.pipe.Analyze(context.Background(), validRequest())
	require.Error(t, err)
	assert.True(t, ai.IsModelUnavailable(err))
	assert.Equal(t, 0, f.records.calls)
}

func TestAnalyze_MalformedReasoningOutputIsFatal(t *testing.T) {
	f := newFixture()
	f.reasoner.out = "I am not able to produce JSON today."

	_, err := f.pipe.Analyze(context.Background(), validRequest())
	assert.True(t, IsMalformedAnalysis(err))
	assert.Equal(t, 0, f.records.calls)
}

func TestAnalyze_PersistenceFailureSurfaced(t *testing.T) {
	f := newFixture()
	f.records.err = errors.New("connection reset")

	_, err := f.pipe.Analyze(context.Background(), validRequest())
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
}

func TestAnalyze_CorrectionStoreErrorNonFatal(t *testing.T) {
	f := newFixture()
	f.corr.err = errors.New("corrections table locked")
	userID := uuid.New()
	req := validRequest()
	req.UserID = &userID

	_, err := f.pipe.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, f.corr.calls)
	assert.Equal(t, 1, f.records.calls)
}

func TestAnalyze_AnonymousSkipsCorrections(t *testing.T) {
	f := newFixture()

	_, err := f.pipe.Analyze(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 0, f.corr.calls)
}

func TestAnalyze_EmbeddingFailureUsesFallback(t *testing.T) {
	f := newFixture()
	f.embedder.err = errors.New("embedding service down")

	_, err := f.pipe.Analyze(context.Background(), validRequest())
	require.NoError(t, err)

	emb := f.records.saved.Embedding
	require.Len(t, emb, f.embedder.dim)

	var sum float64
	for _, x := range emb {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, sum, 1e-6, "fallback embedding must be unit-norm")
}

func TestAnalyze_ZeroNormEmbeddingUsesFallback(t *testing.T) {
	f := newFixture()
	f.embedder.vec = []float32{0, 0, 0, 0}

	_, err := f.pipe.Analyze(context.Background(), validRequest())
	require.NoError(t, err)

	var sum float64
	for _, x := range f.records.saved.Embedding {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestAnalyze_AnchorFailureKeepsReasoningScores(t *testing.T) {
	f := newFixture()
	f.anchors.err = errors.New("pgvector index rebuilding")

	analysis, err := f.pipe.Analyze(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 0.9, analysis.VibeScores["grunge"])
	assert.Equal(t, 1, f.records.calls)
}

func TestAnalyze_AnchorMatchesBlended(t *testing.T) {
	f := newFixture()
	f.anchors.matches = []models.AnchorMatch{
		{Name: "grunge", Similarity: 0.5},   // below existing 0.9, kept at 0.9
		{Name: "normcore", Similarity: 0.7}, // new
	}

	analysis, err := f.pipe.Analyze(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 0.9, analysis.VibeScores["grunge"])
	assert.Equal(t, 0.7, analysis.VibeScores["normcore"])
}

func TestAnalyze_OCRNoneClearsField(t *testing.T) {
	f := newFixture()
	f.ocr.text = "NONE"

	analysis, err := f.pipe.Analyze(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Empty(t, analysis.OCRText)
}

func TestAnalyze_CorrectionContextReachesReasoner(t *testing.T) {
	f := newFixture()
	// RecentCorrections returns most-recent first; both entries must appear
	// in that order in the reasoning prompt.
	f.corr.records = []models.CorrectionRecord{
		{Field: "category", OriginalValue: "dress", CorrectedValue: "top"},
		{Field: "material", OriginalValue: "polyester", CorrectedValue: "silk"},
	}
	userID := uuid.New()
	req := validRequest()
	req.UserID = &userID

	_, err := f.pipe.Analyze(context.Background(), req)
	require.NoError(t, err)

	prompt := f.reasoner.lastPrompt
	catIdx := strings.Index(prompt, `"dress", the owner corrected it to "top"`)
	matIdx := strings.Index(prompt, `"polyester", the owner corrected it to "silk"`)
	require.GreaterOrEqual(t, catIdx, 0)
	require.GreaterOrEqual(t, matIdx, 0)
	assert.Less(t, catIdx, matIdx)
}

func TestAnalyze_CorrectionLimitApplied(t *testing.T) {
	f := newFixture()
	for i := 0; i < 8; i++ {
		f.corr.records = append(f.corr.records, models.CorrectionRecord{
			Field:          "category",
			CorrectedValue: "top",
		})
	}
	userID := uuid.New()
	req := validRequest()
	req.UserID = &userID

	_, err := f.pipe.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, f.corr.calls)
}
