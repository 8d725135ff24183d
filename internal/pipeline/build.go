package pipeline

import (
	"fmt"

	"github.com/your-org/styleum/internal/ai"
	"github.com/your-org/styleum/internal/catalog"
	"github.com/your-org/styleum/internal/config"
)

// Build wires model clients from configuration and assembles the pipeline.
// The returned cleanup func releases the local embedding session when the
// onnx backend is selected; it is a no-op otherwise.
func Build(
	mcfg config.ModelsConfig,
	pcfg config.PipelineConfig,
	corrections CorrectionsStore,
	anchors AnchorIndex,
	records RecordStore,
) (*Pipeline, func(), error) {
	chat := ai.NewChatClient(mcfg.BaseURL, mcfg.APIKey, mcfg.VisionTimeout)

	captionChain := []ai.VisionModel{
		ai.NewVisionClient(chat, mcfg.VisionPrimary),
		ai.NewVisionClient(chat, mcfg.VisionFallback),
	}
	ocrChain := []ai.VisionModel{
		ai.NewVisionClient(chat, mcfg.OCRPrimary),
		ai.NewVisionClient(chat, mcfg.OCRFallback),
	}
	reasoner := ai.NewTextClient(chat, mcfg.Reasoning)

	var (
		embedder ai.EmbeddingModel
		cleanup  = func() {}
	)
	switch mcfg.EmbeddingBackend {
	case "onnx":
		onnx, err := ai.NewONNXEmbedder(mcfg.EmbeddingONNXPath, mcfg.EmbeddingDim)
		if err != nil {
			return nil, nil, fmt.Errorf("init onnx embedder: %w", err)
		}
		embedder = onnx
		cleanup = onnx.Close
	case "remote", "":
		embedder = ai.NewRemoteEmbedder(mcfg.EmbeddingURL, mcfg.APIKey, mcfg.EmbeddingModel, mcfg.EmbeddingDim, mcfg.VisionTimeout)
	default:
		return nil, nil, fmt.Errorf("unknown embedding backend %q", mcfg.EmbeddingBackend)
	}

	p := New(
		captionChain, ocrChain,
		reasoner,
		embedder,
		corrections,
		anchors,
		records,
		catalog.Default(),
		Config{
			AnchorThreshold:  pcfg.AnchorThreshold,
			AnchorTopK:       pcfg.AnchorTopK,
			CorrectionLimit:  pcfg.CorrectionLimit,
			ReasoningTimeout: mcfg.ReasoningTimeout,
			VibeTagThreshold: pcfg.VibeTagThreshold,
		},
	)
	return p, cleanup, nil
}
