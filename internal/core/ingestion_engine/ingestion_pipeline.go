package ingestion_engine

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/Pressroom/internal/core"
	"github.com/markdave123-py/Pressroom/internal/logger"
	"github.com/markdave123-py/Pressroom/internal/models"
)

var _ Ingestor = (*Pipeline)(nil)

// ContainerCreator persists the outcome of an ingestion run.
type ContainerCreator interface {
	CreateEmpty(ctx context.Context) (*models.Container, error)
	CreateFor(ctx context.Context, chunks []models.Chunk, files []ExtractedFile) (*models.Container, error)
}

// Pipeline ties extraction, optional decomposition and chunking together and
// hands the result to a ContainerCreator.
type Pipeline struct {
	extractor    core.DocumentExtractor
	propositions *PropositionExtractor
	containers   ContainerCreator
	cfg          IngestConfig
}

func NewPipeline(extractor core.DocumentExtractor, propositions *PropositionExtractor, containers ContainerCreator, cfg IngestConfig) *Pipeline {
	return &Pipeline{
		extractor:    extractor,
		propositions: propositions,
		containers:   containers,
		cfg:          cfg,
	}
}

// Ingest builds one container from files. With no files an empty container
// is created.
func (p *Pipeline) Ingest(ctx context.Context, files []UploadedFile, opts IngestOptions) (*models.Container, error) {
	if len(files) == 0 {
		return p.containers.CreateEmpty(ctx)
	}

	extracted, err := p.ExtractAll(ctx, files)
	if err != nil {
		return nil, err
	}

	var chunks []models.Chunk
	if opts.ForcePropositions || p.cfg.PropositionsEnabled {
		chunks, err = p.chunkPropositions(ctx, extracted)
	} else {
		chunks, err = p.chunkDirect(extracted)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("ingestion chunked",
		"files", len(files),
		"chunks", len(chunks),
		"propositions", opts.ForcePropositions || p.cfg.PropositionsEnabled,
	)
	return p.containers.CreateFor(ctx, chunks, extracted)
}

// ExtractAll runs one extraction per file concurrently. The result is in
// upload order; the first failure cancels the rest.
func (p *Pipeline) ExtractAll(ctx context.Context, files []UploadedFile) ([]ExtractedFile, error) {
	out := make([]ExtractedFile, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			text, err := p.extractor.ExtractText(gctx, f.Data, f.Name)
			if err != nil {
				return err
			}
			if text == "" {
				logger.Warn("no text extracted", "file_name", f.Name)
			}
			out[i] = ExtractedFile{UploadedFile: f, Text: text}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// chunkDirect splits each file's text on its own.
func (p *Pipeline) chunkDirect(files []ExtractedFile) ([]models.Chunk, error) {
	texts := make([]string, len(files))
	names := make([]string, len(files))
	for i, f := range files {
		texts[i] = f.Text
		names[i] = f.Name
	}
	return p.cfg.Direct.Split(texts, names...)
}

// chunkPropositions concatenates every file's text, decomposes it slice by
// slice and splits the model outputs.
func (p *Pipeline) chunkPropositions(ctx context.Context, files []ExtractedFile) ([]models.Chunk, error) {
	if p.propositions == nil {
		return nil, fmt.Errorf("proposition extraction is not configured")
	}

	texts := make([]string, 0, len(files))
	for _, f := range files {
		if f.Text != "" {
			texts = append(texts, f.Text)
		}
	}

	outputs, err := p.propositions.Extract(ctx, strings.Join(texts, " "))
	if err != nil {
		return nil, err
	}
	return p.cfg.Proposition.Split(outputs)
}
