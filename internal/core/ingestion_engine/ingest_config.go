package ingestion_engine

import "fmt"

// IngestConfig tunes the ingestion pipeline.
//
// Direct:               splitter used on extracted text (e.g., 1000/500).
// Proposition:          splitter used on decomposition output (e.g., 2000/500).
// PropositionsEnabled:  run the decomposition stage on /create_container too.
type IngestConfig struct {
	Direct              Splitter
	Proposition         Splitter
	PropositionsEnabled bool
}

// Validate checks both splitters so a bad chunk size or overlap is caught
// at startup instead of on the first upload.
func (c IngestConfig) Validate() error {
	if err := c.Direct.validate(); err != nil {
		return fmt.Errorf("direct splitter: %w", err)
	}
	if err := c.Proposition.validate(); err != nil {
		return fmt.Errorf("proposition splitter: %w", err)
	}
	return nil
}

// UploadedFile is one multipart file as received by the handler.
type UploadedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ExtractedFile pairs an upload with its extracted text.
type ExtractedFile struct {
	UploadedFile
	Text string
}

// IngestOptions are per-request switches.
type IngestOptions struct {
	// ForcePropositions runs the decomposition stage regardless of config.
	ForcePropositions bool
}
