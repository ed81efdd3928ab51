package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xelth-com/invoiceflow/internal/config"
	"github.com/xelth-com/invoiceflow/internal/models"
)

// Extractor turns one normalized PNG into a structured invoice record
type Extractor interface {
	Extract(ctx context.Context, pngBytes []byte) (*models.ExtractedInvoice, error)
}

// ExtractionError reports that a provider could not produce a conforming
// record: transport failure, refusal, or schema-nonconforming output all
// collapse into this one type for pipeline purposes.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

const systemPrompt = `You extract structured data from sales invoices.
Return ONLY valid JSON matching the schema. Do not include markdown or explanations.
If a field is missing, use null. Do not guess values that are not present.`

const userPrompt = "Extract the invoice fields."

// New selects a provider implementation by configuration
func New(ctx context.Context, cfg config.LLMConfig) (Extractor, error) {
	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		return NewGeminiExtractor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "anthropic":
		return NewAnthropicExtractor(cfg.AnthropicKey, cfg.AnthropicModel)
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER: %s", cfg.Provider)
	}
}

// parseInvoice decodes provider output into the common record shape.
// Anything that does not conform is an ExtractionError.
func parseInvoice(raw []byte) (*models.ExtractedInvoice, error) {
	text := strings.TrimSpace(string(raw))
	// Some models wrap JSON in a fenced block despite instructions
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var inv models.ExtractedInvoice
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &inv); err != nil {
		return nil, &ExtractionError{Reason: "provider returned malformed invoice JSON", Err: err}
	}
	if err := inv.Validate(); err != nil {
		return nil, &ExtractionError{Reason: "provider returned invoice not matching the schema", Err: err}
	}
	return &inv, nil
}
