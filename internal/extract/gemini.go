package extract

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/xelth-com/invoiceflow/internal/models"
)

// GeminiExtractor extracts invoices with the Google Gemini API
type GeminiExtractor struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiExtractor creates a Gemini-backed extractor
func NewGeminiExtractor(ctx context.Context, apiKey, modelName string) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	model := client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	// Constrain the reply to schema-shaped JSON
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = geminiInvoiceSchema()

	return &GeminiExtractor{client: client, model: model}, nil
}

// Close closes the client connection
func (e *GeminiExtractor) Close() {
	if e.client != nil {
		e.client.Close()
	}
}

// Extract sends the normalized image to Gemini and decodes the structured reply
func (e *GeminiExtractor) Extract(ctx context.Context, pngBytes []byte) (*models.ExtractedInvoice, error) {
	resp, err := e.model.GenerateContent(ctx,
		genai.ImageData("png", pngBytes),
		genai.Text(userPrompt),
	)
	if err != nil {
		return nil, &ExtractionError{Reason: "gemini generation error", Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, &ExtractionError{Reason: "empty response from gemini"}
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text += string(txt)
		}
	}
	if text == "" {
		return nil, &ExtractionError{Reason: "gemini returned no text content"}
	}

	return parseInvoice([]byte(text))
}

// geminiInvoiceSchema mirrors models.ExtractedInvoice for constrained decoding
func geminiInvoiceSchema() *genai.Schema {
	str := &genai.Schema{Type: genai.TypeString, Nullable: true}
	num := &genai.Schema{Type: genai.TypeNumber, Nullable: true}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"invoice_number":        str,
			"purchase_order_number": str,
			"order_date":            str,
			"due_date":              str,
			"ship_date":             str,
			"salesperson":           str,
			"ship_via":              str,
			"terms":                 str,
			"subtotal":              num,
			"tax_rate":              num,
			"tax_amt":               num,
			"freight":               num,
			"total_due":             num,
			"currency":              str,
			"bill_to_name":          str,
			"ship_to_name":          str,
			"items": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"item_number": str,
						"description": {Type: genai.TypeString},
						"qty":         {Type: genai.TypeNumber},
						"unit_price":  {Type: genai.TypeNumber},
						"line_total":  {Type: genai.TypeNumber},
					},
					Required: []string{"description", "qty", "unit_price", "line_total"},
				},
			},
			"confidence": num,
			"warnings": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"items"},
	}
}
