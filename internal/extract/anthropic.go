package extract

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/xelth-com/invoiceflow/internal/models"
)

const extractToolName = "record_invoice"

// AnthropicExtractor extracts invoices with the Anthropic Messages API,
// forcing a tool call whose input carries the structured record
type AnthropicExtractor struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicExtractor creates a Claude-backed extractor
func NewAnthropicExtractor(apiKey, modelName string) (*AnthropicExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is empty")
	}
	if modelName == "" {
		modelName = "claude-3-5-sonnet-20240620"
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicExtractor{client: &client, model: modelName}, nil
}

// Extract sends the normalized image to Claude and decodes the tool input
func (e *AnthropicExtractor) Extract(ctx context.Context, pngBytes []byte) (*models.ExtractedInvoice, error) {
	b64 := base64.StdEncoding.EncodeToString(pngBytes)

	tool := anthropic.ToolParam{
		Name:        extractToolName,
		Description: anthropic.String("Records structured data extracted from an invoice image."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: anthropicInvoiceProperties(),
			Required:   []string{"items"},
		},
	}

	message, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Type: "text", Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64("image/png", b64),
				anthropic.NewTextBlock(userPrompt),
			),
		},
		Tools:      []anthropic.ToolUnionParam{{OfTool: &tool}},
		ToolChoice: anthropic.ToolChoiceUnionParam{OfTool: &anthropic.ToolChoiceToolParam{Name: extractToolName}},
	})
	if err != nil {
		return nil, &ExtractionError{Reason: "anthropic API call failed", Err: err}
	}

	for _, block := range message.Content {
		if tu, ok := block.AsAny().(anthropic.ToolUseBlock); ok && tu.Name == extractToolName {
			return parseInvoice(tu.Input)
		}
	}

	return nil, &ExtractionError{Reason: "anthropic model did not call the extraction tool"}
}

// anthropicInvoiceProperties is the JSON schema body for the extraction tool
func anthropicInvoiceProperties() map[string]interface{} {
	str := map[string]interface{}{"type": []string{"string", "null"}}
	num := map[string]interface{}{"type": []string{"number", "null"}}

	return map[string]interface{}{
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
		"items": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"item_number": str,
					"description": map[string]interface{}{"type": "string"},
					"qty":         map[string]interface{}{"type": "number"},
					"unit_price":  map[string]interface{}{"type": "number"},
					"line_total":  map[string]interface{}{"type": "number"},
				},
				"required": []string{"description", "qty", "unit_price", "line_total"},
			},
		},
		"confidence": num,
		"warnings": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
	}
}
