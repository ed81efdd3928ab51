package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/xelth-com/invoiceflow/internal/config"
)

func TestParseInvoice(t *testing.T) {
	raw := []byte(`{
		"invoice_number": "SO-1",
		"subtotal": 20.0,
		"tax_amt": 1.0,
		"freight": 0.0,
		"total_due": 21.0,
		"items": [
			{"description": "Widget", "qty": 2, "unit_price": 10.0, "line_total": 20.0}
		]
	}`)

	inv, err := parseInvoice(raw)
	if err != nil {
		t.Fatalf("Failed to parse invoice: %v", err)
	}
	if inv.InvoiceNumber == nil || *inv.InvoiceNumber != "SO-1" {
		t.Error("Invoice number not decoded")
	}
	if len(inv.Items) != 1 {
		t.Fatalf("Expected 1 line item, got %d", len(inv.Items))
	}
	if inv.Items[0].Description != "Widget" {
		t.Errorf("Expected Widget, got %s", inv.Items[0].Description)
	}
	if inv.TotalDue == nil || *inv.TotalDue != 21.0 {
		t.Error("Total due not decoded")
	}
}

func TestParseInvoiceStripsMarkdownFence(t *testing.T) {
	raw := []byte("```json\n{\"invoice_number\": \"INV-9\", \"items\": []}\n```")

	inv, err := parseInvoice(raw)
	if err != nil {
		t.Fatalf("Failed to parse fenced invoice: %v", err)
	}
	if inv.InvoiceNumber == nil || *inv.InvoiceNumber != "INV-9" {
		t.Error("Invoice number not decoded from fenced JSON")
	}
}

func TestParseInvoiceMalformedJSON(t *testing.T) {
	_, err := parseInvoice([]byte("I could not read the document, sorry."))
	if err == nil {
		t.Fatal("Expected error for non-JSON output")
	}
	var exErr *ExtractionError
	if !errors.As(err, &exErr) {
		t.Errorf("Expected ExtractionError, got %T", err)
	}
}

func TestParseInvoiceSchemaViolation(t *testing.T) {
	// Line item missing required qty/unit_price/line_total
	raw := []byte(`{"items": [{"description": "Widget"}]}`)

	_, err := parseInvoice(raw)
	if err == nil {
		t.Fatal("Expected error for nonconforming line item")
	}
	var exErr *ExtractionError
	if !errors.As(err, &exErr) {
		t.Errorf("Expected ExtractionError, got %T", err)
	}
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.LLMConfig{Provider: "watson"})
	if err == nil {
		t.Fatal("Expected error for unknown provider")
	}
}

func TestNewRequiresAPIKeys(t *testing.T) {
	if _, err := New(context.Background(), config.LLMConfig{Provider: "anthropic"}); err == nil {
		t.Error("Expected error for missing anthropic key")
	}
	if _, err := New(context.Background(), config.LLMConfig{Provider: "gemini"}); err == nil {
		t.Error("Expected error for missing gemini key")
	}
}
