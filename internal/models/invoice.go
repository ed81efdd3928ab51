package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// LineItem is one ordered row of an extracted invoice
type LineItem struct {
	ItemNumber  *string  `json:"item_number,omitempty"`
	Description string   `json:"description"`
	Qty         *float64 `json:"qty"`
	UnitPrice   *float64 `json:"unit_price"`
	LineTotal   *float64 `json:"line_total"`
}

// Validate checks the fields every line item must carry
func (li LineItem) Validate() error {
	return validation.ValidateStruct(&li,
		validation.Field(&li.Description, validation.Required),
		validation.Field(&li.Qty, validation.NotNil),
		validation.Field(&li.UnitPrice, validation.NotNil),
		validation.Field(&li.LineTotal, validation.NotNil),
	)
}

// ExtractedInvoice is the structured record produced by extraction or supplied
// by a user edit. Treated as an immutable value once produced; an edit replaces
// the whole record.
type ExtractedInvoice struct {
	InvoiceNumber       *string `json:"invoice_number,omitempty"`
	PurchaseOrderNumber *string `json:"purchase_order_number,omitempty"`
	OrderDate           *string `json:"order_date,omitempty"` // ISO date
	DueDate             *string `json:"due_date,omitempty"`
	ShipDate            *string `json:"ship_date,omitempty"`
	Salesperson         *string `json:"salesperson,omitempty"`
	ShipVia             *string `json:"ship_via,omitempty"`
	Terms               *string `json:"terms,omitempty"`

	Subtotal *float64 `json:"subtotal,omitempty"`
	TaxRate  *float64 `json:"tax_rate,omitempty"`
	TaxAmt   *float64 `json:"tax_amt,omitempty"`
	Freight  *float64 `json:"freight,omitempty"`
	TotalDue *float64 `json:"total_due,omitempty"`
	Currency *string  `json:"currency,omitempty"`

	BillToName *string `json:"bill_to_name,omitempty"`
	ShipToName *string `json:"ship_to_name,omitempty"`

	Items      []LineItem `json:"items"`
	Confidence *float64   `json:"confidence,omitempty"`
	Warnings   []string   `json:"warnings,omitempty"`
}

// Validate checks the record shape before it may be saved as an order
func (inv ExtractedInvoice) Validate() error {
	return validation.ValidateStruct(&inv,
		validation.Field(&inv.Items, validation.Each()),
	)
}
