package models

import "time"

// SalesOrderHeader is the order aggregate root created from one confirmed extraction.
// Column layout mirrors the seeded sales history tables, so most fields stay nullable.
type SalesOrderHeader struct {
	SalesOrderID           uint       `gorm:"column:sales_order_id;primaryKey" json:"sales_order_id"`
	RevisionNumber         *int       `gorm:"column:revision_number" json:"revision_number,omitempty"`
	OrderDate              *time.Time `gorm:"column:order_date" json:"order_date,omitempty"`
	DueDate                *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	ShipDate               *time.Time `gorm:"column:ship_date" json:"ship_date,omitempty"`
	Status                 *int       `gorm:"column:status" json:"status,omitempty"`
	OnlineOrderFlag        *bool      `gorm:"column:online_order_flag" json:"online_order_flag,omitempty"`
	SalesOrderNumber       *string    `gorm:"column:sales_order_number;size:50" json:"sales_order_number,omitempty"`
	PurchaseOrderNumber    *string    `gorm:"column:purchase_order_number;size:50" json:"purchase_order_number,omitempty"`
	AccountNumber          *string    `gorm:"column:account_number;size:50" json:"account_number,omitempty"`
	CustomerID             *int       `gorm:"column:customer_id" json:"customer_id,omitempty"`
	SalesPersonID          *int       `gorm:"column:sales_person_id" json:"sales_person_id,omitempty"`
	TerritoryID            *int       `gorm:"column:territory_id" json:"territory_id,omitempty"`
	ShipMethodID           *int       `gorm:"column:ship_method_id" json:"ship_method_id,omitempty"`
	CreditCardApprovalCode *string    `gorm:"column:credit_card_approval_code;size:50" json:"-"`
	SubTotal               *float64   `gorm:"column:sub_total" json:"sub_total,omitempty"`
	TaxAmt                 *float64   `gorm:"column:tax_amt" json:"tax_amt,omitempty"`
	Freight                *float64   `gorm:"column:freight" json:"freight,omitempty"`
	TotalDue               *float64   `gorm:"column:total_due" json:"total_due,omitempty"`

	Details []SalesOrderDetail `gorm:"foreignKey:SalesOrderID" json:"details,omitempty"`
}

// TableName specifies the table name for SalesOrderHeader model
func (SalesOrderHeader) TableName() string {
	return "sales_order_header"
}

// SalesOrderDetail is one line item row owned by a SalesOrderHeader
type SalesOrderDetail struct {
	SalesOrderDetailID    uint    `gorm:"column:sales_order_detail_id;primaryKey" json:"sales_order_detail_id"`
	SalesOrderID          uint    `gorm:"column:sales_order_id;not null;index" json:"sales_order_id"`
	CarrierTrackingNumber *string `gorm:"column:carrier_tracking_number;size:50" json:"carrier_tracking_number,omitempty"`
	OrderQty              int     `gorm:"column:order_qty;not null" json:"order_qty"`
	ProductID             *int    `gorm:"column:product_id" json:"product_id,omitempty"`
	SpecialOfferID        *int    `gorm:"column:special_offer_id" json:"special_offer_id,omitempty"`
	UnitPrice             float64 `gorm:"column:unit_price;not null" json:"unit_price"`
	UnitPriceDiscount     float64 `gorm:"column:unit_price_discount;default:0" json:"unit_price_discount"`
	LineTotal             float64 `gorm:"column:line_total;not null" json:"line_total"`
}

// TableName specifies the table name for SalesOrderDetail model
func (SalesOrderDetail) TableName() string {
	return "sales_order_detail"
}
