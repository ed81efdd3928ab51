package models

import (
	"time"

	"gorm.io/datatypes"
)

// DocumentStatus defines the lifecycle states of an uploaded document
type DocumentStatus string

const (
	DocumentStatusUploaded   DocumentStatus = "uploaded"    // Stored, background run not started yet
	DocumentStatusProcessing DocumentStatus = "processing"  // Normalizing input to PNG
	DocumentStatusCallingLLM DocumentStatus = "calling_llm" // Waiting on the extraction provider
	DocumentStatusExtracted  DocumentStatus = "extracted"   // Structured record available, pending save
	DocumentStatusSaved      DocumentStatus = "saved"       // Order aggregate created
	DocumentStatusFailed     DocumentStatus = "failed"      // Terminal failure, Error holds the reason
)

// Document represents one uploaded invoice artifact and its extraction lifecycle
type Document struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Filename    string         `gorm:"size:255;not null" json:"filename"`
	ContentType string         `gorm:"size:100;not null" json:"content_type"`
	StorageKey  string         `gorm:"size:500;not null" json:"-"` // Opaque handle into the byte store

	Status        DocumentStatus `gorm:"size:50;not null;default:'uploaded';index" json:"status"`
	Error         string         `gorm:"type:text" json:"error,omitempty"`
	ExtractedJSON datatypes.JSON `gorm:"column:extracted_json" json:"-"`

	SalesOrderID *uint             `gorm:"index" json:"sales_order_id,omitempty"`
	SalesOrder   *SalesOrderHeader `gorm:"foreignKey:SalesOrderID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Document model
func (Document) TableName() string {
	return "documents"
}

// DocumentView is the read-only status projection returned to callers
type DocumentView struct {
	ID           uint              `json:"id"`
	Filename     string            `json:"filename"`
	Status       DocumentStatus    `json:"status"`
	Error        string            `json:"error,omitempty"`
	Extracted    *ExtractedInvoice `json:"extracted,omitempty"`
	SalesOrderID *uint             `json:"sales_order_id,omitempty"`
}
