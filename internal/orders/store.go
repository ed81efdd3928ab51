package orders

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/xelth-com/invoiceflow/internal/database"
	"github.com/xelth-com/invoiceflow/internal/models"
)

// Header fields assigned on every save, not read from the extraction
const (
	defaultRevisionNumber = 1
	completedStatusCode   = 5
)

// Store is the gorm-backed persistence boundary for documents and the
// sales order aggregate
type Store struct {
	db *database.DB
}

// NewStore creates a store on an already-open database handle
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// CreateDocument inserts a new document row; the assigned ID is set on doc
func (s *Store) CreateDocument(doc *models.Document) error {
	if err := s.db.Create(doc).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// GetDocument loads one document by id
func (s *Store) GetDocument(id uint) (*models.Document, error) {
	var doc models.Document
	if err := s.db.First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Message: fmt.Sprintf("document %d not found", id)}
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return &doc, nil
}

// UpdateStatus advances the document's persisted status
func (s *Store) UpdateStatus(id uint, status models.DocumentStatus) error {
	return s.db.Model(&models.Document{}).Where("id = ?", id).
		Update("status", status).Error
}

// MarkFailed records the terminal failure state and its reason
func (s *Store) MarkFailed(id uint, reason string) error {
	return s.db.Model(&models.Document{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status": models.DocumentStatusFailed,
			"error":  reason,
		}).Error
}

// SetExtracted persists the structured record and moves the document to extracted
func (s *Store) SetExtracted(id uint, inv *models.ExtractedInvoice) error {
	payload, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("failed to encode extracted record: %w", err)
	}
	return s.db.Model(&models.Document{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         models.DocumentStatusExtracted,
			"extracted_json": payload,
		}).Error
}

// CreateOrder materializes the order aggregate from one confirmed extraction:
// header, one detail row per line item, and the document link are committed in
// a single transaction. Returns the new header's identity.
func (s *Store) CreateOrder(docID uint, inv *models.ExtractedInvoice) (uint, error) {
	var doc models.Document
	if err := s.db.First(&doc, docID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, &models.NotFoundError{Message: fmt.Sprintf("document %d not found", docID)}
		}
		return 0, fmt.Errorf("failed to load document: %w", err)
	}

	revision := defaultRevisionNumber
	status := completedStatusCode
	online := false

	header := models.SalesOrderHeader{
		RevisionNumber:      &revision,
		OrderDate:           parseDate(inv.OrderDate),
		DueDate:             parseDate(inv.DueDate),
		ShipDate:            parseDate(inv.ShipDate),
		Status:              &status,
		OnlineOrderFlag:     &online,
		SalesOrderNumber:    inv.InvoiceNumber,
		PurchaseOrderNumber: inv.PurchaseOrderNumber,
		SubTotal:            inv.Subtotal,
		TaxAmt:              inv.TaxAmt,
		Freight:             inv.Freight,
		TotalDue:            inv.TotalDue,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&header).Error; err != nil {
			return fmt.Errorf("failed to create order header: %w", err)
		}

		for _, li := range inv.Items {
			detail := models.SalesOrderDetail{
				SalesOrderID:      header.SalesOrderID,
				OrderQty:          int(qty(li.Qty)),
				UnitPrice:         deref(li.UnitPrice),
				UnitPriceDiscount: 0,
				LineTotal:         deref(li.LineTotal),
			}
			if err := tx.Create(&detail).Error; err != nil {
				return fmt.Errorf("failed to create order detail: %w", err)
			}
		}

		orderID := header.SalesOrderID
		if err := tx.Model(&models.Document{}).Where("id = ?", docID).
			Updates(map[string]interface{}{
				"status":         models.DocumentStatusSaved,
				"sales_order_id": orderID,
			}).Error; err != nil {
			return fmt.Errorf("failed to link document to order: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return header.SalesOrderID, nil
}

// ListOrders returns the most recent order headers
func (s *Store) ListOrders(limit int) ([]models.SalesOrderHeader, error) {
	if limit <= 0 {
		limit = 50
	}
	var headers []models.SalesOrderHeader
	if err := s.db.Order("sales_order_id DESC").Limit(limit).Find(&headers).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return headers, nil
}

// GetOrder loads one order header with its detail rows
func (s *Store) GetOrder(id uint) (*models.SalesOrderHeader, error) {
	var header models.SalesOrderHeader
	if err := s.db.Preload("Details").First(&header, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Message: fmt.Sprintf("order %d not found", id)}
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &header, nil
}

// parseDate accepts YYYY-MM-DD or an ISO datetime; anything else maps to null
func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		return &t
	}
	raw := strings.TrimSuffix(*s, "Z")
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

func qty(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
