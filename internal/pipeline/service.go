package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/xelth-com/invoiceflow/internal/events"
	"github.com/xelth-com/invoiceflow/internal/extract"
	"github.com/xelth-com/invoiceflow/internal/models"
)

// DocumentStore is the persistence boundary the orchestrator writes through
type DocumentStore interface {
	CreateDocument(doc *models.Document) error
	GetDocument(id uint) (*models.Document, error)
	UpdateStatus(id uint, status models.DocumentStatus) error
	MarkFailed(id uint, reason string) error
	SetExtracted(id uint, inv *models.ExtractedInvoice) error
	CreateOrder(docID uint, inv *models.ExtractedInvoice) (uint, error)
}

// ByteStore holds raw uploaded bytes behind opaque keys
type ByteStore interface {
	Save(filename string, data []byte) (string, error)
	Read(key string) ([]byte, error)
}

// Normalizer converts arbitrary supported input into one canonical PNG
type Normalizer func(data []byte, contentType string) ([]byte, error)

// Service drives each document through its extraction lifecycle:
// uploaded → processing → calling_llm → extracted|failed, plus the
// caller-triggered save transition to saved.
type Service struct {
	store     DocumentStore
	bytes     ByteStore
	bus       *events.Bus
	extractor extract.Extractor
	normalize Normalizer
}

// NewService wires the orchestrator. All collaborators are injected; the
// service holds no ambient state.
func NewService(store DocumentStore, bytes ByteStore, bus *events.Bus, extractor extract.Extractor, normalize Normalizer) *Service {
	return &Service{
		store:     store,
		bytes:     bytes,
		bus:       bus,
		extractor: extractor,
		normalize: normalize,
	}
}

// CreateDocument stores the raw bytes, creates the document in `uploaded`,
// and launches the background run. Exactly one run per document: the only
// trigger is this creation path.
func (s *Service) CreateDocument(filename, contentType string, data []byte) (uint, error) {
	key, err := s.bytes.Save(filename, data)
	if err != nil {
		return 0, err
	}

	doc := &models.Document{
		Filename:    filename,
		ContentType: contentType,
		StorageKey:  key,
		Status:      models.DocumentStatusUploaded,
	}
	if err := s.store.CreateDocument(doc); err != nil {
		return 0, err
	}

	go s.process(doc.ID)

	return doc.ID, nil
}

// process is the background run. It never lets an error escape: every
// failure ends as a `failed` document plus an error event.
func (s *Service) process(docID uint) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Document %d: processing panic: %v", docID, r)
			s.fail(docID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	s.bus.Publish(docID, events.Event{Type: events.EventStatus, Status: models.DocumentStatusProcessing})

	doc, err := s.store.GetDocument(docID)
	if err != nil {
		log.Printf("❌ Document %d: vanished before processing: %v", docID, err)
		return
	}
	if err := s.store.UpdateStatus(docID, models.DocumentStatusProcessing); err != nil {
		log.Printf("❌ Document %d: failed to persist processing status: %v", docID, err)
	}

	raw, err := s.bytes.Read(doc.StorageKey)
	if err != nil {
		s.fail(docID, err.Error())
		return
	}

	png, err := s.normalize(raw, doc.ContentType)
	if err != nil {
		s.fail(docID, err.Error())
		return
	}

	s.bus.Publish(docID, events.Event{Type: events.EventStatus, Status: models.DocumentStatusCallingLLM})

	// No cancellation or timeout on the provider call; the run owns the
	// document until it reaches a terminal state
	inv, err := s.extractor.Extract(context.Background(), png)
	if err != nil {
		s.fail(docID, err.Error())
		return
	}

	if err := s.store.SetExtracted(docID, inv); err != nil {
		s.fail(docID, err.Error())
		return
	}

	s.bus.Publish(docID, events.Event{Type: events.EventExtracted, Data: inv})
	s.bus.Publish(docID, events.Event{Type: events.EventStatus, Status: models.DocumentStatusExtracted})

	log.Printf("📄 Document %d: extraction complete (%d line items)", docID, len(inv.Items))
}

// fail commits the terminal failure and broadcasts it
func (s *Service) fail(docID uint, reason string) {
	if err := s.store.MarkFailed(docID, reason); err != nil {
		log.Printf("❌ Document %d: failed to persist error state: %v", docID, err)
	}
	s.bus.Publish(docID, events.Event{Type: events.EventError, Message: reason})
	log.Printf("⚠️  Document %d: processing failed: %s", docID, reason)
}

// SaveOrder validates the caller-supplied record, persists it as the
// document's extracted value, and materializes the order aggregate. Repeated
// calls create a new order each time; the document keeps the latest link.
func (s *Service) SaveOrder(docID uint, payload *models.ExtractedInvoice) (uint, error) {
	if err := payload.Validate(); err != nil {
		return 0, &models.ValidationError{Message: "invalid invoice payload", Err: err}
	}

	if _, err := s.store.GetDocument(docID); err != nil {
		return 0, err
	}

	if err := s.store.SetExtracted(docID, payload); err != nil {
		return 0, err
	}

	orderID, err := s.store.CreateOrder(docID, payload)
	if err != nil {
		return 0, err
	}

	log.Printf("💾 Document %d: saved as sales order %d", docID, orderID)
	return orderID, nil
}

// GetDocument returns the read-only status projection
func (s *Service) GetDocument(docID uint) (*models.DocumentView, error) {
	doc, err := s.store.GetDocument(docID)
	if err != nil {
		return nil, err
	}

	view := &models.DocumentView{
		ID:           doc.ID,
		Filename:     doc.Filename,
		Status:       doc.Status,
		Error:        doc.Error,
		SalesOrderID: doc.SalesOrderID,
	}
	if len(doc.ExtractedJSON) > 0 {
		var inv models.ExtractedInvoice
		if err := json.Unmarshal(doc.ExtractedJSON, &inv); err != nil {
			return nil, fmt.Errorf("failed to decode extracted record: %w", err)
		}
		view.Extracted = &inv
	}
	return view, nil
}
