package orders

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xelth-com/invoiceflow/internal/database"
	"github.com/xelth-com/invoiceflow/internal/models"
)

const testPort = 5439

var testStore *Store

// TestMain boots one embedded PostgreSQL for the whole package, the same
// zero-config engine the server itself falls back to.
func TestMain(m *testing.M) {
	runtimeDir, err := os.MkdirTemp("", "invoiceflow-pg-test")
	if err != nil {
		log.Fatalf("Failed to create runtime dir: %v", err)
	}

	epg := embeddedpostgres.NewDatabase(embeddedpostgres.DefaultConfig().
		RuntimePath(runtimeDir).
		DataPath(filepath.Join(runtimeDir, "data")).
		Port(testPort).
		Database("invoiceflow_test").
		Username("postgres").
		Password("postgres"))
	if err := epg.Start(); err != nil {
		os.RemoveAll(runtimeDir)
		log.Fatalf("Failed to start embedded postgres: %v", err)
	}

	dsn := fmt.Sprintf(
		"host=localhost port=%d user=postgres password=postgres dbname=invoiceflow_test sslmode=disable",
		testPort,
	)
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		epg.Stop()
		os.RemoveAll(runtimeDir)
		log.Fatalf("Failed to connect to embedded postgres: %v", err)
	}

	db := &database.DB{DB: gormDB}
	if err := db.AutoMigrate(
		&models.SalesOrderHeader{},
		&models.SalesOrderDetail{},
		&models.Document{},
	); err != nil {
		epg.Stop()
		os.RemoveAll(runtimeDir)
		log.Fatalf("Failed to migrate test schema: %v", err)
	}
	testStore = NewStore(db)

	code := m.Run()

	epg.Stop()
	os.RemoveAll(runtimeDir)
	os.Exit(code)
}

func createTestDocument(t *testing.T) *models.Document {
	t.Helper()
	doc := &models.Document{
		Filename:    "invoice.png",
		ContentType: "image/png",
		StorageKey:  "test-key",
		Status:      models.DocumentStatusExtracted,
	}
	if err := testStore.CreateDocument(doc); err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}
	return doc
}

func testInvoice(number string) *models.ExtractedInvoice {
	qty, price, total := 2.0, 10.0, 20.0
	qty2, price2, total2 := 1.0, 5.0, 5.0
	subtotal, due := 25.0, 25.0
	date := "2024-03-15"
	return &models.ExtractedInvoice{
		InvoiceNumber: &number,
		OrderDate:     &date,
		Subtotal:      &subtotal,
		TotalDue:      &due,
		Items: []models.LineItem{
			{Description: "Widget", Qty: &qty, UnitPrice: &price, LineTotal: &total},
			{Description: "Gadget", Qty: &qty2, UnitPrice: &price2, LineTotal: &total2},
		},
	}
}

func TestDocumentLifecycle(t *testing.T) {
	doc := &models.Document{
		Filename:    "scan.pdf",
		ContentType: "application/pdf",
		StorageKey:  "blob-1",
		Status:      models.DocumentStatusUploaded,
	}
	if err := testStore.CreateDocument(doc); err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}
	if doc.ID == 0 {
		t.Fatal("Expected assigned document id")
	}

	if err := testStore.UpdateStatus(doc.ID, models.DocumentStatusProcessing); err != nil {
		t.Fatalf("Failed to update status: %v", err)
	}
	got, err := testStore.GetDocument(doc.ID)
	if err != nil {
		t.Fatalf("Failed to load document: %v", err)
	}
	if got.Status != models.DocumentStatusProcessing {
		t.Errorf("Expected processing, got %s", got.Status)
	}

	if err := testStore.MarkFailed(doc.ID, "model refused"); err != nil {
		t.Fatalf("Failed to mark failed: %v", err)
	}
	got, _ = testStore.GetDocument(doc.ID)
	if got.Status != models.DocumentStatusFailed || got.Error != "model refused" {
		t.Errorf("Expected failed with reason, got %s %q", got.Status, got.Error)
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	_, err := testStore.GetDocument(999999)
	if err == nil {
		t.Fatal("Expected error for unknown document")
	}
	if _, ok := err.(*models.NotFoundError); !ok {
		t.Errorf("Expected NotFoundError, got %T", err)
	}
}

func TestSetExtracted(t *testing.T) {
	doc := createTestDocument(t)

	if err := testStore.SetExtracted(doc.ID, testInvoice("SO-9001")); err != nil {
		t.Fatalf("Failed to set extracted record: %v", err)
	}
	got, _ := testStore.GetDocument(doc.ID)
	if got.Status != models.DocumentStatusExtracted {
		t.Errorf("Expected extracted, got %s", got.Status)
	}
	if len(got.ExtractedJSON) == 0 {
		t.Error("Expected persisted extracted JSON")
	}
}

func TestCreateOrderPersistsAggregate(t *testing.T) {
	doc := createTestDocument(t)

	orderID, err := testStore.CreateOrder(doc.ID, testInvoice("SO-9002"))
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}

	order, err := testStore.GetOrder(orderID)
	if err != nil {
		t.Fatalf("Failed to load order: %v", err)
	}
	if order.SalesOrderNumber == nil || *order.SalesOrderNumber != "SO-9002" {
		t.Error("Order number not persisted")
	}
	if order.RevisionNumber == nil || *order.RevisionNumber != 1 {
		t.Error("Expected default revision number 1")
	}
	if order.Status == nil || *order.Status != 5 {
		t.Error("Expected default status code 5")
	}
	if order.OnlineOrderFlag == nil || *order.OnlineOrderFlag {
		t.Error("Expected online order flag false")
	}
	if order.OrderDate == nil || !order.OrderDate.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Order date not parsed, got %v", order.OrderDate)
	}
	if len(order.Details) != 2 {
		t.Fatalf("Expected 2 detail rows, got %d", len(order.Details))
	}
	if order.Details[0].UnitPriceDiscount != 0 {
		t.Error("Expected zero unit price discount")
	}

	got, _ := testStore.GetDocument(doc.ID)
	if got.Status != models.DocumentStatusSaved {
		t.Errorf("Expected saved document, got %s", got.Status)
	}
	if got.SalesOrderID == nil || *got.SalesOrderID != orderID {
		t.Error("Document not linked to the created order")
	}
}

func TestCreateOrderRollsBackOnDetailFailure(t *testing.T) {
	// A check constraint makes a detail insert fail mid-transaction
	testStore.db.Exec("ALTER TABLE sales_order_detail DROP CONSTRAINT IF EXISTS chk_order_qty_positive")
	if err := testStore.db.Exec(
		"ALTER TABLE sales_order_detail ADD CONSTRAINT chk_order_qty_positive CHECK (order_qty >= 0)",
	).Error; err != nil {
		t.Fatalf("Failed to add check constraint: %v", err)
	}

	doc := createTestDocument(t)

	var detailsBefore int64
	testStore.db.Model(&models.SalesOrderDetail{}).Count(&detailsBefore)

	inv := testInvoice("SO-9003")
	badQty := -1.0
	inv.Items[1].Qty = &badQty

	if _, err := testStore.CreateOrder(doc.ID, inv); err == nil {
		t.Fatal("Expected error from failing detail insert")
	}

	// Nothing from the failed transaction may remain
	var headerCount int64
	testStore.db.Model(&models.SalesOrderHeader{}).
		Where("sales_order_number = ?", "SO-9003").Count(&headerCount)
	if headerCount != 0 {
		t.Errorf("Expected no header rows after rollback, got %d", headerCount)
	}
	var detailsAfter int64
	testStore.db.Model(&models.SalesOrderDetail{}).Count(&detailsAfter)
	if detailsAfter != detailsBefore {
		t.Errorf("Expected %d detail rows after rollback, got %d", detailsBefore, detailsAfter)
	}

	got, _ := testStore.GetDocument(doc.ID)
	if got.Status != models.DocumentStatusExtracted {
		t.Errorf("Expected document unchanged after rollback, got %s", got.Status)
	}
	if got.SalesOrderID != nil {
		t.Error("Document must not be linked to a rolled-back order")
	}
}

func TestCreateOrderUnknownDocument(t *testing.T) {
	_, err := testStore.CreateOrder(999999, testInvoice("SO-9004"))
	if err == nil {
		t.Fatal("Expected error for unknown document")
	}
	if _, ok := err.(*models.NotFoundError); !ok {
		t.Errorf("Expected NotFoundError, got %T", err)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	first, err := testStore.CreateOrder(createTestDocument(t).ID, testInvoice("SO-9005"))
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	second, err := testStore.CreateOrder(createTestDocument(t).ID, testInvoice("SO-9006"))
	if err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}

	headers, err := testStore.ListOrders(0)
	if err != nil {
		t.Fatalf("Failed to list orders: %v", err)
	}
	if len(headers) < 2 {
		t.Fatalf("Expected at least 2 orders, got %d", len(headers))
	}

	var posFirst, posSecond = -1, -1
	for i, h := range headers {
		switch h.SalesOrderID {
		case first:
			posFirst = i
		case second:
			posSecond = i
		}
	}
	if posFirst == -1 || posSecond == -1 {
		t.Fatal("Created orders missing from listing")
	}
	if posSecond > posFirst {
		t.Error("Expected newest order listed first")
	}
}

func TestGetOrderNotFound(t *testing.T) {
	_, err := testStore.GetOrder(999999)
	if err == nil {
		t.Fatal("Expected error for unknown order")
	}
	if _, ok := err.(*models.NotFoundError); !ok {
		t.Errorf("Expected NotFoundError, got %T", err)
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"DateOnly", "2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"DateTime", "2024-03-15T10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"DateTimeZulu", "2024-03-15T10:30:00Z", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"RFC3339Offset", "2024-03-15T10:30:00+02:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.FixedZone("", 2*3600))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseDate(&tc.input)
			if got == nil {
				t.Fatalf("parseDate(%q) returned nil", tc.input)
			}
			if !got.Equal(tc.want) {
				t.Errorf("parseDate(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, input := range []string{"", "not a date", "15/03/2024", "2024-13-99"} {
		in := input
		if got := parseDate(&in); got != nil {
			t.Errorf("parseDate(%q) = %v, want nil", input, got)
		}
	}
	if got := parseDate(nil); got != nil {
		t.Errorf("parseDate(nil) = %v, want nil", got)
	}
}

func TestNumericHelpers(t *testing.T) {
	v := 2.5
	if got := qty(&v); got != 2.5 {
		t.Errorf("qty(&2.5) = %v", got)
	}
	if got := qty(nil); got != 0 {
		t.Errorf("qty(nil) = %v, want 0", got)
	}
	if got := deref(&v); got != 2.5 {
		t.Errorf("deref(&2.5) = %v", got)
	}
	if got := deref(nil); got != 0 {
		t.Errorf("deref(nil) = %v, want 0", got)
	}
}
