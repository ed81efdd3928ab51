package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Generates sample invoice PDFs for exercising the extraction pipeline
// without real customer documents.
func main() {
	outDir := flag.String("out", "./data/samples", "output directory for sample invoices")
	count := flag.Int("count", 3, "number of invoices to generate")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("❌ Failed to create output dir: %v", err)
	}

	for i := 0; i < *count; i++ {
		number := fmt.Sprintf("SO-%d", 71000+i)
		path := filepath.Join(*outDir, fmt.Sprintf("invoice_%s.pdf", number))
		if err := writeInvoice(path, number, i); err != nil {
			log.Fatalf("❌ Failed to generate %s: %v", path, err)
		}
		fmt.Printf("📄 Wrote %s\n", path)
	}
	fmt.Printf("✅ Generated %d sample invoices\n", *count)
}

type sampleLine struct {
	item  string
	desc  string
	qty   float64
	price float64
}

func writeInvoice(path, number string, seed int) error {
	lines := sampleLines(seed)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 22)
	pdf.Cell(120, 12, "INVOICE")

	// QR with the invoice number, like the printed copies warehouse
	// scanners expect
	qrPng, err := qrcode.Encode(number, qrcode.Medium, 256)
	if err != nil {
		return err
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr-"+number, opts, bytes.NewReader(qrPng))
	pdf.ImageOptions("qr-"+number, 170, 12, 25, 25, false, opts, 0, "")

	pdf.Ln(16)
	pdf.SetFont("Arial", "", 11)
	orderDate := time.Now().AddDate(0, 0, -seed*7)
	pdf.Cell(60, 6, "Invoice No: "+number)
	pdf.Ln(6)
	pdf.Cell(60, 6, "PO Number: PO-"+number[3:])
	pdf.Ln(6)
	pdf.Cell(60, 6, "Order Date: "+orderDate.Format("2006-01-02"))
	pdf.Ln(6)
	pdf.Cell(60, 6, "Due Date: "+orderDate.AddDate(0, 1, 0).Format("2006-01-02"))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(90, 6, "Bill To: Northwind Traders Ltd.")
	pdf.Cell(90, 6, "Ship To: Northwind Traders Warehouse 4")
	pdf.Ln(12)

	// Line item table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(25, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(80, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(25, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	var subtotal float64
	for _, l := range lines {
		lineTotal := l.qty * l.price
		subtotal += lineTotal
		pdf.CellFormat(25, 8, l.item, "1", 0, "L", false, 0, "")
		pdf.CellFormat(80, 8, l.desc, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%.0f", l.qty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", l.price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", lineTotal), "1", 1, "R", false, 0, "")
	}

	tax := subtotal * 0.08
	freight := 15.00
	total := subtotal + tax + freight

	pdf.Ln(4)
	for _, row := range [][2]string{
		{"Subtotal", fmt.Sprintf("%.2f", subtotal)},
		{"Tax (8%)", fmt.Sprintf("%.2f", tax)},
		{"Freight", fmt.Sprintf("%.2f", freight)},
		{"Total Due", fmt.Sprintf("%.2f", total)},
	} {
		pdf.CellFormat(150, 7, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, row[1], "", 1, "R", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 6, "Terms: Net 30. Ship via ground freight.")

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return pdf.Output(f)
}

func sampleLines(seed int) []sampleLine {
	catalog := []sampleLine{
		{"FR-R92B", "HL Road Frame - Black, 58", 2, 1431.50},
		{"BK-M68S", "Mountain-200 Silver, 42", 1, 2319.99},
		{"HL-U509", "Sport-100 Helmet, Red", 6, 34.99},
		{"SO-B909", "Mountain Bike Socks, M", 10, 9.50},
		{"CA-1098", "AWC Logo Cap", 4, 8.99},
		{"LJ-0192", "Long-Sleeve Logo Jersey, M", 3, 49.99},
	}
	// Rotate through the catalog so each sample differs
	n := 2 + seed%3
	lines := make([]sampleLine, 0, n)
	for j := 0; j < n; j++ {
		lines = append(lines, catalog[(seed+j)%len(catalog)])
	}
	return lines
}
