package main

import (
	"fmt"
	"log"
	"time"

	"github.com/xelth-com/invoiceflow/internal/config"
	"github.com/xelth-com/invoiceflow/internal/database"
	"github.com/xelth-com/invoiceflow/internal/models"
)

// Seeds a small block of historical sales orders so freshly created orders
// continue numbering beyond the demo data.
func main() {
	fmt.Println("🌱 invoiceflow Demo Data Seeder")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")

	fmt.Println("🔨 Running database migrations...")
	err = db.AutoMigrate(
		&models.SalesOrderHeader{},
		&models.SalesOrderDetail{},
		&models.Document{},
	)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")

	var orderCount int64
	db.Model(&models.SalesOrderHeader{}).Count(&orderCount)
	if orderCount > 0 {
		fmt.Printf("⚠️  Database already has %d orders. Clear it first? (y/N): ", orderCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}
		db.Exec("DELETE FROM sales_order_detail")
		db.Exec("DELETE FROM sales_order_header")
		fmt.Println("🧹 Cleared existing order data")
	}

	seeded := 0
	for i, o := range demoOrders() {
		if err := db.Create(&o.header).Error; err != nil {
			log.Fatalf("❌ Failed to seed order %d: %v", i, err)
		}
		for _, d := range o.details {
			d.SalesOrderID = o.header.SalesOrderID
			if err := db.Create(&d).Error; err != nil {
				log.Fatalf("❌ Failed to seed order detail: %v", err)
			}
		}
		seeded++
	}

	fmt.Printf("✅ Seeded %d demo sales orders\n", seeded)
}

type demoOrder struct {
	header  models.SalesOrderHeader
	details []models.SalesOrderDetail
}

func demoOrders() []demoOrder {
	revision := 1
	status := 5
	online := false

	mk := func(number string, daysAgo int, lines []models.SalesOrderDetail) demoOrder {
		orderDate := time.Now().AddDate(0, 0, -daysAgo)
		dueDate := orderDate.AddDate(0, 0, 30)

		var subtotal float64
		for _, l := range lines {
			subtotal += l.LineTotal
		}
		tax := subtotal * 0.08
		freight := subtotal * 0.025
		total := subtotal + tax + freight

		num := number
		return demoOrder{
			header: models.SalesOrderHeader{
				RevisionNumber:   &revision,
				OrderDate:        &orderDate,
				DueDate:          &dueDate,
				Status:           &status,
				OnlineOrderFlag:  &online,
				SalesOrderNumber: &num,
				SubTotal:         &subtotal,
				TaxAmt:           &tax,
				Freight:          &freight,
				TotalDue:         &total,
			},
			details: lines,
		}
	}

	return []demoOrder{
		mk("SO-43659", 90, []models.SalesOrderDetail{
			{OrderQty: 2, UnitPrice: 2024.99, LineTotal: 4049.98},
			{OrderQty: 3, UnitPrice: 2039.99, LineTotal: 6119.97},
			{OrderQty: 1, UnitPrice: 28.84, LineTotal: 28.84},
		}),
		mk("SO-43660", 82, []models.SalesOrderDetail{
			{OrderQty: 1, UnitPrice: 419.46, LineTotal: 419.46},
			{OrderQty: 1, UnitPrice: 874.79, LineTotal: 874.79},
		}),
		mk("SO-43661", 61, []models.SalesOrderDetail{
			{OrderQty: 5, UnitPrice: 20.19, LineTotal: 100.95},
			{OrderQty: 2, UnitPrice: 5.70, LineTotal: 11.40},
			{OrderQty: 4, UnitPrice: 24.29, LineTotal: 97.16},
		}),
		mk("SO-43662", 33, []models.SalesOrderDetail{
			{OrderQty: 1, UnitPrice: 3578.27, LineTotal: 3578.27},
		}),
		mk("SO-43663", 12, []models.SalesOrderDetail{
			{OrderQty: 6, UnitPrice: 34.99, LineTotal: 209.94},
			{OrderQty: 2, UnitPrice: 9.99, LineTotal: 19.98},
		}),
	}
}
