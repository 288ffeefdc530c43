package database

import (
	"log"

	"partspos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.Distributor{},
		&model.Customer{},
		&model.Product{},
		&model.SalesOrder{},
		&model.SalesOrderItem{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.StockMovement{},
		&model.CustomerTransaction{},
		&model.SupplierTransaction{},
		&model.CashTransaction{},
		&model.Expense{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
