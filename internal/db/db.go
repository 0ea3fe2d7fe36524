package db

import (
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Kishor978/RAG-System/internal/booking"
	"github.com/Kishor978/RAG-System/internal/document"
	"github.com/Kishor978/RAG-System/internal/models"
)

// Connect opens the MySQL connection and runs migrations. Fatal on
// failure: neither the API nor the worker can run without the database.
func Connect(dsn string) *gorm.DB {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&document.Document{},
		&document.IngestJob{},
		&booking.Booking{},
	); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	return gdb
}
