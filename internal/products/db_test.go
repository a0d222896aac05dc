package product

import (
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// openTestDB returns a migrated database. STOREFRONT_TEST_DB_DSN points the
// suite at a real postgres instance; otherwise an in-memory sqlite is used.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	var dialector gorm.Dialector
	if dsn := os.Getenv("STOREFRONT_TEST_DB_DSN"); dsn != "" {
		dialector = postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true})
	} else {
		dialector = sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	}

	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("failed to migrate products: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		conn.Exec("DELETE FROM products")
		_ = sqlDB.Close()
	})
	return conn
}
