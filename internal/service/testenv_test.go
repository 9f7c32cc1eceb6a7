package service

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avolkov/storefront/internal/models"
	"github.com/avolkov/storefront/internal/repo"
	"github.com/avolkov/storefront/internal/transport"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "storefront.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
		&models.ReviewHelpful{},
		&models.Favorite{},
	))

	return db
}

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return repo.New(newTestDB(t))
}

func newOrderService(r *repo.GormRepo) *OrderService {
	return &OrderService{
		Repo:      r,
		Inventory: &InventoryService{Repo: r},
	}
}

func createTestProduct(t *testing.T, r *repo.GormRepo, name string, price float64, count uint) *models.Product {
	t.Helper()

	prod := &models.Product{
		Name:  name,
		Slug:  name,
		Price: price,
		Count: count,
	}
	require.NoError(t, r.DB.Create(prod).Error)
	return prod
}

func productCount(t *testing.T, r *repo.GormRepo, id uint) uint {
	t.Helper()

	var prod models.Product
	require.NoError(t, r.DB.First(&prod, id).Error)
	return prod.Count
}

func testAddress() transport.AddressRequest {
	return transport.AddressRequest{
		Line1:      "12 Main Street",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "US",
	}
}

func orderRequest(items ...transport.OrderItemRequest) transport.CreateOrderRequest {
	return transport.CreateOrderRequest{
		Items:           items,
		ShippingAddress: testAddress(),
		PaymentMethod:   models.PaymentMethodCard,
	}
}
