package sqlite

import (
	"database/sql"

	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
)

func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	categoryRepo := newSQLiteCategoryRepository(db)
	productRepo := newSQLiteProductRepository(db)
	customerRepo := newSQLiteCustomerRepository(db)
	saleRepo := newSQLiteSaleRepository(db)
	movementRepo := newSQLiteMovementRepository(db)
	utangRepo := newSQLiteUtangRepository(db)
	catalogRepo := newSQLiteCatalogRepository(db)
	storeRepo := newSQLiteStoreRepository(db)

	return portsrepo.RepositoryProvider{
		CategoryRepo:   categoryRepo,
		ProductRepo:    productRepo,
		CustomerRepo:   customerRepo,
		SaleRepo:       saleRepo,
		MovementRepo:   movementRepo,
		UtangRepo:      utangRepo,
		CatalogRepo:    catalogRepo,
		StoreRepo:      storeRepo,
		CredentialRepo: storeRepo,
		Maintenance:    storeRepo,
	}
}
