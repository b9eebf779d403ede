package repositories

// RepositoryProvider holds all local-store repository interfaces needed by
// services. This makes passing dependencies to the service container
// constructor cleaner.
type RepositoryProvider struct {
	CategoryRepo   CategoryRepositoryFacade
	ProductRepo    ProductRepositoryFacade
	CustomerRepo   CustomerRepositoryFacade
	SaleRepo       SaleRepositoryFacade
	MovementRepo   MovementRepositoryFacade
	UtangRepo      UtangRepositoryFacade
	CatalogRepo    CatalogRepository
	StoreRepo      StoreRepository
	CredentialRepo CredentialRepository
	Maintenance    MaintenanceRepository
}
