package services

import (
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
	portssvc "github.com/tindahan/tindahan/internal/core/ports/services"
	"github.com/tindahan/tindahan/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, remote portsrepo.RemoteStore, auth portsrepo.AuthProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Category = NewCategoryService(repos.CategoryRepo)
	container.Product = NewProductService(repos.ProductRepo, repos.CategoryRepo)
	container.Customer = NewCustomerService(repos.CustomerRepo)
	container.Sale = NewCheckoutService(repos.SaleRepo, repos.ProductRepo, repos.CustomerRepo)
	container.Inventory = NewInventoryService(repos.MovementRepo, repos.ProductRepo)
	container.Utang = NewUtangService(repos.UtangRepo, repos.CustomerRepo)
	container.Catalog = NewCatalogService(repos.CatalogRepo)

	container.Sync = NewSyncService(repos, remote)
	container.Session = NewSessionService(repos.CredentialRepo, auth, cfg)
	container.Auth = NewAuthService(repos.StoreRepo, repos.Maintenance, container.Session, container.Sync, auth, cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CategorySvcFacade  = (*categoryService)(nil)
	_ portssvc.SaleSvcFacade      = (*checkoutService)(nil)
	_ portssvc.SyncSvcFacade      = (*syncService)(nil)
	_ portssvc.SessionSvcFacade   = (*sessionService)(nil)
	_ portssvc.AuthSvcFacade      = (*authService)(nil)
)
