// Package memory implementa todos los puertos de repositorio en proceso.
// Cada unidad transaccional trabaja sobre una copia del dataset y la publica solo si termina sin error.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/jhoicas/bengkel-pos/internal/application/inventory"
	"github.com/jhoicas/bengkel-pos/internal/application/sales"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*Store)(nil)
	_ sales.TxRunner     = (*Store)(nil)
)

type dataset struct {
	tenants   map[string]entity.Tenant
	branches  map[string]entity.Branch
	users     map[string]entity.User
	mechanics map[string]entity.Mechanic
	products  map[string]entity.Product
	inventory map[string]entity.Inventory
	headers   map[string]entity.TransactionHeader
	details   map[string]entity.TransactionDetail
	returns   map[string]entity.TransactionReturn
	drafts    map[string]entity.DraftTransaction
	transfers map[string]entity.StockTransfer
}

func newDataset() *dataset {
	return &dataset{
		tenants:   map[string]entity.Tenant{},
		branches:  map[string]entity.Branch{},
		users:     map[string]entity.User{},
		mechanics: map[string]entity.Mechanic{},
		products:  map[string]entity.Product{},
		inventory: map[string]entity.Inventory{},
		headers:   map[string]entity.TransactionHeader{},
		details:   map[string]entity.TransactionDetail{},
		returns:   map[string]entity.TransactionReturn{},
		drafts:    map[string]entity.DraftTransaction{},
		transfers: map[string]entity.StockTransfer{},
	}
}

// clone copia superficial de cada mapa; los valores se reemplazan completos, nunca se mutan en sitio.
func (d *dataset) clone() *dataset {
	return &dataset{
		tenants:   maps.Clone(d.tenants),
		branches:  maps.Clone(d.branches),
		users:     maps.Clone(d.users),
		mechanics: maps.Clone(d.mechanics),
		products:  maps.Clone(d.products),
		inventory: maps.Clone(d.inventory),
		headers:   maps.Clone(d.headers),
		details:   maps.Clone(d.details),
		returns:   maps.Clone(d.returns),
		drafts:    maps.Clone(d.drafts),
		transfers: maps.Clone(d.transfers),
	}
}

// Store almacenamiento en memoria. txMu serializa las escrituras; mu protege el puntero al dataset.
type Store struct {
	mu   sync.RWMutex
	txMu *sync.Mutex
	data *dataset
	inTx bool
}

// New crea un store vacío.
func New() *Store {
	return &Store{txMu: &sync.Mutex{}, data: newDataset()}
}

// Ping siempre disponible.
func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) read(fn func(d *dataset)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func (s *Store) write(fn func(d *dataset) error) error {
	if !s.inTx {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// unit ejecuta fn sobre una copia del dataset; solo si no hay error la copia pasa a ser el estado visible.
func (s *Store) unit(fn func(child *Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	child := &Store{txMu: s.txMu, data: snapshot, inTx: true}
	if err := fn(child); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = child.data
	s.mu.Unlock()
	return nil
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(
	invRepo repository.InventoryRepository,
	transferRepo repository.StockTransferRepository,
) error) error {
	return s.unit(func(child *Store) error {
		return fn(child.Inventory(), child.StockTransfers())
	})
}

// RunSales implementa sales.TxRunner.
func (s *Store) RunSales(ctx context.Context, fn func(
	txnRepo repository.TransactionRepository,
	invRepo repository.InventoryRepository,
	returnRepo repository.ReturnRepository,
	draftRepo repository.DraftTransactionRepository,
) error) error {
	return s.unit(func(child *Store) error {
		return fn(child.Transactions(), child.Inventory(), child.Returns(), child.Drafts())
	})
}

// Accesores por puerto.
func (s *Store) Tenants() repository.TenantRepository               { return tenantRepo{s} }
func (s *Store) Branches() repository.BranchRepository              { return branchRepo{s} }
func (s *Store) Users() repository.UserRepository                   { return userRepo{s} }
func (s *Store) Mechanics() repository.MechanicRepository           { return mechanicRepo{s} }
func (s *Store) Products() repository.ProductRepository             { return productRepo{s} }
func (s *Store) Inventory() repository.InventoryRepository          { return inventoryRepo{s} }
func (s *Store) Transactions() repository.TransactionRepository     { return transactionRepo{s} }
func (s *Store) Returns() repository.ReturnRepository               { return returnRepo{s} }
func (s *Store) Drafts() repository.DraftTransactionRepository      { return draftRepo{s} }
func (s *Store) StockTransfers() repository.StockTransferRepository { return transferRepo{s} }
func (s *Store) Reports() repository.ReportRepository               { return reportRepo{s} }

// newer orden descendente por fecha; desempata por ID para que el listado sea estable.
func newer(ta time.Time, ia string, tb time.Time, ib string) bool {
	if !ta.Equal(tb) {
		return ta.After(tb)
	}
	return ia < ib
}

func ptrEq(p *string, v string) bool {
	return p != nil && *p == v
}
