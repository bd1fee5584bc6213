package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/bengkel-pos/internal/domain"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
)

type inventoryRepo struct{ s *Store }

func findInventory(d *dataset, tenantID, branchID, productID string) (entity.Inventory, bool) {
	for _, inv := range d.inventory {
		if inv.TenantID == tenantID && inv.BranchID == branchID && inv.ProductID == productID {
			return inv, true
		}
	}
	return entity.Inventory{}, false
}

func (r inventoryRepo) Create(_ context.Context, inv *entity.Inventory) error {
	return r.s.write(func(d *dataset) error {
		if inv.Qty < 0 {
			return domain.ErrInvalidInput
		}
		if _, ok := findInventory(d, inv.TenantID, inv.BranchID, inv.ProductID); ok {
			return domain.ErrDuplicate
		}
		d.inventory[inv.ID] = *inv
		return nil
	})
}

func (r inventoryRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Inventory, error) {
	var out *entity.Inventory
	r.s.read(func(d *dataset) {
		if inv, ok := d.inventory[id]; ok && inv.TenantID == tenantID {
			out = &inv
		}
	})
	return out, nil
}

func (r inventoryRepo) Get(_ context.Context, tenantID, branchID, productID string) (*entity.Inventory, error) {
	var out *entity.Inventory
	r.s.read(func(d *dataset) {
		if inv, ok := findInventory(d, tenantID, branchID, productID); ok {
			out = &inv
		}
	})
	return out, nil
}

func (r inventoryRepo) rows(tenantID, branchID string, lowOnly bool) []repository.InventoryRow {
	out := []repository.InventoryRow{}
	r.s.read(func(d *dataset) {
		for _, inv := range d.inventory {
			if inv.TenantID != tenantID || (branchID != "" && inv.BranchID != branchID) {
				continue
			}
			if lowOnly && !inv.IsLow() {
				continue
			}
			p := d.products[inv.ProductID]
			out = append(out, repository.InventoryRow{
				Inventory:   inv,
				SKU:         p.SKU,
				ProductName: p.Name,
				ProductType: p.Type,
				BranchName:  d.branches[inv.BranchID].Name,
			})
		}
	})
	return out
}

func (r inventoryRepo) List(_ context.Context, tenantID, branchID string) ([]repository.InventoryRow, error) {
	out := r.rows(tenantID, branchID, false)
	sort.Slice(out, func(i, j int) bool {
		if out[i].BranchName != out[j].BranchName {
			return out[i].BranchName < out[j].BranchName
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out, nil
}

func (r inventoryRepo) ListLowStock(_ context.Context, tenantID, branchID string) ([]repository.InventoryRow, error) {
	out := r.rows(tenantID, branchID, true)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Qty != out[j].Qty {
			return out[i].Qty < out[j].Qty
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out, nil
}

func (r inventoryRepo) DecrementQty(_ context.Context, tenantID, branchID, productID string, n int) error {
	return r.s.write(func(d *dataset) error {
		inv, ok := findInventory(d, tenantID, branchID, productID)
		if !ok {
			return domain.ErrNotFound
		}
		if inv.Qty < n {
			return fmt.Errorf("%w. Disponible: %d", domain.ErrInsufficientStock, inv.Qty)
		}
		inv.Qty -= n
		inv.UpdatedAt = time.Now()
		d.inventory[inv.ID] = inv
		return nil
	})
}

func (r inventoryRepo) IncrementQty(_ context.Context, tenantID, branchID, productID string, n int) (bool, error) {
	var found bool
	err := r.s.write(func(d *dataset) error {
		inv, ok := findInventory(d, tenantID, branchID, productID)
		if !ok {
			return nil
		}
		found = true
		inv.Qty += n
		inv.UpdatedAt = time.Now()
		d.inventory[inv.ID] = inv
		return nil
	})
	return found, err
}

func (r inventoryRepo) AddOrCreate(_ context.Context, inv *entity.Inventory) error {
	return r.s.write(func(d *dataset) error {
		if cur, ok := findInventory(d, inv.TenantID, inv.BranchID, inv.ProductID); ok {
			cur.Qty += inv.Qty
			cur.UpdatedAt = inv.UpdatedAt
			d.inventory[cur.ID] = cur
			*inv = cur
			return nil
		}
		d.inventory[inv.ID] = *inv
		return nil
	})
}

func (r inventoryRepo) Adjust(_ context.Context, tenantID, id string, qty int, isDelta bool) (*entity.Inventory, error) {
	var out *entity.Inventory
	err := r.s.write(func(d *dataset) error {
		inv, ok := d.inventory[id]
		if !ok || inv.TenantID != tenantID {
			return domain.ErrNotFound
		}
		next := qty
		if isDelta {
			next = inv.Qty + qty
		}
		if next < 0 {
			return fmt.Errorf("%w. Disponible: %d", domain.ErrInsufficientStock, inv.Qty)
		}
		inv.Qty = next
		inv.UpdatedAt = time.Now()
		d.inventory[id] = inv
		out = &inv
		return nil
	})
	return out, err
}
