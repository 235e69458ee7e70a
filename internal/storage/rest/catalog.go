// Package rest implements the domain repository ports on top of the generic
// restdata accessor, mapping between wire records and domain types.
package rest

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/wicaksana/paket-portal/internal/domain/catalog"
	"github.com/wicaksana/paket-portal/internal/restdata"
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository against the backend
// packages collection.
type CatalogRepository struct {
	client *restdata.Client
}

// NewCatalogRepository returns a CatalogRepository using client.
func NewCatalogRepository(client *restdata.Client) *CatalogRepository {
	return &CatalogRepository{client: client}
}

type packageRecord struct {
	ID          int64           `json:"id,omitempty"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Duration    string          `json:"duration"`
	Category    string          `json:"category"`
}

// List returns the full package catalog.
func (r *CatalogRepository) List(ctx context.Context) ([]catalog.Package, error) {
	var records []packageRecord
	if err := r.client.Read(ctx, "packages", nil, &records); err != nil {
		return nil, errors.Wrap(err, "list packages")
	}
	out := make([]catalog.Package, len(records))
	for i, rec := range records {
		out[i] = mapPackage(rec)
	}
	return out, nil
}

// GetByID returns a single package, or catalog.ErrNotFound.
func (r *CatalogRepository) GetByID(ctx context.Context, id int64) (*catalog.Package, error) {
	var records []packageRecord
	if err := r.client.Read(ctx, "packages", filter("id", id), &records); err != nil {
		return nil, errors.Wrapf(err, "get package %d", id)
	}
	if len(records) == 0 {
		return nil, catalog.ErrNotFound
	}
	p := mapPackage(records[0])
	return &p, nil
}

// Create stores a new package and returns it with its assigned id.
func (r *CatalogRepository) Create(ctx context.Context, p *catalog.Package) (*catalog.Package, error) {
	var rec packageRecord
	if err := r.client.Create(ctx, "packages", toPackageRecord(p), &rec); err != nil {
		return nil, errors.Wrap(err, "create package")
	}
	created := mapPackage(rec)
	return &created, nil
}

// Update replaces an existing package.
func (r *CatalogRepository) Update(ctx context.Context, p *catalog.Package) (*catalog.Package, error) {
	var rec packageRecord
	if err := r.client.Update(ctx, "packages", p.ID, toPackageRecord(p), &rec); err != nil {
		return nil, errors.Wrapf(err, "update package %d", p.ID)
	}
	updated := mapPackage(rec)
	return &updated, nil
}

// Delete removes a package from the catalog.
func (r *CatalogRepository) Delete(ctx context.Context, id int64) error {
	if err := r.client.Delete(ctx, "packages", id); err != nil {
		return errors.Wrapf(err, "delete package %d", id)
	}
	return nil
}

func mapPackage(rec packageRecord) catalog.Package {
	return catalog.Package{
		ID:          rec.ID,
		Name:        rec.Name,
		Price:       rec.Price,
		Description: rec.Description,
		Duration:    rec.Duration,
		Category:    rec.Category,
	}
}

func toPackageRecord(p *catalog.Package) packageRecord {
	return packageRecord{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Duration:    p.Duration,
		Category:    p.Category,
	}
}
