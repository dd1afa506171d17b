package usecase

import (
	"context"
	"errors"
	"fmt"

	"gadget_backend/internal/feature/catalog/domain/entity"
)

// Literal filter values. ratings and flashSale are stored by clients as strings.
const (
	popularRating  = "5"
	flashSaleValue = "true"
)

// CatalogRepository abstracts the document store holding products and brands.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type CatalogRepository interface {
	// Insert stores doc in collection unchanged.
	Insert(ctx context.Context, collection string, doc entity.Document) error

	// Find returns every document of collection that satisfies filter.
	Find(ctx context.Context, collection string, filter entity.Filter) ([]entity.Document, error)

	// FindOne returns one document that satisfies filter, or ErrNotFound.
	FindOne(ctx context.Context, collection string, filter entity.Filter) (entity.Document, error)
}

// CatalogUsecase provides the product and brand operations.
type CatalogUsecase struct {
	repo CatalogRepository
}

// NewCatalogUsecase creates a new CatalogUsecase with the given repository.
func NewCatalogUsecase(r CatalogRepository) *CatalogUsecase {
	return &CatalogUsecase{repo: r}
}

// CreateProduct stores a product document as-is.
func (u *CatalogUsecase) CreateProduct(ctx context.Context, doc entity.Document) error {
	return u.insert(ctx, entity.CollectionProducts, doc)
}

// CreateBrand stores a brand document as-is.
func (u *CatalogUsecase) CreateBrand(ctx context.Context, doc entity.Document) error {
	return u.insert(ctx, entity.CollectionBrands, doc)
}

// ListProducts returns every product.
func (u *CatalogUsecase) ListProducts(ctx context.Context) ([]entity.Document, error) {
	return u.find(ctx, entity.CollectionProducts, nil)
}

// ListBrands returns every brand.
func (u *CatalogUsecase) ListBrands(ctx context.Context) ([]entity.Document, error) {
	return u.find(ctx, entity.CollectionBrands, nil)
}

// ListPopularProducts returns products whose ratings field is the string "5".
func (u *CatalogUsecase) ListPopularProducts(ctx context.Context) ([]entity.Document, error) {
	return u.find(ctx, entity.CollectionProducts, entity.Filter{entity.FieldRatings: popularRating})
}

// ListFlashSaleProducts returns products whose flashSale field is the string "true".
func (u *CatalogUsecase) ListFlashSaleProducts(ctx context.Context) ([]entity.Document, error) {
	return u.find(ctx, entity.CollectionProducts, entity.Filter{entity.FieldFlashSale: flashSaleValue})
}

// GetProductByID looks a product up by its logical productId, not the store's _id.
func (u *CatalogUsecase) GetProductByID(ctx context.Context, productID string) (entity.Document, error) {
	doc, err := u.repo.FindOne(ctx, entity.CollectionProducts, entity.Filter{entity.FieldProductID: productID})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return doc, nil
}

func (u *CatalogUsecase) insert(ctx context.Context, collection string, doc entity.Document) error {
	if doc == nil {
		doc = entity.Document{}
	}
	if err := u.repo.Insert(ctx, collection, doc); err != nil {
		return fmt.Errorf("%w: insert into %s: %w", ErrStorageUnavailable, collection, err)
	}
	return nil
}

func (u *CatalogUsecase) find(ctx context.Context, collection string, filter entity.Filter) ([]entity.Document, error) {
	docs, err := u.repo.Find(ctx, collection, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: find in %s: %w", ErrStorageUnavailable, collection, err)
	}
	if docs == nil {
		docs = []entity.Document{}
	}
	return docs, nil
}
