package usecase_test

import (
	"context"
	"errors"
	"testing"

	"gadget_backend/internal/feature/catalog/domain/entity"
	"gadget_backend/internal/feature/catalog/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCatalogRepository はCatalogRepositoryインターフェースのモック実装です。
type mockCatalogRepository struct {
	InsertFunc  func(ctx context.Context, collection string, doc entity.Document) error
	FindFunc    func(ctx context.Context, collection string, filter entity.Filter) ([]entity.Document, error)
	FindOneFunc func(ctx context.Context, collection string, filter entity.Filter) (entity.Document, error)
}

func (m *mockCatalogRepository) Insert(ctx context.Context, collection string, doc entity.Document) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, collection, doc)
	}
	return nil
}

func (m *mockCatalogRepository) Find(ctx context.Context, collection string, filter entity.Filter) ([]entity.Document, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, collection, filter)
	}
	return nil, nil
}

func (m *mockCatalogRepository) FindOne(ctx context.Context, collection string, filter entity.Filter) (entity.Document, error) {
	if m.FindOneFunc != nil {
		return m.FindOneFunc(ctx, collection, filter)
	}
	return nil, usecase.ErrNotFound
}

func TestNewCatalogUsecase(t *testing.T) {
	t.Parallel()

	uc := usecase.NewCatalogUsecase(&mockCatalogRepository{})

	assert.NotNil(t, uc, "usecase should not be nil")
}

func TestCatalogUsecase_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		call               func(uc *usecase.CatalogUsecase, ctx context.Context, doc entity.Document) error
		expectedCollection string
	}{
		{"product", (*usecase.CatalogUsecase).CreateProduct, entity.CollectionProducts},
		{"brand", (*usecase.CatalogUsecase).CreateBrand, entity.CollectionBrands},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := entity.Document{"name": "Pixel Buds", "nested": map[string]any{"a": 1.0}}
			var gotCollection string
			var gotDoc entity.Document
			repo := &mockCatalogRepository{
				InsertFunc: func(ctx context.Context, collection string, d entity.Document) error {
					gotCollection, gotDoc = collection, d
					return nil
				},
			}

			err := tt.call(usecase.NewCatalogUsecase(repo), context.Background(), doc)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedCollection, gotCollection)
			assert.Equal(t, doc, gotDoc, "document must be stored unchanged")
		})
	}
}

func TestCatalogUsecase_Create_StorageFailure(t *testing.T) {
	t.Parallel()

	cause := errors.New("no reachable servers")
	repo := &mockCatalogRepository{
		InsertFunc: func(ctx context.Context, collection string, doc entity.Document) error { return cause },
	}

	err := usecase.NewCatalogUsecase(repo).CreateBrand(context.Background(), entity.Document{"name": "Acme"})

	assert.ErrorIs(t, err, usecase.ErrStorageUnavailable)
	assert.ErrorIs(t, err, cause)
}

// TestCatalogUsecase_Lists はList系メソッドが正しいコレクションとフィルタで検索することを検証します。
func TestCatalogUsecase_Lists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		call               func(uc *usecase.CatalogUsecase, ctx context.Context) ([]entity.Document, error)
		expectedCollection string
		expectedFilter     entity.Filter
	}{
		{"products", (*usecase.CatalogUsecase).ListProducts, entity.CollectionProducts, nil},
		{"brands", (*usecase.CatalogUsecase).ListBrands, entity.CollectionBrands, nil},
		{"popular", (*usecase.CatalogUsecase).ListPopularProducts, entity.CollectionProducts, entity.Filter{"ratings": "5"}},
		{"flash sale", (*usecase.CatalogUsecase).ListFlashSaleProducts, entity.CollectionProducts, entity.Filter{"flashSale": "true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			want := []entity.Document{{"productId": "p1"}}
			repo := &mockCatalogRepository{
				FindFunc: func(ctx context.Context, collection string, filter entity.Filter) ([]entity.Document, error) {
					assert.Equal(t, tt.expectedCollection, collection)
					assert.Equal(t, tt.expectedFilter, filter)
					return want, nil
				},
			}

			got, err := tt.call(usecase.NewCatalogUsecase(repo), context.Background())

			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestCatalogUsecase_Lists_EmptyIsNotNil(t *testing.T) {
	t.Parallel()

	got, err := usecase.NewCatalogUsecase(&mockCatalogRepository{}).ListProducts(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCatalogUsecase_Lists_StorageFailure(t *testing.T) {
	t.Parallel()

	repo := &mockCatalogRepository{
		FindFunc: func(ctx context.Context, collection string, filter entity.Filter) ([]entity.Document, error) {
			return nil, errors.New("socket closed")
		},
	}

	got, err := usecase.NewCatalogUsecase(repo).ListFlashSaleProducts(context.Background())

	assert.Nil(t, got)
	assert.ErrorIs(t, err, usecase.ErrStorageUnavailable)
}

func TestCatalogUsecase_GetProductByID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		findOne     func(ctx context.Context, collection string, filter entity.Filter) (entity.Document, error)
		expectedDoc entity.Document
		expectedErr error
	}{
		{
			name: "success: found by productId",
			findOne: func(ctx context.Context, collection string, filter entity.Filter) (entity.Document, error) {
				if collection != entity.CollectionProducts || filter["productId"] != "p1" || len(filter) != 1 {
					return nil, errors.New("unexpected query")
				}
				return entity.Document{"productId": "p1", "ratings": "5"}, nil
			},
			expectedDoc: entity.Document{"productId": "p1", "ratings": "5"},
		},
		{
			name: "failure: not found",
			findOne: func(ctx context.Context, collection string, filter entity.Filter) (entity.Document, error) {
				return nil, usecase.ErrNotFound
			},
			expectedErr: usecase.ErrNotFound,
		},
		{
			name: "failure: storage error",
			findOne: func(ctx context.Context, collection string, filter entity.Filter) (entity.Document, error) {
				return nil, errors.New("timeout")
			},
			expectedErr: usecase.ErrStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := usecase.NewCatalogUsecase(&mockCatalogRepository{FindOneFunc: tt.findOne})

			doc, err := uc.GetProductByID(context.Background(), "p1")

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, doc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedDoc, doc)
		})
	}
}
