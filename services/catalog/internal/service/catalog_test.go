package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/fashion_shop/pkg/cache"
	"github.com/Skotchmaster/fashion_shop/pkg/db/dbtest"
	"github.com/Skotchmaster/fashion_shop/pkg/events"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/repo"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/transport"
)

type fakeUploader struct {
	names []string
	types []string
}

func (f *fakeUploader) Upload(_ context.Context, name, contentType string, r io.Reader, _ int64) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.names = append(f.names, name)
	f.types = append(f.types, contentType)
	return "http://cdn.test/products/" + name, nil
}

func newTestService(t *testing.T) (*CatalogService, *events.Recorder) {
	t.Helper()
	rec := &events.Recorder{}
	return &CatalogService{
		Repo:    &repo.GormRepo{DB: dbtest.Open(t, models.All()...)},
		Cache:   cache.NewMemory(),
		Events:  rec,
		Storage: &fakeUploader{},
	}, rec
}

func mustCreate(t *testing.T, s *CatalogService, req transport.CreateProductRequest) *models.Product {
	t.Helper()
	if req.Title == "" {
		req.Title = "Linen dress"
	}
	if req.Price == 0 {
		req.Price = 4999
	}
	p, err := s.CreateProduct(context.Background(), req)
	require.NoError(t, err)
	return p
}

func TestCreateProduct_Validation(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)

	tests := []struct {
		name string
		req  transport.CreateProductRequest
	}{
		{name: "blank title", req: transport.CreateProductRequest{Title: "  ", Price: 100}},
		{name: "zero price", req: transport.CreateProductRequest{Title: "a", Price: 0}},
		{name: "sale equals price", req: transport.CreateProductRequest{Title: "a", Price: 100, SalePrice: 100}},
		{name: "negative sale", req: transport.CreateProductRequest{Title: "a", Price: 100, SalePrice: -1}},
		{name: "negative stock", req: transport.CreateProductRequest{Title: "a", Price: 100, TotalStock: -3}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateProduct(context.Background(), tt.req)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateProduct_PersistsAndEmits(t *testing.T) {
	t.Parallel()
	s, rec := newTestService(t)

	p := mustCreate(t, s, transport.CreateProductRequest{
		Title:      "Silk blouse",
		Category:   "women",
		Brand:      "zara",
		Price:      5900,
		SalePrice:  4900,
		TotalStock: 7,
		Sizes:      []string{"S", "M"},
		Colors:     []string{"ivory"},
	})

	got, err := s.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Silk blouse", got.Title)
	assert.Equal(t, []string{"S", "M"}, []string(got.Sizes))
	assert.EqualValues(t, 4900, got.SalePrice)

	last, ok := rec.Last(events.TopicProducts)
	require.True(t, ok)
	assert.Equal(t, "product_created", last.Event["type"])
	assert.Equal(t, p.ID.String(), last.Event["productID"])
	assert.NotNil(t, last.Event["product"])
}

func TestListProducts_FilterSortPaginate(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()

	mustCreate(t, s, transport.CreateProductRequest{Title: "B dress", Category: "women", Brand: "zara", Price: 3000})
	mustCreate(t, s, transport.CreateProductRequest{Title: "A shirt", Category: "men", Brand: "h&m", Price: 1000})
	mustCreate(t, s, transport.CreateProductRequest{Title: "C skirt", Category: "women", Brand: "h&m", Price: 2000})
	mustCreate(t, s, transport.CreateProductRequest{Title: "D bag", Category: "accessories", Brand: "levi", Price: 4000})

	res, err := s.ListProducts(ctx, repo.ProductFilter{}, 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Data, 4)
	assert.EqualValues(t, 1000, res.Data[0].Price)
	assert.EqualValues(t, 4000, res.Data[3].Price)

	res, err = s.ListProducts(ctx, repo.ProductFilter{Categories: []string{"women"}, SortBy: repo.SortPriceHighToLow}, 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "B dress", res.Data[0].Title)

	res, err = s.ListProducts(ctx, repo.ProductFilter{Brands: []string{"h&m", "levi"}, SortBy: repo.SortTitleZToA}, 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Data, 3)
	assert.Equal(t, "D bag", res.Data[0].Title)

	res, err = s.ListProducts(ctx, repo.ProductFilter{SortBy: repo.SortTitleAToZ}, 2, 3)
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "D bag", res.Data[0].Title)
	assert.EqualValues(t, 4, res.Meta.Total)
	assert.False(t, res.Meta.HasNext)
}

func TestGetProduct_CachedUntilWrite(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, s, transport.CreateProductRequest{Title: "Coat", Price: 9000})

	_, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)

	// a write behind the service's back is not visible while cached
	require.NoError(t, s.Repo.DB.Model(&models.Product{}).Where("id = ?", p.ID).Update("title", "Raw").Error)
	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Coat", got.Title)

	title := "Wool coat"
	_, err = s.PatchProduct(ctx, p.ID, transport.PatchProductRequest{Title: &title})
	require.NoError(t, err)
	got, err = s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wool coat", got.Title)

	_, err = s.GetProduct(ctx, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPatchProduct_ValidatesMergedProduct(t *testing.T) {
	t.Parallel()
	s, rec := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, s, transport.CreateProductRequest{Title: "Coat", Price: 9000, SalePrice: 5000})

	price := int64(4000)
	_, err := s.PatchProduct(ctx, p.ID, transport.PatchProductRequest{Price: &price})
	require.ErrorIs(t, err, ErrValidation)

	sale := int64(0)
	got, err := s.PatchProduct(ctx, p.ID, transport.PatchProductRequest{Price: &price, SalePrice: &sale})
	require.NoError(t, err)
	assert.EqualValues(t, 4000, got.Price)
	assert.Equal(t, []string{"product_created", "product_updated"}, rec.Types(events.TopicProducts))

	_, err = s.PatchProduct(ctx, uuid.New(), transport.PatchProductRequest{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPatchProduct_KeepsConcurrentStockAndRatings(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, s, transport.CreateProductRequest{Title: "Coat", Price: 9000, TotalStock: 10})

	_, err := s.AdjustStock(ctx, p.ID, -3)
	require.NoError(t, err)
	require.NoError(t, s.Repo.DB.Model(&models.Product{}).Where("id = ?", p.ID).
		Updates(map[string]any{"average_review": 4.5, "review_count": 2}).Error)

	title := "Wool coat"
	got, err := s.PatchProduct(ctx, p.ID, transport.PatchProductRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Wool coat", got.Title)
	assert.Equal(t, 7, got.TotalStock)
	assert.InDelta(t, 4.5, got.AverageReview, 0.001)
	assert.Equal(t, 2, got.ReviewCount)

	// only the reported columns reach the row even if the in-memory copy drifted
	_, err = s.Repo.UpdateProduct(ctx, p.ID, func(prod *models.Product) ([]string, error) {
		prod.Brand = "Loro"
		prod.TotalStock = 999
		return []string{"brand"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, stockOf(t, s, p.ID))
}

func TestDeleteProduct(t *testing.T) {
	t.Parallel()
	s, rec := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, s, transport.CreateProductRequest{})

	require.NoError(t, s.DeleteProduct(ctx, p.ID))
	require.ErrorIs(t, s.DeleteProduct(ctx, p.ID), ErrNotFound)

	_, err := s.GetProduct(ctx, p.ID)
	require.ErrorIs(t, err, ErrNotFound)

	last, _ := rec.Last(events.TopicProducts)
	assert.Equal(t, "product_deleted", last.Event["type"])
}

func TestAdjustStock(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, s, transport.CreateProductRequest{TotalStock: 3})

	got, err := s.AdjustStock(ctx, p.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 7, got.TotalStock)

	got, err = s.AdjustStock(ctx, p.ID, -7)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalStock)

	_, err = s.AdjustStock(ctx, p.ID, -1)
	require.ErrorIs(t, err, ErrConflict)

	_, err = s.AdjustStock(ctx, p.ID, 0)
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.AdjustStock(ctx, uuid.New(), 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLowStock(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()
	mustCreate(t, s, transport.CreateProductRequest{Title: "plenty", TotalStock: 50})
	mustCreate(t, s, transport.CreateProductRequest{Title: "few", TotalStock: 4})
	mustCreate(t, s, transport.CreateProductRequest{Title: "none", TotalStock: 0})

	items, err := s.LowStock(ctx, DefaultLowStockThreshold)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "none", items[0].Title)
	assert.Equal(t, "few", items[1].Title)

	_, err = s.LowStock(ctx, -1)
	require.ErrorIs(t, err, ErrValidation)
}

func TestUploadImage(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	url, err := s.UploadImage(ctx, bytes.NewReader(png))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://cdn.test/products/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	up := s.Storage.(*fakeUploader)
	assert.Equal(t, []string{"image/png"}, up.types)

	_, err = s.UploadImage(ctx, strings.NewReader("just some text"))
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.UploadImage(ctx, bytes.NewReader(nil))
	require.ErrorIs(t, err, ErrValidation)

	tooBig := append(append([]byte{}, png...), make([]byte, MaxImageSize)...)
	_, err = s.UploadImage(ctx, bytes.NewReader(tooBig))
	require.ErrorIs(t, err, ErrValidation)

	s.Storage = nil
	_, err = s.UploadImage(ctx, bytes.NewReader(png))
	require.ErrorIs(t, err, ErrStorageDisabled)
}
