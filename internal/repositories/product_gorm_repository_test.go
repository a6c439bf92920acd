package repositories_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"magazzino/internal/filters"
	"magazzino/internal/models"
	"magazzino/internal/repositories"
)

func setupRepo(t *testing.T) *repositories.GORMProductRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))
	return repositories.NewGORMProductRepository(db)
}

func mustPrice(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func seedCatalog(t *testing.T, repo *repositories.GORMProductRepository) {
	t.Helper()
	products := []models.Product{
		{Name: "Widget", PriceEUR: mustPrice(t, "9.99"), Stock: 3},
		{Name: "Super WIDGET", PriceEUR: mustPrice(t, "19.99"), Stock: 0},
		{Name: "Gadget", PriceEUR: mustPrice(t, "5.00"), Stock: 10},
		{Name: "Doohickey", PriceEUR: mustPrice(t, "20.00"), Stock: 1},
		{Name: "Gizmo", PriceEUR: mustPrice(t, "50.00"), Stock: 0},
	}
	for i := range products {
		require.NoError(t, repo.Create(&products[i]))
	}
}

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	repo := setupRepo(t)

	product := &models.Product{Name: "Widget", PriceEUR: mustPrice(t, "9.99"), Stock: 3}
	require.NoError(t, repo.Create(product))
	require.NotZero(t, product.ID)

	got, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)
	assert.True(t, got.PriceEUR.Equal(mustPrice(t, "9.99")))
	assert.Equal(t, 3, got.Stock)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetByIDNotFound(t *testing.T) {
	repo := setupRepo(t)
	_, err := repo.GetByID(42)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	repo := setupRepo(t)

	product := &models.Product{Name: "Widget", PriceEUR: mustPrice(t, "9.99"), Stock: 3}
	require.NoError(t, repo.Create(product))
	created := product.CreatedAt

	time.Sleep(10 * time.Millisecond)
	product.Stock = 5
	require.NoError(t, repo.Update(product))

	got, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
	assert.WithinDuration(t, created, got.CreatedAt, time.Second)
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := setupRepo(t)

	product := &models.Product{Name: "Widget", PriceEUR: mustPrice(t, "9.99")}
	require.NoError(t, repo.Create(product))

	removed, err := repo.Delete(product.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = repo.GetByID(product.ID)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	removed, err = repo.Delete(product.ID)
	require.NoError(t, err)
	assert.False(t, removed, "second delete removes nothing but is not an error")
}

func TestListNameMatchIsCaseInsensitive(t *testing.T) {
	repo := setupRepo(t)
	seedCatalog(t, repo)

	products, total, err := repo.List(filters.Spec{Query: "wid"}, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.ElementsMatch(t, []string{"Widget", "Super WIDGET"}, names(products))
}

func TestListPriceBoundsAreInclusive(t *testing.T) {
	repo := setupRepo(t)
	seedCatalog(t, repo)

	min := mustPrice(t, "9.99")
	max := mustPrice(t, "20.00")
	products, total, err := repo.List(filters.Spec{MinPrice: &min, MaxPrice: &max}, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.ElementsMatch(t, []string{"Widget", "Super WIDGET", "Doohickey"}, names(products))
}

func TestListInStockOnly(t *testing.T) {
	repo := setupRepo(t)
	seedCatalog(t, repo)

	products, total, err := repo.List(filters.Spec{InStock: true}, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	for _, p := range products {
		assert.Greater(t, p.Stock, 0)
	}
}

func TestListCombinesPredicates(t *testing.T) {
	repo := setupRepo(t)
	seedCatalog(t, repo)

	min := mustPrice(t, "6.00")
	products, total, err := repo.List(filters.Spec{Query: "widget", MinPrice: &min, InStock: true}, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"Widget"}, names(products))
}

func TestListOrdersNewestFirst(t *testing.T) {
	repo := setupRepo(t)
	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(&models.Product{Name: name, PriceEUR: mustPrice(t, "1.00")}))
	}

	products, _, err := repo.List(filters.Spec{}, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, names(products))
}

func TestListSliceAndTotalAreIndependent(t *testing.T) {
	repo := setupRepo(t)
	seedCatalog(t, repo)

	products, total, err := repo.List(filters.Spec{}, 0, 2)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, int64(5), total)

	products, total, err = repo.List(filters.Spec{}, 4, 2)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, int64(5), total)
}

func TestCountMatchesListTotal(t *testing.T) {
	repo := setupRepo(t)
	seedCatalog(t, repo)

	total, err := repo.Count(filters.Spec{Query: "g"})
	require.NoError(t, err)

	_, listTotal, err := repo.List(filters.Spec{Query: "g"}, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, listTotal, total)
}
