package marketplace

import (
	"context"
	"testing"

	"github.com/example/agbado/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListServiceCategories(t *testing.T) {
	svc, _ := newTestService(t)

	categories, err := svc.ListServiceCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 6)
}

func TestProvidersBySpecialty_SubstringIgnoringCase(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		token string
		want  []string
	}{
		{"carpenter", []string{"prov1"}},
		{"ELECTRIC", []string{"prov3"}},
		{"sty", []string{"prov2"}},
		{"l", []string{"prov2", "prov3"}},
		{"plumber", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			providers, err := svc.ListProviders(ctx, ProviderFilter{Category: tt.token})
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, providerIDs(providers))
		})
	}
}

func TestListProviders_NoFilterReturnsAll(t *testing.T) {
	svc, _ := newTestService(t)

	providers, err := svc.ListProviders(context.Background(), ProviderFilter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"prov1", "prov2", "prov3"}, providerIDs(providers))
}

func TestProductsByCategory_ExactMatchIgnoringCase(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	crafts := []string{"prod1", "prod2", "prod4"}
	for _, category := range []string{"Crafts", "crafts", "CRAFTS"} {
		products, err := svc.ProductsByCategory(ctx, category)
		require.NoError(t, err)
		assert.ElementsMatch(t, crafts, productIDs(products), category)
	}

	products, err := svc.ProductsByCategory(ctx, "Craft")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestListProducts_FeaturedWinsOverCategory(t *testing.T) {
	svc, _ := newTestService(t)

	products, err := svc.ListProducts(context.Background(), ProductFilter{Category: "Music", Featured: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"prod1", "prod2", "prod3"}, productIDs(products))
	for _, p := range products {
		assert.True(t, p.Featured)
	}
}

func TestGetProvider_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetProvider(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := svc.GetProvider(context.Background(), "prov2")
	require.NoError(t, err)
	assert.Equal(t, "Fatima Hair Studio", p.BusinessName)
	assert.Equal(t, "4.8", p.Rating.String())
}

func TestGetProduct_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetProduct(context.Background(), "prod99")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateProvider(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	valid := models.Provider{
		ID:           "chosen-by-caller",
		UserID:       "user12",
		BusinessName: "Ngozi Paints",
		Specialty:    "House Painter",
		Description:  "Interior and exterior painting.",
		Experience:   6,
		Rate:         4000,
		RateType:     models.RatePerHour,
		Rating:       decimal.RequireFromString("4.2"),
	}

	created, err := svc.CreateProvider(ctx, valid)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "chosen-by-caller", created.ID)

	painters, err := svc.ProvidersBySpecialty(ctx, "painter")
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, providerIDs(painters))

	t.Run("missing business name", func(t *testing.T) {
		p := valid
		p.BusinessName = ""
		_, err := svc.CreateProvider(ctx, p)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "required", ve.Fields["businessName"])
	})

	t.Run("unknown rate type", func(t *testing.T) {
		p := valid
		p.RateType = "per fortnight"
		_, err := svc.CreateProvider(ctx, p)
		assert.True(t, IsValidation(err))
	})

	t.Run("rating above five", func(t *testing.T) {
		p := valid
		p.Rating = decimal.RequireFromString("5.1")
		_, err := svc.CreateProvider(ctx, p)
		assert.True(t, IsValidation(err))
	})
}

func TestCreateProduct_NegativeStockRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateProduct(context.Background(), models.Product{
		Name:        "Talking Drum",
		Description: "Hourglass drum",
		Price:       9000,
		Category:    "Music",
		Stock:       -1,
		SellerID:    "user4",
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "stock")
}

func TestCreateServiceCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateServiceCategory(ctx, models.ServiceCategory{
		Name: "Tailoring", Description: "Custom clothing", Icon: "fas fa-cut", Color: "red", StartingPrice: 4000,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	categories, err := svc.ListServiceCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 7)
}
