package marketplace

import (
	"context"
	"testing"

	"github.com/example/agbado/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryIDs(categories []models.ServiceCategory) []string {
	ids := make([]string, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestSearch_KenteFindsOnlyTheCloth(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Search(context.Background(), "kente", ScopeAll)
	require.NoError(t, err)

	require.Len(t, res.Products, 1)
	assert.Equal(t, "Handwoven Kente Cloth", res.Products[0].Name)
	assert.Empty(t, res.Services)
	assert.Empty(t, res.Providers)
}

func TestSearch_MatchesAcrossKinds(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Search(context.Background(), "REPAIR", ScopeAll)
	require.NoError(t, err)

	assert.Equal(t, []string{"cat2"}, categoryIDs(res.Services))
	assert.Equal(t, []string{"prov3"}, providerIDs(res.Providers))
	assert.Empty(t, res.Products)
}

func TestSearch_ProductCategoryIsSubstringMatched(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Search(context.Background(), "decor", ScopeProducts)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"prod5", "prod8"}, productIDs(res.Products))
}

func TestSearch_ScopeLimitsKinds(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Search(context.Background(), "repair", ScopeServices)
	require.NoError(t, err)

	assert.Len(t, res.Services, 1)
	assert.NotNil(t, res.Providers)
	assert.Empty(t, res.Providers)
	assert.NotNil(t, res.Products)
	assert.Empty(t, res.Products)
}

func TestSearch_EmptyScopeMeansAll(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Search(context.Background(), "hair", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"prov2"}, providerIDs(res.Providers))
}

func TestSearch_NoMinimumLengthInCore(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Search(context.Background(), "a", ScopeProviders)
	require.NoError(t, err)
	assert.Len(t, res.Providers, 3)
}

func TestSearch_EmptyQueryIsValidationError(t *testing.T) {
	svc, _ := newTestService(t)

	for _, q := range []string{"", "   "} {
		_, err := svc.Search(context.Background(), q, ScopeAll)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "required", ve.Fields["q"])
	}
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		in      string
		want    Scope
		wantErr bool
	}{
		{"", ScopeAll, false},
		{"all", ScopeAll, false},
		{"Products", ScopeProducts, false},
		{"services", ScopeServices, false},
		{"providers", ScopeProviders, false},
		{"sellers", "", true},
	}
	for _, tt := range tests {
		got, err := ParseScope(tt.in)
		if tt.wantErr {
			assert.True(t, IsValidation(err), tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
