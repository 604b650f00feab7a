package marketplace

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/agbado/pkg/models"
	"github.com/shopspring/decimal"
)

var maxRating = decimal.NewFromInt(5)

// ProviderFilter narrows ListProviders. Category is matched against the
// provider specialty.
type ProviderFilter struct {
	Category string `json:"category,omitempty"`
}

// ProductFilter narrows ListProducts. Featured takes precedence over
// Category.
type ProductFilter struct {
	Category string `json:"category,omitempty"`
	Featured bool   `json:"featured,omitempty"`
}

func (s *Service) ListServiceCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	categories, err := s.store.ListServiceCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list service categories: %w", err)
	}
	return categories, nil
}

func (s *Service) ListProviders(ctx context.Context, filter ProviderFilter) ([]models.Provider, error) {
	if filter.Category != "" {
		return s.ProvidersBySpecialty(ctx, filter.Category)
	}
	providers, err := s.store.ListProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	return providers, nil
}

func (s *Service) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	p, err := s.store.GetProvider(ctx, id)
	return lookup(p, err, "provider", id)
}

// ProvidersBySpecialty returns providers whose specialty contains token,
// ignoring case.
func (s *Service) ProvidersBySpecialty(ctx context.Context, token string) ([]models.Provider, error) {
	providers, err := s.store.ListProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	return filter(providers, func(p models.Provider) bool {
		return containsFold(p.Specialty, token)
	}), nil
}

func (s *Service) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	switch {
	case f.Featured:
		return s.FeaturedProducts(ctx)
	case f.Category != "":
		return s.ProductsByCategory(ctx, f.Category)
	}
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	return lookup(p, err, "product", id)
}

// ProductsByCategory matches the whole category name, ignoring case.
// "Craft" does not match "Crafts".
func (s *Service) ProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return filter(products, func(p models.Product) bool {
		return strings.EqualFold(p.Category, category)
	}), nil
}

func (s *Service) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return filter(products, func(p models.Product) bool { return p.Featured }), nil
}

func (s *Service) CreateServiceCategory(ctx context.Context, c models.ServiceCategory) (*models.ServiceCategory, error) {
	c.ID = ""
	if err := validateStruct(c); err != nil {
		return nil, err
	}
	created, err := s.store.CreateServiceCategory(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create service category: %w", err)
	}
	return created, nil
}

func (s *Service) CreateProvider(ctx context.Context, p models.Provider) (*models.Provider, error) {
	p.ID = ""
	if err := validateStruct(p); err != nil {
		return nil, err
	}
	if !p.RateType.Valid() {
		return nil, invalid("rateType", "oneof=per day|per hour|per session|per visit")
	}
	if err := checkRating(p.Rating); err != nil {
		return nil, err
	}
	created, err := s.store.CreateProvider(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	return created, nil
}

func (s *Service) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	p.ID = ""
	if err := validateStruct(p); err != nil {
		return nil, err
	}
	if err := checkRating(p.Rating); err != nil {
		return nil, err
	}
	created, err := s.store.CreateProduct(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

func checkRating(r decimal.Decimal) error {
	if r.IsNegative() || r.GreaterThan(maxRating) {
		return invalid("rating", "range=0.0-5.0")
	}
	return nil
}

func filter[T any](rows []T, keep func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
