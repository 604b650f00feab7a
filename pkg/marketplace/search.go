package marketplace

import (
	"context"
	"strings"

	"github.com/example/agbado/pkg/models"
)

// Scope selects the entity kinds a search inspects.
type Scope string

const (
	ScopeAll       Scope = "all"
	ScopeServices  Scope = "services"
	ScopeProducts  Scope = "products"
	ScopeProviders Scope = "providers"
)

// ParseScope maps a request value to a Scope. The empty string means all.
func ParseScope(v string) (Scope, error) {
	switch sc := Scope(strings.ToLower(strings.TrimSpace(v))); sc {
	case "":
		return ScopeAll, nil
	case ScopeAll, ScopeServices, ScopeProducts, ScopeProviders:
		return sc, nil
	}
	return "", invalid("type", "oneof=services|products|providers|all")
}

func (sc Scope) includes(kind Scope) bool {
	return sc == ScopeAll || sc == kind
}

// SearchResult always carries all three lists. A kind outside the scope
// yields an empty list.
type SearchResult struct {
	Services  []models.ServiceCategory `json:"services"`
	Products  []models.Product         `json:"products"`
	Providers []models.Provider        `json:"providers"`
}

// Search matches query case-insensitively as a substring of:
// category name and description; product name, description and category;
// provider business name, specialty and description.
func (s *Service) Search(ctx context.Context, query string, scope Scope) (*SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, invalid("q", "required")
	}
	if scope == "" {
		scope = ScopeAll
	}

	res := &SearchResult{
		Services:  []models.ServiceCategory{},
		Products:  []models.Product{},
		Providers: []models.Provider{},
	}

	if scope.includes(ScopeServices) {
		categories, err := s.ListServiceCategories(ctx)
		if err != nil {
			return nil, err
		}
		res.Services = filter(categories, func(c models.ServiceCategory) bool {
			return matchAny(query, c.Name, c.Description)
		})
	}

	if scope.includes(ScopeProducts) {
		products, err := s.ListProducts(ctx, ProductFilter{})
		if err != nil {
			return nil, err
		}
		res.Products = filter(products, func(p models.Product) bool {
			return matchAny(query, p.Name, p.Description, p.Category)
		})
	}

	if scope.includes(ScopeProviders) {
		providers, err := s.ListProviders(ctx, ProviderFilter{})
		if err != nil {
			return nil, err
		}
		res.Providers = filter(providers, func(p models.Provider) bool {
			return matchAny(query, p.BusinessName, p.Specialty, p.Description)
		})
	}

	return res, nil
}

func matchAny(query string, fields ...string) bool {
	for _, f := range fields {
		if containsFold(f, query) {
			return true
		}
	}
	return false
}
