package store

import (
	"context"
	"fmt"

	"github.com/example/agbado/pkg/models"
	"github.com/shopspring/decimal"
)

// Seed loads the launch catalog: six service categories, three providers
// and eight products, each with a fixed id. Seeding an already seeded
// store is skipped.
func Seed(ctx context.Context, s Storage) error {
	existing, err := s.ListServiceCategories(ctx)
	if err != nil {
		return fmt.Errorf("check seed state: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, c := range seedCategories() {
		if _, err := s.CreateServiceCategory(ctx, c); err != nil {
			return fmt.Errorf("seed category %s: %w", c.ID, err)
		}
	}
	for _, p := range seedProviders() {
		if _, err := s.CreateProvider(ctx, p); err != nil {
			return fmt.Errorf("seed provider %s: %w", p.ID, err)
		}
	}
	for _, p := range seedProducts() {
		if _, err := s.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}
	return nil
}

func unsplash(photo string, w, h int) string {
	return fmt.Sprintf("https://images.unsplash.com/%s?ixlib=rb-4.0.3&auto=format&fit=crop&w=%d&h=%d", photo, w, h)
}

func seedCategories() []models.ServiceCategory {
	return []models.ServiceCategory{
		{ID: "cat1", Name: "Home Cleaning", Description: "Professional home cleaning services", Icon: "fas fa-home", Color: "blue", StartingPrice: 5000},
		{ID: "cat2", Name: "Repairs", Description: "Home and appliance repair services", Icon: "fas fa-tools", Color: "green", StartingPrice: 3000},
		{ID: "cat3", Name: "Beauty", Description: "Beauty and personal care services", Icon: "fas fa-cut", Color: "pink", StartingPrice: 2500},
		{ID: "cat4", Name: "Painting", Description: "Interior and exterior painting", Icon: "fas fa-paint-brush", Color: "purple", StartingPrice: 8000},
		{ID: "cat5", Name: "Catering", Description: "Food and catering services", Icon: "fas fa-utensils", Color: "orange", StartingPrice: 15000},
		{ID: "cat6", Name: "Delivery", Description: "Package and food delivery", Icon: "fas fa-truck", Color: "teal", StartingPrice: 1500},
	}
}

func seedProviders() []models.Provider {
	return []models.Provider{
		{
			ID:           "prov1",
			UserID:       "user1",
			BusinessName: "Adebayo Carpentry",
			Specialty:    "Master Carpenter",
			Description:  "Expert in custom furniture, cabinet installation, and home woodwork. 15+ years of experience.",
			Experience:   15,
			Rate:         8000,
			RateType:     models.RatePerDay,
			Rating:       decimal.RequireFromString("4.9"),
			ReviewCount:  127,
			ProfileImage: unsplash("photo-1472099645785-5658abf4ff4e", 100, 100),
			WorkImages:   []string{unsplash("photo-1507003211169-0a1dd7228f2d", 400, 250)},
			ServiceAreas: []string{"Lagos", "Abuja"},
			Verified:     true,
		},
		{
			ID:           "prov2",
			UserID:       "user2",
			BusinessName: "Fatima Hair Studio",
			Specialty:    "Professional Stylist",
			Description:  "Specializing in natural hair care, braiding, and modern cuts. Mobile service available.",
			Experience:   8,
			Rate:         5000,
			RateType:     models.RatePerSession,
			Rating:       decimal.RequireFromString("4.8"),
			ReviewCount:  89,
			ProfileImage: unsplash("photo-1494790108755-2616b612b5cc", 100, 100),
			WorkImages:   []string{unsplash("photo-1560472354-b33ff0c44a43", 400, 250)},
			ServiceAreas: []string{"Lagos", "Ibadan"},
			Verified:     true,
		},
		{
			ID:           "prov3",
			UserID:       "user3",
			BusinessName: "Chike Electrical",
			Specialty:    "Licensed Electrician",
			Description:  "Certified electrical work, installations, and emergency repairs. Quick response time.",
			Experience:   12,
			Rate:         6000,
			RateType:     models.RatePerVisit,
			Rating:       decimal.RequireFromString("4.9"),
			ReviewCount:  156,
			ProfileImage: unsplash("photo-1507003211169-0a1dd7228f2d", 100, 100),
			WorkImages:   []string{unsplash("photo-1621905251189-08b45d6a269e", 400, 250)},
			ServiceAreas: []string{"Lagos", "Port Harcourt"},
			Verified:     true,
		},
	}
}

func seedProducts() []models.Product {
	product := func(id, name, desc string, price int, category, photo, rating string, reviews, stock int, seller string, featured bool) models.Product {
		return models.Product{
			ID:          id,
			Name:        name,
			Description: desc,
			Price:       price,
			Category:    category,
			Images:      []string{unsplash(photo, 400, 300)},
			Rating:      decimal.RequireFromString(rating),
			ReviewCount: reviews,
			Stock:       stock,
			SellerID:    seller,
			Featured:    featured,
		}
	}

	return []models.Product{
		product("prod1", "Handwoven Kente Cloth", "Authentic traditional Kente cloth, handwoven by skilled artisans",
			25000, "Crafts", "photo-1544441892-794166f1e3be", "4.7", 23, 15, "user4", true),
		product("prod2", "Bronze Artifacts", "Handcrafted bronze sculptures inspired by ancient Benin art",
			45000, "Crafts", "photo-1513475382585-d06e58bcb0e0", "4.9", 12, 8, "user5", true),
		product("prod3", "Beaded Jewelry Set", "Traditional coral beads necklace and earrings set",
			15000, "Jewelry", "photo-1515562141207-7a88fb7ce338", "4.6", 34, 25, "user6", true),
		product("prod4", "Carved Wooden Mask", "Authentic traditional mask carved from premium hardwood",
			35000, "Crafts", "photo-1578662996442-48f60103fc96", "4.8", 18, 10, "user7", false),
		product("prod5", "Traditional Pottery", "Handcrafted ceramic bowls and decorative pottery",
			12000, "Home Decor", "photo-1578749556568-bc2c40e68b61", "4.5", 28, 20, "user8", false),
		product("prod6", "Ankara Fabric", "Premium quality Ankara fabric in various vibrant patterns",
			8000, "Clothing", "photo-1445205170230-053b83016050", "4.4", 42, 50, "user9", false),
		product("prod7", "Traditional Drum", "Authentic djembe drum handcrafted by master artisans",
			28000, "Music", "photo-1493225457124-a3eb161ffa5f", "4.7", 16, 12, "user10", false),
		product("prod8", "Woven Baskets", "Set of handwoven storage baskets in various sizes",
			18000, "Home Decor", "photo-1557804506-669a67965ba0", "4.6", 31, 18, "user11", false),
	}
}
