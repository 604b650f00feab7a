package grpc

import (
	"context"

	"github.com/example/agbado/pkg/marketplace"
	"github.com/example/agbado/pkg/models"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

func invoke(ctx context.Context, conn grpc.ClientConnInterface, service, method string, req any, dest any) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := conn.Invoke(ctx, "/"+service+"/"+method, in, out); err != nil {
		return fromStatus(err)
	}
	return fromStruct(out, dest)
}

// OrderClient calls a remote agbado.OrderService with the same method set
// as the local marketplace.Service.
type OrderClient struct {
	conn grpc.ClientConnInterface
}

func NewOrderClient(conn grpc.ClientConnInterface) *OrderClient {
	return &OrderClient{conn: conn}
}

func (c *OrderClient) PlaceOrder(ctx context.Context, in marketplace.PlaceOrderInput) (*models.Order, error) {
	var order models.Order
	if err := invoke(ctx, c.conn, orderServiceName, "CreateOrder", in, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *OrderClient) GetOrder(ctx context.Context, id string) (*marketplace.OrderDetail, error) {
	var order marketplace.OrderDetail
	if err := invoke(ctx, c.conn, orderServiceName, "GetOrder", idRequest{ID: id}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *OrderClient) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	var out struct {
		Orders []models.Order `json:"orders"`
	}
	if err := invoke(ctx, c.conn, orderServiceName, "ListOrders", userRequest{UserID: userID}, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (c *OrderClient) CreateBooking(ctx context.Context, in marketplace.BookingInput) (*models.Booking, error) {
	var booking models.Booking
	if err := invoke(ctx, c.conn, orderServiceName, "CreateBooking", in, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *OrderClient) ListBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	var out struct {
		Bookings []models.Booking `json:"bookings"`
	}
	if err := invoke(ctx, c.conn, orderServiceName, "ListBookings", userRequest{UserID: userID}, &out); err != nil {
		return nil, err
	}
	return out.Bookings, nil
}

// CatalogClient calls a remote agbado.CatalogService.
type CatalogClient struct {
	conn grpc.ClientConnInterface
}

func NewCatalogClient(conn grpc.ClientConnInterface) *CatalogClient {
	return &CatalogClient{conn: conn}
}

func (c *CatalogClient) ListServiceCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	var out struct {
		Categories []models.ServiceCategory `json:"categories"`
	}
	if err := invoke(ctx, c.conn, catalogServiceName, "ListServiceCategories", struct{}{}, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

func (c *CatalogClient) ListProducts(ctx context.Context, f marketplace.ProductFilter) ([]models.Product, error) {
	var out struct {
		Products []models.Product `json:"products"`
	}
	if err := invoke(ctx, c.conn, catalogServiceName, "ListProducts", f, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

func (c *CatalogClient) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := invoke(ctx, c.conn, catalogServiceName, "GetProduct", idRequest{ID: id}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *CatalogClient) ListProviders(ctx context.Context, f marketplace.ProviderFilter) ([]models.Provider, error) {
	var out struct {
		Providers []models.Provider `json:"providers"`
	}
	if err := invoke(ctx, c.conn, catalogServiceName, "ListProviders", f, &out); err != nil {
		return nil, err
	}
	return out.Providers, nil
}

func (c *CatalogClient) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	var provider models.Provider
	if err := invoke(ctx, c.conn, catalogServiceName, "GetProvider", idRequest{ID: id}, &provider); err != nil {
		return nil, err
	}
	return &provider, nil
}

func (c *CatalogClient) Search(ctx context.Context, query string, scope marketplace.Scope) (*marketplace.SearchResult, error) {
	var result marketplace.SearchResult
	req := searchRequest{Query: query, Type: string(scope)}
	if err := invoke(ctx, c.conn, catalogServiceName, "Search", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
