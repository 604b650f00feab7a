package grpc

import (
	"context"

	"github.com/example/agbado/pkg/marketplace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const catalogServiceName = "agbado.CatalogService"

// CatalogService is the server contract of agbado.CatalogService.
type CatalogService interface {
	ListServiceCategories(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListProducts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListProviders(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProvider(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Search(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var CatalogServiceDesc = grpc.ServiceDesc{
	ServiceName: catalogServiceName,
	HandlerType: (*CatalogService)(nil),
	Methods: []grpc.MethodDesc{
		structHandler(catalogServiceName, "ListServiceCategories", CatalogService.ListServiceCategories),
		structHandler(catalogServiceName, "ListProducts", CatalogService.ListProducts),
		structHandler(catalogServiceName, "GetProduct", CatalogService.GetProduct),
		structHandler(catalogServiceName, "ListProviders", CatalogService.ListProviders),
		structHandler(catalogServiceName, "GetProvider", CatalogService.GetProvider),
		structHandler(catalogServiceName, "Search", CatalogService.Search),
	},
	Streams: []grpc.StreamDesc{},
}

type CatalogServer struct {
	svc    *marketplace.Service
	logger *zap.Logger
}

func NewCatalogServer(svc *marketplace.Service, logger *zap.Logger) *CatalogServer {
	return &CatalogServer{svc: svc, logger: logger.Named("catalog-server")}
}

type searchRequest struct {
	Query string `json:"q"`
	Type  string `json:"type"`
}

func (s *CatalogServer) ListServiceCategories(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	categories, err := s.svc.ListServiceCategories(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply("categories", categories)
}

func (s *CatalogServer) ListProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var f marketplace.ProductFilter
	if err := fromStruct(req, &f); err != nil {
		return nil, badRequest(err)
	}

	products, err := s.svc.ListProducts(ctx, f)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply("products", products)
}

func (s *CatalogServer) GetProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in idRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, badRequest(err)
	}

	product, err := s.svc.GetProduct(ctx, in.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(product)
}

func (s *CatalogServer) ListProviders(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var f marketplace.ProviderFilter
	if err := fromStruct(req, &f); err != nil {
		return nil, badRequest(err)
	}

	providers, err := s.svc.ListProviders(ctx, f)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply("providers", providers)
}

func (s *CatalogServer) GetProvider(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in idRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, badRequest(err)
	}

	provider, err := s.svc.GetProvider(ctx, in.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(provider)
}

func (s *CatalogServer) Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in searchRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, badRequest(err)
	}

	scope, err := marketplace.ParseScope(in.Type)
	if err != nil {
		return nil, toStatus(err)
	}
	result, err := s.svc.Search(ctx, in.Query, scope)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(result)
}
