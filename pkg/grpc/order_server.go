package grpc

import (
	"context"

	"github.com/example/agbado/pkg/marketplace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const orderServiceName = "agbado.OrderService"

// OrderService is the server contract of agbado.OrderService.
type OrderService interface {
	CreateOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListOrders(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateBooking(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListBookings(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var OrderServiceDesc = grpc.ServiceDesc{
	ServiceName: orderServiceName,
	HandlerType: (*OrderService)(nil),
	Methods: []grpc.MethodDesc{
		structHandler(orderServiceName, "CreateOrder", OrderService.CreateOrder),
		structHandler(orderServiceName, "GetOrder", OrderService.GetOrder),
		structHandler(orderServiceName, "ListOrders", OrderService.ListOrders),
		structHandler(orderServiceName, "CreateBooking", OrderService.CreateBooking),
		structHandler(orderServiceName, "ListBookings", OrderService.ListBookings),
	},
	Streams: []grpc.StreamDesc{},
}

type OrderServer struct {
	svc    *marketplace.Service
	logger *zap.Logger
}

func NewOrderServer(svc *marketplace.Service, logger *zap.Logger) *OrderServer {
	return &OrderServer{svc: svc, logger: logger.Named("order-server")}
}

type userRequest struct {
	UserID string `json:"userId"`
}

type idRequest struct {
	ID string `json:"id"`
}

func (s *OrderServer) CreateOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in marketplace.PlaceOrderInput
	if err := fromStruct(req, &in); err != nil {
		return nil, badRequest(err)
	}

	order, err := s.svc.PlaceOrder(ctx, in)
	if err != nil {
		s.logger.Warn("Failed to create order", zap.String("user_id", in.UserID), zap.Error(err))
		return nil, toStatus(err)
	}
	return toStruct(order)
}

func (s *OrderServer) GetOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in idRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, badRequest(err)
	}

	order, err := s.svc.GetOrder(ctx, in.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(order)
}

func (s *OrderServer) ListOrders(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in userRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, badRequest(err)
	}

	orders, err := s.svc.ListOrders(ctx, in.UserID)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply("orders", orders)
}

func (s *OrderServer) CreateBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in marketplace.BookingInput
	if err := fromStruct(req, &in); err != nil {
		return nil, badRequest(err)
	}

	booking, err := s.svc.CreateBooking(ctx, in)
	if err != nil {
		s.logger.Warn("Failed to create booking", zap.String("user_id", in.UserID), zap.Error(err))
		return nil, toStatus(err)
	}
	return toStruct(booking)
}

func (s *OrderServer) ListBookings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in userRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, badRequest(err)
	}

	bookings, err := s.svc.ListBookings(ctx, in.UserID)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply("bookings", bookings)
}
