package persistence

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/json-persistence/internal/codec"
	domain "github.com/oshokin/json-persistence/internal/domain/item"
	repo "github.com/oshokin/json-persistence/internal/repository/item"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	Name() string
	StoreAlias(ctx context.Context, name, alias string, state domain.State) (domain.Record, error)
	Query(ctx context.Context, filter domain.FilterCriteria) ([]domain.HistoricItem, error)
}

// Server implements PersistenceServer on top of a Service.
type Server struct {
	// service provides the persistence operations.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// Store parses the requested state and persists it.
// The write is best effort on the service side; here its failure is still
// reported as Unavailable so remote callers can observe it.
func (s *Server) Store(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx = withActorFields(ctx)

	name, ok := stringField(req, fieldItem)
	if !ok || name == "" {
		return nil, status.Error(codes.InvalidArgument, "item is required")
	}

	text, ok := stringField(req, fieldState)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "state is required")
	}

	// A missing type tag stores the state as plain text.
	tag, _ := stringField(req, fieldType)
	alias, _ := stringField(req, fieldAlias)

	kind, _ := domain.KindFromTag(tag)

	state, err := domain.Parse(kind, text)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	record, err := s.service.StoreAlias(ctx, name, alias, state)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidName) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}

		return nil, status.Error(codes.Unavailable, "unable to persist state")
	}

	return sampleToStruct(record.Historic()), nil
}

// Query returns the latest record of the requested item, if any.
func (s *Server) Query(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	ctx = withActorFields(ctx)

	name, ok := stringField(req, fieldItem)
	if !ok || name == "" {
		return nil, status.Error(codes.InvalidArgument, "item is required")
	}

	samples, err := s.service.Query(ctx, domain.FilterCriteria{ItemName: name})
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrInvalidName):
			return nil, status.Error(codes.InvalidArgument, err.Error())
		case errors.Is(err, codec.ErrParse):
			return nil, status.Error(codes.DataLoss, err.Error())
		default:
			return nil, status.Error(codes.Internal, "unable to load state")
		}
	}

	values := make([]*structpb.Value, 0, len(samples))
	for _, sample := range samples {
		values = append(values, structpb.NewStructValue(sampleToStruct(sample)))
	}

	return &structpb.ListValue{Values: values}, nil
}

// GetName returns the service identifier.
func (s *Server) GetName(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String(s.service.Name()), nil
}
