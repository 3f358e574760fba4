package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/json-persistence/internal/config"
	domain "github.com/oshokin/json-persistence/internal/domain/item"
	"github.com/oshokin/json-persistence/internal/version"
)

// Client wraps a gRPC connection to the persistence service with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection.
	conn *grpc.ClientConn

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// actor is sent with every call when set.
	actor Actor
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor sends the actor identity with every call.
func WithActor(actor Actor) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errStateRequired is returned when no state is given to Store.
	errStateRequired = errors.New("state must be provided")
)

// Dial creates a client for the persistence server at address.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(
		address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUserAgent(version.UserAgent()),
	)
	if err != nil {
		return nil, fmt.Errorf("dial persistence server: %w", err)
	}

	return NewClient(conn, opts...), nil
}

// NewClient wraps an existing connection.
func NewClient(conn *grpc.ClientConn, opts ...Option) *Client {
	client := &Client{
		conn:        conn,
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Store persists state for the item name, in the file named alias when it is not empty.
func (c *Client) Store(ctx context.Context, name, alias string, state domain.State) (domain.HistoricItem, error) {
	if state == nil {
		return domain.HistoricItem{}, errStateRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(callCtx, StoreMethod, storeRequest(name, alias, state), resp); err != nil {
		return domain.HistoricItem{}, fmt.Errorf("store: %w", err)
	}

	return sampleFromStruct(resp)
}

// Query returns the latest sample of the item, or none.
func (c *Client) Query(ctx context.Context, name string) ([]domain.HistoricItem, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	req := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldItem: structpb.NewStringValue(name),
		},
	}

	resp := new(structpb.ListValue)
	if err := c.conn.Invoke(callCtx, QueryMethod, req, resp); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	samples := make([]domain.HistoricItem, 0, len(resp.GetValues()))

	for _, value := range resp.GetValues() {
		sample, err := sampleFromStruct(value.GetStructValue())
		if err != nil {
			return nil, err
		}

		samples = append(samples, sample)
	}

	return samples, nil
}

// Name returns the identifier of the remote service.
func (c *Client) Name(ctx context.Context) (string, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp := new(wrapperspb.StringValue)
	if err := c.conn.Invoke(callCtx, GetNameMethod, new(emptypb.Empty), resp); err != nil {
		return "", fmt.Errorf("get name: %w", err)
	}

	return resp.GetValue(), nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
// The client's actor is attached to the outgoing metadata.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = c.actor.outgoing(ctx)

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
