package codec

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/synhome/go-simulator/internal/event"
	"github.com/synhome/go-simulator/internal/segment"
)

// #endregion

// #region invoker
// Invoker is the transport seam: grpc.ClientConn.Invoke in production,
// an injected function in tests.
type Invoker func(ctx context.Context, method string, args, reply interface{}, opts ...grpc.CallOption) error

const generateMethod = "/simgen.EventGenerator/GenerateEvents"

// #endregion invoker

// #region client
// Client talks to the external event-generation service. Payloads ride
// as structpb structs because the event schema is free-form JSON from a
// text generator; a fixed message type would fight every schema drift.
type Client struct {
	conn   *grpc.ClientConn
	invoke Invoker
}

// NewClient connects to the generator service.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, invoke: conn.Invoke}, nil
}

// NewClientWithInvoker creates a Client with an injected transport.
// Used for testing without a real gRPC connection.
func NewClientWithInvoker(inv Invoker) *Client {
	return &Client{invoke: inv}
}

// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion client

// #region generate-events
// GenerateEvents implements segment.Generator over the RPC boundary.
func (c *Client) GenerateEvents(ctx context.Context, req segment.Request) ([]event.Event, error) {
	payload, err := requestStruct(req)
	if err != nil {
		return nil, err
	}

	reply := &structpb.Struct{}
	if err := c.invoke(ctx, generateMethod, payload, reply); err != nil {
		return nil, fmt.Errorf("generate events rpc: %w", err)
	}

	return eventsFromReply(reply)
}

// requestStruct flattens the segment request into a structpb payload.
func requestStruct(req segment.Request) (*structpb.Struct, error) {
	raw, err := json.Marshal(map[string]interface{}{
		"activity":         req.Activity,
		"segment_start":    req.SegmentStart,
		"room_environment": req.RoomEnvironment,
		"comfort_mandate":  req.ComfortMandate,
		"events_so_far":    req.EventsSoFar,
		"previous_events":  req.PreviousEvents,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	var asMap map[string]interface{}
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return nil, fmt.Errorf("remarshal request: %w", err)
	}
	payload, err := structpb.NewStruct(asMap)
	if err != nil {
		return nil, fmt.Errorf("build request struct: %w", err)
	}
	return payload, nil
}

// eventsFromReply decodes the "events" list from the service reply.
func eventsFromReply(reply *structpb.Struct) ([]event.Event, error) {
	field, ok := reply.AsMap()["events"]
	if !ok {
		return nil, nil
	}
	raw, err := json.Marshal(field)
	if err != nil {
		return nil, fmt.Errorf("marshal reply events: %w", err)
	}
	var events []event.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("decode reply events: %w", err)
	}
	return events, nil
}

// #endregion generate-events
