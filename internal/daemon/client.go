package daemon

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/sehatlink/sehat-mcp/pkg/protocol"
	"github.com/sehatlink/sehat-mcp/pkg/version"
)

const dialTimeout = 2 * time.Second

// Client talks to a running daemon over its unix socket. The status
// subcommand uses it to probe liveness and enumerate tools.
type Client struct {
	conn *jsonrpc2.Conn
}

type clientHandler struct{}

func (clientHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {}

// Dial connects to the daemon socket.
func Dial(ctx context.Context, socketPath string) (*Client, error) {
	raw, err := net.DialTimeout("unix", socketPath, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial daemon at %s: %w", socketPath, err)
	}

	stream := jsonrpc2.NewBufferedStream(raw, jsonrpc2.PlainObjectCodec{})
	return &Client{conn: jsonrpc2.NewConn(ctx, stream, clientHandler{})}, nil
}

// Initialize performs the protocol handshake.
func (c *Client) Initialize(ctx context.Context, clientName, clientVersion string) (*protocol.InitializeResult, error) {
	params := map[string]interface{}{
		"protocolVersion": version.ProtocolVersion,
		"clientInfo": protocol.ServerInfo{
			Name:    clientName,
			Version: clientVersion,
		},
	}

	var result protocol.InitializeResult
	if err := c.conn.Call(ctx, "initialize", params, &result); err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}

	if err := c.conn.Notify(ctx, "notifications/initialized", struct{}{}); err != nil {
		return nil, fmt.Errorf("initialized notification: %w", err)
	}
	return &result, nil
}

// Ping checks that the daemon answers requests.
func (c *Client) Ping(ctx context.Context) error {
	var result map[string]interface{}
	if err := c.conn.Call(ctx, "ping", nil, &result); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// ListTools returns the daemon's registered tools.
func (c *Client) ListTools(ctx context.Context) (*protocol.ListToolsResult, error) {
	var result protocol.ListToolsResult
	if err := c.conn.Call(ctx, "tools/list", nil, &result); err != nil {
		return nil, fmt.Errorf("tools/list: %w", err)
	}
	return &result, nil
}

// CallTool invokes one tool and returns its envelope.
func (c *Client) CallTool(ctx context.Context, params protocol.CallParams) (*protocol.Envelope, error) {
	var env protocol.Envelope
	if err := c.conn.Call(ctx, "tools/call", params, &env); err != nil {
		return nil, fmt.Errorf("tools/call: %w", err)
	}
	return &env, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
