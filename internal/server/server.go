package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/sehatlink/sehat-mcp/internal/dispatch"
	"github.com/sehatlink/sehat-mcp/internal/logger"
	"github.com/sehatlink/sehat-mcp/internal/tools"
	"github.com/sehatlink/sehat-mcp/pkg/protocol"
	"github.com/sehatlink/sehat-mcp/pkg/version"
)

var log = logger.ForComponent("server")

// Server answers MCP requests over a JSON-RPC 2.0 connection. Requests
// on one connection are handled one at a time in arrival order, so tool
// effects land in the order the client sent them.
type Server struct {
	dispatcher *dispatch.Dispatcher
	info       protocol.ServerInfo
}

func New(dispatcher *dispatch.Dispatcher, name, version string) *Server {
	return &Server{
		dispatcher: dispatcher,
		info:       protocol.ServerInfo{Name: name, Version: version},
	}
}

// Handler adapts the server to the jsonrpc2 connection loop. The
// handler is deliberately synchronous; wrapping it in AsyncHandler
// would break the per-connection ordering guarantee.
func (s *Server) Handler() jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(s.handle)
}

func (s *Server) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized", "initialized":
		return nil, nil
	case "ping":
		return struct{}{}, nil
	case "tools/list":
		return s.handleListTools(), nil
	case "tools/call":
		return s.handleCallTool(ctx, req)
	default:
		if req.Notif {
			log.Debug("dropping unknown notification", "method", req.Method)
			return nil, nil
		}
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeMethodNotFound,
			Message: fmt.Sprintf("method %q not found", req.Method),
		}
	}
}

func (s *Server) handleInitialize(req *jsonrpc2.Request) (interface{}, error) {
	var params struct {
		ProtocolVersion string              `json:"protocolVersion"`
		ClientInfo      protocol.ServerInfo `json:"clientInfo"`
	}
	if req.Params != nil {
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, &jsonrpc2.Error{
				Code:    jsonrpc2.CodeInvalidParams,
				Message: fmt.Sprintf("malformed initialize params: %v", err),
			}
		}
	}

	log.Info("client initialized",
		"client", params.ClientInfo.Name,
		"client_version", params.ClientInfo.Version,
		"requested_protocol", params.ProtocolVersion,
	)

	return protocol.InitializeResult{
		ProtocolVersion: version.ProtocolVersion,
		ServerInfo:      s.info,
		Capabilities: protocol.Capabilities{
			Tools: map[string]interface{}{},
		},
	}, nil
}

func (s *Server) handleListTools() protocol.ListToolsResult {
	registered := s.dispatcher.Tools()
	listed := make([]protocol.Tool, 0, len(registered))
	for _, tool := range registered {
		entry := protocol.Tool{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: tool.Schema(),
		}
		if annotated, ok := tool.(tools.AnnotatedTool); ok {
			if title := annotated.Title(); title != "" {
				entry.Title = title
			}
			entry.Annotations = annotated.Annotations()
		}
		listed = append(listed, entry)
	}
	return protocol.ListToolsResult{Tools: listed}
}

// handleCallTool rejects requests whose params cannot name a tool at
// the protocol level; everything past that point is the dispatcher's
// business and comes back as an in-band envelope.
func (s *Server) handleCallTool(ctx context.Context, req *jsonrpc2.Request) (interface{}, error) {
	if req.Params == nil {
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeInvalidParams,
			Message: "tools/call requires params",
		}
	}

	var params protocol.CallParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeInvalidParams,
			Message: fmt.Sprintf("malformed tools/call params: %v", err),
		}
	}
	if params.Name == "" {
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeInvalidParams,
			Message: "tools/call params missing tool name",
		}
	}

	return s.dispatcher.Call(ctx, params.Name, params.Arguments), nil
}
