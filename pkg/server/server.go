// Package server bridges an operation registry to the Model Context
// Protocol. Each descriptor becomes one MCP tool; every call is routed
// through the registry's dispatch boundary and rendered as a single text
// content frame, success or error alike, so the transport never branches
// on payload shape.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/satchelhq/satchel/pkg/logger"
	"github.com/satchelhq/satchel/pkg/ops"
)

// Server owns the MCP session for one adapter process.
type Server struct {
	name     string
	version  string
	registry *ops.Registry
	log      zerolog.Logger
}

func New(name, version string, registry *ops.Registry) *Server {
	return &Server{
		name:     name,
		version:  version,
		registry: registry,
		log:      logger.C("server"),
	}
}

// Run serves MCP over stdin/stdout until the client disconnects or the
// context is canceled.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info().Str("server", s.name).Str("version", s.version).Msg("serving over stdio")
	return s.MCP().Run(ctx, &mcp.StdioTransport{})
}

// MCP builds the underlying SDK server with every registered operation
// attached. Exposed so tests can connect over in-memory transports.
func (s *Server) MCP() *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: s.name, Version: s.version}, nil)
	for _, desc := range s.registry.List() {
		tool := &mcp.Tool{
			Name:        desc.Name,
			Description: desc.Description,
			InputSchema: inputSchema(desc),
		}
		srv.AddTool(tool, s.handler(desc.Name))
	}
	return srv
}

func (s *Server) handler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := decodeArguments(req.Params.Arguments)
		if err != nil {
			return errorFrame(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		result := s.registry.Dispatch(ctx, name, args)
		if result.Err != nil {
			return errorFrame(result.Err.Error()), nil
		}

		payload, err := json.MarshalIndent(result.Payload, "", "  ")
		if err != nil {
			return errorFrame(fmt.Sprintf("serialize result: %v", err)), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
		}, nil
	}
}

// errorFrame renders any failure as a short human-readable message. The
// internal taxonomy never crosses the wire as a typed field.
func errorFrame(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + message}},
	}
}

// decodeArguments normalizes however the SDK hands us arguments into a
// plain map. Raw handlers may see deferred JSON rather than a decoded map.
func decodeArguments(v any) (map[string]any, error) {
	switch t := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return t, nil
	case json.RawMessage:
		return unmarshalArguments([]byte(t))
	case []byte:
		return unmarshalArguments(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		return unmarshalArguments(data)
	}
}

func unmarshalArguments(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// inputSchema converts a descriptor's parameter table to the wire-level
// JSON schema advertised by ListTools.
func inputSchema(desc ops.Descriptor) *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(desc.Params))
	var required []string

	for _, name := range sortedParamNames(desc) {
		param := desc.Params[name]
		prop := &jsonschema.Schema{
			Type:        string(param.Type),
			Description: param.Description,
		}
		if param.Type == ops.TypeStringList {
			prop.Items = &jsonschema.Schema{Type: "string"}
		}
		if len(param.Enum) > 0 {
			prop.Enum = make([]any, 0, len(param.Enum))
			for _, v := range param.Enum {
				prop.Enum = append(prop.Enum, v)
			}
		}
		properties[name] = prop
		if param.Required {
			required = append(required, name)
		}
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

func sortedParamNames(desc ops.Descriptor) []string {
	names := make([]string, 0, len(desc.Params))
	for name := range desc.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
