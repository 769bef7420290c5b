package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `taskbridge exposes a personal task-management store (projects, tasks,
tags, and an inbox of unfiled tasks) owned by a desktop application.
Reads re-query the application every time; nothing is cached. Mutations
are dispatched one record at a time; batch tools are best-effort and
report per-identifier failures instead of aborting. Identifiers are
opaque backend-assigned strings.`

// Services contains all domain services needed by MCP.
type Services struct {
	Tasks    TaskService
	Projects ProjectService
	Tags     TagService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and
// middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "taskbridge",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	handler := NewHandler(cfg.Services.Tasks, cfg.Services.Projects, cfg.Services.Tags)
	registerTools(server, handler)

	return server
}

// registerTools binds the tool catalog to the handler. Tool errors are
// reported in-band as isError results so the calling assistant can read
// the structured APIError payload.
func registerTools(server *sdkmcp.Server, handler *Handler) {
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: toSchema(def.InputSchema),
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}

			result, err := handler.Handle(ctx, name, args)
			if err != nil {
				payload, merr := json.Marshal(MapError(err))
				if merr != nil {
					return nil, merr
				}
				return &sdkmcp.CallToolResult{
					IsError: true,
					Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(payload)}},
				}, nil
			}

			payload, err := json.Marshal(result)
			if err != nil {
				return nil, err
			}
			return &sdkmcp.CallToolResult{
				Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(payload)}},
			}, nil
		})
	}
}

func toSchema(m map[string]any) *jsonschema.Schema {
	data, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	var schema jsonschema.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		panic(err)
	}
	return &schema
}
