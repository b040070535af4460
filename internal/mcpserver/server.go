// Package mcpserver exposes the registry controller as Model Context Protocol
// tools over stdio, using mcp-go.
package mcpserver

import (
	"context"
	"encoding/json"
	"io"

	"github.com/agentx-labs/modreg/internal/branding"
	"github.com/agentx-labs/modreg/internal/controller"
	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wires controller operations to MCP tools.
type Server struct {
	ctrl   *controller.Controller
	logger *log.Logger
	mcp    *server.MCPServer
}

// New builds the MCP server and registers every registry tool.
func New(ctrl *controller.Controller, version string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		ctrl:   ctrl,
		logger: logger,
		mcp: server.NewMCPServer(
			branding.CLIName(),
			version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	return s
}

// MCP returns the underlying mcp-go server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// Serve reads JSON-RPC requests from in and writes responses to out until ctx
// is cancelled or in reaches EOF.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("serving MCP over stdio")
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("list_modules",
		mcp.WithDescription("List cataloged modules, optionally restricted to the given module types."),
		mcp.WithArray("types",
			mcp.Description("Module types to include (core, manager, shared, feature, level, thirdparty, extension). Empty lists every module."),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), s.listModules)

	s.mcp.AddTool(mcp.NewTool("get_module",
		mcp.WithDescription("Get one module by exact name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Module name")),
	), s.getModule)

	s.mcp.AddTool(mcp.NewTool("get_module_dependencies",
		mcp.WithDescription("List the dependency entries a module declares."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Module name")),
	), s.getDependencies)

	s.mcp.AddTool(mcp.NewTool("find_dependents",
		mcp.WithDescription("Find modules whose declared dependencies contain the given reference."),
		mcp.WithString("reference", mcp.Required(), mcp.Description("Module name or path to look for")),
	), s.findDependents)

	s.mcp.AddTool(mcp.NewTool("refresh_registry",
		mcp.WithDescription("Rescan the project tree, replace the registry and persist it."),
	), s.refresh)

	s.mcp.AddTool(mcp.NewTool("get_registry_status",
		mcp.WithDescription("Registry statistics: totals per type, descriptor coverage, last scan time."),
	), s.status)

	s.mcp.AddTool(mcp.NewTool("generate_report",
		mcp.WithDescription("Render the registry as a markdown report."),
	), s.report)
}

func (s *Server) listModules(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return respond(s.ctrl.ListModules(req.GetStringSlice("types", nil)))
}

func (s *Server) getModule(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return respond(s.ctrl.GetModule(name))
}

func (s *Server) getDependencies(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return respond(s.ctrl.GetDependencies(name))
}

func (s *Server) findDependents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("reference")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return respond(s.ctrl.FindDependents(ref))
}

func (s *Server) refresh(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return respond(s.ctrl.Refresh())
}

func (s *Server) status(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return respond(s.ctrl.Status())
}

func (s *Server) report(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return respond(s.ctrl.Report())
}

// respond encodes a controller Result as the tool's text content. Failed
// results are flagged with IsError so clients can branch without parsing.
func respond[T any](r controller.Result[T]) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("encoding result: " + err.Error()), nil
	}
	res := mcp.NewToolResultText(string(data))
	res.IsError = r.Failed()
	return res, nil
}
