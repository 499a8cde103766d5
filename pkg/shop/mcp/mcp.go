// Package mcp adapts the shop to the Model Context Protocol: it
// registers the five cart tools and the widget resource on an MCP
// server and serves them over streamable HTTP.
package mcp

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"petstores/pkg/shop"
)

const (
	// ServerName and ServerVersion identify the server to clients.
	ServerName    = "petstores-shop"
	ServerVersion = "0.1.0"

	// WidgetURI is the fixed resource URI of the renderable shop
	// document, served unchanged.
	WidgetURI      = "ui://widget/petbarn.html"
	widgetMIMEType = "text/html+skybridge"
)

//go:embed widget.html
var widgetHTML string

// NewServer builds the MCP server for the shop. Operations are scoped
// to the transport's session id when one is present, otherwise to a
// cart id generated for this server instance.
func NewServer(svc *shop.Shop) *server.MCPServer {
	s := server.NewMCPServer(ServerName, ServerVersion,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)

	fallbackID := uuid.NewString()

	s.AddResource(mcpgo.NewResource(WidgetURI, ServerName,
		mcpgo.WithResourceDescription("Petstores shop widget"),
		mcpgo.WithMIMEType(widgetMIMEType),
	), func(ctx context.Context, req mcpgo.ReadResourceRequest) ([]mcpgo.ResourceContents, error) {
		return []mcpgo.ResourceContents{
			mcpgo.TextResourceContents{URI: WidgetURI, MIMEType: widgetMIMEType, Text: widgetHTML},
		}, nil
	})

	s.AddTool(mcpgo.NewTool("open_shop",
		mcpgo.WithDescription("Opens the Petstores pet food shop. Optionally filter by category: 'dog', 'cat', or 'all'."),
		mcpgo.WithString("category",
			mcpgo.Description("Category filter"),
			mcpgo.Enum("all", "dog", "cat"),
		),
	), func(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		resp, err := svc.Browse(ctx, sessionID(ctx, fallbackID), req.GetString("category", "all"))
		return result(resp, err)
	})

	s.AddTool(mcpgo.NewTool("add_to_cart",
		mcpgo.WithDescription("Adds a product to the shopping cart by product ID."),
		mcpgo.WithString("productId",
			mcpgo.Required(),
			mcpgo.Description("Catalog product id"),
		),
		mcpgo.WithNumber("quantity",
			mcpgo.Description("Units to add, defaults to 1"),
			mcpgo.Min(1),
		),
	), func(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		resp, err := svc.Add(ctx, sessionID(ctx, fallbackID),
			req.GetString("productId", ""), req.GetInt("quantity", 1))
		return result(resp, err)
	})

	s.AddTool(mcpgo.NewTool("remove_from_cart",
		mcpgo.WithDescription("Removes a product from the shopping cart."),
		mcpgo.WithString("productId",
			mcpgo.Required(),
			mcpgo.Description("Catalog product id"),
		),
	), func(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		resp, err := svc.Remove(ctx, sessionID(ctx, fallbackID), req.GetString("productId", ""))
		return result(resp, err)
	})

	s.AddTool(mcpgo.NewTool("update_quantity",
		mcpgo.WithDescription("Updates the quantity of a product in the cart. Set to 0 to remove."),
		mcpgo.WithString("productId",
			mcpgo.Required(),
			mcpgo.Description("Catalog product id"),
		),
		mcpgo.WithNumber("quantity",
			mcpgo.Required(),
			mcpgo.Description("New quantity, 0 removes the item"),
			mcpgo.Min(0),
		),
	), func(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		resp, err := svc.UpdateQuantity(ctx, sessionID(ctx, fallbackID),
			req.GetString("productId", ""), req.GetInt("quantity", 0))
		return result(resp, err)
	})

	s.AddTool(mcpgo.NewTool("checkout",
		mcpgo.WithDescription("Processes the checkout and places the order."),
	), func(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		resp, err := svc.Checkout(ctx, sessionID(ctx, fallbackID))
		return result(resp, err)
	})

	return s
}

// NewHTTPServer wraps the MCP server in the stateless streamable HTTP
// transport mounted at /mcp.
func NewHTTPServer(s *server.MCPServer) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s,
		server.WithEndpointPath("/mcp"),
		server.WithStateLess(true),
	)
}

func sessionID(ctx context.Context, fallback string) string {
	if sess := server.ClientSessionFromContext(ctx); sess != nil {
		if id := sess.SessionID(); id != "" {
			return id
		}
	}
	return fallback
}

func result(resp shop.Response, err error) (*mcpgo.CallToolResult, error) {
	if err != nil {
		return nil, fmt.Errorf("shop operation: %w", err)
	}
	return mcpgo.NewToolResultStructured(resp, resp.Message), nil
}
