// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes pantry tools for LLM integration via stdio transport.
//
// Tools operate on the registry and catalog directly; the screen-flow
// state machine gates the interactive UI, not machine clients.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mkraev/pantry/internal/catalog"
	"github.com/mkraev/pantry/internal/index"
	"github.com/mkraev/pantry/internal/inventory"
	"github.com/mkraev/pantry/internal/models"
)

// Server wraps the MCP server with pantry tools.
type Server struct {
	mcp      *server.MCPServer
	registry *inventory.Registry
	holder   *catalog.Holder
	idx      index.RecipeIndex
}

// New creates a new MCP server with all pantry tools registered.
func New(registry *inventory.Registry, holder *catalog.Holder, idx index.RecipeIndex) *Server {
	s := &Server{registry: registry, holder: holder, idx: idx}

	s.mcp = server.NewMCPServer(
		"Pantry",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the fixed pantry category keys."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("list_items",
		mcp.WithDescription("List the pantry items in one category, in insertion order."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category key (e.g. dairy, grains)")),
	), s.listItems)

	s.mcp.AddTool(mcp.NewTool("add_pantry_item",
		mcp.WithDescription("Add an item to a category. Dates MUST be dd/mm/yyyy; "+
			"read the pantry usage contract first via get_pantry_contract."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category key")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Item name")),
		mcp.WithString("manufacture_date", mcp.Required(), mcp.Description("Manufacture date, dd/mm/yyyy")),
		mcp.WithString("expiry_date", mcp.Required(), mcp.Description("Expiry date, dd/mm/yyyy")),
	), s.addItem)

	s.mcp.AddTool(mcp.NewTool("remove_pantry_item",
		mcp.WithDescription("Remove an item by name and expiry date. Removing an absent item is a no-op."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category key")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Item name")),
		mcp.WithString("expiry_date", mcp.Required(), mcp.Description("Expiry date, dd/mm/yyyy")),
	), s.removeItem)

	s.mcp.AddTool(mcp.NewTool("suggest_recipes",
		mcp.WithDescription("Find recipes whose ingredient list contains the item name as an exact token."),
		mcp.WithString("item", mcp.Required(), mcp.Description("Pantry item name, e.g. egg")),
	), s.suggestRecipes)

	s.mcp.AddTool(mcp.NewTool("read_recipe",
		mcp.WithDescription("Read one recipe's full ingredient list and instructions."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Recipe id from suggest_recipes")),
	), s.readRecipe)

	s.mcp.AddTool(mcp.NewTool("get_pantry_contract",
		mcp.WithDescription("Returns the pantry usage contract (categories, date format, matching rules). "+
			"Call this before adding items or requesting suggestions."),
	), s.getPantryContract)

	// Resource: usage contract.
	s.mcp.AddResource(
		mcp.NewResource("pantry://usage", "Pantry Usage Contract",
			mcp.WithResourceDescription("Category keys, date format, and recipe matching rules."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readUsageResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keys := make([]string, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		keys = append(keys, string(c))
	}
	return mcp.NewToolResultText(strings.Join(keys, "\n")), nil
}

func (s *Server) listItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cat, res := s.categoryArg(req)
	if res != nil {
		return res, nil
	}
	items := s.registry.Items(cat)
	if len(items) == 0 {
		return mcp.NewToolResultText("no items"), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cat, res := s.categoryArg(req)
	if res != nil {
		return res, nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mfg, err := req.RequireString("manufacture_date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	exp, err := req.RequireString("expiry_date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	item, err := s.registry.Add(cat, name, mfg, exp)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("added: %s (%s)", item.Name, item.Tag)), nil
}

func (s *Server) removeItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cat, res := s.categoryArg(req)
	if res != nil {
		return res, nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	exp, err := req.RequireString("expiry_date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Match by (name, expiry date), the same identity Add enforces.
	for _, item := range s.registry.Items(cat) {
		if item.Name == name && item.ExpiryDate == exp {
			s.registry.Remove(cat, item)
			return mcp.NewToolResultText(fmt.Sprintf("removed: %s", name)), nil
		}
	}
	return mcp.NewToolResultText(fmt.Sprintf("not present: %s", name)), nil
}

func (s *Server) suggestRecipes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	item, err := req.RequireString("item")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rows, err := s.idx.MatchIngredient(item)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(rows) == 0 {
		return mcp.NewToolResultText("no matching recipes"), nil
	}
	out, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	recipe, err := s.idx.GetRecipe(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: recipe %d", id)), nil
	}
	out, _ := json.MarshalIndent(recipe, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getPantryContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(UsageContract), nil
}

func (s *Server) readUsageResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "pantry://usage",
			MIMEType: "text/markdown",
			Text:     UsageContract,
		},
	}, nil
}

// categoryArg extracts and validates the category argument. A non-nil
// result is the error to return.
func (s *Server) categoryArg(req mcp.CallToolRequest) (models.Category, *mcp.CallToolResult) {
	raw, err := req.RequireString("category")
	if err != nil {
		return "", mcp.NewToolResultError(err.Error())
	}
	cat, err := models.ParseCategory(raw)
	if err != nil {
		return "", mcp.NewToolResultError(err.Error())
	}
	return cat, nil
}
