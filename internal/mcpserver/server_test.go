package mcpserver

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mkraev/pantry/internal/catalog"
	"github.com/mkraev/pantry/internal/expiry"
	"github.com/mkraev/pantry/internal/inventory"
	"github.com/mkraev/pantry/internal/models"
	"github.com/mkraev/pantry/internal/testutil"
)

func testServer(t *testing.T) (*Server, *inventory.Registry) {
	t.Helper()

	cat := testutil.TestCatalog(t)
	db := testutil.TestDB(t)
	if err := db.ReplaceAll(cat.Recipes()); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	reg := inventory.NewWithClock(func() time.Time { return now })

	srv := New(reg, catalog.NewHolder(cat), db)
	return srv, reg
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_categories":
		result, err = srv.listCategories(ctx, req)
	case "list_items":
		result, err = srv.listItems(ctx, req)
	case "add_pantry_item":
		result, err = srv.addItem(ctx, req)
	case "remove_pantry_item":
		result, err = srv.removeItem(ctx, req)
	case "suggest_recipes":
		result, err = srv.suggestRecipes(ctx, req)
	case "read_recipe":
		result, err = srv.readRecipe(ctx, req)
	case "get_pantry_contract":
		result, err = srv.getPantryContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListCategories(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "list_categories", map[string]interface{}{})
	text := resultText(r)
	for _, want := range []string{"fruits_vegetables", "grains", "non_veg", "dairy", "others"} {
		if !strings.Contains(text, want) {
			t.Errorf("list_categories missing %q in %q", want, text)
		}
	}
}

func TestAddListRemoveItem(t *testing.T) {
	srv, reg := testServer(t)

	r := callTool(t, srv, "add_pantry_item", map[string]interface{}{
		"category":         "dairy",
		"name":             "Milk",
		"manufacture_date": "25/02/2025",
		"expiry_date":      "05/03/2025",
	})
	if r.IsError {
		t.Fatalf("add failed: %s", resultText(r))
	}
	if text := resultText(r); !strings.Contains(text, expiry.TagWeek) {
		t.Errorf("add result = %q, want tag in it", text)
	}

	r = callTool(t, srv, "list_items", map[string]interface{}{"category": "dairy"})
	if !strings.Contains(resultText(r), "Milk") {
		t.Errorf("list_items = %q, want Milk", resultText(r))
	}

	r = callTool(t, srv, "remove_pantry_item", map[string]interface{}{
		"category":    "dairy",
		"name":        "Milk",
		"expiry_date": "05/03/2025",
	})
	if text := resultText(r); text != "removed: Milk" {
		t.Errorf("remove result = %q", text)
	}
	if items := reg.Items(models.CategoryDairy); len(items) != 0 {
		t.Errorf("items after remove = %v", items)
	}

	// Removing an absent item reports that, without erroring.
	r = callTool(t, srv, "remove_pantry_item", map[string]interface{}{
		"category":    "dairy",
		"name":        "Milk",
		"expiry_date": "05/03/2025",
	})
	if r.IsError || resultText(r) != "not present: Milk" {
		t.Errorf("second remove = %q", resultText(r))
	}
}

func TestAddItemBadInput(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "add_pantry_item", map[string]interface{}{
		"category":         "freezer",
		"name":             "Peas",
		"manufacture_date": "01/01/2025",
		"expiry_date":      "01/06/2025",
	})
	if !r.IsError {
		t.Error("expected error for unknown category")
	}

	r = callTool(t, srv, "add_pantry_item", map[string]interface{}{
		"category":         "dairy",
		"name":             "Milk",
		"manufacture_date": "2025-01-01",
		"expiry_date":      "01/06/2025",
	})
	if !r.IsError {
		t.Error("expected error for bad date format")
	}
}

func TestSuggestAndReadRecipe(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "suggest_recipes", map[string]interface{}{"item": "Egg"})
	text := resultText(r)
	if !strings.Contains(text, "Omelette") || !strings.Contains(text, "Fried Rice") {
		t.Errorf("suggest = %q, want Omelette and Fried Rice", text)
	}
	if strings.Contains(text, "Ratatouille") {
		t.Errorf("suggest matched eggplant recipe: %q", text)
	}

	r = callTool(t, srv, "read_recipe", map[string]interface{}{"id": 1})
	if !strings.Contains(resultText(r), "Beat and fry.") {
		t.Errorf("read_recipe = %q", resultText(r))
	}

	r = callTool(t, srv, "read_recipe", map[string]interface{}{"id": 99})
	if !r.IsError {
		t.Error("expected error for unknown recipe id")
	}
}

func TestSuggestNoMatch(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "suggest_recipes", map[string]interface{}{"item": "saffron"})
	if text := resultText(r); text != "no matching recipes" {
		t.Errorf("suggest = %q", text)
	}
}

func TestContract(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "get_pantry_contract", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "dd/mm/yyyy") || !strings.Contains(text, "fruits_vegetables") {
		t.Errorf("contract missing expected sections: %q", text)
	}

	// The contract must quote the exact tags the classifier produces.
	for _, tag := range []string{expiry.TagExpired, expiry.TagWeek, expiry.TagMonth, expiry.TagTwoMonths} {
		if !strings.Contains(text, tag) {
			t.Errorf("contract does not quote tag %q", tag)
		}
	}
}
