package pantryservice

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkraev/pantry/internal/apperr"
	"github.com/mkraev/pantry/internal/catalog"
	"github.com/mkraev/pantry/internal/credstore"
	"github.com/mkraev/pantry/internal/inventory"
	"github.com/mkraev/pantry/internal/models"
	"github.com/mkraev/pantry/internal/session"
	"github.com/mkraev/pantry/internal/testutil"
)

type event struct {
	kind string
	cat  models.Category
	name string
}

func testService(t *testing.T, hasCredential bool) (*Service, *[]event) {
	t.Helper()

	creds, err := credstore.NewFile(filepath.Join(t.TempDir(), "user_data.json"))
	if err != nil {
		t.Fatal(err)
	}
	if hasCredential {
		if err := creds.Create("alice", "pw"); err != nil {
			t.Fatal(err)
		}
	}

	cat := testutil.TestCatalog(t)
	db := testutil.TestDB(t)
	if err := db.ReplaceAll(cat.Recipes()); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	registry := inventory.NewWithClock(func() time.Time { return now })

	var events []event
	notify := func(kind string, cat models.Category, name string) {
		events = append(events, event{kind, cat, name})
	}

	svc := New(creds, registry, catalog.NewHolder(cat), db, session.New(creds.Exists()), notify)
	return svc, &events
}

// login walks a fresh authenticated service into the dairy category.
func loginAndOpen(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.Login(ctx, "alice", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.OpenCategory(ctx, models.CategoryDairy); err != nil {
		t.Fatalf("OpenCategory: %v", err)
	}
}

func TestFirstRunFlow(t *testing.T) {
	svc, _ := testService(t, false)
	ctx := context.Background()

	if svc.Session(ctx).State != session.StateCreatePassword {
		t.Fatalf("initial state = %s", svc.Session(ctx).State)
	}

	// Login is not reachable before the credential exists.
	if _, err := svc.Login(ctx, "alice", "pw"); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Errorf("Login before create err = %v", err)
	}

	if err := svc.CreateCredential(ctx, "alice", "pw"); err != nil {
		t.Fatalf("CreateCredential: %v", err)
	}
	if svc.Session(ctx).State != session.StateLogin {
		t.Errorf("state after create = %s", svc.Session(ctx).State)
	}

	token, err := svc.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !svc.ValidToken(token) {
		t.Error("issued token should validate")
	}
}

func TestCreateCredentialValidation(t *testing.T) {
	svc, _ := testService(t, false)
	ctx := context.Background()

	if err := svc.CreateCredential(ctx, "", "pw"); !errors.Is(err, apperr.ErrMissingField) {
		t.Errorf("empty name err = %v", err)
	}
	// Failure keeps the registration screen.
	if svc.Session(ctx).State != session.StateCreatePassword {
		t.Errorf("state = %s after failed create", svc.Session(ctx).State)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := testService(t, true)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "alice", "nope"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
	// Still on the login screen; a retry can succeed.
	if _, err := svc.Login(ctx, "alice", "pw"); err != nil {
		t.Errorf("retry after failed login: %v", err)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	svc, _ := testService(t, true)
	ctx := context.Background()

	// Unknown name: stays on the reset screen.
	if err := svc.ResetPassword(ctx, "eve", "x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("reset unknown name err = %v", err)
	}
	if svc.Session(ctx).State != session.StateResetPassword {
		t.Errorf("state = %s, want reset_password", svc.Session(ctx).State)
	}

	// Retry with the right name: back to login, new password works.
	if err := svc.ResetPassword(ctx, "alice", "pw2"); err != nil {
		t.Fatalf("reset retry: %v", err)
	}
	if svc.Session(ctx).State != session.StateLogin {
		t.Errorf("state = %s, want login", svc.Session(ctx).State)
	}
	if _, err := svc.Login(ctx, "alice", "pw"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Error("old password should be rejected after reset")
	}
	if _, err := svc.Login(ctx, "alice", "pw2"); err != nil {
		t.Errorf("new password: %v", err)
	}
}

func TestInventoryFlow(t *testing.T) {
	svc, events := testService(t, true)
	ctx := context.Background()
	loginAndOpen(t, svc)

	item, err := svc.AddItem(ctx, models.CategoryDairy, "milk", "01/03/2025", "13/03/2025")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Tag != "Expiry in a week" {
		t.Errorf("tag = %q", item.Tag)
	}

	items, err := svc.ListItems(ctx, models.CategoryDairy)
	if err != nil || len(items) != 1 {
		t.Fatalf("ListItems = %v, %v", items, err)
	}

	removed, err := svc.RemoveItem(ctx, models.CategoryDairy, item)
	if err != nil || !removed {
		t.Fatalf("RemoveItem = %v, %v", removed, err)
	}
	removed, _ = svc.RemoveItem(ctx, models.CategoryDairy, item)
	if removed {
		t.Error("second remove should be a no-op")
	}

	if len(*events) != 2 {
		t.Fatalf("events = %v", *events)
	}
	if (*events)[0].kind != "item.added" || (*events)[1].kind != "item.removed" {
		t.Errorf("event kinds = %v", *events)
	}
}

func TestItemOpsRequireOpenCategory(t *testing.T) {
	svc, _ := testService(t, true)
	ctx := context.Background()
	loginAndOpen(t, svc) // dairy is open

	// Adding into a category that is not open violates the flow.
	if _, err := svc.AddItem(ctx, models.CategoryGrains, "rice", "01/03/2025", "01/06/2025"); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Errorf("err = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.ListItems(ctx, models.CategoryGrains); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Errorf("ListItems on closed category err = %v", err)
	}
}

func TestSuggestAndOpenRecipe(t *testing.T) {
	svc, _ := testService(t, true)
	ctx := context.Background()
	loginAndOpen(t, svc)

	if _, err := svc.AddItem(ctx, models.CategoryDairy, "Egg", "01/03/2025", "20/03/2025"); err != nil {
		t.Fatal(err)
	}

	matches, err := svc.Suggest(ctx, "Egg")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Suggest(Egg) = %d matches, want 2", len(matches))
	}
	if matches[0].Title != "Omelette" || matches[1].Title != "Fried Rice" {
		t.Errorf("matches = %q, %q", matches[0].Title, matches[1].Title)
	}
	snap := svc.Session(ctx)
	if snap.State != session.StateRecipeList || snap.SelectedItem != "Egg" {
		t.Errorf("session = %+v", snap)
	}

	recipe, err := svc.OpenRecipe(ctx, matches[0].ID)
	if err != nil {
		t.Fatalf("OpenRecipe: %v", err)
	}
	if recipe.Instructions != "Beat and fry." {
		t.Errorf("instructions = %q", recipe.Instructions)
	}
	if svc.Session(ctx).State != session.StateRecipeDetail {
		t.Errorf("state = %s", svc.Session(ctx).State)
	}

	// Back: detail -> category detail -> category select.
	st, err := svc.Back(ctx)
	if err != nil || st != session.StateCategoryDetail {
		t.Fatalf("Back = %s, %v", st, err)
	}
	st, err = svc.Back(ctx)
	if err != nil || st != session.StateCategorySelect {
		t.Fatalf("Back = %s, %v", st, err)
	}
}

func TestSuggestEmptyResult(t *testing.T) {
	svc, _ := testService(t, true)
	ctx := context.Background()
	loginAndOpen(t, svc)

	matches, err := svc.Suggest(ctx, "durian")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("matches = %v, want none", matches)
	}
}

func TestOpenRecipeUnknownID(t *testing.T) {
	svc, _ := testService(t, true)
	ctx := context.Background()
	loginAndOpen(t, svc)
	if _, err := svc.Suggest(ctx, "egg"); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.OpenRecipe(ctx, 99); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	// Failed open keeps the recipe list screen.
	if svc.Session(ctx).State != session.StateRecipeList {
		t.Errorf("state = %s", svc.Session(ctx).State)
	}
}

func TestRecipesBrowse(t *testing.T) {
	svc, _ := testService(t, true)
	ctx := context.Background()

	// Browsing requires login.
	if _, _, err := svc.ListRecipes(ctx, 10, 0); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("pre-login err = %v", err)
	}

	loginAndOpen(t, svc)
	rows, total, err := svc.ListRecipes(ctx, 2, 0)
	if err != nil {
		t.Fatalf("ListRecipes: %v", err)
	}
	if total != 3 || len(rows) != 2 {
		t.Errorf("total = %d, page = %d", total, len(rows))
	}
}
