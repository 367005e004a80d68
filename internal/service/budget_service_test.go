package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	budgetv1 "github.com/mmynk/budgetlink/pkg/api/budgetv1"
)

func TestCreateBudget(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	resp, err := c.budgets.CreateBudget(ctx, connect.NewRequest(&budgetv1.CreateBudgetRequest{
		Name:         "Flat 3B",
		Description:  "Groceries and bills",
		TotalBudget:  dec("1500"),
		Participants: []string{" Alice ", "Bob", "Charlie"},
	}))
	if err != nil {
		t.Fatalf("CreateBudget failed: %v", err)
	}

	budget := resp.Msg.Budget
	if budget.Slug == "" {
		t.Fatal("expected slug to be generated")
	}
	if resp.Msg.ShareURL != testFrontendURL+"/"+budget.Slug {
		t.Errorf("unexpected share URL %q", resp.Msg.ShareURL)
	}
	if budget.HasPassword {
		t.Error("expected unprotected budget")
	}
	want := []string{"Alice", "Bob", "Charlie"}
	if len(budget.Participants) != len(want) {
		t.Fatalf("participants = %v, want %v", budget.Participants, want)
	}
	for i := range want {
		if budget.Participants[i] != want[i] {
			t.Errorf("participant %d = %q, want %q", i, budget.Participants[i], want[i])
		}
	}

	// Creation and each participant show up in the activity log
	evResp, err := c.settle.ListEvents(ctx, connect.NewRequest(&budgetv1.ListEventsRequest{Slug: budget.Slug}))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(evResp.Msg.Events) != 4 {
		t.Errorf("expected 4 events, got %d", len(evResp.Msg.Events))
	}
}

func TestCreateBudget_Invalid(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *budgetv1.CreateBudgetRequest
	}{
		{"missing name", &budgetv1.CreateBudgetRequest{TotalBudget: dec("10")}},
		{"zero total", &budgetv1.CreateBudgetRequest{Name: "Home"}},
		{"weak password", &budgetv1.CreateBudgetRequest{Name: "Home", TotalBudget: dec("10"), Password: "abc"}},
		{"duplicate participant", &budgetv1.CreateBudgetRequest{Name: "Home", TotalBudget: dec("10"), Participants: []string{"Alice", "Alice "}}},
		{"negative category budget", &budgetv1.CreateBudgetRequest{Name: "Home", TotalBudget: dec("10"), CategoryBudgets: map[string]decimal.Decimal{"Food": dec("-1")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.budgets.CreateBudget(ctx, connect.NewRequest(tt.req))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestCreateBudget_RetriesSlugCollision(t *testing.T) {
	gen := &sequenceIDs{slugs: []string{"taken-slug", "taken-slug", "fresh-slug"}}
	c := setupTestServerWithIDs(t, gen)

	first := createTestBudget(t, c, "Alice")
	if first.Slug != "taken-slug" {
		t.Fatalf("first slug = %q", first.Slug)
	}

	second := createTestBudget(t, c, "Bob")
	if second.Slug != "fresh-slug" {
		t.Errorf("expected retry to land on fresh-slug, got %q", second.Slug)
	}
}

func TestCreateBudget_SlugsExhausted(t *testing.T) {
	c := setupTestServerWithIDs(t, &sequenceIDs{slugs: []string{"only-slug"}})
	createTestBudget(t, c)

	_, err := c.budgets.CreateBudget(context.Background(), connect.NewRequest(&budgetv1.CreateBudgetRequest{
		Name:        "Another",
		TotalBudget: dec("5"),
	}))
	assertCode(t, err, connect.CodeAlreadyExists)
}

func TestGetBudget_Summary(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	budget := createTestBudget(t, c, "Alice", "Bob")

	addTestExpense(t, c, budget.Slug, "Alice", "120.50", 2)
	addTestExpense(t, c, budget.Slug, "Bob", "79.50", 2)
	_, err := c.expenses.CreateExpense(ctx, connect.NewRequest(&budgetv1.CreateExpenseRequest{
		Slug:        budget.Slug,
		Description: "Electricity",
		Amount:      dec("50"),
		Category:    "Utilities",
		PaidBy:      "Alice",
	}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	resp, err := c.budgets.GetBudget(ctx, connect.NewRequest(&budgetv1.GetBudgetRequest{Slug: budget.Slug}))
	if err != nil {
		t.Fatalf("GetBudget failed: %v", err)
	}

	summary := resp.Msg.Summary
	if !summary.TotalExpenses.Equal(dec("250")) {
		t.Errorf("TotalExpenses = %s, want 250", summary.TotalExpenses)
	}
	if !summary.RemainingBudget.Equal(dec("750")) {
		t.Errorf("RemainingBudget = %s, want 750", summary.RemainingBudget)
	}
	if !summary.CategoryTotals["Food"].Equal(dec("200")) || !summary.CategoryTotals["Utilities"].Equal(dec("50")) {
		t.Errorf("unexpected category totals %v", summary.CategoryTotals)
	}
	if len(resp.Msg.Expenses) != 3 {
		t.Errorf("expected 3 expenses, got %d", len(resp.Msg.Expenses))
	}
}

func TestGetBudget_NotFound(t *testing.T) {
	c := setupTestServer(t)

	_, err := c.budgets.GetBudget(context.Background(), connect.NewRequest(&budgetv1.GetBudgetRequest{Slug: "no-such-budget"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = c.budgets.GetBudget(context.Background(), connect.NewRequest(&budgetv1.GetBudgetRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestPasswordProtection(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	createResp, err := c.budgets.CreateBudget(ctx, connect.NewRequest(&budgetv1.CreateBudgetRequest{
		Name:        "Private",
		TotalBudget: dec("100"),
		Password:    "secret123",
	}))
	if err != nil {
		t.Fatalf("CreateBudget failed: %v", err)
	}
	slug := createResp.Msg.Budget.Slug
	if !createResp.Msg.Budget.HasPassword {
		t.Fatal("expected budget to be protected")
	}

	t.Run("missing password", func(t *testing.T) {
		_, err := c.budgets.GetBudget(ctx, connect.NewRequest(&budgetv1.GetBudgetRequest{Slug: slug}))
		if msg := assertCode(t, err, connect.CodeUnauthenticated).Message(); msg != "password required" {
			t.Errorf("message = %q", msg)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := c.budgets.GetBudget(ctx, connect.NewRequest(&budgetv1.GetBudgetRequest{Slug: slug, Password: "nope"}))
		if msg := assertCode(t, err, connect.CodeUnauthenticated).Message(); msg != "invalid password" {
			t.Errorf("message = %q", msg)
		}
	})

	t.Run("correct password", func(t *testing.T) {
		if _, err := c.budgets.GetBudget(ctx, connect.NewRequest(&budgetv1.GetBudgetRequest{Slug: slug, Password: "secret123"})); err != nil {
			t.Fatalf("GetBudget failed: %v", err)
		}
	})

	t.Run("unlock token grants access", func(t *testing.T) {
		unlock, err := c.budgets.UnlockBudget(ctx, connect.NewRequest(&budgetv1.UnlockBudgetRequest{Slug: slug, Password: "secret123"}))
		if err != nil {
			t.Fatalf("UnlockBudget failed: %v", err)
		}
		if unlock.Msg.Token == "" {
			t.Fatal("expected token")
		}

		req := connect.NewRequest(&budgetv1.GetBudgetRequest{Slug: slug})
		req.Header().Set("Authorization", "Bearer "+unlock.Msg.Token)
		if _, err := c.budgets.GetBudget(ctx, req); err != nil {
			t.Fatalf("GetBudget with token failed: %v", err)
		}

		// The token is scoped to this budget only
		other, err := c.budgets.CreateBudget(ctx, connect.NewRequest(&budgetv1.CreateBudgetRequest{
			Name: "Other", TotalBudget: dec("1"), Password: "another1",
		}))
		if err != nil {
			t.Fatalf("CreateBudget failed: %v", err)
		}
		req = connect.NewRequest(&budgetv1.GetBudgetRequest{Slug: other.Msg.Budget.Slug})
		req.Header().Set("Authorization", "Bearer "+unlock.Msg.Token)
		_, err = c.budgets.GetBudget(ctx, req)
		assertCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("unlock with wrong password", func(t *testing.T) {
		_, err := c.budgets.UnlockBudget(ctx, connect.NewRequest(&budgetv1.UnlockBudgetRequest{Slug: slug, Password: "nope"}))
		assertCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := connect.NewRequest(&budgetv1.GetBudgetRequest{Slug: slug})
		req.Header().Set("Authorization", "Bearer garbage")
		_, err := c.budgets.GetBudget(ctx, req)
		assertCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("expenses are protected too", func(t *testing.T) {
		_, err := c.expenses.ListExpenses(ctx, connect.NewRequest(&budgetv1.ListExpensesRequest{Slug: slug}))
		assertCode(t, err, connect.CodeUnauthenticated)
	})
}

func TestUpdateBudget(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	budget := createTestBudget(t, c, "Alice")

	resp, err := c.budgets.UpdateBudget(ctx, connect.NewRequest(&budgetv1.UpdateBudgetRequest{
		Slug:            budget.Slug,
		Name:            ptr("Renamed"),
		TotalBudget:     ptr(dec("2000")),
		CategoryBudgets: map[string]decimal.Decimal{"Food": dec("400")},
	}))
	if err != nil {
		t.Fatalf("UpdateBudget failed: %v", err)
	}
	if resp.Msg.Budget.Name != "Renamed" || !resp.Msg.Budget.TotalBudget.Equal(dec("2000")) {
		t.Errorf("update not applied: %+v", resp.Msg.Budget)
	}

	got, err := c.budgets.GetBudget(ctx, connect.NewRequest(&budgetv1.GetBudgetRequest{Slug: budget.Slug}))
	if err != nil {
		t.Fatalf("GetBudget failed: %v", err)
	}
	if !got.Msg.Budget.CategoryBudgets["Food"].Equal(dec("400")) {
		t.Errorf("category budgets not stored: %v", got.Msg.Budget.CategoryBudgets)
	}

	t.Run("no fields", func(t *testing.T) {
		_, err := c.budgets.UpdateBudget(ctx, connect.NewRequest(&budgetv1.UpdateBudgetRequest{Slug: budget.Slug}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("set then remove password", func(t *testing.T) {
		resp, err := c.budgets.UpdateBudget(ctx, connect.NewRequest(&budgetv1.UpdateBudgetRequest{
			Slug:        budget.Slug,
			NewPassword: ptr("secret123"),
		}))
		if err != nil {
			t.Fatalf("UpdateBudget failed: %v", err)
		}
		if !resp.Msg.Budget.HasPassword {
			t.Fatal("expected password protection")
		}

		// Now the current password is needed
		_, err = c.budgets.UpdateBudget(ctx, connect.NewRequest(&budgetv1.UpdateBudgetRequest{
			Slug:        budget.Slug,
			NewPassword: ptr(""),
		}))
		assertCode(t, err, connect.CodeUnauthenticated)

		resp, err = c.budgets.UpdateBudget(ctx, connect.NewRequest(&budgetv1.UpdateBudgetRequest{
			Slug:            budget.Slug,
			CurrentPassword: "secret123",
			NewPassword:     ptr(""),
		}))
		if err != nil {
			t.Fatalf("UpdateBudget failed: %v", err)
		}
		if resp.Msg.Budget.HasPassword {
			t.Error("expected protection to be removed")
		}
	})
}

func TestDeleteBudget(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	budget := createTestBudget(t, c, "Alice", "Bob")
	addTestExpense(t, c, budget.Slug, "Alice", "10", 2)

	resp, err := c.budgets.DeleteBudget(ctx, connect.NewRequest(&budgetv1.DeleteBudgetRequest{Slug: budget.Slug}))
	if err != nil {
		t.Fatalf("DeleteBudget failed: %v", err)
	}
	// budget + expense + 4 events (create, two joins, expense add)
	if resp.Msg.DeletedItems != 6 {
		t.Errorf("DeletedItems = %d, want 6", resp.Msg.DeletedItems)
	}

	_, err = c.budgets.GetBudget(ctx, connect.NewRequest(&budgetv1.GetBudgetRequest{Slug: budget.Slug}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = c.budgets.DeleteBudget(ctx, connect.NewRequest(&budgetv1.DeleteBudgetRequest{Slug: budget.Slug}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestParticipants(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	budget := createTestBudget(t, c, "Alice")
	addTestExpense(t, c, budget.Slug, "Alice", "30", 1)

	add, err := c.budgets.AddParticipant(ctx, connect.NewRequest(&budgetv1.AddParticipantRequest{Slug: budget.Slug, Name: "  Bob "}))
	if err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	if len(add.Msg.Participants) != 2 || add.Msg.Participants[1] != "Bob" {
		t.Errorf("participants = %v", add.Msg.Participants)
	}

	_, err = c.budgets.AddParticipant(ctx, connect.NewRequest(&budgetv1.AddParticipantRequest{Slug: budget.Slug, Name: "Bob"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = c.budgets.AddParticipant(ctx, connect.NewRequest(&budgetv1.AddParticipantRequest{Slug: budget.Slug, Name: "   "}))
	assertCode(t, err, connect.CodeInvalidArgument)

	remove, err := c.budgets.RemoveParticipant(ctx, connect.NewRequest(&budgetv1.RemoveParticipantRequest{Slug: budget.Slug, Name: "Alice"}))
	if err != nil {
		t.Fatalf("RemoveParticipant failed: %v", err)
	}
	if len(remove.Msg.Participants) != 1 || remove.Msg.Participants[0] != "Bob" {
		t.Errorf("participants = %v", remove.Msg.Participants)
	}

	// Expenses paid by a removed participant are kept
	list, err := c.expenses.ListExpenses(ctx, connect.NewRequest(&budgetv1.ListExpensesRequest{Slug: budget.Slug}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(list.Msg.Expenses) != 1 || list.Msg.Expenses[0].PaidBy != "Alice" {
		t.Errorf("expected Alice's expense to survive, got %+v", list.Msg.Expenses)
	}

	_, err = c.budgets.RemoveParticipant(ctx, connect.NewRequest(&budgetv1.RemoveParticipantRequest{Slug: budget.Slug, Name: "Zed"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestShareURL(t *testing.T) {
	svc := NewBudgetService(nil, nil, nil, nil, "https://budgetlink.app/")
	if got := svc.ShareURL("happy-blue-tiger"); got != "https://budgetlink.app/happy-blue-tiger" {
		t.Errorf("ShareURL = %q", got)
	}
}
