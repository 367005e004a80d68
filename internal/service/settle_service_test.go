package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetlink/internal/models"
	budgetv1 "github.com/mmynk/budgetlink/pkg/api/budgetv1"
)

func exampleSettlementRequest(policy string) *budgetv1.CalculateSettlementRequest {
	return &budgetv1.CalculateSettlementRequest{
		Participants: []string{"Alice", "Bob", "Charlie"},
		Expenses: []*budgetv1.SettlementExpense{
			{ID: "1", Description: "Groceries", PaidBy: "Alice", Amount: dec("120.50"), SplitBetween: 3},
			{ID: "2", Description: "Utilities", PaidBy: "Bob", Amount: dec("85"), SplitBetween: 3},
			{ID: "3", Description: "Dinner", PaidBy: "Alice", Amount: dec("55"), SplitBetween: 2},
		},
		Policy: policy,
	}
}

func balanceOf(t *testing.T, s *budgetv1.Settlement, name string) *budgetv1.MemberBalance {
	t.Helper()
	for _, b := range s.Balances {
		if b.Name == name {
			return b
		}
	}
	t.Fatalf("no balance for %s", name)
	return nil
}

func assertTransfers(t *testing.T, got []*budgetv1.Transfer, want []budgetv1.Transfer) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d transfers, got %d: %+v", len(want), len(got), got)
	}
	for i, w := range want {
		g := got[i]
		if g.From != w.From || g.To != w.To || !g.Amount.Equal(w.Amount) {
			t.Errorf("transfer %d = %s -> %s %s, want %s -> %s %s", i, g.From, g.To, g.Amount, w.From, w.To, w.Amount)
		}
	}
}

func TestCalculateSettlement(t *testing.T) {
	c := setupTestServer(t)

	tests := []struct {
		name     string
		policy   string
		balances map[string]string
	}{
		{
			name:     "default policy debits every participant",
			policy:   "",
			balances: map[string]string{"Alice": "79.5", "Bob": "-11", "Charlie": "-96"},
		},
		{
			name:     "first_n policy",
			policy:   "first_n",
			balances: map[string]string{"Alice": "79.5", "Bob": "-11", "Charlie": "-68.5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.settle.CalculateSettlement(context.Background(), connect.NewRequest(exampleSettlementRequest(tt.policy)))
			if err != nil {
				t.Fatalf("CalculateSettlement failed: %v", err)
			}
			s := resp.Msg.Settlement

			if !s.TotalExpenses.Equal(dec("260.50")) {
				t.Errorf("TotalExpenses = %s, want 260.50", s.TotalExpenses)
			}
			for name, want := range tt.balances {
				if got := balanceOf(t, s, name).Net; !got.Equal(dec(want)) {
					t.Errorf("%s net = %s, want %s", name, got, want)
				}
			}
			assertTransfers(t, s.Transfers, []budgetv1.Transfer{
				{From: "Bob", To: "Alice", Amount: dec("11")},
				{From: "Charlie", To: "Alice", Amount: dec("68.5")},
			})
			if len(s.Warnings) != 0 {
				t.Errorf("unexpected warnings: %v", s.Warnings)
			}
		})
	}

	if got := c.observer.count(); got != 2 {
		t.Errorf("observer saw %d settlements, want 2", got)
	}
}

func TestCalculateSettlement_UnknownPayer(t *testing.T) {
	c := setupTestServer(t)

	resp, err := c.settle.CalculateSettlement(context.Background(), connect.NewRequest(&budgetv1.CalculateSettlementRequest{
		Participants: []string{"Alice", "Bob"},
		Expenses: []*budgetv1.SettlementExpense{
			{ID: "gone", PaidBy: "Zed", Amount: dec("40"), SplitBetween: 2},
		},
	}))
	if err != nil {
		t.Fatalf("CalculateSettlement failed: %v", err)
	}
	s := resp.Msg.Settlement
	if len(s.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", s.Warnings)
	}
	// Shares are still debited, nobody is credited.
	if got := balanceOf(t, s, "Alice").Net; !got.Equal(dec("-20")) {
		t.Errorf("Alice net = %s, want -20", got)
	}
	if len(s.Transfers) != 0 {
		t.Errorf("expected no transfers without creditors, got %+v", s.Transfers)
	}
}

func TestCalculateSettlement_Invalid(t *testing.T) {
	c := setupTestServer(t)

	tests := []struct {
		name string
		req  *budgetv1.CalculateSettlementRequest
	}{
		{
			name: "unknown policy",
			req:  &budgetv1.CalculateSettlementRequest{Participants: []string{"Alice"}, Policy: "weighted"},
		},
		{
			name: "zero split",
			req: &budgetv1.CalculateSettlementRequest{
				Participants: []string{"Alice", "Bob"},
				Expenses:     []*budgetv1.SettlementExpense{{PaidBy: "Alice", Amount: dec("10"), SplitBetween: 0}},
			},
		},
		{
			name: "negative amount",
			req: &budgetv1.CalculateSettlementRequest{
				Participants: []string{"Alice", "Bob"},
				Expenses:     []*budgetv1.SettlementExpense{{PaidBy: "Alice", Amount: dec("-10"), SplitBetween: 2}},
			},
		},
		{
			name: "duplicate participant",
			req:  &budgetv1.CalculateSettlementRequest{Participants: []string{"Alice", "Alice"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.settle.CalculateSettlement(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestCalculateSettlement_Empty(t *testing.T) {
	c := setupTestServer(t)

	resp, err := c.settle.CalculateSettlement(context.Background(), connect.NewRequest(&budgetv1.CalculateSettlementRequest{
		Participants: []string{"Alice", "Bob"},
	}))
	if err != nil {
		t.Fatalf("CalculateSettlement failed: %v", err)
	}
	if len(resp.Msg.Settlement.Transfers) != 0 {
		t.Errorf("expected no transfers, got %+v", resp.Msg.Settlement.Transfers)
	}
}

func TestBudgetSettlement_MarkPaid(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	budget := createTestBudget(t, c, "Alice", "Bob")
	addTestExpense(t, c, budget.Slug, "Alice", "100", 2)

	resp, err := c.settle.GetBudgetSettlement(ctx, connect.NewRequest(&budgetv1.GetBudgetSettlementRequest{Slug: budget.Slug}))
	if err != nil {
		t.Fatalf("GetBudgetSettlement failed: %v", err)
	}
	assertTransfers(t, resp.Msg.Settlement.Transfers, []budgetv1.Transfer{
		{From: "Bob", To: "Alice", Amount: dec("50")},
	})

	marked, err := c.settle.MarkTransferPaid(ctx, connect.NewRequest(&budgetv1.MarkTransferPaidRequest{
		Slug:   budget.Slug,
		From:   "Bob",
		To:     "Alice",
		Amount: dec("50"),
	}))
	if err != nil {
		t.Fatalf("MarkTransferPaid failed: %v", err)
	}
	if marked.Msg.Payment.ID == "" {
		t.Error("expected payment ID")
	}

	resp, err = c.settle.GetBudgetSettlement(ctx, connect.NewRequest(&budgetv1.GetBudgetSettlementRequest{Slug: budget.Slug}))
	if err != nil {
		t.Fatalf("GetBudgetSettlement failed: %v", err)
	}
	if len(resp.Msg.Settlement.Transfers) != 0 {
		t.Errorf("expected settled budget, got %+v", resp.Msg.Settlement.Transfers)
	}
	if len(resp.Msg.Payments) != 1 {
		t.Errorf("expected 1 recorded payment, got %d", len(resp.Msg.Payments))
	}
	for _, b := range resp.Msg.Settlement.Balances {
		if !b.Net.IsZero() {
			t.Errorf("%s net = %s, want 0", b.Name, b.Net)
		}
	}

	events, err := c.settle.ListEvents(ctx, connect.NewRequest(&budgetv1.ListEventsRequest{Slug: budget.Slug, Limit: 1}))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events.Msg.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events.Msg.Events))
	}
	e := events.Msg.Events[0]
	if e.Type != string(models.EventSettlement) || e.User != "Bob" || e.Description != "paid Alice" {
		t.Errorf("unexpected settlement event: %+v", e)
	}
	if e.Amount == nil || !e.Amount.Equal(dec("50")) {
		t.Errorf("event amount = %v, want 50", e.Amount)
	}
}

func TestMarkTransferPaid_Invalid(t *testing.T) {
	c := setupTestServer(t)
	budget := createTestBudget(t, c, "Alice", "Bob")

	tests := []struct {
		name string
		req  *budgetv1.MarkTransferPaidRequest
		code connect.Code
	}{
		{"unknown sender", &budgetv1.MarkTransferPaidRequest{Slug: budget.Slug, From: "Zed", To: "Alice", Amount: dec("5")}, connect.CodeInvalidArgument},
		{"unknown receiver", &budgetv1.MarkTransferPaidRequest{Slug: budget.Slug, From: "Bob", To: "Zed", Amount: dec("5")}, connect.CodeInvalidArgument},
		{"self transfer", &budgetv1.MarkTransferPaidRequest{Slug: budget.Slug, From: "Bob", To: "Bob", Amount: dec("5")}, connect.CodeInvalidArgument},
		{"zero amount", &budgetv1.MarkTransferPaidRequest{Slug: budget.Slug, From: "Bob", To: "Alice", Amount: dec("0")}, connect.CodeInvalidArgument},
		{"unknown budget", &budgetv1.MarkTransferPaidRequest{Slug: "missing-budget", From: "Bob", To: "Alice", Amount: dec("5")}, connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.settle.MarkTransferPaid(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, tt.code)
		})
	}
}

func TestListEvents(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	budget := createTestBudget(t, c, "Alice", "Bob")
	addTestExpense(t, c, budget.Slug, "Alice", "10", 2)

	all, err := c.settle.ListEvents(ctx, connect.NewRequest(&budgetv1.ListEventsRequest{Slug: budget.Slug}))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	// BUDGET_CREATE, two PARTICIPANT_ADD, EXPENSE_ADD
	if len(all.Msg.Events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(all.Msg.Events))
	}
	if all.Msg.Events[0].Type != string(models.EventExpenseAdd) {
		t.Errorf("newest event = %s, want EXPENSE_ADD", all.Msg.Events[0].Type)
	}
	if all.Msg.Events[3].Type != string(models.EventBudgetCreate) {
		t.Errorf("oldest event = %s, want BUDGET_CREATE", all.Msg.Events[3].Type)
	}

	limited, err := c.settle.ListEvents(ctx, connect.NewRequest(&budgetv1.ListEventsRequest{Slug: budget.Slug, Limit: 2}))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(limited.Msg.Events) != 2 {
		t.Errorf("expected 2 events, got %d", len(limited.Msg.Events))
	}

	_, err = c.settle.ListEvents(ctx, connect.NewRequest(&budgetv1.ListEventsRequest{Slug: budget.Slug, Limit: -1}))
	assertCode(t, err, connect.CodeInvalidArgument)
}
