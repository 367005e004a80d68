package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/budgetlink/internal/auth"
	"github.com/mmynk/budgetlink/internal/calculator"
	"github.com/mmynk/budgetlink/internal/events"
	"github.com/mmynk/budgetlink/internal/ids"
	"github.com/mmynk/budgetlink/internal/middleware"
	"github.com/mmynk/budgetlink/internal/storage/sqlite"
	budgetv1 "github.com/mmynk/budgetlink/pkg/api/budgetv1"
	"github.com/mmynk/budgetlink/pkg/api/budgetv1/budgetv1connect"
)

const testFrontendURL = "http://budgets.test"

type testClients struct {
	budgets  budgetv1connect.BudgetServiceClient
	expenses budgetv1connect.ExpenseServiceClient
	settle   budgetv1connect.SettleServiceClient
	observer *countingObserver
}

// countingObserver counts computed settlements.
type countingObserver struct {
	mu          sync.Mutex
	settlements int
}

func (o *countingObserver) ObserveSettlement(_, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.settlements++
}

func (o *countingObserver) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.settlements
}

// sequenceIDs hands out slugs from a fixed list, repeating the last one.
type sequenceIDs struct {
	slugs []string
	n     int
}

func (s *sequenceIDs) Slug() string {
	slug := s.slugs[min(s.n, len(s.slugs)-1)]
	s.n++
	return slug
}

func (s *sequenceIDs) ID() string { return ids.Random{}.ID() }

// setupTestServer creates a test server backed by a temporary SQLite database
func setupTestServer(t *testing.T) *testClients {
	return setupTestServerWithIDs(t, ids.Random{})
}

// setupTestServerWithIDs creates a test server whose budgets get slugs from gen
func setupTestServerWithIDs(t *testing.T, gen ids.Generator) *testClients {
	t.Helper()

	// Create temp database
	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	guard := auth.NewPasswordGuard(auth.NewHasher(bcrypt.MinCost), jwtManager)
	recorder := events.NewRecorder(store, nil)
	observer := &countingObserver{}

	interceptors := connect.WithInterceptors(middleware.BudgetToken(jwtManager))

	mux := http.NewServeMux()
	mux.Handle(budgetv1connect.NewBudgetServiceHandler(
		NewBudgetService(store, guard, recorder, gen, testFrontendURL+"/"), interceptors))
	mux.Handle(budgetv1connect.NewExpenseServiceHandler(
		NewExpenseService(store, guard, recorder), interceptors))
	mux.Handle(budgetv1connect.NewSettleServiceHandler(
		NewSettleService(store, guard, recorder, SettleConfig{Policy: calculator.SplitAcrossAll, Observer: observer}), interceptors))

	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	})

	return &testClients{
		budgets:  budgetv1connect.NewBudgetServiceClient(http.DefaultClient, server.URL),
		expenses: budgetv1connect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		settle:   budgetv1connect.NewSettleServiceClient(http.DefaultClient, server.URL),
		observer: observer,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T { return &v }

// createTestBudget creates an unprotected budget with the given participants.
func createTestBudget(t *testing.T, c *testClients, participants ...string) *budgetv1.Budget {
	t.Helper()
	resp, err := c.budgets.CreateBudget(context.Background(), connect.NewRequest(&budgetv1.CreateBudgetRequest{
		Name:         "Household",
		TotalBudget:  dec("1000"),
		Participants: participants,
	}))
	if err != nil {
		t.Fatalf("CreateBudget failed: %v", err)
	}
	return resp.Msg.Budget
}

func addTestExpense(t *testing.T, c *testClients, slug, paidBy, amount string, splitBetween int) *budgetv1.Expense {
	t.Helper()
	resp, err := c.expenses.CreateExpense(context.Background(), connect.NewRequest(&budgetv1.CreateExpenseRequest{
		Slug:         slug,
		Description:  "Expense paid by " + paidBy,
		Amount:       dec(amount),
		Category:     "Food",
		PaidBy:       paidBy,
		SplitBetween: splitBetween,
	}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	return resp.Msg.Expense
}

// assertCode fails the test unless err is a Connect error with the given code.
func assertCode(t *testing.T, err error, want connect.Code) *connect.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error, got %T: %v", err, err)
	}
	if connectErr.Code() != want {
		t.Fatalf("expected code %v, got %v (%s)", want, connectErr.Code(), connectErr.Message())
	}
	return connectErr
}
