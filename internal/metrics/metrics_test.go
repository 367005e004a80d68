package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("failed to read metrics: %v", err)
	}
	return string(body)
}

func TestObserveRPC(t *testing.T) {
	m := New()
	m.ObserveRPC("/budgetlink.v1.BudgetService/GetBudget", "ok", 20*time.Millisecond)
	m.ObserveRPC("/budgetlink.v1.BudgetService/GetBudget", "ok", 30*time.Millisecond)
	m.ObserveRPC("/budgetlink.v1.BudgetService/GetBudget", "not_found", time.Millisecond)

	body := scrape(t, m)
	for _, want := range []string{
		`budgetlink_rpc_requests_total{code="ok",procedure="/budgetlink.v1.BudgetService/GetBudget"} 2`,
		`budgetlink_rpc_requests_total{code="not_found",procedure="/budgetlink.v1.BudgetService/GetBudget"} 1`,
		`budgetlink_rpc_duration_seconds_count{procedure="/budgetlink.v1.BudgetService/GetBudget"} 3`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestObserveSettlement(t *testing.T) {
	m := New()
	m.ObserveSettlement(2, 0)
	m.ObserveSettlement(0, 1)

	body := scrape(t, m)
	for _, want := range []string{
		"budgetlink_settlements_computed_total 2",
		"budgetlink_settlement_transfers_count 2",
		"budgetlink_settlement_transfers_sum 2",
		"budgetlink_settlement_warnings_total 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ObserveSettlement(1, 0)

	if body := scrape(t, b); !strings.Contains(body, "budgetlink_settlements_computed_total 0") {
		t.Error("expected second registry to be unaffected")
	}
}
