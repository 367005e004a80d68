package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetlink/internal/auth"
	"github.com/mmynk/budgetlink/internal/calculator"
	"github.com/mmynk/budgetlink/internal/events"
	"github.com/mmynk/budgetlink/internal/models"
	"github.com/mmynk/budgetlink/internal/storage"
	budgetv1 "github.com/mmynk/budgetlink/pkg/api/budgetv1"
	"github.com/mmynk/budgetlink/pkg/api/budgetv1/budgetv1connect"
)

// SettlementObserver is told about every computed settlement.
type SettlementObserver interface {
	ObserveSettlement(transfers, warnings int)
}

// SettleConfig tunes the settlement engine for a SettleService.
type SettleConfig struct {
	Policy   calculator.SplitPolicy
	Epsilon  decimal.Decimal // zero means calculator.DefaultEpsilon
	Observer SettlementObserver
}

// SettleService implements the Connect SettleService
type SettleService struct {
	access
	events *events.Recorder
	cfg    SettleConfig
}

var _ budgetv1connect.SettleServiceHandler = (*SettleService)(nil)

// NewSettleService creates a new SettleService.
func NewSettleService(store storage.Store, guard auth.Guard, recorder *events.Recorder, cfg SettleConfig) *SettleService {
	return &SettleService{
		access: access{store: store, guard: guard},
		events: recorder,
		cfg:    cfg,
	}
}

func (s *SettleService) compute(participants []string, expenses []calculator.Expense, policy calculator.SplitPolicy, payments []calculator.Payment) (*calculator.Settlement, error) {
	settlement, err := calculator.ComputeSettlement(participants, expenses,
		calculator.WithPolicy(policy),
		calculator.WithEpsilon(s.cfg.Epsilon),
		calculator.WithPayments(payments),
	)
	if err != nil {
		return nil, err
	}
	for _, w := range settlement.Warnings {
		slog.Warn("Settlement data warning", "warning", w.Error())
	}
	if s.cfg.Observer != nil {
		s.cfg.Observer.ObserveSettlement(len(settlement.Transfers), len(settlement.Warnings))
	}
	return settlement, nil
}

// CalculateSettlement runs the engine on the request's participants and expenses.
// Nothing is stored.
func (s *SettleService) CalculateSettlement(ctx context.Context, req *connect.Request[budgetv1.CalculateSettlementRequest]) (*connect.Response[budgetv1.CalculateSettlementResponse], error) {
	msg := req.Msg
	slog.Info("CalculateSettlement request received",
		"participants", msg.Participants,
		"expenses_count", len(msg.Expenses),
		"policy", msg.Policy,
	)

	policy := s.cfg.Policy
	if msg.Policy != "" {
		p, err := calculator.ParseSplitPolicy(msg.Policy)
		if err != nil {
			return nil, connectError(invalid(err.Error()))
		}
		policy = p
	}

	expenses := make([]calculator.Expense, len(msg.Expenses))
	for i, e := range msg.Expenses {
		if e == nil {
			return nil, connectError(invalid("expense must not be null"))
		}
		expenses[i] = calculator.Expense{
			ID:           e.ID,
			Description:  e.Description,
			PaidBy:       e.PaidBy,
			Amount:       e.Amount,
			SplitBetween: e.SplitBetween,
		}
	}

	settlement, err := s.compute(msg.Participants, expenses, policy, nil)
	if err != nil {
		slog.Error("CalculateSettlement failed", "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&budgetv1.CalculateSettlementResponse{
		Settlement: toAPISettlement(settlement),
	}), nil
}

// GetBudgetSettlement settles a stored budget, counting transfers already marked paid.
func (s *SettleService) GetBudgetSettlement(ctx context.Context, req *connect.Request[budgetv1.GetBudgetSettlementRequest]) (*connect.Response[budgetv1.GetBudgetSettlementResponse], error) {
	slog.Info("GetBudgetSettlement request received", "slug", req.Msg.Slug)

	budget, err := s.budget(ctx, req.Msg.Slug, req.Msg.Password)
	if err != nil {
		return nil, connectError(err)
	}

	expenses, err := s.store.ListExpenses(ctx, budget.Slug)
	if err != nil {
		return nil, connectError(err)
	}
	payments, err := s.store.ListPayments(ctx, budget.Slug)
	if err != nil {
		return nil, connectError(err)
	}

	ce, cp := settlementInput(expenses, payments)
	settlement, err := s.compute(budget.Participants, ce, s.cfg.Policy, cp)
	if err != nil {
		slog.Error("GetBudgetSettlement failed", "slug", budget.Slug, "error", err)
		return nil, connectError(err)
	}

	apiPayments := make([]*budgetv1.Payment, len(payments))
	for i, p := range payments {
		apiPayments[i] = toAPIPayment(p)
	}

	slog.Info("GetBudgetSettlement successful", "slug", budget.Slug, "transfers", len(settlement.Transfers))

	return connect.NewResponse(&budgetv1.GetBudgetSettlementResponse{
		Settlement: toAPISettlement(settlement),
		Payments:   apiPayments,
	}), nil
}

// MarkTransferPaid records that a transfer happened and logs it in the activity feed.
func (s *SettleService) MarkTransferPaid(ctx context.Context, req *connect.Request[budgetv1.MarkTransferPaidRequest]) (*connect.Response[budgetv1.MarkTransferPaidResponse], error) {
	msg := req.Msg
	slog.Info("MarkTransferPaid request received",
		"slug", msg.Slug,
		"from", msg.From,
		"to", msg.To,
		"amount", msg.Amount,
	)

	budget, err := s.budget(ctx, msg.Slug, msg.Password)
	if err != nil {
		return nil, connectError(err)
	}

	from, to := strings.TrimSpace(msg.From), strings.TrimSpace(msg.To)
	switch {
	case !budget.HasParticipant(from):
		return nil, connectError(invalid("from must be one of the participants"))
	case !budget.HasParticipant(to):
		return nil, connectError(invalid("to must be one of the participants"))
	case from == to:
		return nil, connectError(invalid("from and to must differ"))
	case !msg.Amount.IsPositive():
		return nil, connectError(invalid("amount must be greater than zero"))
	}

	payment := &models.Payment{
		BudgetSlug: budget.Slug,
		From:       from,
		To:         to,
		Amount:     msg.Amount,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		slog.Error("MarkTransferPaid failed", "slug", budget.Slug, "error", err)
		return nil, connectError(err)
	}

	event := events.Settlement(budget.Slug, from, to, msg.Amount)
	record(ctx, s.events, event)

	slog.Info("Transfer marked paid", "slug", budget.Slug, "payment_id", payment.ID)

	return connect.NewResponse(&budgetv1.MarkTransferPaidResponse{
		Payment: toAPIPayment(payment),
		Event:   toAPIEvent(event),
	}), nil
}

// ListEvents returns the budget's activity log, newest first.
func (s *SettleService) ListEvents(ctx context.Context, req *connect.Request[budgetv1.ListEventsRequest]) (*connect.Response[budgetv1.ListEventsResponse], error) {
	slog.Info("ListEvents request received", "slug", req.Msg.Slug, "limit", req.Msg.Limit)

	if req.Msg.Limit < 0 {
		return nil, connectError(invalid("limit must not be negative"))
	}
	budget, err := s.budget(ctx, req.Msg.Slug, req.Msg.Password)
	if err != nil {
		return nil, connectError(err)
	}

	list, err := s.store.ListEvents(ctx, budget.Slug, req.Msg.Limit)
	if err != nil {
		slog.Error("ListEvents failed", "slug", budget.Slug, "error", err)
		return nil, connectError(err)
	}

	out := make([]*budgetv1.Event, len(list))
	for i, e := range list {
		out[i] = toAPIEvent(e)
	}

	return connect.NewResponse(&budgetv1.ListEventsResponse{Events: out}), nil
}
