package budgetv1connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	budgetv1 "github.com/mmynk/budgetlink/pkg/api/budgetv1"
)

// ExpenseServiceName is the fully-qualified name of the ExpenseService service.
const ExpenseServiceName = "budgetlink.v1.ExpenseService"

// Procedure paths, used for routing and in interceptors.
const (
	ExpenseServiceCreateExpenseProcedure = "/budgetlink.v1.ExpenseService/CreateExpense"
	ExpenseServiceGetExpenseProcedure    = "/budgetlink.v1.ExpenseService/GetExpense"
	ExpenseServiceListExpensesProcedure  = "/budgetlink.v1.ExpenseService/ListExpenses"
	ExpenseServiceUpdateExpenseProcedure = "/budgetlink.v1.ExpenseService/UpdateExpense"
	ExpenseServiceDeleteExpenseProcedure = "/budgetlink.v1.ExpenseService/DeleteExpense"
)

// ExpenseServiceClient is a client for the budgetlink.v1.ExpenseService service.
type ExpenseServiceClient interface {
	CreateExpense(context.Context, *connect.Request[budgetv1.CreateExpenseRequest]) (*connect.Response[budgetv1.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[budgetv1.GetExpenseRequest]) (*connect.Response[budgetv1.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[budgetv1.ListExpensesRequest]) (*connect.Response[budgetv1.ListExpensesResponse], error)
	UpdateExpense(context.Context, *connect.Request[budgetv1.UpdateExpenseRequest]) (*connect.Response[budgetv1.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[budgetv1.DeleteExpenseRequest]) (*connect.Response[budgetv1.DeleteExpenseResponse], error)
}

// NewExpenseServiceClient constructs a client for the budgetlink.v1.ExpenseService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &expenseServiceClient{
		createExpense: connect.NewClient[budgetv1.CreateExpenseRequest, budgetv1.CreateExpenseResponse](httpClient, baseURL+ExpenseServiceCreateExpenseProcedure, opts...),
		getExpense:    connect.NewClient[budgetv1.GetExpenseRequest, budgetv1.GetExpenseResponse](httpClient, baseURL+ExpenseServiceGetExpenseProcedure, opts...),
		listExpenses:  connect.NewClient[budgetv1.ListExpensesRequest, budgetv1.ListExpensesResponse](httpClient, baseURL+ExpenseServiceListExpensesProcedure, opts...),
		updateExpense: connect.NewClient[budgetv1.UpdateExpenseRequest, budgetv1.UpdateExpenseResponse](httpClient, baseURL+ExpenseServiceUpdateExpenseProcedure, opts...),
		deleteExpense: connect.NewClient[budgetv1.DeleteExpenseRequest, budgetv1.DeleteExpenseResponse](httpClient, baseURL+ExpenseServiceDeleteExpenseProcedure, opts...),
	}
}

type expenseServiceClient struct {
	createExpense *connect.Client[budgetv1.CreateExpenseRequest, budgetv1.CreateExpenseResponse]
	getExpense    *connect.Client[budgetv1.GetExpenseRequest, budgetv1.GetExpenseResponse]
	listExpenses  *connect.Client[budgetv1.ListExpensesRequest, budgetv1.ListExpensesResponse]
	updateExpense *connect.Client[budgetv1.UpdateExpenseRequest, budgetv1.UpdateExpenseResponse]
	deleteExpense *connect.Client[budgetv1.DeleteExpenseRequest, budgetv1.DeleteExpenseResponse]
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[budgetv1.CreateExpenseRequest]) (*connect.Response[budgetv1.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[budgetv1.GetExpenseRequest]) (*connect.Response[budgetv1.GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[budgetv1.ListExpensesRequest]) (*connect.Response[budgetv1.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[budgetv1.UpdateExpenseRequest]) (*connect.Response[budgetv1.UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[budgetv1.DeleteExpenseRequest]) (*connect.Response[budgetv1.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

// ExpenseServiceHandler is implemented by the server side of budgetlink.v1.ExpenseService.
// The service manages the expenses logged against a budget.
type ExpenseServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[budgetv1.CreateExpenseRequest]) (*connect.Response[budgetv1.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[budgetv1.GetExpenseRequest]) (*connect.Response[budgetv1.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[budgetv1.ListExpensesRequest]) (*connect.Response[budgetv1.ListExpensesResponse], error)
	UpdateExpense(context.Context, *connect.Request[budgetv1.UpdateExpenseRequest]) (*connect.Response[budgetv1.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[budgetv1.DeleteExpenseRequest]) (*connect.Response[budgetv1.DeleteExpenseResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	return "/" + ExpenseServiceName + "/", serve(map[string]*connect.Handler{
		ExpenseServiceCreateExpenseProcedure: connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...),
		ExpenseServiceGetExpenseProcedure:    connect.NewUnaryHandler(ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts...),
		ExpenseServiceListExpensesProcedure:  connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...),
		ExpenseServiceUpdateExpenseProcedure: connect.NewUnaryHandler(ExpenseServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...),
		ExpenseServiceDeleteExpenseProcedure: connect.NewUnaryHandler(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...),
	})
}
