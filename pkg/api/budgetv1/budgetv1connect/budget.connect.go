package budgetv1connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	budgetv1 "github.com/mmynk/budgetlink/pkg/api/budgetv1"
)

// BudgetServiceName is the fully-qualified name of the BudgetService service.
const BudgetServiceName = "budgetlink.v1.BudgetService"

// Procedure paths, used for routing and in interceptors.
const (
	BudgetServiceCreateBudgetProcedure      = "/budgetlink.v1.BudgetService/CreateBudget"
	BudgetServiceGetBudgetProcedure         = "/budgetlink.v1.BudgetService/GetBudget"
	BudgetServiceUpdateBudgetProcedure      = "/budgetlink.v1.BudgetService/UpdateBudget"
	BudgetServiceDeleteBudgetProcedure      = "/budgetlink.v1.BudgetService/DeleteBudget"
	BudgetServiceUnlockBudgetProcedure      = "/budgetlink.v1.BudgetService/UnlockBudget"
	BudgetServiceAddParticipantProcedure    = "/budgetlink.v1.BudgetService/AddParticipant"
	BudgetServiceRemoveParticipantProcedure = "/budgetlink.v1.BudgetService/RemoveParticipant"
)

// BudgetServiceClient is a client for the budgetlink.v1.BudgetService service.
type BudgetServiceClient interface {
	CreateBudget(context.Context, *connect.Request[budgetv1.CreateBudgetRequest]) (*connect.Response[budgetv1.CreateBudgetResponse], error)
	GetBudget(context.Context, *connect.Request[budgetv1.GetBudgetRequest]) (*connect.Response[budgetv1.GetBudgetResponse], error)
	UpdateBudget(context.Context, *connect.Request[budgetv1.UpdateBudgetRequest]) (*connect.Response[budgetv1.UpdateBudgetResponse], error)
	DeleteBudget(context.Context, *connect.Request[budgetv1.DeleteBudgetRequest]) (*connect.Response[budgetv1.DeleteBudgetResponse], error)
	UnlockBudget(context.Context, *connect.Request[budgetv1.UnlockBudgetRequest]) (*connect.Response[budgetv1.UnlockBudgetResponse], error)
	AddParticipant(context.Context, *connect.Request[budgetv1.AddParticipantRequest]) (*connect.Response[budgetv1.AddParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[budgetv1.RemoveParticipantRequest]) (*connect.Response[budgetv1.RemoveParticipantResponse], error)
}

// NewBudgetServiceClient constructs a client for the budgetlink.v1.BudgetService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewBudgetServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BudgetServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &budgetServiceClient{
		createBudget:      connect.NewClient[budgetv1.CreateBudgetRequest, budgetv1.CreateBudgetResponse](httpClient, baseURL+BudgetServiceCreateBudgetProcedure, opts...),
		getBudget:         connect.NewClient[budgetv1.GetBudgetRequest, budgetv1.GetBudgetResponse](httpClient, baseURL+BudgetServiceGetBudgetProcedure, opts...),
		updateBudget:      connect.NewClient[budgetv1.UpdateBudgetRequest, budgetv1.UpdateBudgetResponse](httpClient, baseURL+BudgetServiceUpdateBudgetProcedure, opts...),
		deleteBudget:      connect.NewClient[budgetv1.DeleteBudgetRequest, budgetv1.DeleteBudgetResponse](httpClient, baseURL+BudgetServiceDeleteBudgetProcedure, opts...),
		unlockBudget:      connect.NewClient[budgetv1.UnlockBudgetRequest, budgetv1.UnlockBudgetResponse](httpClient, baseURL+BudgetServiceUnlockBudgetProcedure, opts...),
		addParticipant:    connect.NewClient[budgetv1.AddParticipantRequest, budgetv1.AddParticipantResponse](httpClient, baseURL+BudgetServiceAddParticipantProcedure, opts...),
		removeParticipant: connect.NewClient[budgetv1.RemoveParticipantRequest, budgetv1.RemoveParticipantResponse](httpClient, baseURL+BudgetServiceRemoveParticipantProcedure, opts...),
	}
}

type budgetServiceClient struct {
	createBudget      *connect.Client[budgetv1.CreateBudgetRequest, budgetv1.CreateBudgetResponse]
	getBudget         *connect.Client[budgetv1.GetBudgetRequest, budgetv1.GetBudgetResponse]
	updateBudget      *connect.Client[budgetv1.UpdateBudgetRequest, budgetv1.UpdateBudgetResponse]
	deleteBudget      *connect.Client[budgetv1.DeleteBudgetRequest, budgetv1.DeleteBudgetResponse]
	unlockBudget      *connect.Client[budgetv1.UnlockBudgetRequest, budgetv1.UnlockBudgetResponse]
	addParticipant    *connect.Client[budgetv1.AddParticipantRequest, budgetv1.AddParticipantResponse]
	removeParticipant *connect.Client[budgetv1.RemoveParticipantRequest, budgetv1.RemoveParticipantResponse]
}

func (c *budgetServiceClient) CreateBudget(ctx context.Context, req *connect.Request[budgetv1.CreateBudgetRequest]) (*connect.Response[budgetv1.CreateBudgetResponse], error) {
	return c.createBudget.CallUnary(ctx, req)
}

func (c *budgetServiceClient) GetBudget(ctx context.Context, req *connect.Request[budgetv1.GetBudgetRequest]) (*connect.Response[budgetv1.GetBudgetResponse], error) {
	return c.getBudget.CallUnary(ctx, req)
}

func (c *budgetServiceClient) UpdateBudget(ctx context.Context, req *connect.Request[budgetv1.UpdateBudgetRequest]) (*connect.Response[budgetv1.UpdateBudgetResponse], error) {
	return c.updateBudget.CallUnary(ctx, req)
}

func (c *budgetServiceClient) DeleteBudget(ctx context.Context, req *connect.Request[budgetv1.DeleteBudgetRequest]) (*connect.Response[budgetv1.DeleteBudgetResponse], error) {
	return c.deleteBudget.CallUnary(ctx, req)
}

func (c *budgetServiceClient) UnlockBudget(ctx context.Context, req *connect.Request[budgetv1.UnlockBudgetRequest]) (*connect.Response[budgetv1.UnlockBudgetResponse], error) {
	return c.unlockBudget.CallUnary(ctx, req)
}

func (c *budgetServiceClient) AddParticipant(ctx context.Context, req *connect.Request[budgetv1.AddParticipantRequest]) (*connect.Response[budgetv1.AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *budgetServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[budgetv1.RemoveParticipantRequest]) (*connect.Response[budgetv1.RemoveParticipantResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}

// BudgetServiceHandler is implemented by the server side of budgetlink.v1.BudgetService.
// The service manages budgets and their participants.
type BudgetServiceHandler interface {
	CreateBudget(context.Context, *connect.Request[budgetv1.CreateBudgetRequest]) (*connect.Response[budgetv1.CreateBudgetResponse], error)
	GetBudget(context.Context, *connect.Request[budgetv1.GetBudgetRequest]) (*connect.Response[budgetv1.GetBudgetResponse], error)
	UpdateBudget(context.Context, *connect.Request[budgetv1.UpdateBudgetRequest]) (*connect.Response[budgetv1.UpdateBudgetResponse], error)
	DeleteBudget(context.Context, *connect.Request[budgetv1.DeleteBudgetRequest]) (*connect.Response[budgetv1.DeleteBudgetResponse], error)
	UnlockBudget(context.Context, *connect.Request[budgetv1.UnlockBudgetRequest]) (*connect.Response[budgetv1.UnlockBudgetResponse], error)
	AddParticipant(context.Context, *connect.Request[budgetv1.AddParticipantRequest]) (*connect.Response[budgetv1.AddParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[budgetv1.RemoveParticipantRequest]) (*connect.Response[budgetv1.RemoveParticipantResponse], error)
}

// NewBudgetServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewBudgetServiceHandler(svc BudgetServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	return "/" + BudgetServiceName + "/", serve(map[string]*connect.Handler{
		BudgetServiceCreateBudgetProcedure:      connect.NewUnaryHandler(BudgetServiceCreateBudgetProcedure, svc.CreateBudget, opts...),
		BudgetServiceGetBudgetProcedure:         connect.NewUnaryHandler(BudgetServiceGetBudgetProcedure, svc.GetBudget, opts...),
		BudgetServiceUpdateBudgetProcedure:      connect.NewUnaryHandler(BudgetServiceUpdateBudgetProcedure, svc.UpdateBudget, opts...),
		BudgetServiceDeleteBudgetProcedure:      connect.NewUnaryHandler(BudgetServiceDeleteBudgetProcedure, svc.DeleteBudget, opts...),
		BudgetServiceUnlockBudgetProcedure:      connect.NewUnaryHandler(BudgetServiceUnlockBudgetProcedure, svc.UnlockBudget, opts...),
		BudgetServiceAddParticipantProcedure:    connect.NewUnaryHandler(BudgetServiceAddParticipantProcedure, svc.AddParticipant, opts...),
		BudgetServiceRemoveParticipantProcedure: connect.NewUnaryHandler(BudgetServiceRemoveParticipantProcedure, svc.RemoveParticipant, opts...),
	})
}
