package budgetv1connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	budgetv1 "github.com/mmynk/budgetlink/pkg/api/budgetv1"
)

// SettleServiceName is the fully-qualified name of the SettleService service.
const SettleServiceName = "budgetlink.v1.SettleService"

// Procedure paths, used for routing and in interceptors.
const (
	SettleServiceCalculateSettlementProcedure = "/budgetlink.v1.SettleService/CalculateSettlement"
	SettleServiceGetBudgetSettlementProcedure = "/budgetlink.v1.SettleService/GetBudgetSettlement"
	SettleServiceMarkTransferPaidProcedure    = "/budgetlink.v1.SettleService/MarkTransferPaid"
	SettleServiceListEventsProcedure          = "/budgetlink.v1.SettleService/ListEvents"
)

// SettleServiceClient is a client for the budgetlink.v1.SettleService service.
type SettleServiceClient interface {
	CalculateSettlement(context.Context, *connect.Request[budgetv1.CalculateSettlementRequest]) (*connect.Response[budgetv1.CalculateSettlementResponse], error)
	GetBudgetSettlement(context.Context, *connect.Request[budgetv1.GetBudgetSettlementRequest]) (*connect.Response[budgetv1.GetBudgetSettlementResponse], error)
	MarkTransferPaid(context.Context, *connect.Request[budgetv1.MarkTransferPaidRequest]) (*connect.Response[budgetv1.MarkTransferPaidResponse], error)
	ListEvents(context.Context, *connect.Request[budgetv1.ListEventsRequest]) (*connect.Response[budgetv1.ListEventsResponse], error)
}

// NewSettleServiceClient constructs a client for the budgetlink.v1.SettleService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewSettleServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettleServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &settleServiceClient{
		calculateSettlement: connect.NewClient[budgetv1.CalculateSettlementRequest, budgetv1.CalculateSettlementResponse](httpClient, baseURL+SettleServiceCalculateSettlementProcedure, opts...),
		getBudgetSettlement: connect.NewClient[budgetv1.GetBudgetSettlementRequest, budgetv1.GetBudgetSettlementResponse](httpClient, baseURL+SettleServiceGetBudgetSettlementProcedure, opts...),
		markTransferPaid:    connect.NewClient[budgetv1.MarkTransferPaidRequest, budgetv1.MarkTransferPaidResponse](httpClient, baseURL+SettleServiceMarkTransferPaidProcedure, opts...),
		listEvents:          connect.NewClient[budgetv1.ListEventsRequest, budgetv1.ListEventsResponse](httpClient, baseURL+SettleServiceListEventsProcedure, opts...),
	}
}

type settleServiceClient struct {
	calculateSettlement *connect.Client[budgetv1.CalculateSettlementRequest, budgetv1.CalculateSettlementResponse]
	getBudgetSettlement *connect.Client[budgetv1.GetBudgetSettlementRequest, budgetv1.GetBudgetSettlementResponse]
	markTransferPaid    *connect.Client[budgetv1.MarkTransferPaidRequest, budgetv1.MarkTransferPaidResponse]
	listEvents          *connect.Client[budgetv1.ListEventsRequest, budgetv1.ListEventsResponse]
}

func (c *settleServiceClient) CalculateSettlement(ctx context.Context, req *connect.Request[budgetv1.CalculateSettlementRequest]) (*connect.Response[budgetv1.CalculateSettlementResponse], error) {
	return c.calculateSettlement.CallUnary(ctx, req)
}

func (c *settleServiceClient) GetBudgetSettlement(ctx context.Context, req *connect.Request[budgetv1.GetBudgetSettlementRequest]) (*connect.Response[budgetv1.GetBudgetSettlementResponse], error) {
	return c.getBudgetSettlement.CallUnary(ctx, req)
}

func (c *settleServiceClient) MarkTransferPaid(ctx context.Context, req *connect.Request[budgetv1.MarkTransferPaidRequest]) (*connect.Response[budgetv1.MarkTransferPaidResponse], error) {
	return c.markTransferPaid.CallUnary(ctx, req)
}

func (c *settleServiceClient) ListEvents(ctx context.Context, req *connect.Request[budgetv1.ListEventsRequest]) (*connect.Response[budgetv1.ListEventsResponse], error) {
	return c.listEvents.CallUnary(ctx, req)
}

// SettleServiceHandler is implemented by the server side of budgetlink.v1.SettleService.
// The service computes settlements and records paid transfers.
type SettleServiceHandler interface {
	CalculateSettlement(context.Context, *connect.Request[budgetv1.CalculateSettlementRequest]) (*connect.Response[budgetv1.CalculateSettlementResponse], error)
	GetBudgetSettlement(context.Context, *connect.Request[budgetv1.GetBudgetSettlementRequest]) (*connect.Response[budgetv1.GetBudgetSettlementResponse], error)
	MarkTransferPaid(context.Context, *connect.Request[budgetv1.MarkTransferPaidRequest]) (*connect.Response[budgetv1.MarkTransferPaidResponse], error)
	ListEvents(context.Context, *connect.Request[budgetv1.ListEventsRequest]) (*connect.Response[budgetv1.ListEventsResponse], error)
}

// NewSettleServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSettleServiceHandler(svc SettleServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	return "/" + SettleServiceName + "/", serve(map[string]*connect.Handler{
		SettleServiceCalculateSettlementProcedure: connect.NewUnaryHandler(SettleServiceCalculateSettlementProcedure, svc.CalculateSettlement, opts...),
		SettleServiceGetBudgetSettlementProcedure: connect.NewUnaryHandler(SettleServiceGetBudgetSettlementProcedure, svc.GetBudgetSettlement, opts...),
		SettleServiceMarkTransferPaidProcedure:    connect.NewUnaryHandler(SettleServiceMarkTransferPaidProcedure, svc.MarkTransferPaid, opts...),
		SettleServiceListEventsProcedure:          connect.NewUnaryHandler(SettleServiceListEventsProcedure, svc.ListEvents, opts...),
	})
}
