package middleware

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mmynk/budgetlink/internal/auth"
)

// levelFor picks the log level for an RPC outcome: client mistakes are
// warnings, server faults are errors.
func levelFor(err error) slog.Level {
	if err == nil {
		return slog.LevelInfo
	}
	switch connect.CodeOf(err) {
	case connect.CodeInternal, connect.CodeUnknown, connect.CodeDataLoss, connect.CodeUnavailable:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// LoggingInterceptor logs one line per unary RPC with its procedure, budget,
// outcome and latency.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []slog.Attr{
				slog.String("procedure", req.Spec().Procedure),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			if slug, ok := auth.UnlockedSlug(ctx); ok {
				attrs = append(attrs, slog.String("budget", slug))
			}
			if id := chimw.GetReqID(ctx); id != "" {
				attrs = append(attrs, slog.String("request_id", id))
			}

			msg := "RPC ok"
			if err != nil {
				msg = "RPC error"
				attrs = append(attrs,
					slog.String("code", connect.CodeOf(err).String()),
					slog.String("error", err.Error()),
				)
			}
			slog.LogAttrs(ctx, levelFor(err), msg, attrs...)

			return resp, err
		}
	}
}
