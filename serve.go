package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	checkoutapp "github.com/Zhima-Mochi/pos-checkout/internal/application/checkout"
	registerapp "github.com/Zhima-Mochi/pos-checkout/internal/application/register"
	"github.com/Zhima-Mochi/pos-checkout/internal/config"
	"github.com/Zhima-Mochi/pos-checkout/internal/infrastructure/id"
	"github.com/Zhima-Mochi/pos-checkout/internal/infrastructure/memory"
	infraobs "github.com/Zhima-Mochi/pos-checkout/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/pos-checkout/internal/infrastructure/observability/oteltrace"
	"github.com/Zhima-Mochi/pos-checkout/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/pos-checkout/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/pos-checkout/internal/infrastructure/outbox"
	"github.com/Zhima-Mochi/pos-checkout/internal/observability"
	"github.com/Zhima-Mochi/pos-checkout/internal/pkg/logging"
	httppresentation "github.com/Zhima-Mochi/pos-checkout/internal/presentation/http"
	workerpresentation "github.com/Zhima-Mochi/pos-checkout/internal/presentation/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the checkout HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	baseLogger, err := logging.NewLogger(logging.Options{
		Service: cfg.App.Service,
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
	})
	if err != nil {
		return err
	}
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	systemLogger := zaplogger.New(logging.WithTrace(baseLogger, logging.SystemTraceID, logging.SystemSpanID))
	obs := infraobs.New(
		oteltrace.New(cfg.App.Service),
		zaplogger.New(baseLogger),
		registerCounters(cfg.Metrics.Namespace),
		registerHistograms(cfg.Metrics.Namespace),
	)

	// in-memory event bus carrying order.finalized to the register worker
	bus := outbox.NewBus(systemLogger, obs,
		outbox.WithQueueSize(cfg.Outbox.QueueSize),
		outbox.WithHandlerTimeout(cfg.Outbox.HandlerTimeout),
	)

	catalog := memory.NewCatalog()
	payments := memory.NewPaymentMethodRegistry()
	registers := memory.NewRegisterRegistry()

	checkoutService := checkoutapp.NewService(checkoutapp.Dependencies{
		Catalog:   catalog,
		Tickets:   memory.NewTicketRegistry(),
		Payments:  payments,
		Registers: registers,
		Orders:    memory.NewOrderRepository(),
		IDs:       id.NewUUIDGenerator(),
		Publisher: bus,
		Obs:       obs,
	})
	registerService := registerapp.NewService(registers, memory.NewTakingsRepository())
	registerapp.NewWorker(registerService, workerpresentation.NewSubscriber(bus, obs.Logger(), obs), obs).Start()

	bus.Start(parent)

	handler := httppresentation.NewHandler(checkoutService, registerService, catalog, payments, obs)
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		systemLogger.Info("http_server_start",
			observability.F("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			systemLogger.Error("http_server_error", observability.F("error", err))
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		systemLogger.Error("http_server_shutdown_error",
			observability.F("error", err),
		)
	} else {
		systemLogger.Info("http_server_stopped")
	}
	bus.Stop(shutdownCtx)
	return nil
}

func registerCounters(namespace string) map[observability.MetricKey]observability.Counter {
	reg := prometrics.New(namespace, "", prometheus.DefaultRegisterer)
	return map[observability.MetricKey]observability.Counter{
		observability.MUsecaseRequests: reg.Counter(string(observability.MUsecaseRequests),
			"Total number of use case invocations.", "use_case", "outcome"),
		observability.MHTTPRequests: reg.Counter(string(observability.MHTTPRequests),
			"Total number of HTTP requests.", "method", "route", "status"),
		observability.MExternalRequests: reg.Counter(string(observability.MExternalRequests),
			"Calls to collaborators outside the use case.", "peer", "endpoint", "outcome"),
		observability.MOrdersFinalized: reg.Counter(string(observability.MOrdersFinalized),
			"Orders finalized by payment method.", "payment_method"),
		observability.MSessionsOpen: reg.Counter(string(observability.MSessionsOpen),
			"Terminal sessions opened per register.", "register"),
		observability.MEventsHandled: reg.Counter(string(observability.MEventsHandled),
			"Event handler invocations.", "event", "outcome"),
	}
}

func registerHistograms(namespace string) map[observability.MetricKey]observability.Histogram {
	reg := prometrics.New(namespace, "", prometheus.DefaultRegisterer)
	return map[observability.MetricKey]observability.Histogram{
		observability.MUsecaseDuration: reg.Histogram(string(observability.MUsecaseDuration),
			"Duration of use case execution in seconds.", prometheus.DefBuckets, "use_case"),
		observability.MHTTPRequestDuration: reg.Histogram(string(observability.MHTTPRequestDuration),
			"Duration of HTTP requests in seconds.", prometheus.DefBuckets, "method", "route", "status"),
		observability.MExternalRequestDuration: reg.Histogram(string(observability.MExternalRequestDuration),
			"Duration of external calls in seconds.", prometheus.DefBuckets, "peer", "endpoint"),
		observability.MOrderValue: reg.Histogram(string(observability.MOrderValue),
			"Finalized order totals.", []float64{5, 10, 20, 50, 100, 200, 500}, "payment_method"),
	}
}
