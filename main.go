package main

import (
	"log/slog"
	"os"

	"github.com/valyala/fasthttp"

	"pension-engine/internal/accrual"
	"pension-engine/internal/httpapi"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	var rates accrual.Provider = accrual.FixedRateProvider{}
	if url := os.Getenv("SCHEME_REGISTRY_URL"); url != "" {
		rates = accrual.NewRegistryClient(url)
		logger.Info("accrual rate provider configured", "scheme_registry_url", url)
	}

	server := httpapi.New(rates, logger)

	logger.Info("pension engine starting", "port", port)
	if err := fasthttp.ListenAndServe(":"+port, server.Handler()); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
