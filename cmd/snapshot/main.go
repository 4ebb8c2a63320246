// Command snapshot fetches the three datasets once and writes their CSV and
// XLSX exports to disk, along with the insight lines on stdout. Useful for
// cron-driven archival and for eyeballing a sheet without running the
// server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"marketlens/internal/config"
	"marketlens/internal/exporter"
	"marketlens/internal/infrastructure"
	"marketlens/internal/services"
	"marketlens/pkg/contracts/domain"
)

func main() {
	dir := flag.String("dir", "", "output directory (defaults to the configured export dir)")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall run budget")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	outDir := *dir
	if outDir == "" {
		outDir = cfg.Export.Dir
	}

	dashboard, err := services.NewDashboardService(cfg, nil, logger)
	if err != nil {
		logger.Error("Failed to initialize dashboard service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	bundle, err := dashboard.Charts(ctx)
	if err != nil {
		logger.Error("Snapshot failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	for ds, msg := range bundle.Errors {
		logger.Warn("dataset unavailable",
			slog.String("dataset", ds),
			slog.String("error", msg))
	}

	failed := 0
	for _, ds := range []domain.Dataset{domain.DatasetVariation, domain.DatasetMovingAverage, domain.DatasetRSI} {
		doc, err := exporter.DocumentFor(ds, bundle.Variation, bundle.MovingAverage, bundle.RSI)
		if err != nil {
			failed++
			continue
		}
		if _, err := exporter.WriteCSVFile(outDir, doc, logger); err != nil {
			logger.Error("CSV export failed",
				slog.String("dataset", string(ds)),
				slog.String("error", err.Error()))
			failed++
		}
		if _, err := exporter.WriteXLSXFile(outDir, doc, logger); err != nil {
			logger.Error("XLSX export failed",
				slog.String("dataset", string(ds)),
				slog.String("error", err.Error()))
			failed++
		}
	}

	insights := dashboard.InsightsFrom(ctx, bundle)
	if insights.Variation != "" {
		fmt.Println(insights.Variation)
	}
	if insights.MovingAverage != "" {
		fmt.Println(insights.MovingAverage)
	}
	if insights.RSI != "" {
		fmt.Println(insights.RSI)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
