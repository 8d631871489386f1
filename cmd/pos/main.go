package main

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ScanTill/internal/pos"
	"ScanTill/pkg/kit"
)

func main() {
	service := "pos"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8083")
	catalogURL := getenv("CATALOG_URL", "http://localhost:8082")

	s := &pos.Server{
		Store:   pos.NewStore(),
		Catalog: pos.NewCatalogClient(catalogURL),
		Log:     log,
	}

	h := pos.NewHandler(s, pos.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: getenv("METRICS_ENABLED", "") == "true",
		MetricsToken:   getenv("METRICS_TOKEN", ""),
	})

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
