package main

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ScanTill/internal/gateway"
	"ScanTill/pkg/kit"
)

func main() {
	service := "gateway"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8080")

	h, err := gateway.NewHandler(
		gateway.Deps{
			AuthURL:    getenv("AUTH_URL", "http://localhost:8081"),
			CatalogURL: getenv("CATALOG_URL", "http://localhost:8082"),
			PosURL:     getenv("POS_URL", "http://localhost:8083"),
			JWTSecret:  getenv("JWT_SECRET", "dev-secret"),
		},
		gateway.HTTPDeps{
			Log:            log,
			Service:        service,
			Registry:       prometheus.NewRegistry(),
			MetricsEnabled: getenv("METRICS_ENABLED", "") == "true",
			MetricsToken:   getenv("METRICS_TOKEN", ""),
		},
	)
	if err != nil {
		log.Fatal("build gateway", zap.Error(err))
	}

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
