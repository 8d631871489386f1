package main

import (
	"database/sql"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ScanTill/internal/catalog"
	"ScanTill/pkg/kit"
)

func main() {
	service := "catalog"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8082")

	store, closeDB := buildStore(log)
	defer closeDB()

	s := &catalog.Server{Store: store, Log: log}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
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

func buildStore(log *zap.Logger) (catalog.Store, func()) {
	dsn := getenv("DATABASE_URL", "")
	if dsn == "" {
		log.Info("using in-memory catalog")
		return catalog.NewMemStore(), func() {}
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}

	log.Info("using postgres catalog")
	return catalog.NewPostgresStore(db), func() { _ = db.Close() }
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
