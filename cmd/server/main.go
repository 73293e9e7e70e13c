package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/rs/cors"
	"github.com/teatak/mtag/config"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	addr := flag.String("addr", "", "listen address, overrides server.addr")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Initial load failed: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	// 1. Initial Load
	srv := newServer(cfg)
	if err := srv.reload(); err != nil {
		log.Fatalf("Initial load failed: %v", err)
	}

	// 2. Handlers
	handler := withCORS(cfg.Server, srv.routes())

	log.Printf("Server started on %s", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, handler))
}

// withCORS allows the configured origins, or any origin for simple requests when
// none are configured.
func withCORS(cfg config.ServerConfig, h http.Handler) http.Handler {
	if len(cfg.CORSOrigins) == 0 {
		return cors.Default().Handler(h)
	}
	return cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(h)
}
