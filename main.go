package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"directdm/config"
	dbpkg "directdm/db"
	"directdm/router"

	"github.com/gin-gonic/gin"
)

// =====================
// Expected ENV
// =====================
//
// - CONFIG_PATH              (path to the JSON config, default: config.json)
// - WEBHOOK_VERIFY_TOKEN     (Instagram webhook handshake token)
// - INSTAGRAM_APP_SECRET     (Meta app secret used to verify X-Hub-Signature-256)
// - AUTOMIGRATE              (set 1 to automigrate the schema on boot)
//
// Per-tenant credentials (Instagram access token, LLM api key) live in the
// tenant_configs table, not in the environment.
// =====================

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	cfg := config.Get(configPath)
	dbpkg.SetConfigurations(cfg)

	database, err := dbpkg.Connect()
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	defer database.Close()

	r := gin.New()
	router.Initialize(r, cfg, database)

	srv := &http.Server{
		Addr:              ":" + cfg.ApiPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("DirectDM listening on :%s", cfg.ApiPort)
	log.Fatal(srv.ListenAndServe())
}
