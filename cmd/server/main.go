package main

import (
	"fmt"
	"log"

	"skillhive/internal/config"
	"skillhive/internal/database"
	"skillhive/internal/server"
)

func main() {
	cfg := config.Load()
	database.Init(cfg.DBDSN, cfg.SuperAdminEmail, cfg.SuperAdminName)

	r := server.NewRouter(cfg)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
