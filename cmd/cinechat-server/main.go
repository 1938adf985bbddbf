package main

import (
	"fmt"
	"log"
	"net/http"

	"cinechat/internal/catalog"
	"cinechat/internal/config"
	"cinechat/internal/db"
	"cinechat/internal/server"
	"cinechat/internal/store"
)

func main() {
	cfg := config.Load()

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}
	log.Printf("catalog loaded: %d movies", cat.Len())

	var st store.Store
	if cfg.DatabaseURL != "" {
		database, err := db.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to initialize database: %v", err)
		}
		defer database.Close()
		st, err = store.NewDatabaseStore(database)
		if err != nil {
			log.Fatalf("failed to initialize database store: %v", err)
		}
		log.Println("database connection established")
	} else {
		log.Println("DB_URL not provided, using in-memory storage")
		st = store.NewMemoryStore()
	}

	s := server.NewServer(cfg, st, cat)
	addr := ":" + cfg.Port
	fmt.Printf("cinechat gateway listening on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, s.Router()))
}
