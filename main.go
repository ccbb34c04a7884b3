package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/spencer-p/lowtide/pkg/config"
	"github.com/spencer-p/lowtide/pkg/data"
	"github.com/spencer-p/lowtide/pkg/handlers"
	"github.com/spencer-p/lowtide/pkg/lowtide"
	"github.com/spencer-p/lowtide/pkg/metrics"
)

func main() {
	env, err := config.Load()
	if err != nil {
		log.Fatal(err.Error())
	}
	loc, err := env.Location()
	if err != nil {
		log.Fatal(err.Error())
	}

	// The gazetteer is read once and shared by every request.
	zips, err := env.GazetteerLoader().Load(context.Background())
	if err != nil {
		log.Fatalf("Failed to load zip codes: %v", err)
	}
	log.Printf("Loaded %d zip codes", zips.Len())

	var lookups *data.Log
	if env.DatabaseDSN != "" {
		if lookups, err = data.Open(env.DatabaseDSN); err != nil {
			log.Fatal(err.Error())
		}
	}

	client := env.NOAAClient()
	srv := handlers.New(
		&lowtide.Fetcher{Zips: zips, Stations: client, Tides: client},
		lookups,
		handlers.Options{
			Prefix:     env.Prefix,
			DefaultZip: env.DefaultZip,
			Location:   loc,
			CacheTTL:   env.CacheTTL,
			Sessions:   handlers.NewStore(env.SessionKey, env.EncryptionKey),
		})

	r := mux.NewRouter().StrictSlash(true)
	r.Use(metrics.LatencyHandler)
	r.NotFoundHandler = metrics.LatencyHandler(http.NotFoundHandler())
	s := r.PathPrefix(env.Prefix).Subrouter()
	srv.Register(s)

	server := &http.Server{
		Handler:      r,
		Addr:         "0.0.0.0:" + env.Port,
		WriteTimeout: env.HTTPTimeout + 15*time.Second,
		ReadTimeout:  15 * time.Second,
	}
	log.Printf("Listening and serving on %s%s", server.Addr, env.Prefix)
	log.Fatal(server.ListenAndServe())
}
