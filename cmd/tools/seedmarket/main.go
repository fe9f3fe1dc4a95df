// Command seedmarket populates the listings database with sample inventory
// for local development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/ridelink/backend/internal/model/listing"
	"github.com/ridelink/backend/internal/store"
)

func main() {
	dbPath := flag.String("db", "data/ridelink.db", "path to the sqlite listings database")
	flag.Parse()

	s, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	for _, l := range listing.Seed() {
		created, err := s.Create(ctx, l)
		if err != nil {
			log.Fatalf("failed to seed %q: %v", l.Title, err)
		}
		fmt.Printf("seeded %s  %s ($%.0f)\n", created.ID, created.Title, created.Price)
	}
	fmt.Printf("seeded %d listings into %s\n", len(listing.Seed()), *dbPath)
}
