// Command fix-product-instances splits multi-quantity stock records into one
// record per physical unit, each with its own product id, and copies the
// inventory and listing rows onto the new units. Source records are flagged,
// never deleted, so a rerun skips them.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/JWehbe/tikshop_backend/config"
	"github.com/JWehbe/tikshop_backend/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	client := config.ConnectDB()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	defer client.Disconnect(ctx)

	svc := services.NewInstanceService(client)

	log.Println("Splitting multi-quantity stock records...")
	summary, err := svc.SplitProductInstances(ctx)
	if err != nil {
		log.Printf("Split failed: %v", err)
		os.Exit(1)
	}

	log.Printf("Split %d records into %d units (inventory rows copied: %d, listing rows copied: %d)",
		summary.RecordsSplit, summary.UnitsCreated, summary.InventoryCopied, summary.ListingsCopied)
	log.Println("Done")
}
