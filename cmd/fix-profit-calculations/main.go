// Command fix-profit-calculations recomputes listing prices, deposit totals
// and profit amounts for every pending deposit from the original cost, then
// repairs any stale listing prices. Safe to run repeatedly.
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
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	defer client.Disconnect(ctx)

	svc := services.NewReconciliationService(client)

	log.Println("Reconciling pending deposits...")
	depositSummary, err := svc.ReconcileDeposits(ctx)
	if err != nil {
		log.Printf("Deposit reconciliation failed: %v", err)
		os.Exit(1)
	}
	log.Printf("Deposits: scanned=%d repaired=%d batches=%d",
		depositSummary.Scanned, depositSummary.Repaired, depositSummary.Batches)

	log.Println("Reconciling listings...")
	listingSummary, err := svc.ReconcileListings(ctx)
	if err != nil {
		log.Printf("Listing reconciliation failed: %v", err)
		os.Exit(1)
	}
	log.Printf("Listings: scanned=%d repaired=%d",
		listingSummary.Scanned, listingSummary.Repaired)

	log.Println("Done")
}
