// Command diagnose-bulk-issue audits bulk payment batches for inconsistent
// state: approved batches whose deposits were never all marked paid, wallet
// batches stuck short of approval, batches referencing deleted deposits, and
// batches over the deposit limit. The scan is read-only and only reports;
// it exits non-zero on scan errors, not on findings.
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

	svc := services.NewDiagnosticsService(client)

	log.Println("Scanning bulk payment batches...")
	summary, err := svc.DiagnoseBulkPayments(ctx)
	if err != nil {
		log.Printf("Diagnosis failed: %v", err)
		os.Exit(1)
	}

	log.Printf("Scanned %d batches, found %d with issues",
		summary.BatchesScanned, len(summary.Issues))

	for _, issue := range summary.Issues {
		log.Printf("batch=%s seller=%s status=%s",
			issue.BatchID.Hex(), issue.SellerID.Hex(), issue.Status)
		for _, problem := range issue.Problems {
			log.Printf("  - %s", problem)
		}
	}

	if len(summary.Issues) == 0 {
		log.Println("All batches consistent")
	}
}
