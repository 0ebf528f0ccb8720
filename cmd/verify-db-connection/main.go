package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/config"

	_ "github.com/lib/pq"
)

// expected ledger_accounts columns and their character limits (0 = unbounded)
var expectedColumns = map[string]int64{
	"address":    64,
	"kind":       32,
	"data":       0,
	"created_at": 0,
	"updated_at": 0,
}

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	fmt.Println("🔍 Verifying ledger database connection and schema...")
	fmt.Println(strings.Repeat("=", 60))

	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	dsn := config.AppConfig.Database.DSN
	if dsn == "" {
		log.Fatal("database.dsn is not configured")
	}

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer sqlDB.Close()

	var dbName string
	if err := sqlDB.QueryRow("SELECT current_database()").Scan(&dbName); err != nil {
		log.Fatalf("Failed to get database name: %v", err)
	}
	fmt.Printf("📋 Connected to database: %s\n", dbName)

	rows, err := sqlDB.Query(`
		SELECT column_name, data_type, character_maximum_length
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = 'ledger_accounts'
		ORDER BY ordinal_position
	`)
	if err != nil {
		log.Fatalf("Failed to query columns: %v", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	problems := 0
	for rows.Next() {
		var column, dataType string
		var maxLength sql.NullInt64
		if err := rows.Scan(&column, &dataType, &maxLength); err != nil {
			log.Printf("Error scanning row: %v", err)
			continue
		}
		seen[column] = true
		want, known := expectedColumns[column]
		switch {
		case !known:
			fmt.Printf("  ⚠️  %s (%s): unexpected column\n", column, dataType)
		case want > 0 && maxLength.Int64 != want:
			fmt.Printf("  ❌ %s: VARCHAR(%d), expected VARCHAR(%d)\n", column, maxLength.Int64, want)
			problems++
		default:
			fmt.Printf("  ✅ %s (%s)\n", column, dataType)
		}
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("Failed to read columns: %v", err)
	}
	for column := range expectedColumns {
		if !seen[column] {
			fmt.Printf("  ❌ %s: missing\n", column)
			problems++
		}
	}

	var accounts int64
	if err := sqlDB.QueryRow("SELECT COUNT(*) FROM ledger_accounts").Scan(&accounts); err == nil {
		fmt.Printf("\n📊 Ledger accounts: %d\n", accounts)
	}

	fmt.Println(strings.Repeat("=", 60))
	if problems > 0 {
		log.Fatalf("❌ %d schema problem(s) found, start the bridge node once to migrate", problems)
	}
	fmt.Println("✅ Ledger schema looks good")
}
