package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/config"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/handlers"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config file")
		address    = flag.String("address", "", "Base58 signer address the token is issued for")
		ttl        = flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	)
	flag.Parse()

	if *address == "" {
		log.Fatal("-address is required")
	}
	signer, err := ledger.ParseAddress(*address)
	if err != nil {
		log.Fatalf("Invalid address: %v", err)
	}

	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	auth := config.AppConfig.Auth
	if auth.JWTSecret == "" {
		log.Fatal("auth.jwtSecret is not configured")
	}

	token, err := handlers.GenerateJWTToken([]byte(auth.JWTSecret), auth.Issuer, *ttl, signer)
	if err != nil {
		log.Fatalf("Error generating token: %v", err)
	}

	fmt.Println("============================================================")
	fmt.Println("JWT Token Generated for Testing")
	fmt.Println("============================================================")
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Claims:")
	fmt.Printf("  Address: %s\n", signer)
	fmt.Printf("  Issuer: %s\n", auth.Issuer)
	fmt.Printf("  Expires: %s\n", time.Now().Add(*ttl).Format(time.RFC3339))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  curl -H \"Authorization: Bearer %s\" ...\n", token)
}
