package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pquerna/otp/totp"
)

func main() {
	secret := flag.String("secret", os.Getenv("ADMIN_TOTP_SECRET"), "Base32 admin TOTP secret")
	flag.Parse()

	if *secret == "" {
		log.Fatal("-secret or ADMIN_TOTP_SECRET is required")
	}

	now := time.Now()
	code, err := totp.GenerateCode(*secret, now)
	if err != nil {
		log.Fatalf("Failed to generate TOTP code: %v", err)
	}

	remaining := 30 - now.Unix()%30
	fmt.Printf("TOTP code: %s\n", code)
	fmt.Printf("Valid for: %ds\n", remaining)
}
