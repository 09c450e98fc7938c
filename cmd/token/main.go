// Command token mints a bearer token for local testing of the employee API.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/UnknownOlympus/staffbook/internal/auth"
	"github.com/UnknownOlympus/staffbook/internal/config"
)

func main() {
	userID := flag.String("user", "", "user id the token is issued for")
	ttl := flag.Duration("ttl", 0, "token lifetime, defaults to auth.token_ttl")
	flag.Parse()

	cfg := config.MustLoad()

	lifetime := cfg.Auth.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, err := auth.NewTokenManager(cfg.Auth.Secret, lifetime).Issue(*userID)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	fmt.Println(token) //nolint:forbidigo // the token is the program output
}
