package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"skyorder/internal/config"
	"skyorder/internal/middleware"
)

// gentoken mints a bearer token for local testing against the running server.
//
//	go run ./cmd/gentoken -user 7 -role user
func main() {
	userID := flag.Int64("user", 1, "user id carried in the token")
	role := flag.String("role", middleware.RoleUser, "employee | user")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	ttl := time.Duration(cfg.JWTExpirationHours) * time.Hour
	token, err := middleware.SignToken(cfg.JWTSecret, *userID, *role, ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sign:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
