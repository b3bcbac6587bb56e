// Package main mints access tokens shaped like the platform's so a local
// gateway can be called without the platform's auth service.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/event-entry/internal/model"
	"github.com/iliyamo/event-entry/internal/utils"
)

func main() {
	_ = godotenv.Load()

	var (
		user   string
		role   string
		secret string
		ttl    time.Duration
	)
	flag.StringVar(&user, "user", "dev-user", "subject (user id) of the token")
	flag.StringVar(&role, "role", model.RoleOrganizer, "ADMIN, ORGANIZER, STAFF or CUSTOMER")
	flag.StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HS256 signing secret (default: $JWT_SECRET)")
	flag.DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	flag.Parse()

	role = strings.ToUpper(role)
	switch role {
	case model.RoleAdmin, model.RoleOrganizer, model.RoleStaff, model.RoleCustomer:
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown role %q\n", role)
		os.Exit(2)
	}

	tok, err := utils.NewAccessToken(secret, user, role, ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok.Token)
}
