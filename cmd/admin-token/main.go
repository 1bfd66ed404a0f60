// Command admin-token prints a signed admin bearer token for the patient API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"projeto_nfc/internal/common/security"
	"projeto_nfc/internal/domain/model"
	"projeto_nfc/internal/platform/config"
)

func main() {
	var subject, email, role string
	var ttl time.Duration
	flag.StringVar(&subject, "sub", "admin", "token subject")
	flag.StringVar(&email, "email", "", "email claim")
	flag.StringVar(&role, "role", model.RoleAdmin, "role claim")
	flag.DurationVar(&ttl, "ttl", 0, "token lifetime (default AUTH_TOKEN_TTL)")
	flag.Parse()

	cfg, err := config.LoadPatientAPI()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.AuthSigningKey == "" {
		fmt.Fprintln(os.Stderr, "Error: AUTH_SIGNING_KEY is required to issue tokens")
		os.Exit(1)
	}
	if ttl <= 0 {
		ttl = cfg.AuthTokenTTL
	}

	issuer := security.NewTokenIssuer([]byte(cfg.AuthSigningKey), cfg.AuthIssuer, cfg.AuthAudience, ttl)
	token, err := issuer.Issue(subject, email, role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
