// Command tool mints access tokens for local testing, so curl sessions and
// load scripts don't need to walk the login flow first.
//
//	go run ./cmd/tool -secret dev-secret -account acct-1 -role super-admin
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/islamipic/api/internal/domain"
	"github.com/islamipic/api/internal/infrastructure/security"
)

func main() {
	var (
		secret  = flag.String("secret", os.Getenv("JWT_SECRET"), "JWT signing secret")
		issuer  = flag.String("issuer", "islamipic-api", "JWT issuer")
		account = flag.String("account", "", "account id (random when empty)")
		role    = flag.String("role", string(domain.RoleUser), "account role")
		ttl     = flag.Duration("ttl", time.Hour, "token lifetime")
		count   = flag.Int("n", 1, "number of tokens to mint")
	)
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "missing -secret (or JWT_SECRET)")
		os.Exit(2)
	}
	if !domain.IsValidRole(*role) {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	signer := security.NewJWTSigner(*secret, *issuer)
	for i := 0; i < *count; i++ {
		id := *account
		if id == "" {
			id = uuid.NewString()
		}
		tok, err := signer.SignAccessToken(id, *role, *ttl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sign: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(tok)
	}
}
