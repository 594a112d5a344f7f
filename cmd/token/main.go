// Command token issues bearer tokens signed with the server's JWT_SECRET, for
// local testing of the apps and the tracker.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"riderDelivery/internal/auth"
	"riderDelivery/internal/config"
)

func main() {
	name := flag.String("name", "", "username of the customer, rider or admin")
	kind := flag.String("kind", auth.KindCustomer, "principal kind: customer, rider or admin")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime; 0 means no expiry")
	flag.Parse()

	if *name == "" {
		log.Fatal("-name is required")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	tok, err := auth.Sign(cfg.Auth.JWTSecret, auth.Principal{Name: *name, Kind: *kind}, *ttl, time.Now())
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	fmt.Println(tok)
}
