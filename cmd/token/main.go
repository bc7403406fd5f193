// Command token issues bearer tokens for host form frameworks calling the
// control API.
package main

import (
	"flag"
	"fmt"
	"os"

	"places-autocomplete/internal/auth"
	"places-autocomplete/pkg/config"

	"github.com/joho/godotenv"
)

func main() {
	host := flag.String("host", "", "host identifier placed in the token")
	origin := flag.String("origin", "", "origin of the host form (optional)")
	ttl := flag.Duration("ttl", auth.DefaultTokenTTL, "token lifetime")
	configPath := flag.String("config", "configs/config.yaml", "path to the service config")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	token, err := auth.GenerateJWT(*host, *origin, cfg.JWT.Secret, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s %s (expires in %ss)\n", token.TokenType, token.Token, token.ExpiresIn)
}
