// Command token issues a bearer token for the dashboard API, signed with the
// JWT_SECRET the server is configured with.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/GTDGit/shop_dashboard/internal/utils"
)

func main() {
	userID := flag.Int("user", 1, "user id placed in the token")
	email := flag.String("email", "", "email placed in the token")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET must be set")
		os.Exit(1)
	}
	if *ttl <= 0 {
		fmt.Fprintln(os.Stderr, "ttl must be > 0")
		os.Exit(1)
	}

	token, err := utils.GenerateJWT(secret, *userID, *email, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
