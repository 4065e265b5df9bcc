package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/obi-dev/campushub/internal/db"
)

func main() {
	email := flag.String("email", "", "Email of the user to promote to moderator")
	flag.Parse()

	if *email == "" {
		log.Fatalf("usage: go run cmd/adminutil/promote_moderator/main.go -email user@example.com")
	}

	_ = godotenv.Load()
	db.Init()

	ct, err := db.Conn.Exec(context.Background(), `UPDATE users SET role = 'moderator' WHERE email = $1 AND role = 'member'`, *email)
	if err != nil {
		log.Fatalf("failed to promote user to moderator: %v", err)
	}
	if ct.RowsAffected() == 0 {
		log.Fatalf("no member found with email: %s", *email)
	}

	fmt.Printf("User %s promoted to moderator.\n", *email)
}
