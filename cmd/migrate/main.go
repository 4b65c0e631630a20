// Command migrate applies the embedded schema migrations.
//
//	migrate            # up
//	migrate status
//	migrate down
package main

import (
	"context"
	"database/sql"
	"os"

	"orderflow/cmd"
	"orderflow/internal/adapters/out/postgres"

	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
)

func main() {
	dbConfig, err := cmd.LoadDBConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	command := "up"
	var args []string
	if len(os.Args) > 1 {
		command = os.Args[1]
		args = os.Args[2:]
	}

	dsn := postgres.ConnectionConfig{
		Host:     dbConfig.Host,
		Port:     dbConfig.Port,
		User:     dbConfig.User,
		Password: dbConfig.Password,
		Name:     dbConfig.Name,
		SSLMode:  dbConfig.SSLMode,
	}.DSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(context.Background(), db, command, args...); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Infof("Migration %s finished", command)
}
