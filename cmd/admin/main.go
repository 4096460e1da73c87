package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/carescan/internal/admin"
	"github.com/dmitrijs2005/carescan/internal/logging"
	"github.com/dmitrijs2005/carescan/internal/server/config"
	"github.com/dmitrijs2005/carescan/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/carescan/internal/server/services"
)

// Usage: admin create-user [-d DSN] [-c config.json]
func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stderr, false)

	db, err := repomanager.OpenPostgres(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	app := admin.NewApp(services.NewAuthenticator(db, rm, logger), os.Stdin, os.Stdout, int(os.Stdin.Fd()))

	var args []string
	if len(os.Args) > 1 {
		args = os.Args[1:2]
	}
	if err := app.Run(ctx, args); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
