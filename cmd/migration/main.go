package main

import (
	"bufio"
	"flag"
	"log/slog"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"gitlab.com/dirk.krummacker/addressbook-service/internal/config"
	"gitlab.com/dirk.krummacker/addressbook-service/internal/store"
	"gitlab.com/dirk.krummacker/addressbook-service/pkg/logging"
)

// Applies the schema file to the configured database, statement by statement.
//
// Usage example on the command line:
// > DBHOST=localhost DBUSER=dirk DBPWD=bullo92 go run main.go -file=../../scripts/database.sql
func main() {
	logging.Setup()

	filePtr := flag.String("file", "database.sql", "the sql file to execute")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("could not load configuration", "error", err)
		os.Exit(1)
	}
	sqlDB, err := store.OpenDatabase(cfg.DSN())
	if err != nil {
		slog.Error("could not open database", "error", err)
		os.Exit(1)
	}
	db := sqlx.NewDb(sqlDB, "mysql")
	defer db.Close()

	if err := applyFile(db, *filePtr); err != nil {
		slog.Error("migration failed", "file", *filePtr, "error", err)
		os.Exit(1)
	}
	slog.Info("migration applied", "file", *filePtr)
}

// applyFile streams the SQL file into the database. Statements may span
// several lines and are terminated by a semicolon.
func applyFile(db *sqlx.DB, path string) error {
	readFile, err := os.Open(path) // nosemgrep
	if err != nil {
		return err
	}
	defer readFile.Close()

	fileScanner := bufio.NewScanner(readFile)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	for fileScanner.Scan() {
		line := fileScanner.Text()
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			if _, err := db.Exec(builder.String()); err != nil {
				return err
			}
			builder = strings.Builder{}
		}
	}
	return fileScanner.Err()
}
