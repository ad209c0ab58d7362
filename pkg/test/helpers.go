package test

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Masterminds/squirrel"

	"todosvc/internal/adapter/database/sqlite"
)

// findProjectRoot walks up from this file until it sees go.mod, so tests
// resolve the migrations directory regardless of the package they run in.
func findProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	log.Fatal("Could not find project root directory")
	return ""
}

// InitTestDB opens an in-memory sqlite database with the real migrations
// applied. MaxOpenConns is pinned to one: each sqlite :memory: connection
// is its own database.
func InitTestDB() *sqlite.DB {
	db, err := sql.Open("sqlite3", ":memory:")

	if err != nil {
		log.Fatal(err)
	}

	db.SetMaxOpenConns(1)

	projectRoot := findProjectRoot()
	migrationsPath := filepath.Join(projectRoot, "db", "migrations", "sqlite")

	if err := sqlite.RunMigrations(db, migrationsPath); err != nil {
		log.Fatal(err)
	}

	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return &sqlite.DB{
		DB:           db,
		QueryBuilder: &queryBuilder,
	}
}
