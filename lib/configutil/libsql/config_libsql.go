package configlibsql

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

type Struct struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

// OpenDB opens either a remote libsql database (when url is set) or a
// local sqlite file, then applies the idempotent schema.
func (config Struct) OpenDB(schema string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	if config.Url != "" {
		url := config.Url
		if config.AuthToken != "" {
			url = fmt.Sprintf("%s?authToken=%s", url, config.AuthToken)
		}
		db, err = sql.Open("libsql", url)
		if err != nil {
			return nil, err
		}
	} else {
		if config.File == "" {
			return nil, fmt.Errorf("a database path was not specified")
		}
		if config.File != ":memory:" {
			os.MkdirAll(filepath.Dir(config.File), 0777)
		}
		db, err = sql.Open("sqlite", config.File)
		if err != nil {
			return nil, err
		}
		// see this stackoverflow post for information on why the following
		// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
		db.SetMaxOpenConns(1)
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			return nil, err
		}
	}

	_, err = db.Exec(schema)
	if err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
