package main

import (
	"database/sql"
	"fmt"

	// postgres driver
	_ "github.com/lib/pq"

	"github.com/venicegeo/bf-acquisition-ingest/util"
)

//getDbConnection opens a new database connection.
func getDbConnection(ctx util.LogContext) (*sql.DB, error) {
	connStr, err := util.GetDatabaseURL(ctx)
	if err != nil {
		return nil, err
	}

	util.LogInfo(ctx, fmt.Sprintf("Creating database connection at: `%s`", util.RedactURL(connStr)))
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

var getDbConnectionFunc = getDbConnection
