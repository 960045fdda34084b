// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"github.com/pressly/goose"
	cli "gopkg.in/urfave/cli.v1"

	// registers the Go migrations with goose
	_ "github.com/venicegeo/bf-acquisition-ingest/migrations"
	"github.com/venicegeo/bf-acquisition-ingest/util"
)

func migrateDatabaseAction(*cli.Context) error {
	ctx := &util.BasicLogContext{}
	database, err := getDbConnectionFunc(ctx)
	if err != nil {
		return cli.NewExitError(util.LogSimpleErr(ctx, "Could not connect to the catalog", err), 1)
	}
	defer database.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := goose.Run("up", database, "."); err != nil {
		return cli.NewExitError(util.LogSimpleErr(ctx, "Migration failed", err), 1)
	}
	util.LogInfo(ctx, "Migrations complete")
	return nil
}
