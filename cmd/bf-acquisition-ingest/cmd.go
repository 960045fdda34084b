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
	cli "gopkg.in/urfave/cli.v1"

	"github.com/venicegeo/bf-acquisition-ingest/model"
	"github.com/venicegeo/bf-acquisition-ingest/util"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

var formatFlag = cli.StringFlag{
	Name:  "format, f",
	Value: string(model.FormatAuto),
	Usage: "package format, or AUTO to read it from the file name",
}

var commands = cli.Commands{
	cli.Command{
		Name:      "ingest",
		Usage:     "Ingest one acquisition package",
		ArgsUsage: "<zip>",
		Action:    ingestAction,
		Flags: []cli.Flag{
			formatFlag,
			cli.BoolFlag{Name: "notify", Usage: "report the OK/KO verdict"},
			cli.StringFlag{Name: "recipient", Usage: "who the verdict is addressed to"},
		},
	},
	cli.Command{
		Name:      "ingest_all",
		Usage:     "Re-ingest archived packages matching a call id and a format",
		ArgsUsage: "<callId|ALL> <format|ALL>",
		Action:    ingestAllAction,
		Flags: []cli.Flag{
			cli.StringFlag{Name: "source", Usage: "directory to scan (default: ARCHIVES_DIR)"},
		},
	},
	cli.Command{
		Name:      "inspect",
		Usage:     "Read an extracted package and print its catalog feature without writing it",
		ArgsUsage: "<dir>",
		Action:    inspectAction,
		Flags:     []cli.Flag{formatFlag},
	},
	cli.Command{
		Name:   "migrate",
		Usage:  "Run database migrations",
		Action: migrateDatabaseAction,
	},
	cli.Command{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Print the version",
		Action:  versionAction,
	},
}

func createCliApp() *cli.App {
	app := cli.NewApp()
	app.Name = util.AppName
	app.Usage = "Satellite acquisition metadata ingestion"
	app.Version = version
	app.Commands = commands
	return app
}

func versionAction(c *cli.Context) error {
	_, err := c.App.Writer.Write([]byte(util.AppName + " " + version + "\n"))
	return err
}
