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
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/venicegeo/bf-acquisition-ingest/model"
	"github.com/venicegeo/bf-acquisition-ingest/util"
)

const testSACC = `satellite: SAC-C
sensor: MMRS
imageID: 20080510_123944_rs_9_mmrs-hr
start: 2008/05/10 12:49:47
lat_upper_left: 1
lon_upper_left: 0
lat_upper_right: 1
lon_upper_right: 1
lat_lower_left: 0
lon_lower_left: 0
lat_lower_right: 0
lon_lower_right: 1
`

var errNoDatabase = errors.New("no database here")

func TestMain(m *testing.M) {
	cli.OsExiter = func(int) {}
	cli.ErrWriter = io.Discard
	getDbConnectionFunc = func(util.LogContext) (*sql.DB, error) { // Mock
		return nil, errNoDatabase
	}
	os.Exit(m.Run())
}

// runApp runs the CLI with the given arguments and returns what it printed
func runApp(args ...string) (string, error) {
	var out bytes.Buffer
	app := createCliApp()
	app.Writer = &out
	err := app.Run(append([]string{util.AppName}, args...))
	return out.String(), err
}

func TestCreateCliApp_Commands(t *testing.T) {
	app := createCliApp()

	var names []string
	for _, command := range app.Commands {
		names = append(names, command.Name)
	}

	assert.Equal(t, []string{"ingest", "ingest_all", "inspect", "migrate", "version"}, names)
	assert.Equal(t, util.AppName, app.Name)
}

func TestVersion(t *testing.T) {
	out, err := runApp("version")

	require.NoError(t, err)
	assert.Equal(t, util.AppName+" dev\n", out)
}

func TestMigrate_NoDatabase(t *testing.T) {
	// Tested code
	err := migrateDatabaseAction(nil)

	// Asserts
	require.Error(t, err)
	exitErr, ok := err.(*cli.ExitError)
	require.True(t, ok)
	assert.Equal(t, 1, exitErr.ExitCode())
}

func TestIngest_NoDatabase(t *testing.T) {
	_, err := runApp("ingest", "1_SAR_x.zip")
	assert.Error(t, err)

	_, err = runApp("ingest_all", "ALL", "ALL")
	assert.Error(t, err)
}

func TestIngest_Usage(t *testing.T) {
	_, err := runApp("ingest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage")

	_, err = runApp("ingest_all", "ALL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage")
}

func TestInspect(t *testing.T) {
	// Mock
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.txt"), []byte(testSACC), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.jpg"), []byte("jpeg"), 0644))

	// Tested code
	out, err := runApp("inspect", "--format", "SACC", dir)

	// Asserts
	require.NoError(t, err)
	var feature struct {
		ID         string                 `json:"id"`
		Properties map[string]interface{} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &feature))
	assert.Equal(t, "urn:ogc:def:EOP:CONAE:SAC-C:20080510_123944_rs_9_mmrs-hr", feature.ID)
	assert.Equal(t, "2008-05-10T12:49:47", feature.Properties["startDate"])
	assert.Equal(t, "scene.txt", feature.Properties["metadata"])
	assert.Equal(t, "scene.jpg", feature.Properties["quicklook"])
	assert.NotContains(t, feature.Properties, "thumbnail")
}

func TestInspect_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := runApp("inspect", dir)
	assert.Error(t, err, "AUTO is not accepted")

	_, err = runApp("inspect", "--format", "TIFF", dir)
	assert.Error(t, err)

	_, err = inspect(dir, model.FormatSACC)
	assert.Equal(t, model.ErrEmptyPackage, model.ErrorKind(err))
}
