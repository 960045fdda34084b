// Copyright 2016, RadiantBlue Technologies, Inc.
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

package util

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// AppName is reported by every log context
const AppName = "bf-acquisition-ingest"

// Environment variables
const (
	DATABASE_URL        = "DATABASE_URL"
	VCAP_SERVICES       = "VCAP_SERVICES"
	METADATA_DIR        = "METADATA_DIR"
	ARCHIVES_DIR        = "ARCHIVES_DIR"
	GDAL_TRANSLATE_PATH = "GDAL_TRANSLATE_PATH"
	RASTER_TOOL_TIMEOUT = "RASTER_TOOL_TIMEOUT"
	CATALOG_TIMEOUT     = "CATALOG_TIMEOUT"
	METRICS_TEXTFILE    = "METRICS_TEXTFILE"
	LOG_LEVEL           = "LOG_LEVEL"
)

const pzPostgresService = "pz-postgres"

const (
	defaultMetadataDir       = "/var/lib/bf-acquisition-ingest/md"
	defaultArchivesDir       = "/var/lib/bf-acquisition-ingest/archives"
	defaultGdalTranslatePath = "gdal_translate"
	defaultRasterToolTimeout = 2 * time.Minute
	defaultCatalogTimeout    = 30 * time.Second
)

// LoadEnv loads variables from the given .env files (or ./.env) without
// overriding anything already set in the environment. A missing file is not an error.
func LoadEnv(filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil {
		LogInfo(&BasicLogContext{}, "No .env file loaded, using process environment only")
	}
}

// GetMetadataDir returns the directory packages are unzipped into
func GetMetadataDir() string {
	return getDirectory(METADATA_DIR, defaultMetadataDir)
}

// GetArchivesDir returns the long-term storage directory for source zips
func GetArchivesDir() string {
	return getDirectory(ARCHIVES_DIR, defaultArchivesDir)
}

// GetGdalTranslatePath returns the raster conversion tool to invoke
func GetGdalTranslatePath() string {
	path, ok := os.LookupEnv(GDAL_TRANSLATE_PATH)
	if !ok || path == "" {
		return defaultGdalTranslatePath
	}
	return path
}

// GetRasterToolTimeout returns the maximum duration of one raster tool run
func GetRasterToolTimeout() time.Duration {
	return getDuration(RASTER_TOOL_TIMEOUT, defaultRasterToolTimeout)
}

// GetCatalogTimeout returns the maximum duration of one catalog upsert
func GetCatalogTimeout() time.Duration {
	return getDuration(CATALOG_TIMEOUT, defaultCatalogTimeout)
}

// GetMetricsTextfile returns the Prometheus textfile path, or "" when metrics are not exported
func GetMetricsTextfile() string {
	return os.Getenv(METRICS_TEXTFILE)
}

// GetDatabaseURL resolves the catalog connection string from DATABASE_URL,
// falling back to the pz-postgres entry of VCAP_SERVICES
func GetDatabaseURL(ctx LogContext) (string, error) {
	connStr := os.Getenv(DATABASE_URL)
	if connStr == "" {
		LogInfo(ctx, "No DB connection found in DATABASE_URL, checking VCAP_SERVICES")
		services, err := ParseVcapServices([]byte(os.Getenv(VCAP_SERVICES)))
		if err != nil {
			return "", errors.Wrap(err, "Could not get DB connection from DATABASE_URL or VCAP_SERVICES (no valid VCAP_SERVICES found)")
		}
		service := services.FindServiceByName(pzPostgresService)
		if service == nil {
			return "", fmt.Errorf("Could not get DB connection from DATABASE_URL or VCAP_SERVICES ('%s' service not found); available services: %v",
				pzPostgresService, services.GetServiceNames())
		}
		connStr, err = service.Credentials.String("uri")
		if err != nil {
			return "", errors.Wrap(err, "Could not get DB connection from DATABASE_URL or VCAP_SERVICES (error getting URI string)")
		}
	}

	dbURI, err := url.Parse(connStr)
	if err != nil {
		return "", errors.Wrap(err, "Invalid database URL")
	}
	// pq expects SSL unless it is explicitly disabled
	params := dbURI.Query()
	if params.Get("sslmode") == "" {
		params.Set("sslmode", "disable")
	}
	dbURI.RawQuery = params.Encode()
	return dbURI.String(), nil
}

// RedactURL hides the password of a connection string for logging
func RedactURL(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}

func getDirectory(key, fallback string) string {
	dir, ok := os.LookupEnv(key)
	if !ok || dir == "" {
		LogInfo(&BasicLogContext{}, fmt.Sprintf("%s not set, using %s", key, fallback))
		return fallback
	}
	return dir
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	duration, err := time.ParseDuration(raw)
	if err != nil || duration <= 0 {
		LogAlert(&BasicLogContext{}, fmt.Sprintf("Invalid duration %q in %s. Using default %v.", raw, key, fallback))
		return fallback
	}
	return duration
}
