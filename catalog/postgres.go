package catalog

import (
	"context"
	"database/sql"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	// postgres driver
	_ "github.com/lib/pq"

	"github.com/venicegeo/bf-acquisition-ingest/model"
	"github.com/venicegeo/bf-acquisition-ingest/util"
)

const table = "acquisitions"

// PostgresStore is a Store backed by a PostGIS database
type PostgresStore struct {
	db     *sqlx.DB
	logCtx util.LogContext
}

// NewPostgresStore wraps an open database handle
func NewPostgresStore(db *sql.DB, logCtx util.LogContext) *PostgresStore {
	return &PostgresStore{db: sqlx.NewDb(db, "postgres"), logCtx: logCtx}
}

// Close closes the underlying database
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Exists reports whether a row with the identifier is present
func (s *PostgresStore) Exists(ctx context.Context, identifier string) (bool, error) {
	return exists(ctx, s.db, identifier)
}

func exists(ctx context.Context, q sqlx.QueryerContext, identifier string) (bool, error) {
	query, args := buildExists(identifier)
	var found []string
	if err := sqlx.SelectContext(ctx, q, &found, query, args...); err != nil {
		return false, writeError(err, "look up %s", identifier)
	}
	return len(found) > 0, nil
}

// Upsert inserts the record, or replaces the existing row with the same
// identifier, in a single INSERT ... ON CONFLICT statement.
func (s *PostgresStore) Upsert(ctx context.Context, record *model.Acquisition) (UpsertResult, error) {
	if err := record.Validate(); err != nil {
		return Inserted, err
	}
	record = normalized(record)
	footprint, err := record.Footprint.GeoJSONString()
	if err != nil {
		return Inserted, writeError(err, "encode footprint of %s", record.Identifier)
	}

	query, args := buildUpsert(record, footprint)
	var inserted bool
	if err := s.db.GetContext(ctx, &inserted, query, args...); err != nil {
		return Inserted, writeError(err, "upsert %s", record.Identifier)
	}
	result := Updated
	if inserted {
		result = Inserted
	}

	util.LogAudit(s.logCtx, util.LogAuditInput{
		Actor:    util.AppName,
		Action:   "upsert",
		Actee:    record.Identifier,
		Message:  "Acquisition " + result.String(),
		Severity: util.INFO,
	})
	return result, nil
}

const maintenanceStatement = `
	VACUUM ANALYZE acquisitions
	`

// Maintain refreshes planner statistics after a batch of writes
func (s *PostgresStore) Maintain(ctx context.Context) error {
	util.LogInfo(s.logCtx, "Starting database maintenance.")
	if _, err := s.db.ExecContext(ctx, maintenanceStatement); err != nil {
		return errors.Wrap(err, "database maintenance")
	}
	util.LogInfo(s.logCtx, "Database maintenance complete.")
	return nil
}

// Get reads one row, with the footprint as GeoJSON
func (s *PostgresStore) Get(ctx context.Context, identifier string) (*Row, error) {
	query, args := buildGet(identifier)
	var row Row
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, identifier)
		}
		return nil, writeError(err, "get %s", identifier)
	}
	return &row, nil
}

// geometryFromGeoJSON binds the footprint as GeoJSON text in EPSG:4326
func geometryFromGeoJSON(footprint string) sqlbuilder.Builder {
	return sqlbuilder.Buildf("ST_SetSRID(ST_GeomFromGeoJSON(%v), 4326)", footprint)
}

func buildExists(identifier string) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("identifier")
	sb.From(table)
	sb.Where(sb.Equal("identifier", identifier))
	return sb.Build()
}

// onConflictClause replaces every column but identifier and creationdate.
// xmax is zero only on a freshly inserted row version.
const onConflictClause = `ON CONFLICT (identifier) DO UPDATE SET
	parentidentifier = EXCLUDED.parentidentifier,
	callid = EXCLUDED.callid,
	startdate = EXCLUDED.startdate,
	enddate = EXCLUDED.enddate,
	platform = EXCLUDED.platform,
	instrument = EXCLUDED.instrument,
	metadata = EXCLUDED.metadata,
	quicklook = EXCLUDED.quicklook,
	thumbnail = EXCLUDED.thumbnail,
	modifieddate = now(),
	footprint = EXCLUDED.footprint
RETURNING (xmax = 0) AS inserted`

func buildUpsert(record *model.Acquisition, footprint string) (string, []interface{}) {
	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto(table)
	ib.Cols("identifier", "parentidentifier", "callid", "startdate", "enddate", "platform", "instrument",
		"metadata", "quicklook", "thumbnail", "creationdate", "modifieddate", "footprint")
	ib.Values(record.Identifier, record.ParentIdentifier, record.CallID, record.StartDate, record.EndDate,
		record.Platform, record.Instrument, record.MetadataPath, record.QuicklookPath, record.ThumbnailPath,
		sqlbuilder.Raw("now()"), sqlbuilder.Raw("now()"), geometryFromGeoJSON(footprint))
	ib.SQL(onConflictClause)
	return ib.Build()
}

func buildGet(identifier string) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("identifier", "parentidentifier", "callid", "startdate", "enddate", "platform", "instrument",
		"metadata", "quicklook", "thumbnail", "creationdate", "modifieddate",
		sb.As("ST_AsGeoJSON(footprint)", "footprint"))
	sb.From(table)
	sb.Where(sb.Equal("identifier", identifier))
	return sb.Build()
}
