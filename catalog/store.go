// Package catalog persists acquisition records.
package catalog

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/venicegeo/bf-acquisition-ingest/model"
)

// ErrNotFound is returned by Get for an unknown identifier
var ErrNotFound = errors.New("acquisition not found")

// UpsertResult tells whether an upsert created or replaced a row
type UpsertResult int

// Upsert outcomes
const (
	Inserted UpsertResult = iota
	Updated
)

func (r UpsertResult) String() string {
	if r == Updated {
		return "updated"
	}
	return "inserted"
}

// Store is the acquisition catalog. Upsert is idempotent on the identifier:
// a second call with the same identifier replaces every field except the
// creation date and advances the modification date.
type Store interface {
	Exists(ctx context.Context, identifier string) (bool, error)
	Upsert(ctx context.Context, record *model.Acquisition) (UpsertResult, error)
	Get(ctx context.Context, identifier string) (*Row, error)
	Close() error
}

// Row is an acquisition as stored in the catalog
type Row struct {
	Identifier       string     `db:"identifier"`
	ParentIdentifier *string    `db:"parentidentifier"`
	CallID           *string    `db:"callid"`
	StartDate        *time.Time `db:"startdate"`
	EndDate          *time.Time `db:"enddate"`
	Platform         *string    `db:"platform"`
	Instrument       *string    `db:"instrument"`
	Metadata         *string    `db:"metadata"`
	Quicklook        *string    `db:"quicklook"`
	Thumbnail        *string    `db:"thumbnail"`
	CreationDate     time.Time  `db:"creationdate"`
	ModifiedDate     time.Time  `db:"modifieddate"`
	// Footprint is GeoJSON text
	Footprint string `db:"footprint"`
}

// Acquisition converts the row back into a record
func (r Row) Acquisition() (*model.Acquisition, error) {
	footprint, err := model.FootprintFromGeoJSON([]byte(r.Footprint))
	if err != nil {
		return nil, err
	}
	return &model.Acquisition{
		Identifier:       r.Identifier,
		ParentIdentifier: model.StringValue(r.ParentIdentifier),
		CallID:           r.CallID,
		StartDate:        formatTime(r.StartDate),
		EndDate:          formatTime(r.EndDate),
		Platform:         r.Platform,
		Instrument:       r.Instrument,
		Footprint:        footprint,
		MetadataPath:     r.Metadata,
		QuicklookPath:    r.Quicklook,
		ThumbnailPath:    r.Thumbnail,
	}, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return model.StringPtr(t.Format(model.CatalogTimeLayout))
}

// normalized returns a copy of the record with platform and instrument
// whitespace normalized
func normalized(record *model.Acquisition) *model.Acquisition {
	out := *record
	if out.Platform != nil {
		out.Platform = model.StringPtr(model.NormalizeName(*out.Platform))
	}
	if out.Instrument != nil {
		out.Instrument = model.StringPtr(model.NormalizeName(*out.Instrument))
	}
	return &out
}

func writeError(err error, format string, args ...interface{}) error {
	return model.NewKindError(model.ErrCatalogWrite, err, format, args...)
}
