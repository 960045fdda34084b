package ingest

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/venicegeo/bf-acquisition-ingest/assets"
	"github.com/venicegeo/bf-acquisition-ingest/catalog"
	"github.com/venicegeo/bf-acquisition-ingest/formats"
	"github.com/venicegeo/bf-acquisition-ingest/model"
)

// memoryStore is an in-memory catalog.Store with a ticking clock
type memoryStore struct {
	rows       map[string]catalog.Row
	records    map[string]model.Acquisition
	now        time.Time
	failWith   error
	upserts    int
	maintained int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		rows:    map[string]catalog.Row{},
		records: map[string]model.Acquisition{},
		now:     time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memoryStore) Exists(ctx context.Context, identifier string) (bool, error) {
	_, ok := s.rows[identifier]
	return ok, nil
}

func (s *memoryStore) Upsert(ctx context.Context, record *model.Acquisition) (catalog.UpsertResult, error) {
	s.upserts++
	if s.failWith != nil {
		return catalog.Inserted, s.failWith
	}
	s.now = s.now.Add(time.Second)
	row, found := s.rows[record.Identifier]
	result := catalog.Updated
	if !found {
		result = catalog.Inserted
		row.CreationDate = s.now
	}
	row.Identifier = record.Identifier
	row.ModifiedDate = s.now
	s.rows[record.Identifier] = row
	s.records[record.Identifier] = *record
	return result, nil
}

func (s *memoryStore) Get(ctx context.Context, identifier string) (*catalog.Row, error) {
	row, ok := s.rows[identifier]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &row, nil
}

func (s *memoryStore) Close() error {
	return nil
}

func (s *memoryStore) Maintain(ctx context.Context) error {
	s.maintained++
	return nil
}

// hangingStore is a memoryStore whose upserts block until the context ends
type hangingStore struct {
	*memoryStore
}

func (s hangingStore) Upsert(ctx context.Context, record *model.Acquisition) (catalog.UpsertResult, error) {
	s.upserts++
	<-ctx.Done()
	return catalog.Inserted, ctx.Err()
}

// touchConverter writes placeholder images
type touchConverter struct{}

func (touchConverter) ToJPEG(ctx context.Context, src, dst string) error {
	return os.WriteFile(dst, []byte("jpeg"), 0644)
}

func (touchConverter) Thumbnail(ctx context.Context, src, dst string) error {
	return os.WriteFile(dst, []byte("thumbnail"), 0644)
}

// fixedReader returns a copy of the same record for every package
type fixedReader struct {
	record model.Acquisition
}

func (r fixedReader) Format() model.Format {
	return model.FormatSAR
}

func (r fixedReader) Read(dir string) (*model.Acquisition, error) {
	record := r.record
	record.MetadataPath = model.StringPtr("meta.xml")
	return &record, nil
}

type recordingNotifier struct {
	verdicts []string
}

func (n *recordingNotifier) Notify(ctx context.Context, item Item) error {
	n.verdicts = append(n.verdicts, Verdict(item))
	return nil
}

const testDIMAP = `<Dimap_Document>
  <Dataset_Frame>
    <Vertex><FRAME_LON>1</FRAME_LON><FRAME_LAT>1</FRAME_LAT></Vertex>
    <Vertex><FRAME_LON>2</FRAME_LON><FRAME_LAT>1</FRAME_LAT></Vertex>
    <Vertex><FRAME_LON>2</FRAME_LON><FRAME_LAT>0</FRAME_LAT></Vertex>
    <Vertex><FRAME_LON>1</FRAME_LON><FRAME_LAT>0</FRAME_LAT></Vertex>
  </Dataset_Frame>
  <Source_Information>
    <SOURCE_ID>5157373 0512080723521A</SOURCE_ID>
    <Scene_Source>
      <IMAGING_DATE>2005-12-08</IMAGING_DATE>
      <IMAGING_TIME>07:23:55</IMAGING_TIME>
      <MISSION>SPOT</MISSION>
      <MISSION_INDEX>5</MISSION_INDEX>
      <INSTRUMENT>HRG</INSTRUMENT>
    </Scene_Source>
  </Source_Information>
</Dimap_Document>`

const testDIMAPIdentifier = "urn:ogc:def:EOP:SPOT:ALL:5157373_0512080723521A"

const testEOP = `<EarthObservation>
  <EarthObservationMetaData><identifier>ALAV2A123</identifier></EarthObservationMetaData>
  <beginPosition>2010/10/24 03:11:17</beginPosition>
  <Polygon><posList>10 20 10 21 11 21 11 20 10 20</posList></Polygon>
</EarthObservation>`

const testEOPNoIdentifier = `<EarthObservation>
  <Polygon><posList>10 20 10 21 11 21 11 20 10 20</posList></Polygon>
</EarthObservation>`

const testEOPCrossed = `<EarthObservation>
  <EarthObservationMetaData><identifier>ALAV2A124</identifier></EarthObservationMetaData>
  <Polygon><posList>0 0 0 2 2 0 1 0 2 2 -1 1 0 0</posList></Polygon>
</EarthObservation>`

// writeZip creates a zip package in dir and returns its path
func writeZip(t *testing.T, dir, name string, files map[string]string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	zipPath := filepath.Join(dir, name)
	out, err := os.Create(zipPath)
	require.NoError(t, err)

	w := zip.NewWriter(out)
	names := make([]string, 0, len(files))
	for entry := range files {
		names = append(names, entry)
	}
	sort.Strings(names)
	for _, entry := range names {
		f, err := w.Create(entry)
		require.NoError(t, err)
		_, err = f.Write([]byte(files[entry]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, out.Close())
	return zipPath
}

type testPipeline struct {
	*Pipeline
	store    *memoryStore
	root     string
	archives string
	metrics  *Metrics
}

func newTestPipeline(t *testing.T) testPipeline {
	root := t.TempDir()
	store := newMemoryStore()
	archives := filepath.Join(root, "archives")
	metrics := NewMetrics()
	return testPipeline{
		Pipeline: &Pipeline{
			Readers:     formats.NewRegistry(),
			Resolver:    &assets.Resolver{Converter: touchConverter{}},
			Store:       store,
			Archiver:    DirArchiver{Dir: archives},
			Metrics:     metrics,
			MetadataDir: filepath.Join(root, "md"),
			Timeout:     time.Second,
		},
		store:    store,
		root:     root,
		archives: archives,
		metrics:  metrics,
	}
}
