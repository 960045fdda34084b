package migration

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(Up00002, Down00002)
}

//Up00002 indexes the columns catalog searches filter on
func Up00002(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE INDEX idx_acquisitions_footprint
	ON public.acquisitions USING gist
	(footprint);

	CREATE INDEX idx_acquisitions_callid
	ON public.acquisitions USING btree
	(callid);

	CREATE INDEX idx_acquisitions_startdate
	ON public.acquisitions USING btree
	(startdate);
	`)
	return err
}

//Down00002 drops the indexes
func Down00002(tx *sql.Tx) error {
	_, err := tx.Exec(`
	DROP INDEX IF EXISTS public.idx_acquisitions_footprint;
	DROP INDEX IF EXISTS public.idx_acquisitions_callid;
	DROP INDEX IF EXISTS public.idx_acquisitions_startdate;
	`)
	return err
}
