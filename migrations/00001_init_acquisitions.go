package migration

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(Up00001, Down00001)
}

//Up00001 creates the acquisitions catalog
func Up00001(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE EXTENSION IF NOT EXISTS postgis;

	CREATE TABLE public.acquisitions
	(
		identifier character varying(250) NOT NULL,
		parentidentifier character varying(250),
		callid character varying(50),
		startdate timestamp without time zone,
		enddate timestamp without time zone,
		platform character varying(250),
		instrument character varying(250),
		metadata text,
		quicklook character varying(250),
		thumbnail character varying(250),
		creationdate timestamp without time zone NOT NULL,
		modifieddate timestamp without time zone NOT NULL,
		footprint geometry(POLYGON, 4326) NOT NULL,
		CONSTRAINT acquisitions_pk_identifier PRIMARY KEY (identifier)
	)
	WITH (
		OIDS = FALSE
	);
	`)
	return err
}

//Down00001 drops the catalog
func Down00001(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS public.acquisitions;`)
	return err
}
