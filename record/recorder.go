// Package record stores what a generation run produced in a SQLite database,
// so that runs can be compared and audited after the fact.
package record

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/sarchlab/meshgen/addrmap"
	"github.com/sarchlab/meshgen/mesh"
)

// ErrAddressRange is returned for addresses SQLite integers cannot hold.
var ErrAddressRange = errors.New("address beyond the recordable range")

// Artifact is one file a run produced.
type Artifact struct {
	Node   int
	Kind   string
	Path   string
	Bytes  int64
	Events int
}

// Recorder writes run data into a SQLite database.
type Recorder struct {
	db    *sql.DB
	runID string
}

var schema = []string{
	`CREATE TABLE run (
		run_id     TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		mesh_size  INTEGER NOT NULL,
		output_dir TEXT NOT NULL
	)`,
	`CREATE TABLE address_map (
		run_id      TEXT NOT NULL,
		node        INTEGER NOT NULL,
		range_start INTEGER NOT NULL,
		range_end   INTEGER NOT NULL
	)`,
	`CREATE TABLE mesh_edge (
		run_id TEXT NOT NULL,
		a      INTEGER NOT NULL,
		port_a TEXT NOT NULL,
		b      INTEGER NOT NULL,
		port_b TEXT NOT NULL,
		axis   TEXT NOT NULL
	)`,
	`CREATE TABLE artifact (
		run_id TEXT NOT NULL,
		node   INTEGER NOT NULL,
		kind   TEXT NOT NULL,
		path   TEXT NOT NULL,
		bytes  INTEGER NOT NULL,
		events INTEGER NOT NULL
	)`,
}

// New creates a database at path. It refuses to touch an existing file.
func New(path, runID string) (*Recorder, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("record database %s already exists", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	r := &Recorder{db: db, runID: runID}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return r, nil
}

// RunID returns the id rows are recorded under.
func (r *Recorder) RunID() string {
	return r.runID
}

// RecordRun stores the run header.
func (r *Recorder) RecordRun(meshSize int, outputDir string, at time.Time) error {
	_, err := r.db.Exec(
		`INSERT INTO run (run_id, started_at, mesh_size, output_dir)
		VALUES (?, ?, ?, ?)`,
		r.runID, at.UTC().Format(time.RFC3339), meshSize, outputDir)

	return err
}

// RecordAddressMap stores the range of every node.
func (r *Recorder) RecordAddressMap(m addrmap.AddressMap) error {
	return r.inTx(`INSERT INTO address_map (run_id, node, range_start, range_end)
		VALUES (?, ?, ?, ?)`,
		func(stmt *sql.Stmt) error {
			for id, rg := range m.Ranges() {
				if rg.End > math.MaxInt64 {
					return fmt.Errorf("%w: node %d range ends at %#x",
						ErrAddressRange, id, rg.End)
				}

				_, err := stmt.Exec(r.runID, id,
					int64(rg.Start), int64(rg.End))
				if err != nil {
					return err
				}
			}

			return nil
		})
}

// RecordEdges stores the edge list with its port bindings.
func (r *Recorder) RecordEdges(edges []mesh.Edge) error {
	return r.inTx(`INSERT INTO mesh_edge (run_id, a, port_a, b, port_b, axis)
		VALUES (?, ?, ?, ?, ?, ?)`,
		func(stmt *sql.Stmt) error {
			for _, e := range edges {
				_, err := stmt.Exec(r.runID, e.A, e.PortA.Name(),
					e.B, e.PortB.Name(), e.Axis.Name())
				if err != nil {
					return err
				}
			}

			return nil
		})
}

// RecordArtifacts stores the produced files.
func (r *Recorder) RecordArtifacts(artifacts []Artifact) error {
	return r.inTx(`INSERT INTO artifact (run_id, node, kind, path, bytes, events)
		VALUES (?, ?, ?, ?, ?, ?)`,
		func(stmt *sql.Stmt) error {
			for _, a := range artifacts {
				_, err := stmt.Exec(r.runID, a.Node, a.Kind, a.Path,
					a.Bytes, a.Events)
				if err != nil {
					return err
				}
			}

			return nil
		})
}

// CountRows returns the number of rows of this run in a table.
func (r *Recorder) CountRows(table string) (int, error) {
	switch table {
	case "run", "address_map", "mesh_edge", "artifact":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}

	var n int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM "+table+" WHERE run_id = ?", r.runID).Scan(&n)

	return n, err
}

// Close closes the database.
func (r *Recorder) Close() error {
	return r.db.Close()
}

func (r *Recorder) inTx(query string, fill func(*sql.Stmt) error) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(query)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	if err := fill(stmt); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
