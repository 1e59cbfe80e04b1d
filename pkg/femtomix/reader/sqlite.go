package reader

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
)

// SQLiteSchema creates the events and tracks tables read by SQLiteReader.
// Unsigned 64-bit masks are stored bit-for-bit in INTEGER columns and
// cluster maps as 24-byte little-endian blobs.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY,
	multiplicity INTEGER NOT NULL,
	centrality REAL NOT NULL,
	vx REAL NOT NULL,
	vy REAL NOT NULL,
	vz REAL NOT NULL,
	reaction_plane REAL NOT NULL,
	magnetic_field REAL NOT NULL,
	zdc_participants INTEGER NOT NULL,
	trigger_mask INTEGER NOT NULL,
	physics_selected INTEGER NOT NULL,
	quality TEXT
);
CREATE TABLE IF NOT EXISTS tracks (
	event_id INTEGER NOT NULL REFERENCES events(id),
	track_id INTEGER NOT NULL,
	label INTEGER NOT NULL,
	charge INTEGER NOT NULL,
	px REAL NOT NULL,
	py REAL NOT NULL,
	pz REAL NOT NULL,
	dca_xy REAL NOT NULL,
	dca_z REAL NOT NULL,
	nsigma_pion REAL NOT NULL,
	tpc_ncls INTEGER NOT NULL,
	tpc_chi2 REAL NOT NULL,
	its_ncls INTEGER NOT NULL,
	its_chi2 REAL NOT NULL,
	kink INTEGER NOT NULL,
	tpc_clusters BLOB NOT NULL,
	tpc_shared BLOB NOT NULL,
	PRIMARY KEY (event_id, track_id)
);
`

// OpenSQLite opens a SQLite database file.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// CreateSQLiteSchema creates the reader tables if they do not exist.
func CreateSQLiteSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, SQLiteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// WriteSQLiteEvents inserts events and their tracks in one transaction.
func WriteSQLiteEvents(ctx context.Context, db *sql.DB, events []*event.Event) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	for _, ev := range events {
		var quality []byte
		if len(ev.Quality) > 0 {
			if quality, err = json.Marshal(ev.Quality); err != nil {
				return fmt.Errorf("event %d quality: %w", ev.ID, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO events (id, multiplicity, centrality, vx, vy, vz, reaction_plane,
				magnetic_field, zdc_participants, trigger_mask, physics_selected, quality)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, ev.ID, ev.Multiplicity, ev.Centrality, ev.Vertex.X, ev.Vertex.Y, ev.Vertex.Z,
			ev.ReactionPlane, ev.MagneticField, ev.ZDCParticipants, int64(ev.TriggerMask),
			ev.PhysicsSelected, nullString(quality)); err != nil {
			return fmt.Errorf("insert event %d: %w", ev.ID, err)
		}
		for i := range ev.Tracks {
			p := &ev.Tracks[i]
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO tracks (event_id, track_id, label, charge, px, py, pz, dca_xy, dca_z,
					nsigma_pion, tpc_ncls, tpc_chi2, its_ncls, its_chi2, kink, tpc_clusters, tpc_shared)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, ev.ID, p.TrackID, p.Label, p.Charge, p.Momentum.X, p.Momentum.Y, p.Momentum.Z,
				p.DCAxy, p.DCAz, p.NSigmaPion, p.TPCNcls, p.TPCChi2, p.ITSNcls, p.ITSChi2, p.Kink,
				encodeClusters(p.TPCClusters), encodeClusters(p.TPCShared)); err != nil {
				return fmt.Errorf("insert event %d track %d: %w", ev.ID, p.TrackID, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func nullString(b []byte) sql.NullString {
	return sql.NullString{String: string(b), Valid: b != nil}
}

func encodeClusters(m event.ClusterMap) []byte {
	out := make([]byte, 24)
	for i, w := range m {
		binary.LittleEndian.PutUint64(out[i*8:], w)
	}
	return out
}

func decodeClusters(b []byte) (event.ClusterMap, error) {
	var m event.ClusterMap
	if len(b) != 24 {
		return m, fmt.Errorf("cluster map has %d bytes, want 24", len(b))
	}
	for i := range m {
		m[i] = binary.LittleEndian.Uint64(b[i*8:])
	}
	return m, nil
}

// SQLiteReader reads events in id order from the tables of SQLiteSchema.
type SQLiteReader struct {
	path   string
	db     *sql.DB
	lastID int64
	read   int
	closed bool
}

// NewSQLiteReader builds a SQLiteReader from obj and opens its database.
func NewSQLiteReader(obj *config.Object) (*SQLiteReader, error) {
	var path string
	if !obj.PopAndLoad("path", &path) {
		return nil, fmt.Errorf("SQLiteReader: %w", ErrPathRequired)
	}
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("SQLiteReader: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("SQLiteReader: %w", err)
	}
	return &SQLiteReader{path: path, db: db, lastID: -1 << 63}, nil
}

// Next loads the event following the previous one by id.
func (r *SQLiteReader) Next(ctx context.Context) (*event.Event, error) {
	if r.closed {
		return nil, ErrClosed
	}
	var (
		ev      event.Event
		trigger int64
		physics bool
		quality sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, multiplicity, centrality, vx, vy, vz, reaction_plane, magnetic_field,
			zdc_participants, trigger_mask, physics_selected, quality
		FROM events WHERE id > ? ORDER BY id LIMIT 1
	`, r.lastID).Scan(&ev.ID, &ev.Multiplicity, &ev.Centrality, &ev.Vertex.X, &ev.Vertex.Y, &ev.Vertex.Z,
		&ev.ReactionPlane, &ev.MagneticField, &ev.ZDCParticipants, &trigger, &physics, &quality)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("%s: load event: %w", r.path, err)
	}
	ev.TriggerMask = uint64(trigger)
	ev.PhysicsSelected = physics
	if quality.Valid {
		if err := json.Unmarshal([]byte(quality.String), &ev.Quality); err != nil {
			return nil, fmt.Errorf("%s: event %d quality: %w", r.path, ev.ID, err)
		}
	}
	if ev.Tracks, err = r.tracks(ctx, ev.ID); err != nil {
		return nil, err
	}
	r.lastID = ev.ID
	r.read++
	return &ev, nil
}

func (r *SQLiteReader) tracks(ctx context.Context, eventID int64) ([]event.Particle, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT track_id, label, charge, px, py, pz, dca_xy, dca_z, nsigma_pion,
			tpc_ncls, tpc_chi2, its_ncls, its_chi2, kink, tpc_clusters, tpc_shared
		FROM tracks WHERE event_id = ? ORDER BY track_id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: load tracks: %w", r.path, err)
	}
	defer rows.Close()

	tracks := []event.Particle{}
	for rows.Next() {
		var p event.Particle
		var clusters, shared []byte
		if err := rows.Scan(&p.TrackID, &p.Label, &p.Charge, &p.Momentum.X, &p.Momentum.Y, &p.Momentum.Z,
			&p.DCAxy, &p.DCAz, &p.NSigmaPion, &p.TPCNcls, &p.TPCChi2, &p.ITSNcls, &p.ITSChi2, &p.Kink,
			&clusters, &shared); err != nil {
			return nil, fmt.Errorf("%s: scan track: %w", r.path, err)
		}
		if p.TPCClusters, err = decodeClusters(clusters); err != nil {
			return nil, fmt.Errorf("%s: event %d track %d: %w", r.path, eventID, p.TrackID, err)
		}
		if p.TPCShared, err = decodeClusters(shared); err != nil {
			return nil, fmt.Errorf("%s: event %d track %d: %w", r.path, eventID, p.TrackID, err)
		}
		tracks = append(tracks, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate tracks: %w", r.path, err)
	}
	return tracks, nil
}

// Close closes the database.
func (r *SQLiteReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.db.Close()
}

// Report implements Reader.
func (r *SQLiteReader) Report() string {
	return fmt.Sprintf("SQLiteReader: %d events from %s\n", r.read, r.path)
}
