package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/cricscore/internal/domain/field"
	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/pitch"
	"github.com/okian/cricscore/pkg/logger"
	"github.com/okian/cricscore/pkg/metrics"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteStore keeps the ball-by-ball log in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger logger.Logger
}

// OpenSQLite opens or creates the database at path and applies migrations.
// ":memory:" opens a private in-memory database.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	o := applyOptions(opts)
	if path == "" {
		path = ":memory:"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, logger: o.logger}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	if n, err := s.Count(ctx); err == nil {
		metrics.UpdateStoreRecords(n)
	}
	s.logger.Info(ctx, "sqlite store opened", logger.String("path", path))
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS deliveries (
			id TEXT PRIMARY KEY,
			match_id TEXT NOT NULL,
			innings INTEGER NOT NULL,
			over_no INTEGER NOT NULL,
			ball_no INTEGER NOT NULL,
			batter TEXT NOT NULL,
			bowler TEXT NOT NULL,
			runs_off INTEGER NOT NULL,
			extras INTEGER NOT NULL,
			extra_runs INTEGER NOT NULL,
			wicket INTEGER NOT NULL,
			wicket_type TEXT NOT NULL,
			fielders TEXT NOT NULL,
			pitch_zone INTEGER,
			pitch_column INTEGER,
			pitch_x REAL,
			pitch_y REAL,
			shot_sector INTEGER,
			shot_radius REAL,
			shot_angle REAL,
			shot_x REAL,
			shot_y REAL,
			shot_type TEXT NOT NULL,
			ball_type TEXT NOT NULL,
			video_reference TEXT NOT NULL,
			commentary TEXT NOT NULL,
			ts TEXT NOT NULL,
			UNIQUE (match_id, innings, over_no, ball_no)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_deliveries_innings ON deliveries(match_id, innings);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

const selectColumns = `id, match_id, innings, over_no, ball_no, batter, bowler, runs_off, extras, extra_runs,
	wicket, wicket_type, fielders, pitch_zone, pitch_column, pitch_x, pitch_y,
	shot_sector, shot_radius, shot_angle, shot_x, shot_y,
	shot_type, ball_type, video_reference, commentary, ts`

// Create implements DeliveryStore.
func (s *SQLiteStore) Create(ctx context.Context, d *model.DeliveryEvent) (err error) {
	defer observe(DriverSQLite, "create", time.Now())
	key := d.Key()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var taken int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM deliveries WHERE id = ? OR (match_id = ? AND innings = ? AND over_no = ? AND ball_no = ?)`,
		d.ID, key.MatchID, key.Innings, key.Over, key.Ball).Scan(&taken)
	if err != nil {
		return err
	}
	if taken > 0 {
		return fmt.Errorf("%s: %w", key, ErrDuplicateDelivery)
	}

	fielders, err := json.Marshal(nonNil(d.FieldersInvolved))
	if err != nil {
		return err
	}
	var (
		zone, column, sector          sql.NullInt64
		px, py, radius, angle, sx, sy sql.NullFloat64
	)
	if m := d.PitchMark; m != nil {
		zone = sql.NullInt64{Int64: int64(m.LengthZone), Valid: true}
		column = sql.NullInt64{Int64: int64(m.LineColumn), Valid: true}
		px = sql.NullFloat64{Float64: m.X, Valid: true}
		py = sql.NullFloat64{Float64: m.Y, Valid: true}
	}
	if sh := d.ShotDirection; sh != nil {
		sector = sql.NullInt64{Int64: int64(sh.Sector), Valid: true}
		radius = sql.NullFloat64{Float64: sh.Radius, Valid: true}
		angle = sql.NullFloat64{Float64: sh.Angle, Valid: true}
		sx = sql.NullFloat64{Float64: sh.X, Valid: true}
		sy = sql.NullFloat64{Float64: sh.Y, Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO deliveries (`+selectColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.MatchID, d.Innings, d.Over, d.Ball, d.Batter, d.Bowler, d.RunsOff, int(d.Extras), d.ExtraRuns,
		d.Wicket, d.WicketType, string(fielders), zone, column, px, py,
		sector, radius, angle, sx, sy,
		d.ShotType, d.BallType, d.VideoReference, d.Commentary, d.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("%s: %w", key, ErrDuplicateDelivery)
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}

	if n, cerr := s.Count(ctx); cerr == nil {
		metrics.UpdateStoreRecords(n)
	}
	s.logger.Debug(ctx, "delivery stored", logger.String("key", key.String()))
	return nil
}

// Get implements DeliveryStore.
func (s *SQLiteStore) Get(ctx context.Context, key model.Key) (*model.DeliveryEvent, error) {
	defer observe(DriverSQLite, "get", time.Now())
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM deliveries WHERE match_id = ? AND innings = ? AND over_no = ? AND ball_no = ?`,
		key.MatchID, key.Innings, key.Over, key.Ball)
	d, err := scanDelivery(row)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return d, err
}

// Delete implements DeliveryStore.
func (s *SQLiteStore) Delete(ctx context.Context, key model.Key) error {
	defer observe(DriverSQLite, "delete", time.Now())
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM deliveries WHERE match_id = ? AND innings = ? AND over_no = ? AND ball_no = ?`,
		key.MatchID, key.Innings, key.Over, key.Ball)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if c, err := s.Count(ctx); err == nil {
		metrics.UpdateStoreRecords(c)
	}
	s.logger.Debug(ctx, "delivery deleted", logger.String("key", key.String()))
	return nil
}

// List implements DeliveryStore.
func (s *SQLiteStore) List(ctx context.Context, matchID string, innings int, limit int) ([]*model.DeliveryEvent, error) {
	defer observe(DriverSQLite, "list", time.Now())
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	q := `SELECT ` + selectColumns + ` FROM deliveries WHERE match_id = ? AND innings = ? ORDER BY over_no, ball_no`
	args := []any{matchID, innings}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]*model.DeliveryEvent, 0)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Last implements DeliveryStore.
func (s *SQLiteStore) Last(ctx context.Context, matchID string, innings int) (*model.DeliveryEvent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM deliveries WHERE match_id = ? AND innings = ?
		 ORDER BY over_no DESC, ball_no DESC LIMIT 1`, matchID, innings)
	d, err := scanDelivery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%d: %w", matchID, innings, ErrNotFound)
	}
	return d, err
}

// Count implements DeliveryStore.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deliveries`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDelivery(row scanner) (*model.DeliveryEvent, error) {
	var (
		d                             model.DeliveryEvent
		extras                        int
		fielders, ts                  string
		zone, column, sector          sql.NullInt64
		px, py, radius, angle, sx, sy sql.NullFloat64
	)
	err := row.Scan(
		&d.ID, &d.MatchID, &d.Innings, &d.Over, &d.Ball, &d.Batter, &d.Bowler, &d.RunsOff, &extras, &d.ExtraRuns,
		&d.Wicket, &d.WicketType, &fielders, &zone, &column, &px, &py,
		&sector, &radius, &angle, &sx, &sy,
		&d.ShotType, &d.BallType, &d.VideoReference, &d.Commentary, &ts,
	)
	if err != nil {
		return nil, err
	}
	d.Extras = model.Extras(extras)
	if err := json.Unmarshal([]byte(fielders), &d.FieldersInvolved); err != nil {
		return nil, fmt.Errorf("decode fielders of %s: %w", d.ID, err)
	}
	if len(d.FieldersInvolved) == 0 {
		d.FieldersInvolved = nil
	}
	if zone.Valid && column.Valid {
		d.ApplyPitchMark(pitch.Result{
			LengthZone: pitch.LengthZone(zone.Int64),
			LineColumn: pitch.LineColumn(column.Int64),
			X:          px.Float64,
			Y:          py.Float64,
		})
	}
	if sector.Valid {
		d.ApplyShot(field.Result{
			Sector: field.Sector(sector.Int64),
			Radius: radius.Float64,
			Angle:  angle.Float64,
			X:      sx.Float64,
			Y:      sy.Float64,
		})
	}
	if d.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
		return nil, fmt.Errorf("decode timestamp of %s: %w", d.ID, err)
	}
	return &d, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
