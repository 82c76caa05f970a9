package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"fyp-management-api/models"
)

type stepKind int

const (
	kindQuery stepKind = iota
	kindExec
)

// anyArg in a step's args list matches whatever the statement bound at
// that position (generated timestamps, message text).
type anyValue struct{}

var anyArg anyValue

type queryStep struct {
	kind    stepKind
	pattern *regexp.Regexp
	args    []driver.Value
	columns []string
	rows    [][]driver.Value
	err     error
	result  driver.Result
}

type scriptedDB struct {
	mu    sync.Mutex
	steps []*queryStep
}

func (db *scriptedDB) next(kind stepKind, query string, args []driver.NamedValue) (*queryStep, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.steps) == 0 {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	step := db.steps[0]
	if step.kind != kind {
		return nil, fmt.Errorf("unexpected kind for query %s: got %v want %v", query, kind, step.kind)
	}
	if !step.pattern.MatchString(query) {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	if step.args != nil {
		if len(step.args) != len(args) {
			return nil, fmt.Errorf("unexpected arg count for %s: got %d want %d", query, len(args), len(step.args))
		}
		for i := range args {
			if _, skip := step.args[i].(anyValue); skip {
				continue
			}
			if args[i].Value != step.args[i] {
				return nil, fmt.Errorf("unexpected arg %d for %s: got %v want %v", i, query, args[i].Value, step.args[i])
			}
		}
	}
	db.steps = db.steps[1:]
	return step, nil
}

func (db *scriptedDB) verifyComplete() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.steps) != 0 {
		return fmt.Errorf("unmet expectations: %d", len(db.steps))
	}
	return nil
}

type scriptedDriver struct {
	db *scriptedDB
}

func (d *scriptedDriver) Open(string) (driver.Conn, error) {
	return &scriptedConn{db: d.db}, nil
}

type scriptedConn struct {
	db *scriptedDB
}

func (c *scriptedConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *scriptedConn) Close() error { return nil }

func (c *scriptedConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (c *scriptedConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	step, err := c.db.next(kindQuery, query, args)
	if err != nil {
		return nil, err
	}
	if step.err != nil {
		return nil, step.err
	}
	return &scriptedRows{columns: step.columns, rows: step.rows}, nil
}

func (c *scriptedConn) Query(query string, args []driver.Value) (driver.Rows, error) {
	named := make([]driver.NamedValue, len(args))
	for i, v := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return c.QueryContext(context.Background(), query, named)
}

func (c *scriptedConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	step, err := c.db.next(kindExec, query, args)
	if err != nil {
		return nil, err
	}
	if step.err != nil {
		return nil, step.err
	}
	if step.result != nil {
		return step.result, nil
	}
	return scriptedResult{}, nil
}

func (c *scriptedConn) Exec(query string, args []driver.Value) (driver.Result, error) {
	named := make([]driver.NamedValue, len(args))
	for i, v := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return c.ExecContext(context.Background(), query, named)
}

type scriptedResult struct {
	lastInsertID int64
	rowsAffected int64
}

func (r scriptedResult) LastInsertId() (int64, error) { return r.lastInsertID, nil }

func (r scriptedResult) RowsAffected() (int64, error) { return r.rowsAffected, nil }

type scriptedRows struct {
	columns []string
	rows    [][]driver.Value
	idx     int
}

func (r *scriptedRows) Columns() []string { return r.columns }

func (r *scriptedRows) Close() error { return nil }

func (r *scriptedRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	row := r.rows[r.idx]
	for i := range dest {
		dest[i] = nil
	}
	for i := range row {
		dest[i] = row[i]
	}
	r.idx++
	return nil
}

func newScriptedGormDB(t *testing.T, steps []*queryStep) (*gorm.DB, *scriptedDB, func()) {
	t.Helper()
	state := &scriptedDB{steps: steps}
	driverName := fmt.Sprintf("scripted_%d", time.Now().UnixNano())
	sql.Register(driverName, &scriptedDriver{db: state})

	sqlDB, err := sql.Open(driverName, "")
	if err != nil {
		t.Fatalf("failed to open sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to create gorm db: %v", err)
	}

	cleanup := func() {
		_ = sqlDB.Close()
	}
	return gormDB, state, cleanup
}

var (
	pluckRolePattern    = regexp.MustCompile("SELECT .user_id. FROM .users. WHERE role = \\? AND delete_at IS NULL")
	insertNotifyPattern = regexp.MustCompile("INSERT INTO .notifications.")
)

func insertStep(userID int64, ntype string, lastID int64) *queryStep {
	// column order follows the model: user_id, title, message, type,
	// target_role, related_project_id, is_read, create_at, update_at
	return &queryStep{
		kind:    kindExec,
		pattern: insertNotifyPattern,
		args:    []driver.Value{userID, anyArg, anyArg, ntype, anyArg, anyArg, false, anyArg, nil},
		result:  scriptedResult{lastInsertID: lastID, rowsAffected: 1},
	}
}

func TestBroadcastToRoleCreatesRowPerAccount(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: pluckRolePattern,
			args:    []driver.Value{"advisor"},
			columns: []string{"user_id"},
			rows:    [][]driver.Value{{int64(10)}, {int64(11)}, {int64(12)}},
		},
		insertStep(10, "general", 101),
		insertStep(11, "general", 102),
		insertStep(12, "general", 103),
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	d := NewDispatcher(nil)
	created, err := d.BroadcastToRole(gormDB, models.RoleAdvisor, "Maintenance", "Downtime tonight", models.NotifyGeneral)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(created))
	}
	if created[0].NotificationID != 101 || created[2].NotificationID != 103 {
		t.Fatalf("expected generated ids to be kept, got %v", created)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestDispatchInsertsRowPerRecipient(t *testing.T) {
	// Officers 20 and 21 hold the reviewing role; 21 is the reviewer, so
	// only the submitter (5) and officer 20 get rows.
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: pluckRolePattern,
			args:    []driver.Value{"project_officer"},
			columns: []string{"user_id"},
			rows:    [][]driver.Value{{int64(20)}, {int64(21)}},
		},
		insertStep(5, "document_review", 201),
		insertStep(20, "document_review", 202),
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	d := NewDispatcher(nil)
	facts := ProjectFacts{ProjectID: 9, StudentIDs: []int{5, 6}}
	created, err := d.Dispatch(gormDB, DocumentReviewed{
		ProjectID:     9,
		ProjectTitle:  "Smart Campus",
		DocumentTitle: "Proposal",
		SubmitterID:   5,
		ReviewerID:    21,
		Decision:      models.DocumentApproved,
	}, facts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(created))
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestMarkNotificationReadScopedToOwner(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE .notifications. SET .is_read.=\\? WHERE notification_id = \\? AND user_id = \\?"),
			args:    []driver.Value{true, int64(7), int64(42)},
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	updated, err := MarkNotificationRead(gormDB, 42, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated {
		t.Fatalf("expected the owner's row to be updated")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestMarkNotificationReadWrongOwnerTouchesNothing(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE .notifications. SET .is_read.=\\? WHERE notification_id = \\? AND user_id = \\?"),
			args:    []driver.Value{true, int64(7), int64(99)},
			result:  scriptedResult{rowsAffected: 0},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	updated, err := MarkNotificationRead(gormDB, 99, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated {
		t.Fatalf("expected no row to match a non-owner")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestListNotificationsClampsLimit(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM .notifications. WHERE user_id = \\? ORDER BY create_at DESC LIMIT \\? OFFSET \\?"),
			args:    []driver.Value{int64(42), int64(200), int64(40)},
			columns: []string{"notification_id", "user_id", "title", "message", "type", "target_role", "related_project_id", "is_read", "create_at", "update_at"},
			rows: [][]driver.Value{
				{int64(1), int64(42), "t", "m", "general", nil, nil, false, time.Now(), nil},
			},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	notifications, err := ListNotifications(gormDB, 42, 5000, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifications) != 1 || notifications[0].UserID != 42 {
		t.Fatalf("unexpected page: %v", notifications)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
