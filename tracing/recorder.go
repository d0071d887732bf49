// Package tracing records what a countdown did into a SQLite database.
package tracing

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/basp-group/basplib-redirect/countdown"
	"github.com/basp-group/basplib-redirect/sim/hooking"
	"github.com/basp-group/basplib-redirect/sim/id"
)

// TickEntry is one row of the ticks table.
type TickEntry struct {
	ID        string
	Component string
	Time      float64
	Tick      int
	Remaining int
	Text      string
}

// RedirectEntry is one row of the redirects table.
type RedirectEntry struct {
	ID        string
	Component string
	Time      float64
	URL       string
	Error     string
}

// Recorder is a countdown hook that buffers ticks and redirects and writes
// them to SQLite on Flush. It flushes on its own when the buffer is full and
// when the program exits through atexit.
type Recorder struct {
	*sql.DB

	lock      sync.Mutex
	dbName    string
	batchSize int
	ticks     []TickEntry
	redirects []RedirectEntry
	errOut    io.Writer
	flushErr  error
}

// NewRecorder creates a Recorder writing to path.sqlite3. An empty path picks
// a unique name. The file must not exist yet.
func NewRecorder(path string) (*Recorder, error) {
	r := &Recorder{
		dbName:    path,
		batchSize: 10000,
		errOut:    os.Stderr,
	}

	if err := r.init(); err != nil {
		return nil, err
	}

	atexit.Register(func() {
		if err := r.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "flush trace %s: %v\n", r.FileName(), err)
		}
	})

	return r, nil
}

// FileName returns the database file name.
func (r *Recorder) FileName() string {
	return r.dbName + ".sqlite3"
}

func (r *Recorder) init() error {
	if r.dbName == "" {
		r.dbName = "basplib_redirect_trace_" + xid.New().String()
	}

	filename := r.FileName()

	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return err
	}

	r.DB = db

	return r.createTables()
}

func (r *Recorder) createTables() error {
	stmts := []string{
		`CREATE TABLE ticks (
	ID TEXT PRIMARY KEY,
	Component TEXT,
	Time REAL,
	Tick INTEGER,
	Remaining INTEGER,
	Text TEXT
);`,
		`CREATE TABLE redirects (
	ID TEXT PRIMARY KEY,
	Component TEXT,
	Time REAL,
	URL TEXT,
	Error TEXT
);`,
	}

	for _, s := range stmts {
		if _, err := r.Exec(s); err != nil {
			return fmt.Errorf("create tables in %s: %w", r.FileName(), err)
		}
	}

	return nil
}

// Func records countdown ticks and redirects.
func (r *Recorder) Func(ctx hooking.HookCtx) {
	ctrl, ok := ctx.Domain.(*countdown.Controller)
	if !ok {
		return
	}

	switch ctx.Pos {
	case countdown.HookPosTick:
		info := ctx.Detail.(countdown.TickInfo)
		r.addTick(TickEntry{
			ID:        id.Generate(),
			Component: ctrl.Name(),
			Time:      info.Time,
			Tick:      info.Tick,
			Remaining: info.Remaining,
			Text:      info.Text,
		})
	case countdown.HookPosRedirect:
		entry := RedirectEntry{
			ID:        id.Generate(),
			Component: ctrl.Name(),
			Time:      ctrl.Now(),
			URL:       ctx.Item.(string),
		}

		if err, _ := ctx.Detail.(error); err != nil {
			entry.Error = err.Error()
		}

		r.addRedirect(entry)
	}
}

func (r *Recorder) addTick(e TickEntry) {
	r.lock.Lock()
	r.ticks = append(r.ticks, e)
	full := len(r.ticks)+len(r.redirects) >= r.batchSize
	r.lock.Unlock()

	if full {
		r.flushFromHook()
	}
}

func (r *Recorder) addRedirect(e RedirectEntry) {
	r.lock.Lock()
	r.redirects = append(r.redirects, e)
	r.lock.Unlock()

	// Redirects are rare and the process usually exits right after one.
	r.flushFromHook()
}

// flushFromHook never fails the countdown. A failed write is reported, the
// entries stay buffered for the next Flush, and Err returns the failure.
func (r *Recorder) flushFromHook() {
	err := r.Flush()

	r.lock.Lock()
	r.flushErr = err
	r.lock.Unlock()

	if err != nil {
		fmt.Fprintf(r.errOut, "flush trace %s: %v\n", r.FileName(), err)
	}
}

// Err returns the error of the last flush triggered by a hook, if it failed.
func (r *Recorder) Err() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.flushErr
}

// Flush writes all the buffered entries in one transaction.
func (r *Recorder) Flush() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if len(r.ticks) == 0 && len(r.redirects) == 0 {
		return nil
	}

	tx, err := r.Begin()
	if err != nil {
		return err
	}

	for _, t := range r.ticks {
		_, err = tx.Exec(
			"INSERT INTO ticks VALUES (?, ?, ?, ?, ?, ?)",
			t.ID, t.Component, t.Time, t.Tick, t.Remaining, t.Text)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	for _, rd := range r.redirects {
		_, err = tx.Exec(
			"INSERT INTO redirects VALUES (?, ?, ?, ?, ?)",
			rd.ID, rd.Component, rd.Time, rd.URL, rd.Error)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	r.ticks = nil
	r.redirects = nil

	return nil
}

// Ticks reads the recorded ticks back in time order.
func (r *Recorder) Ticks() ([]TickEntry, error) {
	rows, err := r.Query(
		"SELECT ID, Component, Time, Tick, Remaining, Text FROM ticks ORDER BY Time, Tick")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []TickEntry
	for rows.Next() {
		var e TickEntry
		err := rows.Scan(&e.ID, &e.Component, &e.Time, &e.Tick, &e.Remaining, &e.Text)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Redirects reads the recorded redirects back.
func (r *Recorder) Redirects() ([]RedirectEntry, error) {
	rows, err := r.Query(
		"SELECT ID, Component, Time, URL, Error FROM redirects ORDER BY Time")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []RedirectEntry
	for rows.Next() {
		var e RedirectEntry
		if err := rows.Scan(&e.ID, &e.Component, &e.Time, &e.URL, &e.Error); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
