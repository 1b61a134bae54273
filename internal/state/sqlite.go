package state

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/teamcutter/xtract/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS extractions (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    archive     TEXT NOT NULL,
    target      TEXT NOT NULL,
    tool        TEXT NOT NULL DEFAULT '',
    pid         INTEGER NOT NULL,
    status      TEXT NOT NULL DEFAULT 'pending',
    exit_code   INTEGER NOT NULL DEFAULT 0,
    started_at  TEXT NOT NULL,
    finished_at TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS promotions (
    target     TEXT PRIMARY KEY,
    holding    TEXT NOT NULL,
    pid        INTEGER NOT NULL,
    started_at TEXT NOT NULL
);
`

type SQLiteState struct {
	mu     sync.Mutex
	db     *sql.DB
	stderr io.Writer
	pid    int
}

// NewSQLite opens the journal and repairs whatever a crashed run left
// behind. Recovery notes are written to stderr.
func NewSQLite(dbPath string, stderr io.Writer) (*SQLiteState, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	s := &SQLiteState{
		db:     db,
		stderr: stderr,
		pid:    os.Getpid(),
	}

	if err := s.recover(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to recover: %w", err)
	}

	return s, nil
}

func (s *SQLiteState) recover() error {
	if err := s.recoverPromotions(); err != nil {
		return err
	}
	return s.recoverExtractions()
}

func (s *SQLiteState) recoverPromotions() error {
	rows, err := s.db.Query("SELECT target, holding, pid, started_at FROM promotions")
	if err != nil {
		return err
	}

	var pending []domain.Promotion
	var owners []owner
	for rows.Next() {
		var p domain.Promotion
		var o owner
		if err := rows.Scan(&p.Target, &p.Holding, &o.pid, &o.startedAt); err != nil {
			rows.Close()
			return err
		}
		pending = append(pending, p)
		owners = append(owners, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for i, p := range pending {
		if !owners[i].abandoned() {
			continue
		}

		if err := restore(p); err != nil {
			fmt.Fprintf(s.stderr, "warning: cannot finish interrupted flatten of %s: %v\n", p.Target, err)
		} else {
			fmt.Fprintf(s.stderr, "recovered interrupted flatten: %s\n", p.Target)
		}

		if _, err := s.db.Exec("DELETE FROM promotions WHERE target = ?", p.Target); err != nil {
			return fmt.Errorf("failed to delete promotion %s: %w", p.Target, err)
		}
	}

	return nil
}

// restore completes holding -> target when the rename dance stopped midway.
// A missing holding directory means either nothing moved yet or the dance
// already finished; both leave target as it should be.
func restore(p domain.Promotion) error {
	// Relative rows would resolve against the current directory, not the
	// one the interrupted run worked in.
	if !filepath.IsAbs(p.Target) || !filepath.IsAbs(p.Holding) {
		return fmt.Errorf("relative paths %q, %q are not replayed", p.Target, p.Holding)
	}

	if _, err := os.Lstat(p.Holding); os.IsNotExist(err) {
		return nil
	}

	if _, err := os.Lstat(p.Target); err == nil {
		// Emptied but not yet removed.
		if err := os.Remove(p.Target); err != nil {
			return fmt.Errorf("%s is in the way: %w", p.Target, err)
		}
	}

	return os.Rename(p.Holding, p.Target)
}

func (s *SQLiteState) recoverExtractions() error {
	rows, err := s.db.Query("SELECT id, archive, target, pid, started_at FROM extractions WHERE status = ?", domain.StatusPending)
	if err != nil {
		return err
	}

	var pending []domain.Extraction
	var owners []owner
	for rows.Next() {
		var e domain.Extraction
		var o owner
		if err := rows.Scan(&e.ID, &e.Archive, &e.Target, &o.pid, &o.startedAt); err != nil {
			rows.Close()
			return err
		}
		pending = append(pending, e)
		owners = append(owners, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for i, e := range pending {
		if !owners[i].abandoned() {
			continue
		}

		fmt.Fprintf(s.stderr, "interrupted extraction of %s left in place: %s\n", e.Archive, e.Target)

		if _, err := s.db.Exec("UPDATE extractions SET status = ? WHERE id = ?", domain.StatusInterrupted, e.ID); err != nil {
			return fmt.Errorf("failed to mark extraction %d: %w", e.ID, err)
		}
	}

	return nil
}

func (s *SQLiteState) Begin(archive, target, tool string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		INSERT INTO extractions (archive, target, tool, pid, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		archive, target, tool, s.pid, domain.StatusPending, time.Now().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteState) Finish(id int64, status string, exitCode int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		UPDATE extractions SET status = ?, exit_code = ?, finished_at = ?
		WHERE id = ?`,
		status, exitCode, time.Now().Format(time.RFC3339), id)
	return err
}

func (s *SQLiteState) BeginPromotion(target, holding string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO promotions (target, holding, pid, started_at)
		VALUES (?, ?, ?, ?)`,
		target, holding, s.pid, time.Now().Format(time.RFC3339))
	return err
}

func (s *SQLiteState) EndPromotion(target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM promotions WHERE target = ?", target)
	return err
}

func (s *SQLiteState) Close() error {
	return s.db.Close()
}

// staleAfter bounds how long a row is trusted to belong to a live process.
// Past it the pid has likely been reused.
const staleAfter = 24 * time.Hour

// owner identifies the run that wrote a pending row.
type owner struct {
	pid       int
	startedAt string
}

func (o owner) abandoned() bool {
	started, err := time.Parse(time.RFC3339, o.startedAt)
	if err != nil || time.Since(started) > staleAfter {
		return true
	}
	return !processAlive(o.pid)
}

func processAlive(pid int) bool {
	if pid <= 0 || pid == os.Getpid() {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = p.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
