// Package persistence owns every filesystem interaction: the main data
// file, the attendance file, and the rotating backup set. The rest of the
// program only ever sees a loaded store.
package persistence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/school-hub/school-admin-hub/internal/domain/admin"
	"github.com/school-hub/school-admin-hub/internal/domain/attendance"
	"github.com/school-hub/school-admin-hub/internal/domain/shared"
	"github.com/school-hub/school-admin-hub/internal/registry"
	"github.com/school-hub/school-admin-hub/internal/store"
	"github.com/school-hub/school-admin-hub/pkg/logger"
)

const backupTimeLayout = "20060102_150405"

// Options configures a Gateway.
type Options struct {
	DataPath       string
	AttendancePath string
	// BackupRetention is how many backup files to keep; non-positive
	// values fall back to 5.
	BackupRetention int
	Logger          *logger.Logger
}

// Gateway reads and writes the flat-file persistence set.
type Gateway struct {
	dataPath        string
	attendancePath  string
	backupRetention int
	log             *logger.Logger
}

// NewGateway builds a gateway from options.
func NewGateway(opts Options) *Gateway {
	retention := opts.BackupRetention
	if retention <= 0 {
		retention = 5
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	log = log.With(logger.Component("persistence"))
	return &Gateway{
		dataPath:        opts.DataPath,
		attendancePath:  opts.AttendancePath,
		backupRetention: retention,
		log:             log,
	}
}

// LoadReport describes what happened during Load beyond the happy path.
type LoadReport struct {
	// Bootstrapped is true when no usable data file existed and a fresh
	// store with the default superadmin was created.
	Bootstrapped bool
	// Recovered is true when the data file existed but could not be read
	// or parsed. The file is left untouched on disk; Err carries the
	// wrapped shared.ErrCorruptDocument cause.
	Recovered bool
	Err       error
}

// Load reads the data and attendance files into a store. A missing or empty
// data file yields a fresh store seeded with the default superadmin and is
// written out immediately; a file that cannot be read or parsed yields the
// same fresh store but is left untouched on disk until the next explicit
// save. Load never fails over the data file itself, only over a failed
// bootstrap write.
func (g *Gateway) Load() (*store.Store, LoadReport, error) {
	var report LoadReport

	raw, err := os.ReadFile(g.dataPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		g.log.Info("data file missing, bootstrapping fresh store", logger.Path(g.dataPath))
		report.Bootstrapped = true
	case err != nil:
		// Exists but cannot be read (permissions, a directory in the
		// way). Same recovery as a corrupt file: keep it untouched.
		g.log.Error("data file unreadable, starting with a fresh store",
			logger.Path(g.dataPath), logger.Err(err))
		report.Recovered = true
		report.Err = shared.WrapError("persistence", "Load",
			shared.ErrCorruptDocument, "data file unreadable", err)
	case len(bytes.TrimSpace(raw)) == 0:
		g.log.Info("data file empty, bootstrapping fresh store", logger.Path(g.dataPath))
		report.Bootstrapped = true
	}

	var s *store.Store
	if err == nil && !report.Bootstrapped {
		var doc document
		if jsonErr := json.Unmarshal(raw, &doc); jsonErr != nil {
			g.log.Error("data file does not parse, starting with a fresh store",
				logger.Path(g.dataPath), logger.Err(jsonErr))
			report.Recovered = true
			report.Err = shared.WrapError("persistence", "Load",
				shared.ErrCorruptDocument, "data file does not parse", jsonErr)
		} else {
			s = decodeDocument(&doc)
		}
	}
	if s == nil {
		s = bootstrapStore()
		s.MarkDirty()
	}

	s.Attendance = g.loadAttendance()

	// Establish the file on first run. The corrupt-file path skips this so
	// the unreadable original stays available for inspection.
	if report.Bootstrapped {
		if err := g.Save(s); err != nil {
			return nil, report, err
		}
	}

	g.log.Info("store loaded",
		logger.Count(len(s.Students)),
		logger.F("teachers", len(s.Teachers)),
		logger.F("admins", len(s.Admins)),
		logger.F("exams", len(s.Exams)))
	return s, report, nil
}

// bootstrapStore builds a fresh store containing only the default
// superadmin so the application is never locked out.
func bootstrapStore() *store.Store {
	s := store.New(registry.New())
	if _, err := s.AddAdmin("Default-Admin", "admin", shared.DefaultStaffSecret, admin.RoleSuperadmin); err != nil {
		// Cannot fail with literal inputs.
		panic(err)
	}
	return s
}

// loadAttendance never fails: a missing file is the first-run case and an
// unreadable or unparseable one degrades to an empty sheet with a log line.
func (g *Gateway) loadAttendance() attendance.Sheet {
	raw, err := os.ReadFile(g.attendancePath)
	if errors.Is(err, os.ErrNotExist) {
		return decodeAttendance(nil)
	}
	if err != nil {
		g.log.Error("attendance file unreadable, starting empty",
			logger.Path(g.attendancePath), logger.Err(err))
		return decodeAttendance(nil)
	}
	var doc attendanceDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		g.log.Error("attendance file does not parse, starting empty",
			logger.Path(g.attendancePath), logger.Err(err))
		return decodeAttendance(nil)
	}
	return decodeAttendance(doc)
}

// Save writes both files. The existing data file is snapshotted into the
// backup set first, then each file is written to a temp sibling and renamed
// into place so a crash mid-write never truncates live data.
func (g *Gateway) Save(s *store.Store) error {
	if _, err := os.Stat(g.dataPath); err == nil {
		if _, berr := g.Backup(); berr != nil {
			g.log.Warn("pre-save backup failed", logger.Err(berr))
		}
	}
	doc := encodeDocument(s)
	if err := writeJSONAtomic(g.dataPath, doc); err != nil {
		return fmt.Errorf("save data file: %w", err)
	}
	if err := writeJSONAtomic(g.attendancePath, encodeAttendance(s.Attendance)); err != nil {
		return fmt.Errorf("save attendance file: %w", err)
	}
	s.ClearDirty()
	g.log.Info("store saved", logger.Path(g.dataPath))
	return nil
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// Backup copies the current data file bytes into a timestamped snapshot and
// prunes old backups past the retention limit. The bytes are copied verbatim
// so even an unreadable file is preserved before a save clobbers it.
func (g *Gateway) Backup() (string, error) {
	raw, err := os.ReadFile(g.dataPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read data file for backup: %w", err)
	}

	dir := filepath.Dir(g.dataPath)
	ts := time.Now().Format(backupTimeLayout)
	path := filepath.Join(dir, fmt.Sprintf("backup_%s.json", ts))
	// The timestamp has one-second granularity, so two backups in the same
	// second need a suffix. The underscore sorts after the bare name, which
	// keeps pruning oldest-first.
	for i := 1; ; i++ {
		if _, serr := os.Stat(path); errors.Is(serr, os.ErrNotExist) {
			break
		}
		path = filepath.Join(dir, fmt.Sprintf("backup_%s_%d.json", ts, i))
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	if err := g.pruneBackups(dir); err != nil {
		g.log.Warn("backup pruning failed", logger.Err(err))
	}
	g.log.Info("backup written", logger.Path(path))
	return path, nil
}

// pruneBackups deletes the oldest backups beyond the retention limit.
// The timestamped name sorts lexicographically by age.
func (g *Gateway) pruneBackups(dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "backup_*.json"))
	if err != nil {
		return err
	}
	if len(matches) <= g.backupRetention {
		return nil
	}
	sort.Strings(matches)
	for _, stale := range matches[:len(matches)-g.backupRetention] {
		if err := os.Remove(stale); err != nil {
			return err
		}
	}
	return nil
}

// Backups lists the backup files next to the data file, oldest first.
func (g *Gateway) Backups() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(g.dataPath), "backup_*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
