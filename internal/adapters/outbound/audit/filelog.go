// Package audit mirrors the order repository into one flat text file per
// order date and builds the consolidated export snapshot.
package audit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/abdidvp/flooring/internal/domain"
)

const (
	filePrefix = "Orders_"
	fileSuffix = ".txt"

	// MarkFile holds one past the highest order number ever recorded.
	MarkFile = ".next"
)

var fileNamePattern = regexp.MustCompile(`^Orders_(\d{8})\.txt$`)

// FileName returns the audit file name for a date, e.g. Orders_06012030.txt.
func FileName(date domain.OrderDate) string {
	return filePrefix + date.Stamp() + fileSuffix
}

// FileLog implements domain.AuditLog. Writers to the same date file are
// serialized by a per-file mutex; different dates proceed independently.
type FileLog struct {
	dir        string
	exportPath string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a FileLog writing per-date files into dir and the export
// snapshot to exportPath. Directories are created on first write.
func New(dir, exportPath string) *FileLog {
	return &FileLog{
		dir:        dir,
		exportPath: exportPath,
		locks:      make(map[string]*sync.Mutex),
	}
}

// Path returns the audit file path for a date.
func (l *FileLog) Path(date domain.OrderDate) string {
	return filepath.Join(l.dir, FileName(date))
}

func (l *FileLog) ExportPath() string { return l.exportPath }

func (l *FileLog) MarkPath() string { return filepath.Join(l.dir, MarkFile) }

// RecordAdd appends the order's line to the date file, creating it if
// needed, and raises the high-water mark past the order's number.
func (l *FileLog) RecordAdd(date domain.OrderDate, order domain.Order) error {
	if err := l.appendLine(date, order); err != nil {
		return err
	}
	return l.raiseMark(order.OrderNumber + 1)
}

func (l *FileLog) appendLine(date domain.OrderDate, order domain.Order) error {
	path := l.Path(date)
	defer l.lock(path)()

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return &domain.IOFailure{Op: "create", Path: l.dir, Err: err}
	}
	err := withFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, func(f *os.File) error {
		_, err := io.WriteString(f, EncodeOrder(order)+"\n")
		return err
	})
	if err != nil {
		return &domain.IOFailure{Op: "append", Path: path, Err: err}
	}
	return nil
}

// RecordEdit replaces the order's line in place, keeping every other line
// and the original line order.
func (l *FileLog) RecordEdit(date domain.OrderDate, order domain.Order) error {
	return l.rewrite(date, "edit", func(lines []string) ([]string, error) {
		i, err := findLine(lines, order.OrderNumber)
		if err != nil {
			return nil, err
		}
		lines[i] = EncodeOrder(order)
		return lines, nil
	})
}

// RecordRemove drops the order's line and rewrites the rest, possibly
// leaving an empty file.
func (l *FileLog) RecordRemove(date domain.OrderDate, orderNumber int) error {
	return l.rewrite(date, "remove", func(lines []string) ([]string, error) {
		i, err := findLine(lines, orderNumber)
		if err != nil {
			return nil, err
		}
		return append(lines[:i:i], lines[i+1:]...), nil
	})
}

// Export rebuilds the snapshot file from every per-date file, in date
// order, appending each source date as MM-DD-YYYY to every line.
func (l *FileLog) Export() error {
	files, err := l.dateFiles()
	if err != nil {
		return err
	}

	var out []string
	for _, df := range files {
		lines, err := l.readLocked(df.path)
		if err != nil {
			return &domain.IOFailure{Op: "read", Path: df.path, Err: err}
		}
		suffix := "," + df.date.Display()
		for _, line := range lines {
			out = append(out, line+suffix)
		}
	}

	if err := os.MkdirAll(filepath.Dir(l.exportPath), 0755); err != nil {
		return &domain.IOFailure{Op: "create", Path: filepath.Dir(l.exportPath), Err: err}
	}
	if err := writeLines(l.exportPath, out); err != nil {
		return &domain.IOFailure{Op: "export", Path: l.exportPath, Err: err}
	}
	return nil
}

// Load parses every per-date file into orders keyed by date. A missing
// orders directory yields an empty result.
func (l *FileLog) Load() (map[domain.OrderDate][]domain.Order, error) {
	files, err := l.dateFiles()
	if err != nil {
		return nil, err
	}

	result := make(map[domain.OrderDate][]domain.Order, len(files))
	for _, df := range files {
		orders, err := l.readOrders(df.path)
		if err != nil {
			return nil, err
		}
		result[df.date] = orders
	}
	return result, nil
}

// NextOrderNumber reads the high-water mark. Without a mark file it is 1.
func (l *FileLog) NextOrderNumber() (int, error) {
	path := l.MarkPath()
	defer l.lock(path)()
	return readMark(path)
}

func (l *FileLog) raiseMark(next int) error {
	path := l.MarkPath()
	defer l.lock(path)()

	cur, err := readMark(path)
	if err != nil {
		return err
	}
	if next <= cur {
		return nil
	}
	if err := writeLines(path, []string{strconv.Itoa(next)}); err != nil {
		return &domain.IOFailure{Op: "mark", Path: path, Err: err}
	}
	return nil
}

func readMark(path string) (int, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 1, nil
	}
	if err != nil {
		return 0, &domain.IOFailure{Op: "read", Path: path, Err: err}
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || n < 1 {
		return 0, &domain.IOFailure{Op: "parse", Path: path, Err: fmt.Errorf("bad order number mark %q", strings.TrimSpace(string(data)))}
	}
	return n, nil
}

// ReadDate decodes the orders currently recorded for one date.
func (l *FileLog) ReadDate(date domain.OrderDate) ([]domain.Order, error) {
	return l.readOrders(l.Path(date))
}

func (l *FileLog) readOrders(path string) ([]domain.Order, error) {
	lines, err := l.readLocked(path)
	if err != nil {
		return nil, &domain.IOFailure{Op: "read", Path: path, Err: err}
	}
	orders := make([]domain.Order, 0, len(lines))
	for i, line := range lines {
		o, err := DecodeOrder(line)
		if err != nil {
			return nil, &domain.IOFailure{Op: "parse", Path: path, Err: fmt.Errorf("record %d: %w", i+1, err)}
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (l *FileLog) rewrite(date domain.OrderDate, op string, update func([]string) ([]string, error)) error {
	path := l.Path(date)
	defer l.lock(path)()

	lines, err := readLines(path)
	if err != nil {
		return &domain.IOFailure{Op: op, Path: path, Err: err}
	}
	updated, err := update(lines)
	if err != nil {
		return &domain.IOFailure{Op: op, Path: path, Err: err}
	}
	if err := writeLines(path, updated); err != nil {
		return &domain.IOFailure{Op: op, Path: path, Err: err}
	}
	return nil
}

func (l *FileLog) readLocked(path string) ([]string, error) {
	defer l.lock(path)()
	return readLines(path)
}

// lock acquires the mutex for path and returns its release.
func (l *FileLog) lock(path string) func() {
	l.mu.Lock()
	m, ok := l.locks[path]
	if !ok {
		m = &sync.Mutex{}
		l.locks[path] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

type dateFile struct {
	date domain.OrderDate
	name string
	path string
}

// dateFiles lists the per-date files sorted chronologically. Names that do
// not carry a valid date stamp are ignored.
func (l *FileLog) dateFiles() ([]dateFile, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &domain.IOFailure{Op: "list", Path: l.dir, Err: err}
	}

	var files []dateFile
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		m := fileNamePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		date, err := domain.ParseStamp(m[1])
		if err != nil {
			continue
		}
		files = append(files, dateFile{date: date, name: e.Name(), path: filepath.Join(l.dir, e.Name())})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].date != files[j].date {
			return files[i].date.Before(files[j].date)
		}
		return files[i].name < files[j].name
	})
	return files, nil
}

func findLine(lines []string, orderNumber int) (int, error) {
	for i, line := range lines {
		n, err := leadingNumber(line)
		if err != nil {
			return -1, fmt.Errorf("record %d: %w", i+1, err)
		}
		if n == orderNumber {
			return i, nil
		}
	}
	return -1, fmt.Errorf("order %d has no audit record", orderNumber)
}

// withFile opens path, runs fn and always closes the handle.
func withFile(path string, flag int, fn func(*os.File) error) error {
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return err
	}
	return useFile(f, fn)
}

// useFile runs fn on f and closes f on every path, reporting the close
// error when fn succeeded.
func useFile(f *os.File, fn func(*os.File) error) (err error) {
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(f)
}

// readLines returns the non-blank lines of path.
func readLines(path string) ([]string, error) {
	var lines []string
	err := withFile(path, os.O_RDONLY, func(f *os.File) error {
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			line := strings.TrimRight(sc.Text(), "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			lines = append(lines, line)
		}
		return sc.Err()
	})
	return lines, err
}

// writeLines replaces path with lines through a temp file and rename, so a
// failed write never leaves a half-written file behind.
func writeLines(path string, lines []string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	err = useFile(tmp, func(f *os.File) error {
		w := bufio.NewWriter(f)
		for _, line := range lines {
			if _, err := w.WriteString(line + "\n"); err != nil {
				return err
			}
		}
		return w.Flush()
	})
	if err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
