package table

import (
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"

	"image-indexer/internal/filesystem"
	"image-indexer/internal/indexerr"
	"image-indexer/internal/logging"
	"image-indexer/internal/metrics"
)

var header = []string{"path", "average"}

// Table is a handle on one CSV index file. It holds only the path.
type Table struct {
	path string
}

// New returns a handle for the table at path. The file is not touched.
func New(path string) *Table {
	return &Table{path: path}
}

// Path returns the file path of the table.
func (t *Table) Path() string {
	return t.path
}

// Read returns the paths and averages stored in the table, in file order.
// The first row is treated as the header and skipped.
func (t *Table) Read() ([]string, []int, error) {
	f, err := filesystem.OpenWithRetry(t.path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, nil, indexerr.Wrap(indexerr.KindIO, "read_table", t.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	var paths []string
	var averages []int
	first := true
	skipped := 0

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, indexerr.Wrap(indexerr.KindSerialization, "read_table", t.path, err)
		}
		if first {
			first = false
			continue
		}
		if len(record) < 2 {
			skipped++
			continue
		}

		paths = append(paths, record[0])
		averages = append(averages, parseAverage(record[1]))
	}

	metrics.TableRowsTotal.WithLabelValues("read").Add(float64(len(paths)))
	if skipped > 0 {
		metrics.TableRowsSkipped.Add(float64(skipped))
		logging.Debug("Skipped %d short rows in %s", skipped, t.path)
	}

	return paths, averages, nil
}

// Write replaces the table with a header followed by one row per path.
func (t *Table) Write(paths []string, averages []int) error {
	if err := checkLengths("write_table", t.path, paths, averages); err != nil {
		return err
	}

	f, err := os.Create(t.path)
	if err != nil {
		return indexerr.Wrap(indexerr.KindIO, "write_table", t.path, err)
	}

	if err := writeRows(f, true, paths, averages); err != nil {
		f.Close()
		return indexerr.Wrap(indexerr.KindIO, "write_table", t.path, err)
	}
	if err := f.Close(); err != nil {
		return indexerr.Wrap(indexerr.KindIO, "write_table", t.path, err)
	}

	metrics.TableRowsTotal.WithLabelValues("write").Add(float64(len(paths)))
	return nil
}

// Append adds rows to the end of the table, creating it if needed. An
// existing header is never rewritten; a newly created file gets one.
func (t *Table) Append(paths []string, averages []int) error {
	if err := checkLengths("append_table", t.path, paths, averages); err != nil {
		return err
	}

	created := !t.Exists()
	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return indexerr.Wrap(indexerr.KindIO, "append_table", t.path, err)
	}

	if err := writeRows(f, created, paths, averages); err != nil {
		f.Close()
		return indexerr.Wrap(indexerr.KindIO, "append_table", t.path, err)
	}
	if err := f.Close(); err != nil {
		return indexerr.Wrap(indexerr.KindIO, "append_table", t.path, err)
	}

	metrics.TableRowsTotal.WithLabelValues("append").Add(float64(len(paths)))
	return nil
}

// Exists reports whether the table file is present.
func (t *Table) Exists() bool {
	_, err := filesystem.StatWithRetry(t.path, filesystem.DefaultRetryConfig())
	return err == nil
}

// Size returns the size of the table file in bytes.
func (t *Table) Size() (int64, error) {
	info, err := filesystem.StatWithRetry(t.path, filesystem.DefaultRetryConfig())
	if err != nil {
		kind := indexerr.KindIO
		if errors.Is(err, fs.ErrNotExist) {
			kind = indexerr.KindInvalidPath
		}
		return 0, indexerr.Wrap(kind, "table_size", t.path, err)
	}
	return info.Size(), nil
}

func checkLengths(op, path string, paths []string, averages []int) error {
	if len(paths) != len(averages) {
		return indexerr.Wrap(indexerr.KindProcessing, op, path, indexerr.ErrLengthMismatch)
	}
	return nil
}

func writeRows(w io.Writer, withHeader bool, paths []string, averages []int) error {
	cw := csv.NewWriter(w)
	if withHeader {
		if err := cw.Write(header); err != nil {
			return err
		}
	}

	row := make([]string, 2)
	for i, p := range paths {
		row[0] = p
		row[1] = strconv.Itoa(averages[i])
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// parseAverage reads a 32-bit integer field; anything else is 0.
func parseAverage(field string) int {
	v, err := strconv.ParseInt(field, 10, 32)
	if err != nil {
		return 0
	}
	return int(v)
}
