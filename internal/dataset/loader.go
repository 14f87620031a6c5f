package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrSourceUnavailable is returned when an export cannot be opened or read
var ErrSourceUnavailable = errors.New("source unavailable")

// ProgressCallback is called after every record read from a source
type ProgressCallback func(processedRows int, currentFile string)

type Loader struct {
	FilePath string
	progress ProgressCallback
}

func NewLoader(filePath string) *Loader {
	return &Loader{FilePath: filePath}
}

func (l *Loader) SetProgressCallback(callback ProgressCallback) {
	l.progress = callback
}

// Load reads the whole export. Row 0 becomes the header; rows of any width are
// kept so Repair can see the malformed ones.
func (l *Loader) Load() (Table, error) {
	file, err := os.Open(l.FilePath)
	if err != nil {
		return Table{}, fmt.Errorf("%w: failed to open file: %v", ErrSourceUnavailable, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return Table{}, fmt.Errorf("%w: %s has no header row", ErrSourceUnavailable, l.FilePath)
	}
	if err != nil {
		return Table{}, fmt.Errorf("%w: failed to read headers: %v", ErrSourceUnavailable, err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	table := Table{
		Name:   strings.TrimSuffix(filepath.Base(l.FilePath), filepath.Ext(l.FilePath)),
		Header: header,
	}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("%w: failed to read record: %v", ErrSourceUnavailable, err)
		}

		table.Rows = append(table.Rows, record)
		if l.progress != nil {
			l.progress(len(table.Rows), l.FilePath)
		}
	}

	return table, nil
}

// Load is shorthand for NewLoader(path).Load()
func Load(path string) (Table, error) {
	return NewLoader(path).Load()
}
