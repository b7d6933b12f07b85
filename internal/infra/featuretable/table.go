package featuretable

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/KasumiMercury/primind-demand-allocation/internal/domain"
)

const fingerprintLength = 12

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
}

type Options struct {
	InstitutionColumn  string
	CategoricalColumns []string
}

func DefaultOptions() Options {
	return Options{
		InstitutionColumn:  domain.InstitutionColumn,
		CategoricalColumns: []string{domain.InstitutionColumn, "inst_type"},
	}
}

type key struct {
	institution string
	day         string
}

// Table is an in-memory historical feature table indexed by institution and
// calendar day. It is immutable once parsed.
type Table struct {
	header       []string
	categorical  map[string]bool
	institution  string
	records      []*domain.FeatureRecord
	index        map[key][]*domain.FeatureRecord
	institutions []string
	fingerprint  string
}

// Parse reads a CSV whose first column is the date index.
func Parse(r io.Reader, opts Options) (*Table, error) {
	if opts.InstitutionColumn == "" {
		opts.InstitutionColumn = domain.InstitutionColumn
	}

	hash := sha256.New()
	reader := csv.NewReader(io.TeeReader(r, hash))
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyTable
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	instIdx := -1
	for i, name := range header {
		if i > 0 && name == opts.InstitutionColumn {
			instIdx = i
			break
		}
	}
	if instIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, opts.InstitutionColumn)
	}

	t := &Table{
		header:      header,
		categorical: make(map[string]bool, len(opts.CategoricalColumns)+1),
		institution: opts.InstitutionColumn,
		index:       make(map[key][]*domain.FeatureRecord),
	}
	t.categorical[opts.InstitutionColumn] = true
	for _, col := range opts.CategoricalColumns {
		t.categorical[col] = true
	}

	seen := make(map[string]struct{})
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		record, err := t.parseRow(row, instIdx, line)
		if err != nil {
			return nil, err
		}

		k := key{institution: record.Institution, day: domain.DateKey(record.Date)}
		t.index[k] = append(t.index[k], record)
		t.records = append(t.records, record)
		if _, ok := seen[record.Institution]; !ok {
			seen[record.Institution] = struct{}{}
			t.institutions = append(t.institutions, record.Institution)
		}
	}

	sort.Strings(t.institutions)
	t.fingerprint = hex.EncodeToString(hash.Sum(nil))[:fingerprintLength]
	return t, nil
}

func (t *Table) parseRow(row []string, instIdx, line int) (*domain.FeatureRecord, error) {
	date, err := parseDate(row[0])
	if err != nil {
		return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedDate, line, row[0])
	}

	institution := strings.TrimSpace(row[instIdx])
	if institution == "" {
		return nil, fmt.Errorf("%w: line %d", ErrMissingInstitution, line)
	}

	record := &domain.FeatureRecord{
		Institution: institution,
		Date:        date,
		Categorical: make(map[string]string),
		Numeric:     make(map[string]float64),
	}
	for i := 1; i < len(t.header); i++ {
		if i == instIdx {
			continue
		}
		name := t.header[i]
		cell := strings.TrimSpace(row[i])
		if t.categorical[name] {
			record.Categorical[name] = cell
			continue
		}
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d column %q: %q", ErrMalformedNumber, line, name, cell)
		}
		record.Numeric[name] = v
	}
	return record, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Load downloads and parses a table from any afs-supported URL.
func Load(ctx context.Context, fs afs.Service, url string, opts Options) (*Table, error) {
	data, err := fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("download feature table %s: %w", url, err)
	}
	t, err := Parse(bytes.NewReader(data), opts)
	if err != nil {
		return nil, fmt.Errorf("parse feature table %s: %w", url, err)
	}
	return t, nil
}

// Save writes the table as CSV to url.
func (t *Table) Save(ctx context.Context, fs afs.Service, url string) error {
	var buf bytes.Buffer
	if err := t.Encode(&buf); err != nil {
		return err
	}
	if err := fs.Upload(ctx, url, file.DefaultFileOsMode, &buf); err != nil {
		return fmt.Errorf("upload feature table %s: %w", url, err)
	}
	return nil
}

// Encode writes the table with its original header. Parsing the output yields
// the same lookups.
func (t *Table) Encode(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.header); err != nil {
		return err
	}

	row := make([]string, len(t.header))
	for _, record := range t.records {
		row[0] = formatDate(record.Date)
		for i := 1; i < len(t.header); i++ {
			name := t.header[i]
			switch {
			case name == t.institution:
				row[i] = record.Institution
			case t.categorical[name]:
				row[i] = record.Categorical[name]
			default:
				v, ok := record.Numeric[name]
				if !ok || math.IsNaN(v) {
					row[i] = ""
					continue
				}
				row[i] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatDate(t time.Time) string {
	if t.Equal(t.Truncate(24 * time.Hour)) {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.DateTime)
}

func (t *Table) Lookup(institution string, date time.Time) []*domain.FeatureRecord {
	return t.index[key{institution: institution, day: domain.DateKey(date)}]
}

func (t *Table) Len() int {
	return len(t.records)
}

// Institutions returns the distinct institution ids in sorted order.
func (t *Table) Institutions() []string {
	out := make([]string, len(t.institutions))
	copy(out, t.institutions)
	return out
}

// Fingerprint identifies the source bytes of the table.
func (t *Table) Fingerprint() string {
	return t.fingerprint
}
