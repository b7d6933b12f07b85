package featuretable

import (
	"bytes"
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/viant/afs"

	"github.com/KasumiMercury/primind-demand-allocation/internal/domain"
)

const sampleCSV = `,institution,inst_type,visit_count,lag_1,avg_age
2021-07-17,inst-a,hospital,12,10,41.5
2021-07-18,inst-a,hospital,14,12,
2021-07-18,inst-b,clinic,3,2.5,30
2021-07-18 00:00:00,inst-c,clinic,1,1,22
2021-07-18,inst-c,clinic,2,1,23
`

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse_Lookup(t *testing.T) {
	table, err := Parse(strings.NewReader(sampleCSV), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if table.Len() != 5 {
		t.Errorf("Len() = %d, want 5", table.Len())
	}
	if diff := cmp.Diff([]string{"inst-a", "inst-b", "inst-c"}, table.Institutions()); diff != "" {
		t.Errorf("institutions mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name        string
		institution string
		date        time.Time
		wantCount   int
	}{
		{name: "single match", institution: "inst-a", date: day(2021, 7, 18), wantCount: 1},
		{name: "time of day ignored", institution: "inst-a", date: day(2021, 7, 18).Add(15 * time.Hour), wantCount: 1},
		{name: "unknown institution", institution: "inst-z", date: day(2021, 7, 18), wantCount: 0},
		{name: "unknown date", institution: "inst-b", date: day(2021, 7, 17), wantCount: 0},
		{name: "duplicate rows", institution: "inst-c", date: day(2021, 7, 18), wantCount: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(table.Lookup(tt.institution, tt.date)); got != tt.wantCount {
				t.Errorf("Lookup returned %d records, want %d", got, tt.wantCount)
			}
		})
	}

	record := table.Lookup("inst-a", day(2021, 7, 18))[0]
	if record.Categorical["inst_type"] != "hospital" {
		t.Errorf("inst_type = %q, want hospital", record.Categorical["inst_type"])
	}
	if record.Numeric["visit_count"] != 14 {
		t.Errorf("visit_count = %v, want 14", record.Numeric["visit_count"])
	}
	if _, ok := record.Numeric["avg_age"]; ok {
		t.Error("empty avg_age must be missing")
	}

	vector := record.Select([]string{"institution", "avg_age"})
	if vector[0].Text != "inst-a" || !math.IsNaN(vector[1].Number) {
		t.Errorf("Select = %+v, want institution text and NaN avg_age", vector)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty", input: "", wantErr: ErrEmptyTable},
		{name: "no institution column", input: "date,visit_count\n2021-07-18,1\n", wantErr: ErrMissingColumn},
		{name: "bad date", input: ",institution\n18/07/2021,a\n", wantErr: ErrMalformedDate},
		{name: "bad number", input: ",institution,visit_count\n2021-07-18,a,many\n", wantErr: ErrMalformedNumber},
		{name: "blank institution", input: ",institution\n2021-07-18, \n", wantErr: ErrMissingInstitution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), DefaultOptions())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	original, err := Parse(strings.NewReader(sampleCSV), DefaultOptions())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var buf bytes.Buffer
	if err := original.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}

	reloaded, err := Parse(&buf, DefaultOptions())
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}

	assertSameLookups(t, original, reloaded)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	url := filepath.Join(t.TempDir(), "features.csv")

	original, err := Parse(strings.NewReader(sampleCSV), DefaultOptions())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := original.Save(ctx, fs, url); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := Load(ctx, fs, url, DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	assertSameLookups(t, original, reloaded)
}

func assertSameLookups(t *testing.T, want, got *Table) {
	t.Helper()

	if want.Len() != got.Len() {
		t.Fatalf("Len() = %d, want %d", got.Len(), want.Len())
	}
	for _, inst := range want.Institutions() {
		for _, d := range []time.Time{day(2021, 7, 17), day(2021, 7, 18)} {
			wantRecords := want.Lookup(inst, d)
			gotRecords := got.Lookup(inst, d)
			if len(wantRecords) != len(gotRecords) {
				t.Errorf("%s on %s: %d records, want %d", inst, domain.DateKey(d), len(gotRecords), len(wantRecords))
				continue
			}
			for i := range wantRecords {
				wantVector := wantRecords[i].Select(domain.ModelColumns)
				gotVector := gotRecords[i].Select(domain.ModelColumns)
				if diff := cmp.Diff(wantVector, gotVector, cmpopts.EquateNaNs()); diff != "" {
					t.Errorf("%s on %s: covariates mismatch (-want +got):\n%s", inst, domain.DateKey(d), diff)
				}
			}
		}
	}
}
