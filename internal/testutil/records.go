// Package testutil builds aneurysm record sets and dataset files for tests.
//
// Example:
//
//	records := testutil.NewRecordBuilder(t).
//		WithBasicRecords().
//		WithRecord(testutil.Record{PatientID: 99, Status: "ruptured", Location: "MCA", Age: testutil.Int(71), Dmax: testutil.Float(12)}).
//		Build()
//
//	path := testutil.WriteCSV(t, records)
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/aneurisk/internal/model"
	"github.com/Veraticus/aneurisk/internal/table"
)

// Record is one aneurysm record. Nil pointers and empty strings become
// missing values.
type Record struct {
	Age       *int
	AR        *float64
	NSI       *float64
	Dmax      *float64
	Dn        *float64
	H         *float64
	Status    string
	Location  string
	Side      string
	Gender    string
	PatientID int
}

// Int returns a pointer to v for Record literals.
func Int(v int) *int { return &v }

// Float returns a pointer to v for Record literals.
func Float(v float64) *float64 { return &v }

// BasicRecords is a small, fully scorable fixture covering every site group.
//
//	PatientID  Location          Age  Dmax  Site       PHASES
//	1          MCA bifurcation   45   8.5   MCA        2+0+3 = 5
//	2          ICA ophthalmic    62   5.2   ICA        0+0+0 = 0
//	3          AComA             74   12.0  AComA      4+1+6 = 11
//	4          BA tip            38   4.0   Posterior  4+0+0 = 4
//	5          PCom              55   6.8   Other      unresolved
func BasicRecords() []Record {
	return []Record{
		{PatientID: 1, Status: "ruptured", Location: "MCA bifurcation", Side: "L", Gender: "F", Age: Int(45), AR: Float(1.8), NSI: Float(0.22), Dmax: Float(8.5), Dn: Float(4.1), H: Float(6.2)},
		{PatientID: 2, Status: "unruptured", Location: "ICA ophthalmic", Side: "R", Gender: "M", Age: Int(62), AR: Float(1.1), NSI: Float(0.15), Dmax: Float(5.2), Dn: Float(3.9), H: Float(4.0)},
		{PatientID: 3, Status: "ruptured", Location: "AComA", Side: "M", Gender: "F", Age: Int(74), AR: Float(2.4), NSI: Float(0.31), Dmax: Float(12.0), Dn: Float(4.6), H: Float(9.8)},
		{PatientID: 4, Status: "unruptured", Location: "BA tip", Side: "M", Gender: "M", Age: Int(38), AR: Float(0.9), NSI: Float(0.12), Dmax: Float(4.0), Dn: Float(3.5), H: Float(3.1)},
	}
}

// UnscorableRecord has a location no site rule matches.
func UnscorableRecord() Record {
	return Record{PatientID: 5, Status: "unruptured", Location: "PCom", Side: "L", Gender: "F", Age: Int(55), AR: Float(1.3), NSI: Float(0.18), Dmax: Float(6.8), Dn: Float(4.4), H: Float(5.0)}
}

// RecordBuilder assembles aneurysm record sets for tests.
type RecordBuilder struct {
	t       *testing.T
	records []Record
}

// NewRecordBuilder creates an empty builder.
func NewRecordBuilder(t *testing.T) *RecordBuilder {
	t.Helper()
	return &RecordBuilder{t: t}
}

// WithRecord adds one record.
func (b *RecordBuilder) WithRecord(r Record) *RecordBuilder {
	b.records = append(b.records, r)
	return b
}

// WithRecords adds several records.
func (b *RecordBuilder) WithRecords(rs ...Record) *RecordBuilder {
	b.records = append(b.records, rs...)
	return b
}

// WithBasicRecords adds BasicRecords.
func (b *RecordBuilder) WithBasicRecords() *RecordBuilder {
	return b.WithRecords(BasicRecords()...)
}

// Build lays the records out as a table with the aneurysm schema.
func (b *RecordBuilder) Build() *table.Table {
	b.t.Helper()

	t, err := table.New(model.Schema().Columns...)
	if err != nil {
		b.t.Fatalf("failed to create table: %v", err)
	}
	for _, r := range b.records {
		if err := t.Append(r.values()...); err != nil {
			b.t.Fatalf("failed to append PatientID %d: %v", r.PatientID, err)
		}
	}
	return t
}

func (r Record) values() []table.Value {
	return []table.Value{
		table.Int(r.PatientID),
		text(r.Status),
		text(r.Location),
		text(r.Side),
		text(r.Gender),
		integer(r.Age),
		float(r.AR),
		float(r.NSI),
		float(r.Dmax),
		float(r.Dn),
		float(r.H),
	}
}

func text(s string) table.Value {
	if s == "" {
		return table.Missing(table.KindString)
	}
	return table.String(s)
}

func integer(v *int) table.Value {
	if v == nil {
		return table.Missing(table.KindInt)
	}
	return table.Int(*v)
}

func float(v *float64) table.Value {
	if v == nil {
		return table.Missing(table.KindFloat)
	}
	return table.Float(*v)
}

// WriteCSV writes records to a CSV file in a per-test directory and returns
// its path.
func WriteCSV(t *testing.T, records *table.Table) string {
	t.Helper()

	var buf bytes.Buffer
	if err := table.WriteCSV(&buf, records); err != nil {
		t.Fatalf("failed to encode records: %v", err)
	}
	return WriteFile(t, "records.csv", buf.String())
}

// WriteFile writes content to name in a per-test directory and returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
