// Package model defines the aneurysm record schema and its invariants.
package model

import (
	"fmt"
	"strings"

	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/table"
)

// Source column names.
const (
	ColPatientID = "PatientID"
	ColStatus    = "Status"
	ColLocation  = "Location"
	ColSide      = "Side"
	ColGender    = "Gender"
	ColAge       = "Age"
	ColAR        = "AR"
	ColNSI       = "NSI"
	ColDmax      = "Dmax"
	ColDn        = "Dn"
	ColH         = "H"
)

// Derived column names.
const (
	ColSite        = "Site"
	ColAgeGroup    = "age_group"
	ColPHASESScore = "PHASES score"
)

// Status is the rupture label of a record.
type Status string

// The only two status values a record may carry.
const (
	StatusRuptured   Status = "ruptured"
	StatusUnruptured Status = "unruptured"
)

// ParseStatus normalizes a raw status value.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusRuptured:
		return StatusRuptured, nil
	case StatusUnruptured:
		return StatusUnruptured, nil
	default:
		return "", fmt.Errorf("%w: status %q is not %q or %q",
			common.ErrValueOutOfRange, raw, StatusRuptured, StatusUnruptured)
	}
}

// MeasurementColumns are the shape and size measurements.
var MeasurementColumns = []string{ColAR, ColNSI, ColDmax, ColDn, ColH}

// DerivedColumns are recomputed from source columns and never read from input.
var DerivedColumns = []string{ColSite, ColAgeGroup, ColPHASESScore}

// Schema returns the aneurysm input schema.
func Schema() table.Schema {
	return table.Schema{
		Columns: []table.Column{
			{Name: ColPatientID, Kind: table.KindInt},
			{Name: ColStatus, Kind: table.KindString},
			{Name: ColLocation, Kind: table.KindString},
			{Name: ColSide, Kind: table.KindString},
			{Name: ColGender, Kind: table.KindString},
			{Name: ColAge, Kind: table.KindInt},
			{Name: ColAR, Kind: table.KindFloat},
			{Name: ColNSI, Kind: table.KindFloat},
			{Name: ColDmax, Kind: table.KindFloat},
			{Name: ColDn, Kind: table.KindFloat},
			{Name: ColH, Kind: table.KindFloat},
		},
		Required: []string{ColPatientID, ColStatus, ColLocation, ColAge, ColDmax},
		Discard:  DerivedColumns,
	}
}

// Validate enforces the record-set invariants and normalizes Status in place:
// every PatientID is present and unique and every Status is one of the two
// literal values.
func Validate(t *table.Table) error {
	if t.Len() == 0 {
		return fmt.Errorf("%w: no records", common.ErrEmptyDataset)
	}

	seen := make(map[int]int, t.Len())
	for i := 0; i < t.Len(); i++ {
		id, ok, err := t.Int(i, ColPatientID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: row %d has no %s", common.ErrMissingKey, i+1, ColPatientID)
		}
		if first, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s %d on rows %d and %d",
				common.ErrDuplicateEntry, ColPatientID, id, first+1, i+1)
		}
		seen[id] = i

		raw, _, err := t.String(i, ColStatus)
		if err != nil {
			return err
		}
		status, err := ParseStatus(raw)
		if err != nil {
			return fmt.Errorf("%s %d: %w", ColPatientID, id, err)
		}
		if err := t.Set(i, ColStatus, table.String(string(status))); err != nil {
			return err
		}
	}
	return nil
}

// Load opens a CSV or Excel file of aneurysm records and validates it.
func Load(path string) (*table.Table, error) {
	t, err := table.Open(path, Schema())
	if err != nil {
		return nil, err
	}
	if err := Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

// PatientID returns the identifier of the row, or -1 if absent.
func PatientID(r table.Row) int {
	if id, ok := r.Int(ColPatientID); ok {
		return id
	}
	return -1
}
