package model_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/model"
	"github.com/Veraticus/aneurisk/internal/table"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aneurysms.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    model.Status
		wantErr bool
	}{
		{raw: "ruptured", want: model.StatusRuptured},
		{raw: " Unruptured ", want: model.StatusUnruptured},
		{raw: "RUPTURED", want: model.StatusRuptured},
		{raw: "unknown", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := model.ParseStatus(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrValueOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, `PatientID,Status,Location,Side,Gender,Age,AR,NSI,Dmax,Dn,H,PHASES score
1,Ruptured,MCA,L,F,45,1.8,0.2,8.5,4.1,6.2,99
2,unruptured,ICA,R,M,62.0,,0.1,5.2,3.9,4.0,99
`)

	tbl, err := model.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
	assert.False(t, tbl.Has(model.ColPHASESScore), "derived columns are never read from input")

	status, _, err := tbl.String(0, model.ColStatus)
	require.NoError(t, err)
	assert.Equal(t, "ruptured", status, "status is normalized")

	age, ok, err := tbl.Int(1, model.ColAge)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 62, age)

	ar, err := tbl.Value(1, model.ColAR)
	require.NoError(t, err)
	assert.True(t, ar.IsMissing())
}

func TestLoadRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "duplicate patient",
			content: "PatientID,Status,Location,Age,Dmax\n1,ruptured,MCA,45,8\n1,ruptured,ICA,50,3\n",
			wantErr: common.ErrDuplicateEntry,
		},
		{
			name:    "missing patient id",
			content: "PatientID,Status,Location,Age,Dmax\n,ruptured,MCA,45,8\n",
			wantErr: common.ErrMissingKey,
		},
		{
			name:    "bad status",
			content: "PatientID,Status,Location,Age,Dmax\n1,leaking,MCA,45,8\n",
			wantErr: common.ErrValueOutOfRange,
		},
		{
			name:    "required column absent",
			content: "PatientID,Status,Location,Age\n1,ruptured,MCA,45\n",
			wantErr: common.ErrMissingKey,
		},
		{
			name:    "no records",
			content: "PatientID,Status,Location,Age,Dmax\n",
			wantErr: common.ErrEmptyDataset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.Load(writeCSV(t, tt.content))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPatientID(t *testing.T) {
	tbl, err := table.New(table.Column{Name: model.ColPatientID, Kind: table.KindInt})
	require.NoError(t, err)
	require.NoError(t, tbl.Append(table.Int(7)))
	require.NoError(t, tbl.Append(table.Missing(table.KindInt)))

	assert.Equal(t, 7, model.PatientID(tbl.Row(0)))
	assert.Equal(t, -1, model.PatientID(tbl.Row(1)))
}
