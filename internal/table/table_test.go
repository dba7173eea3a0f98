package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/aneurisk/internal/common"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()

	tbl, err := New(
		Column{Name: "id", Kind: KindInt},
		Column{Name: "site", Kind: KindString},
		Column{Name: "size", Kind: KindFloat},
	)
	require.NoError(t, err)
	require.NoError(t, tbl.Append(Int(1), String("ICA"), Float(4.5)))
	require.NoError(t, tbl.Append(Int(2), String("MCA"), Missing(KindFloat)))
	require.NoError(t, tbl.Append(Int(3), Missing(KindString), Float(9)))
	return tbl
}

func TestNew(t *testing.T) {
	_, err := New(Column{Name: "a"}, Column{Name: "a"})
	require.ErrorIs(t, err, common.ErrDuplicateEntry)

	_, err = New(Column{Name: " "})
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestAppend(t *testing.T) {
	tbl := sampleTable(t)

	err := tbl.Append(Int(4), String("BA"))
	require.ErrorIs(t, err, common.ErrIndexOutOfBounds)

	err = tbl.Append(String("4"), String("BA"), Float(1))
	require.ErrorIs(t, err, common.ErrTypeMismatch)

	assert.Equal(t, 3, tbl.Len())
}

func TestCellAccess(t *testing.T) {
	tbl := sampleTable(t)

	size, ok, err := tbl.Float(0, "size")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 4.5, size, 1e-12)

	_, ok, err = tbl.Float(1, "size")
	require.NoError(t, err)
	assert.False(t, ok, "missing cells report not ok")

	_, _, err = tbl.Float(0, "site")
	require.ErrorIs(t, err, common.ErrTypeMismatch)

	_, err = tbl.Value(0, "nope")
	require.ErrorIs(t, err, common.ErrMissingKey)

	_, err = tbl.Value(10, "id")
	require.ErrorIs(t, err, common.ErrIndexOutOfBounds)

	require.NoError(t, tbl.Set(1, "size", Float(6)))
	size, ok, err = tbl.Float(1, "size")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 6.0, size, 1e-12)

	require.ErrorIs(t, tbl.Set(1, "size", String("6")), common.ErrTypeMismatch)
}

func TestRowPanicsOutOfRange(t *testing.T) {
	tbl := sampleTable(t)
	assert.Panics(t, func() { tbl.Row(3) })
	assert.NotPanics(t, func() { tbl.Row(2) })
}

func TestAddColumn(t *testing.T) {
	tbl := sampleTable(t)

	double := func(r Row) (Value, error) {
		f, ok := r.Float("size")
		if !ok {
			return Missing(KindFloat), nil
		}
		return Float(f * 2), nil
	}
	require.NoError(t, tbl.AddColumn(Column{Name: "double", Kind: KindFloat}, double))
	assert.Equal(t, []string{"id", "site", "size", "double"}, tbl.Names())

	v, err := tbl.Value(2, "double")
	require.NoError(t, err)
	assert.True(t, Float(18).Equal(v))

	// Recomputing replaces in place.
	require.NoError(t, tbl.AddColumn(Column{Name: "double", Kind: KindInt}, func(Row) (Value, error) {
		return Int(0), nil
	}))
	assert.Equal(t, []string{"id", "site", "size", "double"}, tbl.Names())
	col, err := tbl.Column("double")
	require.NoError(t, err)
	assert.Equal(t, KindInt, col.Kind)

	err = tbl.AddColumn(Column{Name: "bad", Kind: KindInt}, func(Row) (Value, error) {
		return String("x"), nil
	})
	require.ErrorIs(t, err, common.ErrTypeMismatch)
	assert.False(t, tbl.Has("bad"))
}

func TestDropColumn(t *testing.T) {
	tbl := sampleTable(t)
	tbl.DropColumn("site")
	tbl.DropColumn("absent")

	assert.Equal(t, []string{"id", "size"}, tbl.Names())
	v, err := tbl.Value(2, "size")
	require.NoError(t, err)
	assert.True(t, Float(9).Equal(v))
}

func TestFilterAndDropMissing(t *testing.T) {
	tbl := sampleTable(t)

	big := tbl.Filter(func(r Row) bool {
		f, ok := r.Float("size")
		return ok && f > 5
	})
	require.Equal(t, 1, big.Len())
	id, _, err := big.Int(0, "id")
	require.NoError(t, err)
	assert.Equal(t, 3, id)

	complete, err := tbl.DropMissing("site", "size")
	require.NoError(t, err)
	assert.Equal(t, 1, complete.Len())

	_, err = tbl.DropMissing("nope")
	require.ErrorIs(t, err, common.ErrMissingKey)

	assert.Equal(t, 3, tbl.Len(), "source table is unchanged")
}

func TestFloatsAndStrings(t *testing.T) {
	tbl := sampleTable(t)

	values, missing, err := tbl.Floats("size")
	require.NoError(t, err)
	assert.Equal(t, []float64{4.5, 9}, values)
	assert.Equal(t, 1, missing)

	ids, missing, err := tbl.Floats("id")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, ids)
	assert.Zero(t, missing)

	_, _, err = tbl.Floats("site")
	require.ErrorIs(t, err, common.ErrTypeMismatch)
}

func TestSelectAndClone(t *testing.T) {
	tbl := sampleTable(t)

	sel, err := tbl.Select("size", "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"size", "id"}, sel.Names())
	assert.Equal(t, 3, sel.Len())

	_, err = tbl.Select("nope")
	require.ErrorIs(t, err, common.ErrMissingKey)

	clone := tbl.Clone()
	require.NoError(t, clone.Set(0, "site", String("BA")))
	site, _, err := tbl.String(0, "site")
	require.NoError(t, err)
	assert.Equal(t, "ICA", site, "clone does not share rows")
}
