package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/aneurisk/internal/common"
)

func TestParse(t *testing.T) {
	tests := []struct {
		want    Value
		wantErr error
		name    string
		text    string
		kind    Kind
	}{
		{name: "int", kind: KindInt, text: "45", want: Int(45)},
		{name: "int written as float", kind: KindInt, text: "45.0", want: Int(45)},
		{name: "int with spaces", kind: KindInt, text: " 7 ", want: Int(7)},
		{name: "fractional int", kind: KindInt, text: "45.5", wantErr: common.ErrTypeMismatch},
		{name: "word as int", kind: KindInt, text: "old", wantErr: common.ErrTypeMismatch},
		{name: "int overflow", kind: KindInt, text: "1e20", wantErr: common.ErrValueOutOfRange},
		{name: "int overflow digits", kind: KindInt, text: "99999999999999999999", wantErr: common.ErrValueOutOfRange},
		{name: "negative int overflow", kind: KindInt, text: "-1e19", wantErr: common.ErrValueOutOfRange},
		{name: "infinite int", kind: KindInt, text: "inf", wantErr: common.ErrValueOutOfRange},
		{name: "float", kind: KindFloat, text: "8.25", want: Float(8.25)},
		{name: "float from int text", kind: KindFloat, text: "3", want: Float(3)},
		{name: "full precision float", kind: KindFloat, text: "22.857142857142858", want: Float(22.857142857142858)},
		{name: "word as float", kind: KindFloat, text: "big", wantErr: common.ErrTypeMismatch},
		{name: "infinite float", kind: KindFloat, text: "inf", wantErr: common.ErrValueOutOfRange},
		{name: "negative infinite float", kind: KindFloat, text: "-Infinity", wantErr: common.ErrValueOutOfRange},
		{name: "overflowed float", kind: KindFloat, text: "1e400", wantErr: common.ErrValueOutOfRange},
		{name: "string", kind: KindString, text: "MCA", want: String("MCA")},
		{name: "empty is missing", kind: KindFloat, text: "", want: Missing(KindFloat)},
		{name: "NA is missing", kind: KindInt, text: "NA", want: Missing(KindInt)},
		{name: "nan is missing", kind: KindFloat, text: "NaN", want: Missing(KindFloat)},
		{name: "none is missing string", kind: KindString, text: "None", want: Missing(KindString)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.kind, tt.text)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %#v, got %#v", tt.want, got)
		})
	}
}

func TestInferKind(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   Kind
	}{
		{name: "ints", values: []string{"1", "2", ""}, want: KindInt},
		{name: "mixed numbers", values: []string{"1", "2.5"}, want: KindFloat},
		{name: "text", values: []string{"1", "ICA"}, want: KindString},
		{name: "all missing", values: []string{"", "NA"}, want: KindString},
		{name: "empty", values: nil, want: KindString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferKind(tt.values))
		})
	}
}

func TestValueAccessors(t *testing.T) {
	f, ok := Int(3).AsFloat()
	assert.True(t, ok)
	assert.InDelta(t, 3.0, f, 1e-12)

	_, ok = Float(3).AsInt()
	assert.False(t, ok, "floats are not ints")

	_, ok = String("3").AsFloat()
	assert.False(t, ok, "strings are not numbers")

	assert.True(t, Float(math.NaN()).IsMissing())
	assert.Equal(t, KindFloat, Float(math.NaN()).Kind())

	assert.Equal(t, "8.5", Float(8.5).Text())
	assert.Equal(t, "12", Int(12).Text())
	assert.Equal(t, "", Missing(KindInt).Text())
	assert.Nil(t, Missing(KindString).Interface())
	assert.Equal(t, 12, Int(12).Interface())

	assert.False(t, Int(1).Equal(Float(1)), "kinds differ")
	assert.True(t, Missing(KindInt).Equal(Missing(KindInt)))
}
