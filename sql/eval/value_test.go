package eval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueZeroIsNull(t *testing.T) {
	var v Value
	assert.True(t, v.IsNull())
	assert.Equal(t, KindNull, v.Kind())
}

func TestAsInt(t *testing.T) {
	tests := []struct {
		name    string
		value   Value
		want    int64
		wantErr bool
	}{
		{"Int", Int(42), 42, false},
		{"FloatTruncates", Float(3.9), 3, false},
		{"NegativeFloatTruncates", Float(-3.9), -3, false},
		{"BoolTrue", Bool(true), 1, false},
		{"BoolFalse", Bool(false), 0, false},
		{"IntegerText", Text("17"), 17, false},
		{"FloatText", Text("2.5"), 2, false},
		{"PaddedText", Text("  8  "), 8, false},
		{"NonNumericText", Text("abc"), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.value.AsInt()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAsFloat(t *testing.T) {
	f, err := Text("2.5").AsFloat()
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	f, err = Int(3).AsFloat()
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)

	_, err = Text("not a number").AsFloat()
	require.Error(t, err)
}

func TestAsText(t *testing.T) {
	assert.Equal(t, "42", Int(42).AsText())
	assert.Equal(t, "hello", Text("hello").AsText())
	assert.Equal(t, "1", Bool(true).AsText())
	assert.Equal(t, "0", Bool(false).AsText())
	assert.Equal(t, "", Null().AsText())

	// floats render without binary-float noise
	assert.Equal(t, "0.1", Float(0.1).AsText())
}

func TestAsBool(t *testing.T) {
	for _, truthy := range []Value{Bool(true), Int(1), Int(-5), Float(0.5), Text("1"), Text("true")} {
		b, err := truthy.AsBool()
		require.NoError(t, err)
		assert.True(t, b, "expected %s to be truthy", truthy)
	}
	for _, falsy := range []Value{Bool(false), Int(0), Float(0), Text("0"), Text("false")} {
		b, err := falsy.AsBool()
		require.NoError(t, err)
		assert.False(t, b, "expected %s to be falsy", falsy)
	}
	_, err := Text("maybe").AsBool()
	require.Error(t, err)
}

func TestAsTime(t *testing.T) {
	tm, err := Text("2024-06-15").AsTime()
	require.NoError(t, err)
	assert.Equal(t, 2024, tm.Year())
	assert.Equal(t, time.June, tm.Month())

	tm, err = Text("2024-06-15 10:30:00").AsTime()
	require.NoError(t, err)
	assert.Equal(t, 10, tm.Hour())

	_, err = Text("not a date").AsTime()
	require.Error(t, err)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"IntLess", Int(1), Int(2), -1},
		{"IntEqual", Int(2), Int(2), 0},
		{"IntGreater", Int(3), Int(2), 1},
		{"IntVsFloat", Int(2), Float(2.5), -1},
		{"NumericTextVsInt", Text("5"), Int(3), 1},
		{"TextLexical", Text("apple"), Text("banana"), -1},
		{"MixedFallsBackToText", Text("abc"), Int(5), 1}, // "abc" > "5" lexically
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Compare(tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompareDates(t *testing.T) {
	early := Date(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	late := Date(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	cmp, err := early.Compare(late)
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)

	// a date compares against parseable date text
	cmp, err = late.Compare(Text("2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 1, cmp)
}

func TestEqual(t *testing.T) {
	assert.True(t, Int(5).Equal(Text("5")))
	assert.True(t, Text("a").Equal(Text("a")))
	assert.False(t, Int(5).Equal(Int(6)))

	// null never equals anything, including null
	assert.False(t, Null().Equal(Null()))
	assert.False(t, Null().Equal(Int(0)))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "NULL", Null().String())
	assert.Equal(t, `"hi"`, Text("hi").String())
	assert.Equal(t, "7", Int(7).String())
}
