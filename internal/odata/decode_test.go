package odata

import (
	"errors"
	"testing"
	"time"

	"github.com/ralt/nugetprops/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textElement(name, text string) *Element {
	e, _ := MakeElement(name, false, KindString, text)
	return e
}

func TestInt32ValueNotations(t *testing.T) {
	tests := map[string]int32{
		"42":    42,
		" 42 ":  42,
		"-1":    -1,
		"+3":    3,
		"0x1F":  31,
		"0X1f":  31,
		"#10":   16,
		"-0x10": -16,
		"010":   8,
		"0":     0,
	}
	for text, want := range tests {
		v, err := Int32Value(textElement("DownloadCount", text))
		require.NoError(t, err, "text %q", text)
		require.NotNil(t, v, "text %q", text)
		assert.Equal(t, want, *v, "text %q", text)
	}
}

func TestInt32ValueMalformed(t *testing.T) {
	for _, text := range []string{"abc", "1.5", "08", "2147483648", "1_000", "0b101", "0B1", "0o17", "-0O7"} {
		_, err := Int32Value(textElement("DownloadCount", text))
		require.Error(t, err, "text %q", text)
		assert.True(t, errors.Is(err, &models.CodecError{Type: models.ErrMalformedScalar}), "text %q", text)
	}
}

func TestScalarNoValue(t *testing.T) {
	v, err := Int32Value(nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	null, _ := MakeElement("Rating", true, KindDouble, "")
	d, err := DoubleValue(null)
	require.NoError(t, err)
	assert.Nil(t, d)

	b, err := BooleanValue(textElement("IsLatestVersion", ""))
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestInt64Value(t *testing.T) {
	v, err := Int64Value(textElement("PackageSize", "9223372036854775807"))
	require.NoError(t, err)
	assert.Equal(t, int64(9223372036854775807), *v)

	_, err = Int64Value(textElement("PackageSize", "huge"))
	assert.Error(t, err)
}

func TestDoubleValue(t *testing.T) {
	v, err := DoubleValue(textElement("Rating", "4.5"))
	require.NoError(t, err)
	assert.Equal(t, 4.5, *v)

	v, err = DoubleValue(textElement("Rating", "INF"))
	require.NoError(t, err)
	assert.True(t, *v > 0)

	_, err = DoubleValue(textElement("Rating", "four"))
	assert.Error(t, err)
}

func TestBooleanValue(t *testing.T) {
	v, err := BooleanValue(textElement("IsLatestVersion", "TRUE"))
	require.NoError(t, err)
	assert.True(t, *v)

	v, err = BooleanValue(textElement("IsLatestVersion", "false"))
	require.NoError(t, err)
	assert.False(t, *v)

	_, err = BooleanValue(textElement("IsLatestVersion", "yes"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, &models.CodecError{Type: models.ErrMalformedScalar}))
}

func TestTimeValue(t *testing.T) {
	v, err := TimeValue(textElement("Published", "2019-03-14T15:09:26.535+03:00"))
	require.NoError(t, err)
	want := time.Date(2019, 3, 14, 12, 9, 26, 535_000_000, time.UTC)
	assert.True(t, want.Equal(*v))

	v, err = TimeValue(textElement("Published", "2011-09-01T20:29:04.457"))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, v.Location())
	assert.Equal(t, 457_000_000, v.Nanosecond())

	_, err = TimeValue(textElement("Published", "yesterday"))
	assert.Error(t, err)
}

func TestStringValue(t *testing.T) {
	_, ok := StringValue(nil)
	assert.False(t, ok)

	s, ok := StringValue(textElement("Title", "  padded "))
	assert.True(t, ok)
	assert.Equal(t, "  padded ", s)
}

func TestSpaceListCodec(t *testing.T) {
	c := SpaceListCodec{}
	tests := []struct {
		list []string
		text string
	}{
		{[]string{}, ""},
		{[]string{"alpha"}, "alpha"},
		{[]string{"alpha", "beta gamma"}, `alpha beta\ gamma`},
		{[]string{`back\slash`, "x"}, `back\\slash x`},
	}
	for _, tt := range tests {
		text, err := c.Marshal(tt.list)
		require.NoError(t, err)
		assert.Equal(t, tt.text, text)

		list, err := c.Unmarshal(text)
		require.NoError(t, err)
		assert.Equal(t, tt.list, list)
	}
}

func TestSpaceListCodecCollapsesSeparators(t *testing.T) {
	list, err := SpaceListCodec{}.Unmarshal("  one   two ")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, list)
}

func TestStringListValue(t *testing.T) {
	list, err := StringListValue(nil, DefaultListCodec)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
