package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaOffsets(t *testing.T) {
	// The schema table must match the ISD format document byte-for-byte.
	tests := []struct {
		field      Field
		start, end int
		required   bool
	}{
		{FieldLatitude, 28, 34, true},
		{FieldLongitude, 34, 41, true},
		{FieldElevation, 46, 51, false},
		{FieldWindDir, 60, 63, false},
		{FieldWindSpeed, 65, 69, false},
		{FieldTemperature, 87, 92, false},
		{FieldPressure, 99, 104, false},
	}
	for _, tt := range tests {
		t.Run(tt.field.Name, func(t *testing.T) {
			assert.Equal(t, tt.start, tt.field.Start)
			assert.Equal(t, tt.end, tt.field.End)
			assert.Equal(t, tt.required, tt.field.Required)
			assert.LessOrEqual(t, tt.field.End, MinRecordLength)
		})
	}
}

func TestFieldDecode(t *testing.T) {
	line := buildRecord(recordOpts{})

	v, ok, err := FieldLatitude.decode(line)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 34.3, v)

	v, ok, err = FieldTemperature.decode(line)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 25.0, v)
}

func TestFieldDecode_OptionalOutOfRange(t *testing.T) {
	line := buildRecord(recordOpts{pressure: "99999"})

	_, ok, err := FieldPressure.decode(line)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestFieldDecode_RequiredOutOfRange(t *testing.T) {
	line := buildRecord(recordOpts{lat: "+95000"})

	_, _, err := FieldLatitude.decode(line)
	assert.ErrorIs(t, err, ErrRangeViolation)
}
