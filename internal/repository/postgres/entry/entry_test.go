package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labour/backend/foundation/web"
	"labour/backend/internal/entity"
	"labour/backend/internal/wage"
)

func TestParseRateType(t *testing.T) {
	for in, want := range map[string]string{"unit": RateUnit, " Hour ": RateHour, "UNIT": RateUnit} {
		got, err := parseRateType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := parseRateType("day")
	require.Error(t, err)
	assert.Equal(t, 400, web.StatusOf(err))
}

func TestPositive(t *testing.T) {
	zero, neg, some := 0.0, -2.0, 3.5

	assert.Nil(t, positive(nil))
	assert.Nil(t, positive(&zero))
	assert.Nil(t, positive(&neg))
	assert.Equal(t, 3.5, *positive(&some))
}

func TestToEntries(t *testing.T) {
	labourID := 9
	status := "absent"
	rows := []entity.LabourEntry{
		{BasicEntity: entity.BasicEntity{ID: 1}, LabourID: &labourID, Status: &status},
	}

	entries := toEntries(rows)
	require.Len(t, entries, 1)
	assert.Equal(t, 9, entries[0].LabourID)
	assert.Equal(t, wage.Absent, entries[0].Status)
	assert.NotNil(t, toEntries(nil))
}
