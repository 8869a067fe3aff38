package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	var tpl bytes.Buffer
	require.NoError(t, WriteLabourTemplate(&tpl))

	f, err := excelize.OpenReader(&tpl)
	require.NoError(t, err)
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow(LabourSheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReadLabourSheet(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"L-1", "Ravi Kumar", "secret1", "3000"},
		{"Ｌ－２", "Amit", "secret2", ""},
		{"L-3", "", "secret3", "100"},
		{"L-1", "Duplicate", "secret4", "0"},
		{"L-9", "Existing", "secret5", "0"},
		{"", "", "", ""},
		{"L-5", "Bad Cost", "secret6", "abc"},
		{"L-6", "Short", "123", "0"},
	})

	rows, rejected, err := ReadLabourSheet(buf, map[string]struct{}{"L-9": {}})
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, LabourRow{Row: 2, Code: "L-1", Name: "Ravi Kumar", Password: "secret1", VisaCost: 3000}, rows[0])
	assert.Equal(t, "L-2", rows[1].Code)
	assert.Zero(t, rows[1].VisaCost)

	assert.Equal(t, []int{4, 5, 6, 8, 9}, rejected)
}

func TestReadLabourSheet_NotAWorkbook(t *testing.T) {
	_, _, err := ReadLabourSheet(bytes.NewBufferString("name,code"), nil)
	assert.Error(t, err)
}
