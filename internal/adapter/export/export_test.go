package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/niksmo/qc-logbook/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testLogs() []domain.InspectionLog {
	return []domain.InspectionLog{
		{
			ID:          "L-2",
			CheckDate:   "2024-04-02",
			ProductID:   "P-1",
			ProductName: "Bracket",
			Inspector:   "Dana",
			Notes:       `Label reads "FRAGILE", box dented`,
			Status:      domain.StatusFail,
			AIAnalysis:  "[Damage] Dented box",
		},
		{
			ID:              "L-1",
			CheckDate:       "2024-04-01",
			ShippingOrderNo: "SO-9",
			ProductID:       "P-2",
			ProductName:     "Pump",
			Inspector:       "Lee",
			Status:          domain.StatusPass,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testLogs()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t,
		"ID,Check Date,Shipping Order No,Product ID,Product Name,Inspector,Status,Notes,AI Analysis",
		lines[0])
	assert.Equal(t,
		`"L-2","2024-04-02","","P-1","Bracket","Dana","FAIL","Label reads ""FRAGILE"", box dented","[Damage] Dented box"`,
		lines[1])
	assert.Equal(t,
		`"L-1","2024-04-01","SO-9","P-2","Pump","Lee","PASS","",""`,
		lines[2])
}

func TestWriteCSV_DelimitersInAnyColumn(t *testing.T) {
	logs := []domain.InspectionLog{{
		ID:          "L-3",
		CheckDate:   "2024-04-03",
		ProductID:   "P-1,rev2",
		ProductName: "Valve",
		Inspector:   "Dana",
		Status:      domain.StatusWarning,
		Notes:       "first line\nsecond line",
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, logs))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Len(t, r, len(Header))
	}
	assert.Equal(t, "P-1,rev2", records[1][3])
	assert.Equal(t, "first line\nsecond line", records[1][7])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, testLogs()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("QC Logs")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "L-2", rows[1][0])
	assert.Equal(t, `Label reads "FRAGILE", box dented`, rows[1][7])
	assert.Equal(t, "SO-9", rows[2][2])
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, Write(&buf, "pdf", nil))

	require.NoError(t, Write(&buf, FormatCSV, nil))
	assert.Equal(t, strings.Join(Header, ",")+"\n", buf.String())
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, "pdf", nil)
	require.ErrorIs(t, err, ErrUnknownFormat)
	assert.Zero(t, buf.Len())
}
