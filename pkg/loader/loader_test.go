package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

const header = "Cleaned Class,Day of the Week,Class Time,Location,Teacher Name,Checked in,Total Revenue,Variant Name\n"

func TestLoadCSV(t *testing.T) {
	input := header +
		`Barre 57,Monday,9:00,"Kwality House, Kemps Corner",Anisha  Shah,9,"₹4,500",Regular` + "\n" +
		`HIIT,sun,07:30 PM,Kenkere House,Unassigned,,,Regular` + "\n" +
		`Barre 57,Monday,09:00,Kenkere House,Rhea Kapoor,5,0,Hosted by partner` + "\n" +
		`Barre 57,Monday,09:00,Kenkere House,Rhea Kapoor,5,0,` + "\n" +
		`,,,,,,,` + "\n" +
		`Pilates,Funday,09:00,Kenkere House,Rhea Kapoor,5,0,Regular` + "\n" +
		`Pilates,Monday,09:00,Kenkere House,Rhea Kapoor,many,0,Regular` + "\n" +
		`,Monday,09:00,Kenkere House,Rhea Kapoor,5,0,Regular` + "\n"

	result, err := LoadCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	assert.Equal(t, model.HistoricalRecord{
		Format:    "Barre 57",
		Day:       model.Monday,
		Time:      "09:00",
		Location:  "Kwality House, Kemps Corner",
		Teacher:   "Anisha Shah",
		CheckedIn: 9,
		Revenue:   4500,
	}, result.Records[0])

	assert.Equal(t, model.Sunday, result.Records[1].Day)
	assert.Equal(t, "19:30", result.Records[1].Time)
	assert.Equal(t, model.Unassigned, result.Records[1].Teacher)
	assert.Equal(t, 0, result.Records[1].CheckedIn)

	assert.Equal(t, 2, result.Filtered)

	require.Len(t, result.Rejected, 3)
	assert.Equal(t, 7, result.Rejected[0].Row)
	assert.Contains(t, result.Rejected[0].Error(), "Funday")
	assert.Contains(t, result.Rejected[1].Error(), "Checked in")
	assert.Contains(t, result.Rejected[2].Error(), "Format")
}

func TestParseRows_MissingColumns(t *testing.T) {
	_, err := ParseRows([][]string{{"Cleaned Class", "Location"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Day of the Week")

	_, err = ParseRows(nil)
	assert.Error(t, err)
}

func TestParseRows_ShortRowsAndByteOrderMark(t *testing.T) {
	raw := [][]string{
		{"\ufeffCleaned Class", "Day of the Week", "Class Time", "Location", "Teacher Name", "Checked in", "Variant Name"},
		{"Barre", "Tuesday", "18:00", "Kenkere House", "A", "4", "Regular"},
		{"Barre", "Tuesday", "19:00", "Kenkere House"},
	}

	result, err := ParseRows(raw)
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Equal(t, 0.0, result.Records[0].Revenue)
	assert.Equal(t, 1, result.Filtered)
}

func TestNormaliseTime(t *testing.T) {
	tests := map[string]string{
		"7:00":     "07:00",
		"07:00":    "07:00",
		"18:30:00": "18:30",
		"6:15 PM":  "18:15",
		"6:15pm":   "18:15",
		"7 AM":     "07:00",
	}
	for input, want := range tests {
		got, err := NormaliseTime(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := NormaliseTime("noon")
	assert.Error(t, err)
}
