// Package loader turns attendance exports (CSV files or sheet ranges) into historical records.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

// Column names in the attendance export
const (
	ColumnFormat    = "Cleaned Class"
	ColumnDay       = "Day of the Week"
	ColumnTime      = "Class Time"
	ColumnLocation  = "Location"
	ColumnTeacher   = "Teacher Name"
	ColumnCheckedIn = "Checked in"
	ColumnRevenue   = "Total Revenue"
	ColumnVariant   = "Variant Name"
)

var requiredColumns = []string{
	ColumnFormat,
	ColumnDay,
	ColumnTime,
	ColumnLocation,
	ColumnTeacher,
	ColumnCheckedIn,
	ColumnVariant,
}

var validate = validator.New()

// row is one parsed export line before conversion
type row struct {
	Format    string  `validate:"required"`
	Day       string  `validate:"required"`
	Time      string  `validate:"required"`
	Location  string  `validate:"required"`
	Teacher   string
	CheckedIn int     `validate:"gte=0"`
	Revenue   float64 `validate:"gte=0"`
}

// RowError describes a data row that could not be loaded. Row is 1-based and counts the header.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// Result is the outcome of a load
type Result struct {
	Records []model.HistoricalRecord

	// Filtered counts rows dropped because they were hosted or had no variant
	Filtered int

	// Rejected lists rows with invalid data
	Rejected []RowError
}

// LoadCSV reads an attendance export in CSV form
func LoadCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	raw, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return ParseRows(raw)
}

// ParseRows converts a header row followed by data rows. Blank rows are skipped,
// hosted and variant-less rows are filtered and invalid rows are rejected without
// failing the load.
func ParseRows(raw [][]string) (*Result, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	indexes, err := columnIndexes(raw[0])
	if err != nil {
		return nil, err
	}

	getField := func(column string, values []string) string {
		index, ok := indexes[column]
		if !ok || index >= len(values) {
			return ""
		}
		return strings.TrimSpace(values[index])
	}

	result := &Result{
		Records:  make([]model.HistoricalRecord, 0, len(raw)-1),
		Rejected: []RowError{},
	}

	for i := 1; i < len(raw); i++ {
		values := raw[i]
		if isBlank(values) {
			continue
		}

		variant := getField(ColumnVariant, values)
		if variant == "" || strings.Contains(strings.ToLower(variant), "hosted") {
			result.Filtered++
			continue
		}

		record, err := parseRecord(getField, values)
		if err != nil {
			result.Rejected = append(result.Rejected, RowError{Row: i + 1, Err: err})
			continue
		}
		result.Records = append(result.Records, record)
	}

	return result, nil
}

func columnIndexes(header []string) (map[string]int, error) {
	indexes := make(map[string]int)
	for i, cell := range header {
		name := strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
		if _, seen := indexes[name]; !seen {
			indexes[name] = i
		}
	}

	missing := make([]string, 0)
	for _, column := range requiredColumns {
		if _, ok := indexes[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns in header: %s", strings.Join(missing, ", "))
	}
	return indexes, nil
}

func parseRecord(getField func(string, []string) string, values []string) (model.HistoricalRecord, error) {
	checkedIn, err := parseCount(getField(ColumnCheckedIn, values))
	if err != nil {
		return model.HistoricalRecord{}, fmt.Errorf("invalid %s: %w", ColumnCheckedIn, err)
	}
	revenue, err := parseAmount(getField(ColumnRevenue, values))
	if err != nil {
		return model.HistoricalRecord{}, fmt.Errorf("invalid %s: %w", ColumnRevenue, err)
	}

	r := row{
		Format:    getField(ColumnFormat, values),
		Day:       getField(ColumnDay, values),
		Time:      getField(ColumnTime, values),
		Location:  getField(ColumnLocation, values),
		Teacher:   getField(ColumnTeacher, values),
		CheckedIn: checkedIn,
		Revenue:   revenue,
	}
	if err := validate.Struct(r); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return model.HistoricalRecord{}, fmt.Errorf("field %s failed %q", validationErrors[0].Field(), validationErrors[0].Tag())
		}
		return model.HistoricalRecord{}, err
	}

	day, err := model.ParseWeekday(r.Day)
	if err != nil {
		return model.HistoricalRecord{}, err
	}
	classTime, err := NormaliseTime(r.Time)
	if err != nil {
		return model.HistoricalRecord{}, err
	}

	return model.HistoricalRecord{
		Format:    r.Format,
		Day:       day,
		Time:      classTime,
		Location:  r.Location,
		Teacher:   model.NewTeacherID(r.Teacher),
		CheckedIn: r.CheckedIn,
		Revenue:   r.Revenue,
	}, nil
}

var timeLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "3:04 pm", "3:04pm", "3 PM", "3PM"}

// NormaliseTime converts a class time to zero-padded 24 hour "HH:MM"
func NormaliseTime(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("unrecognised class time %q", s)
}

// parseCount treats blanks as zero, as exports leave empty classes blank
func parseCount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(strings.ReplaceAll(s, ",", ""))
}

// parseAmount strips currency symbols and thousands separators
func parseAmount(s string) (float64, error) {
	cleaned := strings.NewReplacer(",", "", "₹", "", "Rs.", "", "Rs", "", " ", "").Replace(s)
	if cleaned == "" {
		return 0, nil
	}
	return strconv.ParseFloat(cleaned, 64)
}

func isBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
