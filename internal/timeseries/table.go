// Package timeseries implements the date-indexed observation table used by the
// dashboard: outer-joining provider series, forward fill, dropping incomplete
// rows, percent change and date slicing.
//
// Missing values are represented as NaN. Tables are treated as immutable once
// built; the slicing helpers return views that share backing arrays with the
// source table.
package timeseries

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// ErrUnknownColumn is returned when a column name is not part of the table.
var ErrUnknownColumn = errors.New("unknown column")

// Series is a single dated sequence of values, ordered by date.
type Series struct {
	Dates  []time.Time
	Values []float64
}

// Len returns the number of observations.
func (s Series) Len() int { return len(s.Dates) }

// Table is a date-indexed table with one float64 column per named series.
// Values are stored column-major: Values[c][r] is column c at row r.
type Table struct {
	Dates   []time.Time
	Columns []string
	Values  [][]float64
}

// Row is one dated row of a table.
type Row struct {
	Date   time.Time
	Values map[string]float64
}

// Get returns the value of column name, or NaN when absent.
func (r Row) Get(name string) float64 {
	v, ok := r.Values[name]
	if !ok {
		return math.NaN()
	}
	return v
}

// OuterJoin aligns the given series on the union of their dates. Columns appear
// in the order given by order; every name in order must exist in series.
// Cells with no observation for a date are NaN. Duplicate dates within one
// series keep the last value.
func OuterJoin(series map[string]Series, order []string) (*Table, error) {
	seen := make(map[int64]time.Time)
	for _, name := range order {
		s, ok := series[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
		}
		if len(s.Dates) != len(s.Values) {
			return nil, fmt.Errorf("series %s: %d dates but %d values", name, len(s.Dates), len(s.Values))
		}
		for _, d := range s.Dates {
			seen[d.Unix()] = d
		}
	}

	dates := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	index := make(map[int64]int, len(dates))
	for i, d := range dates {
		index[d.Unix()] = i
	}

	t := &Table{
		Dates:   dates,
		Columns: append([]string(nil), order...),
		Values:  make([][]float64, len(order)),
	}
	for c, name := range order {
		col := nanSlice(len(dates))
		s := series[name]
		for i, d := range s.Dates {
			col[index[d.Unix()]] = s.Values[i]
		}
		t.Values[c] = col
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Dates)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return t.Len() == 0 }

// ColumnIndex returns the position of name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns the values of the named column.
func (t *Table) Column(name string) ([]float64, error) {
	i := t.ColumnIndex(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	return t.Values[i], nil
}

// FirstDate returns the first row date; ok is false on an empty table.
func (t *Table) FirstDate() (time.Time, bool) {
	if t.Empty() {
		return time.Time{}, false
	}
	return t.Dates[0], true
}

// LastDate returns the last row date; ok is false on an empty table.
func (t *Table) LastDate() (time.Time, bool) {
	if t.Empty() {
		return time.Time{}, false
	}
	return t.Dates[len(t.Dates)-1], true
}

// Row returns row i.
func (t *Table) Row(i int) Row {
	r := Row{Date: t.Dates[i], Values: make(map[string]float64, len(t.Columns))}
	for c, name := range t.Columns {
		r.Values[name] = t.Values[c][i]
	}
	return r
}

// Last returns the last row; ok is false on an empty table.
func (t *Table) Last() (Row, bool) {
	if t.Empty() {
		return Row{}, false
	}
	return t.Row(t.Len() - 1), true
}

// AsOf returns the latest row dated on or before date.
func (t *Table) AsOf(date time.Time) (Row, bool) {
	n := t.searchAfter(date)
	if n == 0 {
		return Row{}, false
	}
	return t.Row(n - 1), true
}

// Until returns a view of the rows dated on or before cutoff.
func (t *Table) Until(cutoff time.Time) *Table {
	return t.slice(0, t.searchAfter(cutoff))
}

// Between returns a view of the rows dated in the closed interval [from, to].
func (t *Table) Between(from, to time.Time) *Table {
	lo := sort.Search(t.Len(), func(i int) bool { return !t.Dates[i].Before(from) })
	hi := t.searchAfter(to)
	if hi < lo {
		hi = lo
	}
	return t.slice(lo, hi)
}

// YearRange returns a view of the rows whose calendar year is within [from, to].
func (t *Table) YearRange(from, to int) *Table {
	start := time.Date(from, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(to, time.December, 31, 23, 59, 59, 0, time.UTC)
	return t.Between(start, end)
}

// searchAfter returns the index of the first row dated strictly after date.
func (t *Table) searchAfter(date time.Time) int {
	return sort.Search(t.Len(), func(i int) bool { return t.Dates[i].After(date) })
}

func (t *Table) slice(lo, hi int) *Table {
	out := &Table{
		Dates:   t.Dates[lo:hi:hi],
		Columns: t.Columns,
		Values:  make([][]float64, len(t.Values)),
	}
	for c := range t.Values {
		out.Values[c] = t.Values[c][lo:hi:hi]
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Dates:   append([]time.Time(nil), t.Dates...),
		Columns: append([]string(nil), t.Columns...),
		Values:  make([][]float64, len(t.Values)),
	}
	for c := range t.Values {
		out.Values[c] = append([]float64(nil), t.Values[c]...)
	}
	return out
}

// FFill returns a copy where every NaN is replaced by the last non-NaN value
// above it in the same column. Leading NaNs stay NaN.
func (t *Table) FFill() *Table {
	out := t.Clone()
	for _, col := range out.Values {
		last := math.NaN()
		for i, v := range col {
			if math.IsNaN(v) {
				col[i] = last
				continue
			}
			last = v
		}
	}
	return out
}

// DropNA returns a copy without the rows that contain any NaN.
func (t *Table) DropNA() *Table {
	keep := make([]int, 0, t.Len())
	for i := range t.Dates {
		complete := true
		for _, col := range t.Values {
			if math.IsNaN(col[i]) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}

	out := &Table{
		Dates:   make([]time.Time, len(keep)),
		Columns: append([]string(nil), t.Columns...),
		Values:  make([][]float64, len(t.Values)),
	}
	for c := range t.Values {
		out.Values[c] = make([]float64, len(keep))
	}
	for j, i := range keep {
		out.Dates[j] = t.Dates[i]
		for c := range t.Values {
			out.Values[c][j] = t.Values[c][i]
		}
	}
	return out
}

// Select returns a view holding only the named columns, in the given order.
func (t *Table) Select(names []string) (*Table, error) {
	out := &Table{
		Dates:   t.Dates,
		Columns: append([]string(nil), names...),
		Values:  make([][]float64, len(names)),
	}
	for i, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		out.Values[i] = col
	}
	return out, nil
}

// RenameColumns renames columns in place using mapping (old name → new name).
// Every current column must have an entry.
func (t *Table) RenameColumns(mapping map[string]string) error {
	renamed := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		n, ok := mapping[c]
		if !ok {
			return fmt.Errorf("%w: no new name for %s", ErrUnknownColumn, c)
		}
		renamed[i] = n
	}
	t.Columns = renamed
	return nil
}

// SetColumn replaces the values of an existing column.
func (t *Table) SetColumn(name string, values []float64) error {
	i := t.ColumnIndex(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	if len(values) != t.Len() {
		return fmt.Errorf("column %s: got %d values for %d rows", name, len(values), t.Len())
	}
	t.Values[i] = values
	return nil
}

// PctChange returns the fractional change of values over the given number of
// periods: out[i] = values[i]/values[i-periods] - 1. The first periods entries
// are NaN, as is any entry whose base is zero or NaN.
func PctChange(values []float64, periods int) []float64 {
	out := nanSlice(len(values))
	if periods <= 0 {
		return out
	}
	for i := periods; i < len(values); i++ {
		base := values[i-periods]
		if base == 0 || math.IsNaN(base) {
			continue
		}
		out[i] = values[i]/base - 1
	}
	return out
}

// Scale multiplies every value by factor, returning a new slice.
func Scale(values []float64, factor float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v * factor
	}
	return out
}

// Validate checks the structural invariants: strictly increasing dates and
// one value per row in every column.
func (t *Table) Validate() error {
	if len(t.Values) != len(t.Columns) {
		return fmt.Errorf("table has %d columns but %d value slices", len(t.Columns), len(t.Values))
	}
	for c, col := range t.Values {
		if len(col) != len(t.Dates) {
			return fmt.Errorf("column %s has %d values for %d rows", t.Columns[c], len(col), len(t.Dates))
		}
	}
	for i := 1; i < len(t.Dates); i++ {
		if !t.Dates[i].After(t.Dates[i-1]) {
			return fmt.Errorf("dates not strictly increasing at row %d (%s after %s)",
				i, t.Dates[i].Format("2006-01-02"), t.Dates[i-1].Format("2006-01-02"))
		}
	}
	return nil
}

// MissingCount returns the number of NaN cells per column.
func (t *Table) MissingCount() map[string]int {
	out := make(map[string]int, len(t.Columns))
	for c, name := range t.Columns {
		n := 0
		for _, v := range t.Values[c] {
			if math.IsNaN(v) {
				n++
			}
		}
		out[name] = n
	}
	return out
}

type tableJSON struct {
	Dates   []string              `json:"dates"`
	Columns []string              `json:"columns"`
	Data    map[string][]*float64 `json:"data"`
}

// MarshalJSON encodes the table with YYYY-MM-DD dates and NaN as null.
func (t *Table) MarshalJSON() ([]byte, error) {
	out := tableJSON{
		Dates:   make([]string, len(t.Dates)),
		Columns: t.Columns,
		Data:    make(map[string][]*float64, len(t.Columns)),
	}
	if out.Columns == nil {
		out.Columns = []string{}
	}
	for i, d := range t.Dates {
		out.Dates[i] = d.Format("2006-01-02")
	}
	for c, name := range t.Columns {
		out.Data[name] = NullableFloats(t.Values[c])
	}
	return json.Marshal(out)
}

// NullableFloats converts values to pointers so that NaN encodes as JSON null.
func NullableFloats(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		if math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			continue
		}
		v := values[i]
		out[i] = &v
	}
	return out
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
