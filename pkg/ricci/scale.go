package ricci

import (
	"fmt"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"math"
	"strconv"
	"strings"
)

// MinMaxScale maps values linearly onto [0, 1] using their own minimum and
// maximum. NaN values are ignored when finding the range and stay NaN. A
// constant column scales to all zeros.
func MinMaxScale(values []float64) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	out := make([]float64, len(values))
	span := hi - lo
	for i, v := range values {
		switch {
		case math.IsNaN(v):
			out[i] = math.NaN()
		case span == 0:
			out[i] = 0
		default:
			out[i] = (v - lo) / span
		}
	}
	return out
}

// scaleColumns replaces each named column of df with its min-max scaled form.
// Every cell that is not missing must parse as a float.
func scaleColumns(df dataframe.DataFrame, names []string) (dataframe.DataFrame, error) {
	for _, name := range names {
		values, err := parseFloats(df.Col(name))
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		scaled := MinMaxScale(values)

		cells := make([]string, len(scaled))
		for i, v := range scaled {
			if math.IsNaN(v) {
				cells[i] = "NaN"
				continue
			}
			cells[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}

		df = df.Mutate(series.New(cells, series.Float, name))
		if df.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("scaling %q: %w", name, df.Err)
		}
	}
	return df, nil
}

// parseFloats reads column as floats with missing cells as NaN.
func parseFloats(column series.Series) ([]float64, error) {
	values := make([]float64, column.Len())
	for i := range values {
		e := column.Elem(i)
		if e.IsNA() {
			values[i] = math.NaN()
			continue
		}

		if e.Type() == series.Float {
			values[i] = e.Float()
			continue
		}

		cell := e.String()
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q row %d: %q", ErrInvalidValue, column.Name, i+1, cell)
		}
		values[i] = v
	}
	return values, nil
}

// DropMissing removes every row with a missing value in any column.
func DropMissing(df dataframe.DataFrame) dataframe.DataFrame {
	names := df.Names()
	columns := make([]series.Series, len(names))
	for j, name := range names {
		columns[j] = df.Col(name)
	}

	keep := make([]int, 0, df.Nrow())
rows:
	for i := 0; i < df.Nrow(); i++ {
		for _, column := range columns {
			if column.Elem(i).IsNA() {
				continue rows
			}
		}
		keep = append(keep, i)
	}

	if len(keep) == df.Nrow() {
		return df
	}
	return df.Subset(keep)
}
