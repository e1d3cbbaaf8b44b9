package profile

import (
	"fmt"
	"github.com/willbeason/fairness-datasets/pkg/tables"
	"math"
	"sort"
	"strconv"
	"strings"
)

// MaxEnum is the largest number of unique values to track before not trying to
// interpret the field as an enum.
const MaxEnum = 20

// Field summarizes the cells of one CSV column. A column holds a single kind
// of value, booleans, numbers or strings, though any cell may be missing.
type Field interface {
	Add(cell string) (Field, error)
	String() string
}

// EmptyField represents a column which has only seen missing cells.
// Adding a present cell returns a non-EmptyField.
type EmptyField struct {
	Missing int
}

// Add turns the EmptyField into an appropriate field for the cell.
func (nf *EmptyField) Add(cell string) (Field, error) {
	if tables.IsMissing(cell) {
		nf.Missing++
		return nf, nil
	}

	var f Field
	switch {
	case isBool(cell):
		f = &BoolField{Missing: nf.Missing}
	case isNumber(cell):
		f = &NumberField{Missing: nf.Missing, Seen: make(map[float64]int)}
	default:
		f = &StringField{Missing: nf.Missing, Seen: make(map[string]int)}
	}
	return f.Add(cell)
}

func (nf *EmptyField) String() string {
	return fmt.Sprintf("empty;missing:%d", nf.Missing)
}

func isBool(cell string) bool {
	return strings.EqualFold(cell, "true") || strings.EqualFold(cell, "false")
}

func isNumber(cell string) bool {
	_, err := strconv.ParseFloat(cell, 64)
	return err == nil
}

// BoolField indicates the column only ever holds "true" or "false".
type BoolField struct {
	True    int
	False   int
	Missing int
}

func (f *BoolField) Add(cell string) (Field, error) {
	switch {
	case tables.IsMissing(cell):
		f.Missing++
	case strings.EqualFold(cell, "true"):
		f.True++
	case strings.EqualFold(cell, "false"):
		f.False++
	default:
		return nil, fmt.Errorf("cannot add %q to %T", cell, f)
	}
	return f, nil
}

func (f *BoolField) String() string {
	return fmt.Sprintf("bool;true:%d;false:%d;missing:%d", f.True, f.False, f.Missing)
}

// A NumberField only holds numbers. Keeps track of the properties of the
// numbers passed in to determine the narrowest type which holds them.
type NumberField struct {
	// Integral tracks if all instances of this field are integers.
	Integral bool
	// Float32 tracks if all instances of this field can fit in a 32-bit floating
	// point type.
	Float32 bool

	Min, Max float64
	Missing  int
	Count    int

	// Seen tracks the unique numbers passed to this field.
	// Stops collecting values after it contains more than MaxEnum entries.
	Seen map[float64]int
}

func (f *NumberField) Add(cell string) (Field, error) {
	if tables.IsMissing(cell) {
		f.Missing++
		return f, nil
	}

	o, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil, fmt.Errorf("cannot add %q to %T", cell, f)
	}

	if f.Count > 0 {
		f.Integral = f.Integral && isIntegral(o)
		f.Float32 = f.Float32 && isFloat32(o)
		f.Min = math.Min(f.Min, o)
		f.Max = math.Max(f.Max, o)
	} else {
		f.Integral = isIntegral(o)
		f.Float32 = isFloat32(o)
		f.Min = o
		f.Max = o
	}
	f.Count++

	if len(f.Seen) <= MaxEnum {
		f.Seen[o]++
	}
	return f, nil
}

func isIntegral(f float64) bool {
	return math.Round(f) == f
}

const (
	Float64FractionLength = 52
	Float32FractionLength = 23
	Float64Mask           = (1 << (Float64FractionLength - Float32FractionLength)) - 1
)

// isFloat32 reports whether f uses none of the float64-specific fraction bits.
// Does not handle exponents out of the range of float32.
func isFloat32(f float64) bool {
	return math.Float64bits(f)&Float64Mask == 0
}

// Type returns the narrowest Go numeric type holding every value seen.
func (f *NumberField) Type() string {
	switch {
	case !f.Integral && f.Float32:
		return "float32"
	case !f.Integral:
		return "float64"
	case f.Min < 0 && f.Min >= math.MinInt8 && f.Max <= math.MaxInt8:
		return "int8"
	case f.Min < 0 && f.Min >= math.MinInt16 && f.Max <= math.MaxInt16:
		return "int16"
	case f.Min < 0 && f.Min >= math.MinInt32 && f.Max <= math.MaxInt32:
		return "int32"
	case f.Min < 0:
		return "int64"
	case f.Max <= math.MaxUint8:
		return "uint8"
	case f.Max <= math.MaxUint16:
		return "uint16"
	case f.Max <= math.MaxUint32:
		return "uint32"
	default:
		return "uint64"
	}
}

func (f *NumberField) String() string {
	result := strings.Builder{}
	result.WriteString(f.Type())
	result.WriteString(";")
	result.WriteString(formatNumber(f.Min, f.Integral))
	result.WriteString(";")
	result.WriteString(formatNumber(f.Max, f.Integral))
	result.WriteString(fmt.Sprintf(";missing:%d", f.Missing))

	if len(f.Seen) <= MaxEnum {
		keys := make([]float64, 0, len(f.Seen))
		for k := range f.Seen {
			keys = append(keys, k)
		}
		sort.Float64s(keys)
		for _, k := range keys {
			result.WriteString(fmt.Sprintf(";%s:%d", formatNumber(k, f.Integral), f.Seen[k]))
		}
	}

	return result.String()
}

func formatNumber(v float64, integral bool) string {
	if integral {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// A StringField holds arbitrary text.
type StringField struct {
	Missing int
	// Seen attempts to determine if the field is actually an enum with a small
	// number of unique values.
	Seen map[string]int
}

func (f *StringField) Add(cell string) (Field, error) {
	if tables.IsMissing(cell) {
		f.Missing++
		return f, nil
	}
	if len(f.Seen) <= MaxEnum {
		f.Seen[cell]++
	}
	return f, nil
}

func (f *StringField) String() string {
	result := strings.Builder{}
	if len(f.Seen) > MaxEnum {
		result.WriteString(fmt.Sprintf("string;missing:%d", f.Missing))
		return result.String()
	}

	result.WriteString(fmt.Sprintf("enum;%d;missing:%d", len(f.Seen), f.Missing))
	keys := make([]string, 0, len(f.Seen))
	for k := range f.Seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		result.WriteString(fmt.Sprintf(";%s:%d", k, f.Seen[k]))
	}

	return result.String()
}
