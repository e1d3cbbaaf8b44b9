// Package ricci loads the Ricci promotion exam dataset for fairness
// experiments.
//
// The raw table has six columns. Loading scales the exam scores to [0, 1],
// keeps the modelled columns, renames Class to target and turns Race into a
// binary indicator before rows with missing values are dropped.
package ricci

import (
	"errors"
	"fmt"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/willbeason/fairness-datasets/pkg/tables"
	"io"
	"os"
	"slices"
)

const (
	DefaultVerbose       = true
	DefaultConfiguration = 0
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrSchemaMismatch       = errors.New("error in classifying columns")
	ErrMissingColumn        = errors.New("missing column")
	ErrInvalidValue         = errors.New("invalid value")
)

// raceIndicator maps the raw Race codes onto the binary sensitive attribute.
var raceIndicator = map[string]string{
	"H": "1",
	"W": "0",
	"B": "1",
}

// Loader prepares the Ricci table. It holds no state beyond what New sets.
type Loader struct {
	config Config

	knownSensitiveAttributes []string
	keepColumns              []string
	categoricalAttributes    []string
	continuousAttributes     []string

	verbose bool
	out     io.Writer
}

type Option func(*Loader)

// WithConfig sets the paths the Loader reads and writes.
func WithConfig(cfg Config) Option {
	return func(l *Loader) {
		l.config = cfg.withDefaults()
	}
}

// WithOutput sets where verbose diagnostics go. Defaults to stdout; a nil
// writer discards them.
func WithOutput(w io.Writer) Option {
	return func(l *Loader) {
		if w == nil {
			w = io.Discard
		}
		l.out = w
	}
}

// New creates a Loader. configuration selects the sensitive attributes:
// 0 is Race, 1 is Race and Position, 2 is Position.
func New(verbose bool, configuration int, opts ...Option) (*Loader, error) {
	var sensitive []string
	switch configuration {
	case 0:
		sensitive = []string{tables.RaceFieldName}
	case 1:
		sensitive = []string{tables.RaceFieldName, tables.PositionFieldName}
	case 2:
		sensitive = []string{tables.PositionFieldName}
	default:
		return nil, fmt.Errorf("%w: %d is not a valid configuration for sensitive groups",
			ErrInvalidConfiguration, configuration)
	}

	l := &Loader{
		config:                   DefaultConfig(),
		knownSensitiveAttributes: sensitive,
		keepColumns: []string{
			tables.PositionFieldName,
			tables.OralFieldName,
			tables.WrittenFieldName,
			tables.RaceFieldName,
			tables.CombineFieldName,
			tables.ClassFieldName,
		},
		categoricalAttributes: []string{
			tables.PositionFieldName,
			tables.RaceFieldName,
			tables.ClassFieldName,
		},
		continuousAttributes: []string{
			tables.OralFieldName,
			tables.WrittenFieldName,
			tables.CombineFieldName,
		},
		verbose: verbose,
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

func (l *Loader) KnownSensitiveAttributes() []string { return slices.Clone(l.knownSensitiveAttributes) }
func (l *Loader) KeepColumns() []string              { return slices.Clone(l.keepColumns) }
func (l *Loader) CategoricalAttributes() []string    { return slices.Clone(l.categoricalAttributes) }
func (l *Loader) ContinuousAttributes() []string     { return slices.Clone(l.continuousAttributes) }
func (l *Loader) Verbose() bool                      { return l.verbose }
func (l *Loader) Config() Config                     { return l.config }

// Table loads the dataset and returns it with incomplete rows dropped.
//
// The reduced table is always written to Config.ReducedPath. If repaired is
// set, the table read from Config.RepairedPath is returned instead, exactly as
// stored on disk: it is not scaled, reduced, renamed or remapped.
func (l *Loader) Table(repaired bool) (dataframe.DataFrame, error) {
	df, err := l.reduced()
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	err = writeCSVFile(l.config.ReducedPath, df)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	if repaired {
		df, err = readCSVFile(l.config.RepairedPath, nil)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
	}

	l.printf("-number of samples: (before dropping nan rows) %d\n", df.Nrow())
	df = DropMissing(df)
	l.printf("-number of samples: (after dropping nan rows) %d\n", df.Nrow())

	return df, nil
}

// reduced reads the raw table and applies scaling, column selection, the
// target rename and the Race remap.
func (l *Loader) reduced() (dataframe.DataFrame, error) {
	// Scores are parsed by scaleColumns so malformed cells are reported
	// rather than read as missing.
	types := make(map[string]series.Type)
	for _, name := range l.continuousAttributes {
		types[name] = series.String
	}
	types[tables.PositionFieldName] = series.String
	types[tables.RaceFieldName] = series.String

	path := l.config.RawPath
	df, err := readCSVFile(path, types)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	want := len(l.categoricalAttributes) + len(l.continuousAttributes)
	if df.Ncol() != want {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %q has %d columns, want %d",
			ErrSchemaMismatch, path, df.Ncol(), want)
	}

	names := df.Names()
	for _, name := range l.keepColumns {
		if !slices.Contains(names, name) {
			return dataframe.DataFrame{}, fmt.Errorf("%w: %q has no column %q", ErrMissingColumn, path, name)
		}
	}

	df, err = scaleColumns(df, l.continuousAttributes)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%q: %w", path, err)
	}

	df = df.Select(l.keepColumns)
	df = df.Rename(tables.TargetFieldName, tables.ClassFieldName)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("reducing %q: %w", path, df.Err)
	}

	race, unmapped := remapRace(df.Col(tables.RaceFieldName))
	if unmapped > 0 {
		l.printf("-number of unmapped %s codes: %d\n", tables.RaceFieldName, unmapped)
	}

	df = df.Mutate(race)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("remapping %q: %w", tables.RaceFieldName, df.Err)
	}

	return df, nil
}

// remapRace converts Race codes to the binary indicator. Codes without a
// mapping become missing and are counted.
func remapRace(column series.Series) (series.Series, int) {
	cells := make([]string, column.Len())
	unmapped := 0
	for i := range cells {
		e := column.Elem(i)
		if e.IsNA() {
			cells[i] = "NaN"
			continue
		}

		indicator, ok := raceIndicator[e.String()]
		if !ok {
			unmapped++
			indicator = "NaN"
		}
		cells[i] = indicator
	}

	return series.New(cells, series.Int, column.Name), unmapped
}

func (l *Loader) printf(format string, args ...any) {
	if !l.verbose {
		return
	}
	_, _ = fmt.Fprintf(l.out, format, args...)
}
