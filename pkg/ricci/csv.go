package ricci

import (
	"encoding/csv"
	"fmt"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/willbeason/fairness-datasets/pkg/tables"
	"io"
	"os"
	"strconv"
)

// ReadCSV reads a headed CSV table. Columns named in types are read as that
// type and the rest are inferred. Cells in tables.MissingValues are missing.
// A header with no rows is an empty table with those columns.
func ReadCSV(r io.Reader, types map[string]series.Type) dataframe.DataFrame {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return dataframe.DataFrame{Err: fmt.Errorf("reading records: %w", err)}
	}

	if len(records) == 1 {
		return emptyTable(records[0], types)
	}

	options := []dataframe.LoadOption{dataframe.NaNValues(tables.MissingValues)}
	if len(types) > 0 {
		options = append(options, dataframe.WithTypes(types))
	}
	return dataframe.LoadRecords(records, options...)
}

// emptyTable has the header's columns and no rows. Untyped columns are strings.
func emptyTable(header []string, types map[string]series.Type) dataframe.DataFrame {
	columns := make([]series.Series, len(header))
	for i, name := range header {
		t, ok := types[name]
		if !ok {
			t = series.String
		}
		columns[i] = series.New([]string{}, t, name)
	}
	return dataframe.New(columns...)
}

func readCSVFile(path string, types map[string]series.Type) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("opening %q: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	df := ReadCSV(f, types)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("reading %q: %w", path, df.Err)
	}
	return df, nil
}

// WriteCSV writes df with a header row and no index column. Missing cells are
// written empty and floats in their shortest exact form.
func WriteCSV(w io.Writer, df dataframe.DataFrame) error {
	writer := csv.NewWriter(w)

	names := df.Names()
	err := writer.Write(names)
	if err != nil {
		return err
	}

	columns := make([]series.Series, len(names))
	for j, name := range names {
		columns[j] = df.Col(name)
	}

	record := make([]string, len(columns))
	for i := 0; i < df.Nrow(); i++ {
		for j, column := range columns {
			record[j] = formatCell(column.Elem(i))
		}
		err = writer.Write(record)
		if err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatCell(e series.Element) string {
	if e.IsNA() {
		return ""
	}
	if e.Type() == series.Float {
		return strconv.FormatFloat(e.Float(), 'g', -1, 64)
	}
	return e.String()
}

func writeCSVFile(path string, df dataframe.DataFrame) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}

	err = WriteCSV(f, df)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %q: %w", path, err)
	}

	return f.Close()
}
