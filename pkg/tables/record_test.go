package tables

import (
	"context"
	"errors"
	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/go-cmp/cmp"
	"path/filepath"
	"testing"
)

func reducedFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{"Captain", "Lieutenant", "NaN"}, series.String, PositionFieldName),
		series.New([]string{"1", "0", "0.5"}, series.Float, OralFieldName),
		series.New([]string{"1", "NaN", "0"}, series.Int, RaceFieldName),
		series.New([]string{"true", "false", "true"}, series.Bool, "passed"),
	)
}

func TestSchema(t *testing.T) {
	meta := NewMetadataBuilder().Add(RunIDKey, "run").BuildReference()

	schema, err := Schema(reducedFrame(), meta)
	if err != nil {
		t.Fatal(err)
	}

	type field struct {
		Name     string
		Type     string
		Nullable bool
		Comment  string
	}
	var got []field
	for _, f := range schema.Fields() {
		got = append(got, field{Name: f.Name, Type: f.Type.String(), Nullable: f.Nullable, Comment: Comment(f)})
	}

	want := []field{
		{Name: PositionFieldName, Type: "utf8", Nullable: true, Comment: positionComment},
		{Name: OralFieldName, Type: "float64", Nullable: true, Comment: oralComment},
		{Name: RaceFieldName, Type: "int64", Nullable: true, Comment: raceComment},
		{Name: "passed", Type: "bool", Nullable: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fields (-want +got):\n%s", diff)
	}

	runID, ok := Lookup(schema.Metadata(), RunIDKey)
	if !ok || runID != "run" {
		t.Errorf("got run id %q, %t", runID, ok)
	}
}

func TestRecord(t *testing.T) {
	allocator := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer allocator.AssertSize(t, 0)

	record, err := Record(allocator, reducedFrame(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer record.Release()

	if record.NumRows() != 3 || record.NumCols() != 4 {
		t.Fatalf("got %dx%d record, want 3x4", record.NumRows(), record.NumCols())
	}

	position := record.Column(0).(*array.String)
	if !position.IsNull(2) || position.Value(0) != "Captain" {
		t.Errorf("got Position %v", position)
	}

	oral := record.Column(1).(*array.Float64)
	if diff := cmp.Diff([]float64{1, 0, 0.5}, oral.Float64Values()); diff != "" {
		t.Errorf("Oral (-want +got):\n%s", diff)
	}

	race := record.Column(2).(*array.Int64)
	if race.NullN() != 1 || !race.IsNull(1) || race.Value(2) != 0 {
		t.Errorf("got Race %v", race)
	}

	passed := record.Column(3).(*array.Boolean)
	if !passed.Value(0) || passed.Value(1) {
		t.Errorf("got passed %v", passed)
	}
}

func TestRecord_Unsupported(t *testing.T) {
	_, err := arrowType(series.Type("complex"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("got error %v, want %v", err, ErrUnsupportedType)
	}
}

func TestWriteParquet(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), ReducedRicciName+ParquetExt)

	err := WriteParquet(outPath, reducedFrame(), NewMetadataBuilder().Add(RunIDKey, "run").BuildReference())
	if err != nil {
		t.Fatal(err)
	}

	fileReader, err := file.OpenParquetFile(outPath, false)
	if err != nil {
		t.Fatal(err)
	}
	reader, err := pqarrow.NewFileReader(fileReader, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		t.Fatal(err)
	}

	table, err := reader.ReadTable(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer table.Release()

	if table.NumRows() != 3 {
		t.Errorf("got %d rows, want 3", table.NumRows())
	}

	var names []string
	var nulls []int
	for i := 0; i < int(table.NumCols()); i++ {
		names = append(names, table.Schema().Field(i).Name)
		nulls = append(nulls, table.Column(i).Data().NullN())
	}
	if diff := cmp.Diff([]string{PositionFieldName, OralFieldName, RaceFieldName, "passed"}, names); diff != "" {
		t.Errorf("columns (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 0, 1, 0}, nulls); diff != "" {
		t.Errorf("nulls (-want +got):\n%s", diff)
	}

	if got := table.Schema().Field(1).Type; !arrow.TypeEqual(got, arrow.PrimitiveTypes.Float64) {
		t.Errorf("got Oral type %s", got)
	}
}
