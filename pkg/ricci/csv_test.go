package ricci

import (
	"bytes"
	"github.com/go-gota/gota/series"
	"github.com/google/go-cmp/cmp"
	"strings"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	in := `name,score,rank,passed
alice,0.125,1,true
bob,,2,false
carol,1e-7,NA,
`
	df := ReadCSV(strings.NewReader(in), map[string]series.Type{"rank": series.Int})
	if df.Err != nil {
		t.Fatal(df.Err)
	}

	var out bytes.Buffer
	err := WriteCSV(&out, df)
	if err != nil {
		t.Fatal(err)
	}

	want := `name,score,rank,passed
alice,0.125,1,true
bob,,2,false
carol,1e-07,,
`
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestReadCSV_Types(t *testing.T) {
	df := ReadCSV(strings.NewReader("Oral,Race\n80,W\n60,B\n"), map[string]series.Type{
		"Oral": series.Float,
	})

	got := map[string]series.Type{}
	for _, name := range df.Names() {
		got[name] = df.Col(name).Type()
	}

	want := map[string]series.Type{"Oral": series.Float, "Race": series.String}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	df := ReadCSV(strings.NewReader("Oral,Race\n"), map[string]series.Type{
		"Oral": series.Float,
	})
	if df.Err != nil {
		t.Fatal(df.Err)
	}

	if got := df.Nrow(); got != 0 {
		t.Errorf("got %d rows, want 0", got)
	}
	if diff := cmp.Diff([]string{"Oral", "Race"}, df.Names()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if got := df.Col("Oral").Type(); got != series.Float {
		t.Errorf("got Oral type %v, want %v", got, series.Float)
	}

	var out bytes.Buffer
	err := WriteCSV(&out, df)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("Oral,Race\n", out.String()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestReadCSV_Empty(t *testing.T) {
	df := ReadCSV(strings.NewReader(""), nil)
	if df.Err == nil {
		t.Error("got nil error for input with no header")
	}
}
