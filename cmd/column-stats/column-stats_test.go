package main

import (
	"bytes"
	"errors"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"os"
	"path/filepath"
	"testing"
)

func newTestCommand(args ...string) (*cobra.Command, *bytes.Buffer) {
	c := &cobra.Command{Use: "column-stats", Args: cobra.ExactArgs(1), RunE: runE}
	registerFlags(c)

	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&bytes.Buffer{})
	c.SetArgs(args)
	return c, &out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		t.Fatal(err)
	}
}

func TestRunE_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.csv"), "Race,Oral\nW,80\nB,\n")
	writeFile(t, filepath.Join(dir, "b.csv"), "Oral,Race\n60,H\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a table")

	c, out := newTestCommand(dir)
	err := c.Execute()
	if err != nil {
		t.Fatal(err)
	}

	want := `Oral;uint8;60;80;missing:1;60:1;80:1
Race;enum;3;missing:0;B:1;H:1;W:1
`
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRunE_OutFile(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "ricci.csv")
	outPath := filepath.Join(dir, "stats.txt")
	writeFile(t, inPath, "Class\n1\n0\n")

	c, _ := newTestCommand(inPath, "--out", outPath)
	err := c.Execute()
	if err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("Class;uint8;0;1;missing:0;0:1;1:1\n", string(got)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRunE_Errors(t *testing.T) {
	dir := t.TempDir()
	notCSV := filepath.Join(dir, "data.json")
	writeFile(t, notCSV, "{}")
	mixed := filepath.Join(dir, "mixed.csv")
	writeFile(t, mixed, "Oral\n80\nhigh\n")

	for _, arg := range []string{filepath.Join(dir, "absent.csv"), notCSV, mixed} {
		c, _ := newTestCommand(arg)
		err := c.Execute()
		if !errors.Is(err, ErrColumnStats) {
			t.Errorf("%s: got error %v, want %v", arg, err, ErrColumnStats)
		}
	}
}
