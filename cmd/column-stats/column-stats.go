package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb"
	"github.com/vbauerster/mpb/decor"
	"github.com/willbeason/bondsmith"
	"github.com/willbeason/fairness-datasets/pkg/profile"
	"github.com/willbeason/fairness-datasets/pkg/tables"
	"golang.org/x/term"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	IncEvery     = 1 << 6
	defaultWidth = 80
)

const FlagOut = "out"

func init() {
	registerFlags(&cmd)
}

func registerFlags(cmd *cobra.Command) {
	cmd.Flags().String(FlagOut, "", "output file path (default: stdout)")
}

func main() {
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cmd = cobra.Command{
	Use:     "column-stats FILE|DIR",
	Short:   "Collect statistics about the columns of .csv files",
	Args:    cobra.ExactArgs(1),
	Version: "0.1.0",
	RunE:    runE,
}

var ErrColumnStats = errors.New("getting column statistics")

func runE(cmd *cobra.Command, args []string) error {
	inPath := args[0]

	f, err := os.Stat(inPath)
	if err != nil {
		return fmt.Errorf("%w: stat %q: %w", ErrColumnStats, inPath, err)
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		// Not a terminal, such as when output is piped.
		width = defaultWidth
	}
	p := mpb.New(mpb.WithWidth(width), mpb.WithOutput(cmd.ErrOrStderr()))

	columns := profile.NewColumns()
	switch {
	case f.IsDir():
		err = processDirectory(p, inPath, columns)
	case strings.HasSuffix(inPath, tables.CSVExt):
		err = processCSVFile(p, inPath, columns)
	default:
		err = fmt.Errorf("%w: file %q is neither a directory nor a %s file", ErrColumnStats, inPath, tables.CSVExt)
	}
	if err != nil {
		return err
	}

	outPath, err := cmd.Flags().GetString(FlagOut)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outPath != "" {
		outFile, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("%w: creating %q: %w", ErrColumnStats, outPath, err)
		}
		defer func() {
			err := outFile.Close()
			if err != nil {
				fmt.Println(err)
			}
		}()
		out = outFile
	}

	return writeFields(out, columns.Fields())
}

func writeFields(out io.Writer, fields map[string]profile.Field) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		_, err := fmt.Fprintf(out, "%s;%s\n", name, fields[name])
		if err != nil {
			return err
		}
	}
	return nil
}

func processDirectory(p *mpb.Progress, inPath string, columns *profile.Columns) error {
	entries, err := os.ReadDir(inPath)
	if err != nil {
		return fmt.Errorf("%w: reading %q: %w", ErrColumnStats, inPath, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), tables.CSVExt) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	bar := p.AddBar(int64(len(names)),
		mpb.AppendDecorators(decor.AverageETA(decor.ET_STYLE_GO)),
		mpb.PrependDecorators(decor.Name(filepath.Base(inPath))),
		mpb.PrependDecorators(decor.CountersNoUnit("%d/%d", decor.WCSyncSpace)),
		mpb.BarRemoveOnComplete())
	now := time.Now()

	for _, name := range names {
		err = processCSVFile(p, filepath.Join(inPath, name), columns)
		if err != nil {
			return err
		}
		bar.IncrBy(1, time.Since(now))
	}

	return nil
}

func processCSVFile(p *mpb.Progress, inPath string, columns *profile.Columns) error {
	file, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("%w: opening %q: %w", ErrColumnStats, inPath, err)
	}
	defer func() {
		_ = file.Close()
	}()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("%w: getting stat for %q: %w", ErrColumnStats, inPath, err)
	}

	countReader := bondsmith.NewCountReader(file)
	reader := csv.NewReader(countReader)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil
	} else if err != nil {
		return fmt.Errorf("%w: reading header of %q: %w", ErrColumnStats, inPath, err)
	}
	// ReuseRecord overwrites the slice on the next Read.
	add := columns.Adder(append([]string(nil), header...))

	bar := p.AddBar(stat.Size(),
		mpb.AppendDecorators(decor.AverageETA(decor.ET_STYLE_GO)),
		mpb.PrependDecorators(decor.Name(filepath.Base(inPath))),
		mpb.BarRemoveOnComplete(),
	)

	i := 0
	lastSeen := 0
	start := time.Now()
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return fmt.Errorf("%w: reading %q: %w", ErrColumnStats, inPath, err)
		}

		err = add(record)
		if err != nil {
			return fmt.Errorf("%w: %q line %d: %w", ErrColumnStats, inPath, i+2, err)
		}

		i++
		if i%IncEvery == 0 {
			curProgress := int(countReader.Count())
			bar.IncrBy(curProgress-lastSeen, time.Since(start))
			lastSeen = curProgress
		}
	}
	bar.IncrBy(int(countReader.Count())-lastSeen, time.Since(start))

	return nil
}
