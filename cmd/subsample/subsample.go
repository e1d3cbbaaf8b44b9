package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/willbeason/fairness-datasets/pkg/tables"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

const (
	batchSize = 1 << 16
)

const (
	FlagPartitions = "partitions"
	FlagSeed       = "seed"
)

var ErrPartitions = errors.New("invalid partitions")

func init() {
	registerFlags(&cmd)
}

func registerFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Slice(FlagPartitions, []float64{0.8, 0.2}, "fraction of rows in each partition")
	cmd.Flags().Int64(FlagSeed, 0, "random seed")
}

func main() {
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cmd = cobra.Command{
	Use:     "subsample IN_FILE OUT_FILE",
	Short:   "partitions the rows of a Parquet table, such as into train and test sets",
	Args:    cobra.ExactArgs(2),
	Version: "0.1.0",
	RunE:    runE,
}

func runE(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	inPath := args[0]
	outPath := args[1]

	err := os.MkdirAll(filepath.Dir(outPath), os.ModePerm)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	partitions, err := cmd.Flags().GetFloat64Slice(FlagPartitions)
	if err != nil {
		return fmt.Errorf("getting partitions: %w", err)
	}

	thresholds, err := getThresholds(partitions)
	if err != nil {
		return err
	}

	seed, err := getSeed(cmd)
	if err != nil {
		return fmt.Errorf("getting seed: %w", err)
	}

	counts, err := partitionParquet(ctx, rand.New(rand.NewSource(seed)), inPath, outPath, thresholds)
	if err != nil {
		return fmt.Errorf("partitioning %q: %w", inPath, err)
	}

	for i, count := range counts {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", partitionPath(outPath, i), count)
	}

	return nil
}

// getThresholds turns partition fractions into cumulative upper bounds.
func getThresholds(partitions []float64) ([]float64, error) {
	if len(partitions) == 0 {
		return nil, fmt.Errorf("%w: none given", ErrPartitions)
	}

	thresholds := make([]float64, len(partitions))
	sum := 0.0
	for i, partition := range partitions {
		if partition < 0 {
			return nil, fmt.Errorf("%w: negative fraction %v", ErrPartitions, partition)
		}
		sum += partition
		thresholds[i] = sum
	}
	if sum > 1+1e-9 {
		return nil, fmt.Errorf("%w: fractions sum to %v, more than 1", ErrPartitions, sum)
	}

	return thresholds, nil
}

func partitionPath(outPath string, i int) string {
	ext := filepath.Ext(outPath)
	return fmt.Sprintf("%s_%d%s", outPath[:len(outPath)-len(ext)], i, ext)
}

// partitionParquet assigns each row of inPath to the first partition whose
// threshold exceeds a uniform draw from rng. Rows drawn past the last
// threshold are left out. Returns the number of rows in each partition.
func partitionParquet(ctx context.Context, rng *rand.Rand, inPath, outPath string, thresholds []float64) ([]int, error) {
	allocator := memory.NewGoAllocator()
	inFileReader, err := file.OpenParquetFile(inPath, false)
	if err != nil {
		return nil, fmt.Errorf("opening parquet file %q: %w", inPath, err)
	}
	defer func() {
		_ = inFileReader.Close()
	}()

	inReader, err := pqarrow.NewFileReader(inFileReader,
		pqarrow.ArrowReadProperties{BatchSize: batchSize},
		allocator,
	)
	if err != nil {
		return nil, fmt.Errorf("creating pqarrow FileReader: %w", err)
	}

	recordReader, err := inReader.GetRecordReader(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("getting record reader: %w", err)
	}
	defer recordReader.Release()

	schema, err := inReader.Schema()
	if err != nil {
		return nil, fmt.Errorf("getting schema: %w", err)
	}

	writers := make([]recordWriter, len(thresholds))
	flushed := false
	defer func() {
		if flushed {
			return
		}
		for _, writer := range writers {
			if writer != nil {
				_ = writer.Close()
			}
		}
	}()

	recordBuilders := make([]*array.RecordBuilder, len(thresholds))
	for i := range thresholds {
		writer, err := tables.NewFileWriter(schema, partitionPath(outPath, i))
		if err != nil {
			return nil, err
		}
		writers[i] = writer

		recordBuilder := array.NewRecordBuilder(allocator, schema)
		defer recordBuilder.Release()
		recordBuilders[i] = recordBuilder
	}

	counts := make([]int, len(thresholds))
	var record arrow.Record
	for record, err = recordReader.Read(); err == nil; record, err = recordReader.Read() {
		for i := 0; i < int(record.NumRows()); i++ {
			partitionNum := -1
			randValue := rng.Float64()
			for j, threshold := range thresholds {
				if randValue < threshold {
					partitionNum = j
					break
				}
			}

			if partitionNum == -1 {
				continue
			}

			recordBuilder := recordBuilders[partitionNum]
			for j := range recordBuilder.Schema().Fields() {
				err = appendValue(recordBuilder.Field(j), record.Column(j), i)
				if err != nil {
					return nil, fmt.Errorf("column %q: %w", schema.Field(j).Name, err)
				}
			}
			counts[partitionNum]++
		}
	}

	if !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	flushed = true
	err = flushPartitions(writers, recordBuilders)
	if err != nil {
		return nil, err
	}

	return counts, nil
}

// recordWriter is the part of pqarrow.FileWriter used to emit a partition.
type recordWriter interface {
	Write(rec arrow.Record) error
	Close() error
}

// flushPartitions writes each builder's record to its writer and closes every
// writer. Close writes the Parquet footer, so its error is returned.
func flushPartitions(writers []recordWriter, recordBuilders []*array.RecordBuilder) error {
	var errs []error
	for i, writer := range writers {
		recordToWrite := recordBuilders[i].NewRecord()
		err := writer.Write(recordToWrite)
		recordToWrite.Release()
		if err != nil {
			errs = append(errs, fmt.Errorf("writing partition %d: %w", i, err))
		}

		err = writer.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("closing partition %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// appendValue copies row i of column onto builder, keeping nulls.
func appendValue(builder array.Builder, column arrow.Array, i int) error {
	if column.IsNull(i) {
		builder.AppendNull()
		return nil
	}

	switch b := builder.(type) {
	case *array.BooleanBuilder:
		b.Append(column.(*array.Boolean).Value(i))
	case *array.Int64Builder:
		b.Append(column.(*array.Int64).Value(i))
	case *array.Float64Builder:
		b.Append(column.(*array.Float64).Value(i))
	case *array.StringBuilder:
		b.Append(column.(*array.String).Value(i))
	default:
		return fmt.Errorf("%w: %s", tables.ErrUnsupportedType, column.DataType())
	}
	return nil
}

func getSeed(cmd *cobra.Command) (int64, error) {
	// Check if the user set the seed manually.
	seedSet := false
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name == FlagSeed {
			seedSet = true
		}
	})

	if seedSet {
		return cmd.Flags().GetInt64(FlagSeed)
	}
	return time.Now().UnixNano(), nil
}
