package tables

import (
	"compress/gzip"
	"fmt"
	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/go-gota/gota/dataframe"
	"os"
)

// WriterProperties are the Parquet settings used for every exported table.
func WriterProperties() *parquet.WriterProperties {
	return parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Gzip),
		parquet.WithCompressionLevel(gzip.BestCompression),
	)
}

// NewFileWriter creates outPath and opens a Parquet writer for schema on it.
// Closing the writer closes the file.
func NewFileWriter(schema *arrow.Schema, outPath string) (*pqarrow.FileWriter, error) {
	outFile, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("creating %q: %w", outPath, err)
	}

	// Don't close outFile; parquet handles closing it.
	writer, err := pqarrow.NewFileWriter(
		schema,
		outFile,
		WriterProperties(),
		pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema()),
	)
	if err != nil {
		_ = outFile.Close()
		return nil, fmt.Errorf("creating parquet writer for %q: %w", outPath, err)
	}

	return writer, nil
}

// WriteParquet writes df to outPath as a single-record Parquet file.
func WriteParquet(outPath string, df dataframe.DataFrame, metadata *arrow.Metadata) error {
	record, err := Record(memory.NewGoAllocator(), df, metadata)
	if err != nil {
		return fmt.Errorf("converting table: %w", err)
	}
	defer record.Release()

	writer, err := NewFileWriter(record.Schema(), outPath)
	if err != nil {
		return err
	}

	err = writer.Write(record)
	if err != nil {
		_ = writer.Close()
		return fmt.Errorf("writing %q: %w", outPath, err)
	}

	return writer.Close()
}
