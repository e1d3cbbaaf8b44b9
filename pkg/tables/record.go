package tables

import (
	"errors"
	"fmt"
	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var ErrUnsupportedType = errors.New("unsupported column type")

// Schema derives an Arrow schema from the columns of df. Every field is
// nullable since missing cells survive until rows are dropped. Known Ricci
// columns carry a comment.
func Schema(df dataframe.DataFrame, metadata *arrow.Metadata) (*arrow.Schema, error) {
	names := df.Names()
	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		dataType, err := arrowType(df.Col(name).Type())
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}

		field := arrow.Field{Name: name, Type: dataType, Nullable: true}
		if c, ok := fieldComments[name]; ok {
			field.Metadata = NewMetadataBuilder().AddComment(c).Build()
		}
		fields[i] = field
	}

	return arrow.NewSchema(fields, metadata), nil
}

func arrowType(t series.Type) (arrow.DataType, error) {
	switch t {
	case series.Float:
		return arrow.PrimitiveTypes.Float64, nil
	case series.Int:
		return arrow.PrimitiveTypes.Int64, nil
	case series.String:
		return arrow.BinaryTypes.String, nil
	case series.Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

// Record copies df into a single Arrow record. Missing cells become nulls.
// The caller must Release the record.
func Record(allocator memory.Allocator, df dataframe.DataFrame, metadata *arrow.Metadata) (arrow.Record, error) {
	schema, err := Schema(df, metadata)
	if err != nil {
		return nil, err
	}

	recordBuilder := array.NewRecordBuilder(allocator, schema)
	defer recordBuilder.Release()

	for j, name := range df.Names() {
		column := df.Col(name)
		n := column.Len()

		switch fieldBuilder := recordBuilder.Field(j).(type) {
		case *array.Float64Builder:
			for i := 0; i < n; i++ {
				e := column.Elem(i)
				if e.IsNA() {
					fieldBuilder.AppendNull()
					continue
				}
				fieldBuilder.Append(e.Float())
			}
		case *array.Int64Builder:
			for i := 0; i < n; i++ {
				e := column.Elem(i)
				if e.IsNA() {
					fieldBuilder.AppendNull()
					continue
				}
				v, err := e.Int()
				if err != nil {
					return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
				}
				fieldBuilder.Append(int64(v))
			}
		case *array.StringBuilder:
			for i := 0; i < n; i++ {
				e := column.Elem(i)
				if e.IsNA() {
					fieldBuilder.AppendNull()
					continue
				}
				fieldBuilder.Append(e.String())
			}
		case *array.BooleanBuilder:
			for i := 0; i < n; i++ {
				e := column.Elem(i)
				if e.IsNA() {
					fieldBuilder.AppendNull()
					continue
				}
				v, err := e.Bool()
				if err != nil {
					return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
				}
				fieldBuilder.Append(v)
			}
		default:
			return nil, fmt.Errorf("%w: builder %T for column %q", ErrUnsupportedType, fieldBuilder, name)
		}
	}

	return recordBuilder.NewRecord(), nil
}
