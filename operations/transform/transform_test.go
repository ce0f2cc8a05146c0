package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-sif/tabstream"
	errors "github.com/go-sif/tabstream/errors"
)

// createTestChunks builds chunks of the given size from literal rows, the way
// a parser would
func createTestChunks(t *testing.T, names []string, rows [][]interface{}, chunkSize int) []*tabstream.Chunk {
	schema, err := tabstream.CreateSchema(names)
	require.Nil(t, err)
	var chunks []*tabstream.Chunk
	chunk := tabstream.CreateChunk(schema, chunkSize)
	for _, values := range rows {
		if chunk.NumRows() == chunk.MaxRows() {
			chunks = append(chunks, chunk)
			chunk = tabstream.CreateChunk(schema, chunkSize)
		}
		row := tabstream.CreateRow(schema)
		for i, name := range names {
			require.Nil(t, row.Set(name, values[i]))
		}
		require.Nil(t, chunk.AppendRow(row))
	}
	return append(chunks, chunk)
}

// catValueChunks is the shared three-row fixture: two groups, one numeric column
func catValueChunks(t *testing.T, chunkSize int) []*tabstream.Chunk {
	return createTestChunks(t, []string{"cat", "value"}, [][]interface{}{
		{"x", int64(10)},
		{"y", int64(20)},
		{"x", int64(30)},
	}, chunkSize)
}

func runTransform(t *testing.T, trans tabstream.Transform, chunks []*tabstream.Chunk) []*tabstream.Row {
	_, err := trans.Setup(chunks[0].Schema())
	require.Nil(t, err)
	var records []*tabstream.Row
	for _, chunk := range chunks {
		out, err := trans.Apply(chunk)
		require.Nil(t, err)
		records = append(records, out...)
	}
	out, err := trans.Finish()
	require.Nil(t, err)
	return append(records, out...)
}

func TestCreateTransformVariants(t *testing.T) {
	trans, err := CreateTransform(&tabstream.PipelineConfig{Variant: tabstream.Passthrough})
	require.Nil(t, err)
	require.NotNil(t, trans)
	trans, err = CreateTransform(&tabstream.PipelineConfig{
		Variant: tabstream.ColumnScale, ScaleSrc: "a", ScaleFactor: 2, ScaleOut: "a",
	})
	require.Nil(t, err)
	require.NotNil(t, trans)
	trans, err = CreateTransform(&tabstream.PipelineConfig{
		Variant: tabstream.GroupAggregate, GroupByKey: "a",
	})
	require.Nil(t, err)
	require.NotNil(t, trans)
}

func TestCreateTransformRejectsInvalidConfigs(t *testing.T) {
	_, err := CreateTransform(&tabstream.PipelineConfig{Variant: "bogus"})
	require.True(t, errors.IsConfigError(err))
	_, err = CreateTransform(&tabstream.PipelineConfig{Variant: tabstream.ColumnScale})
	require.True(t, errors.IsConfigError(err))
	_, err = CreateTransform(&tabstream.PipelineConfig{Variant: tabstream.GroupAggregate})
	require.True(t, errors.IsConfigError(err))
}
