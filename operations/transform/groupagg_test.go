package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-sif/tabstream"
	errors "github.com/go-sif/tabstream/errors"
)

func TestGroupAggregateCountsSumsMeans(t *testing.T) {
	records := runTransform(t, CreateGroupAggregate("cat"), catValueChunks(t, 2))
	// one record per distinct key, in first-occurrence order
	require.Equal(t, 2, len(records))

	x := records[0]
	key, err := x.Get("cat")
	require.Nil(t, err)
	require.Equal(t, "x", key)
	count, err := x.Get("value_count")
	require.Nil(t, err)
	require.Equal(t, int64(2), count)
	sum, err := x.Get("value_sum")
	require.Nil(t, err)
	require.Equal(t, 40.0, sum)
	mean, err := x.Get("value_mean")
	require.Nil(t, err)
	require.Equal(t, 20.0, mean)

	y := records[1]
	key, err = y.Get("cat")
	require.Nil(t, err)
	require.Equal(t, "y", key)
	count, err = y.Get("value_count")
	require.Nil(t, err)
	require.Equal(t, int64(1), count)
	sum, err = y.Get("value_sum")
	require.Nil(t, err)
	require.Equal(t, 20.0, sum)
	mean, err = y.Get("value_mean")
	require.Nil(t, err)
	require.Equal(t, 20.0, mean)
}

func TestGroupAggregateChunkSizeInvariance(t *testing.T) {
	rows := [][]interface{}{
		{"a", int64(1), 0.5},
		{"b", int64(2), 1.5},
		{"a", int64(3), 2.5},
		{"c", int64(4), nil},
		{"b", int64(6), 3.5},
		{"a", int64(5), "junk"},
	}
	var baseline []string
	for _, chunkSize := range []int{1, 2, 3, 4, 6, 50} {
		chunks := createTestChunks(t, []string{"cat", "n", "m"}, rows, chunkSize)
		records := runTransform(t, CreateGroupAggregate("cat"), chunks)
		var rendered []string
		for _, record := range records {
			rendered = append(rendered, record.ToString())
		}
		if baseline == nil {
			baseline = rendered
			continue
		}
		// chunking is a memory-bounding mechanism, never a semantic one
		require.Equal(t, baseline, rendered)
	}
}

func TestGroupAggregateNoEarlyEmission(t *testing.T) {
	trans := CreateGroupAggregate("cat")
	chunks := catValueChunks(t, 1)
	_, err := trans.Setup(chunks[0].Schema())
	require.Nil(t, err)
	for _, chunk := range chunks {
		records, err := trans.Apply(chunk)
		require.Nil(t, err)
		require.Equal(t, 0, len(records))
	}
	records, err := trans.Finish()
	require.Nil(t, err)
	require.Equal(t, 2, len(records))
}

func TestGroupAggregateIgnoresNonNumericColumns(t *testing.T) {
	chunks := createTestChunks(t, []string{"cat", "label", "value"}, [][]interface{}{
		{"x", "red", int64(10)},
		{"x", "blue", int64(20)},
	}, 2)
	records := runTransform(t, CreateGroupAggregate("cat"), chunks)
	require.Equal(t, 1, len(records))
	// label never held a numeric value, so it contributes no output columns
	require.Equal(t, []string{"cat", "value_count", "value_sum", "value_mean"},
		records[0].Schema().ColumnNames())
}

func TestGroupAggregateAllNilColumnMeanIsNil(t *testing.T) {
	chunks := createTestChunks(t, []string{"cat", "a", "b"}, [][]interface{}{
		{"x", int64(1), nil},
		{"y", nil, 2.0},
	}, 2)
	records := runTransform(t, CreateGroupAggregate("cat"), chunks)
	require.Equal(t, 2, len(records))
	// group y saw no numeric value in a: zero count, nil mean
	y := records[1]
	count, err := y.Get("a_count")
	require.Nil(t, err)
	require.Equal(t, int64(0), count)
	require.True(t, y.IsNil("a_mean"))
}

func TestGroupAggregateDistinguishesKeyTypes(t *testing.T) {
	chunks := createTestChunks(t, []string{"cat", "value"}, [][]interface{}{
		{int64(1), int64(10)},
		{"1", int64(20)},
	}, 2)
	records := runTransform(t, CreateGroupAggregate("cat"), chunks)
	// the number 1 and the string "1" are distinct groups
	require.Equal(t, 2, len(records))
}

func TestGroupAggregateMissingKeyColumn(t *testing.T) {
	trans := CreateGroupAggregate("missing")
	schema, err := tabstream.CreateSchema([]string{"cat", "value"})
	require.Nil(t, err)
	_, err = trans.Setup(schema)
	require.IsType(t, errors.ColumnNotFoundError{}, err)
}
