package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-sif/tabstream"
	errors "github.com/go-sif/tabstream/errors"
)

func TestColumnScaleIntoNewColumn(t *testing.T) {
	records := runTransform(t, CreateColumnScale("value", 2, "value_scaled"), catValueChunks(t, 2))
	require.Equal(t, 3, len(records))
	expected := []float64{20, 40, 60}
	for i, record := range records {
		// original columns are retained
		cat, err := record.Get("cat")
		require.Nil(t, err)
		require.NotNil(t, cat)
		value, err := record.Get("value")
		require.Nil(t, err)
		require.Equal(t, int64((i+1)*10), value)
		scaled, err := record.Get("value_scaled")
		require.Nil(t, err)
		require.Equal(t, expected[i], scaled)
	}
	require.Equal(t, []string{"cat", "value", "value_scaled"}, records[0].Schema().ColumnNames())
}

func TestColumnScaleOverwritesSourceColumn(t *testing.T) {
	records := runTransform(t, CreateColumnScale("value", -0.5, "value"), catValueChunks(t, 2))
	expected := []float64{-5, -10, -15}
	for i, record := range records {
		value, err := record.Get("value")
		require.Nil(t, err)
		require.Equal(t, expected[i], value)
	}
	require.Equal(t, []string{"cat", "value"}, records[0].Schema().ColumnNames())
}

func TestColumnScaleNonNumericRowDegrades(t *testing.T) {
	chunks := createTestChunks(t, []string{"cat", "value"}, [][]interface{}{
		{"x", int64(10)},
		{"y", "oops"},
		{"z", nil},
		{"w", int64(40)},
	}, 2)
	records := runTransform(t, CreateColumnScale("value", 2, "scaled"), chunks)
	// malformed rows are still emitted, with the output column nil
	require.Equal(t, 4, len(records))
	scaled, err := records[0].Get("scaled")
	require.Nil(t, err)
	require.Equal(t, 20.0, scaled)
	require.True(t, records[1].IsNil("scaled"))
	value, err := records[1].Get("value")
	require.Nil(t, err)
	require.Equal(t, "oops", value)
	require.True(t, records[2].IsNil("scaled"))
	scaled, err = records[3].Get("scaled")
	require.Nil(t, err)
	require.Equal(t, 80.0, scaled)
}

func TestColumnScaleMissingSourceColumn(t *testing.T) {
	trans := CreateColumnScale("missing", 2, "out")
	schema, err := tabstream.CreateSchema([]string{"cat", "value"})
	require.Nil(t, err)
	_, err = trans.Setup(schema)
	require.IsType(t, errors.ColumnNotFoundError{}, err)
}

func TestColumnScaleZeroFactor(t *testing.T) {
	records := runTransform(t, CreateColumnScale("value", 0, "value"), catValueChunks(t, 3))
	for _, record := range records {
		value, err := record.Get("value")
		require.Nil(t, err)
		require.Equal(t, 0.0, value)
	}
}
