package transform

import (
	"github.com/go-sif/tabstream"
	errors "github.com/go-sif/tabstream/errors"
)

// groupAggTransform maintains a keyed accumulator across every Chunk of a
// run, then emits one summary record per distinct group key once the source
// is exhausted. Memory use is bounded by group cardinality, never by file
// size: no row data is retained, only per-group running counts and sums.
type groupAggTransform struct {
	key      string
	inSchema *tabstream.Schema
	groups   *keyedAccumulator
}

// CreateGroupAggregate returns a new GroupAggregate Transform. It emits zero
// records until the source is fully consumed, then one record per distinct
// group key in first-occurrence order, each carrying the key and the count,
// sum and mean of every numeric column. Non-numeric columns are ignored.
func CreateGroupAggregate(key string) tabstream.Transform {
	return &groupAggTransform{key: key, groups: createKeyedAccumulator()}
}

// Setup checks the group-by key against the stream's column set. The emitted
// record schema depends on which columns turn out to be numeric, so it is nil
// here and fixed at Finish time.
func (t *groupAggTransform) Setup(schema *tabstream.Schema) (*tabstream.Schema, error) {
	if !schema.HasColumn(t.key) {
		return nil, errors.ColumnNotFoundError{Name: t.key}
	}
	t.inSchema = schema
	return nil, nil
}

// Apply folds the Chunk's rows into the keyed accumulator and emits nothing
func (t *groupAggTransform) Apply(chunk *tabstream.Chunk) ([]*tabstream.Row, error) {
	err := chunk.ForEachRow(func(row *tabstream.Row) error {
		keyVal, err := row.Get(t.key)
		if err != nil {
			return err
		}
		group := t.groups.groupFor(keyVal)
		for _, name := range t.inSchema.ColumnNames() {
			if name == t.key {
				continue
			}
			val, err := row.GetFloat64(name)
			if err != nil {
				// nil and non-numeric values do not contribute to aggregation
				if _, ok := err.(errors.TypeMismatchError); ok {
					continue
				}
				return err
			}
			group.accumulate(name, val)
			t.groups.observeColumn(name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nil, nil
}

// Finish emits one summary record per distinct group key, in first-occurrence
// order. Columns appear in source schema order: for each numeric column c,
// the record carries c_count, c_sum and c_mean, with c_mean nil for a group
// which never saw a numeric value in c.
func (t *groupAggTransform) Finish() ([]*tabstream.Row, error) {
	numericCols := make([]string, 0, t.inSchema.NumColumns())
	for _, name := range t.inSchema.ColumnNames() {
		if name != t.key && t.groups.columnObserved(name) {
			numericCols = append(numericCols, name)
		}
	}
	names := make([]string, 0, 1+3*len(numericCols))
	names = append(names, t.key)
	for _, col := range numericCols {
		names = append(names, col+"_count", col+"_sum", col+"_mean")
	}
	outSchema, err := tabstream.CreateSchema(names)
	if err != nil {
		return nil, err
	}
	records := make([]*tabstream.Row, 0, t.groups.numGroups())
	err = t.groups.forEachGroup(func(group *groupState) error {
		row := tabstream.CreateRow(outSchema)
		if err := row.Set(t.key, group.key); err != nil {
			return err
		}
		for _, col := range numericCols {
			agg := group.cols[col]
			if agg == nil {
				agg = &columnAggregate{}
			}
			if err := row.Set(col+"_count", agg.count); err != nil {
				return err
			}
			if err := row.Set(col+"_sum", agg.sum); err != nil {
				return err
			}
			if agg.count > 0 {
				if err := row.Set(col+"_mean", agg.sum/float64(agg.count)); err != nil {
					return err
				}
			}
		}
		records = append(records, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
