package transform

import (
	"fmt"

	xxhash "github.com/cespare/xxhash/v2"
)

// columnAggregate is the running count and sum of numeric values observed in
// one column of one group
type columnAggregate struct {
	count int64
	sum   float64
}

// groupState is the accumulated statistics for one distinct group key
type groupState struct {
	key     interface{}
	keyRepr string
	cols    map[string]*columnAggregate
}

func (g *groupState) accumulate(col string, val float64) {
	agg := g.cols[col]
	if agg == nil {
		agg = &columnAggregate{}
		g.cols[col] = agg
	}
	agg.count++
	agg.sum += val
}

// keyedAccumulator is a dictionary-style accumulator mapping group key values
// to groupStates. Keys are located by xxhash of a type-tagged representation,
// with collision chains, and first-occurrence order is preserved for
// deterministic emission. It is owned by exactly one run and never shared.
type keyedAccumulator struct {
	groups   map[uint64][]*groupState
	order    []*groupState
	observed map[string]bool
}

func createKeyedAccumulator() *keyedAccumulator {
	return &keyedAccumulator{
		groups:   make(map[uint64][]*groupState),
		observed: make(map[string]bool),
	}
}

// keyRepr produces a hashable representation of a group key value which
// distinguishes values of different types, so the string "1" and the number 1
// form separate groups
func keyRepr(key interface{}) string {
	return fmt.Sprintf("%T:%v", key, key)
}

// groupFor returns the groupState for the given key value, creating it on
// first occurrence
func (a *keyedAccumulator) groupFor(key interface{}) *groupState {
	repr := keyRepr(key)
	hash := xxhash.Sum64String(repr)
	for _, group := range a.groups[hash] {
		if group.keyRepr == repr {
			return group
		}
	}
	group := &groupState{key: key, keyRepr: repr, cols: make(map[string]*columnAggregate)}
	a.groups[hash] = append(a.groups[hash], group)
	a.order = append(a.order, group)
	return group
}

// observeColumn records that a column held a numeric value at least once
func (a *keyedAccumulator) observeColumn(col string) {
	a.observed[col] = true
}

// columnObserved returns true iff a column ever held a numeric value
func (a *keyedAccumulator) columnObserved(col string) bool {
	return a.observed[col]
}

func (a *keyedAccumulator) numGroups() int {
	return len(a.order)
}

// forEachGroup iterates over groups in first-occurrence order
func (a *keyedAccumulator) forEachGroup(fn func(group *groupState) error) error {
	for _, group := range a.order {
		if err := fn(group); err != nil {
			return err
		}
	}
	return nil
}
