package partition

import (
	"fmt"

	"github.com/arkilian/tsddl/internal/datatypes"
	"github.com/arkilian/tsddl/internal/ddl/ast"
)

// bound is one converted dimension of a partition upper bound.
type bound struct {
	max   bool
	value datatypes.Value
}

// RangeRule routes key tuples to range partitions. It is built from a
// partition scheme that has already passed Validate and does not check it
// again.
type RangeRule struct {
	columns []partitionColumn
	names   []string
	bounds  [][]bound
}

// NewRangeRule converts the bounds of a validated partition scheme into a
// lookup over the given table columns.
func NewRangeRule(columns []ast.ColumnDef, partitions *ast.Partitions) (*RangeRule, error) {
	if partitions == nil {
		return nil, fmt.Errorf("routing: table has no partitions")
	}
	partitionColumns, err := findPartitionColumns(columns, partitions.ColumnList)
	if err != nil {
		return nil, err
	}

	rule := &RangeRule{
		columns: partitionColumns,
		names:   make([]string, len(partitions.Entries)),
		bounds:  make([][]bound, len(partitions.Entries)),
	}
	for i, entry := range partitions.Entries {
		if len(entry.ValueList) != len(partitionColumns) {
			return nil, fmt.Errorf("routing: partition %s has %d bounds, want %d",
				entry.Name.Value, len(entry.ValueList), len(partitionColumns))
		}
		rule.names[i] = entry.Name.Value
		rule.bounds[i] = make([]bound, len(entry.ValueList))
		for k, v := range entry.ValueList {
			if v.IsMaxValue() {
				rule.bounds[i][k] = bound{max: true}
				continue
			}
			converted, err := partitionColumns[k].convert(v)
			if err != nil {
				return nil, err
			}
			rule.bounds[i][k] = bound{value: converted}
		}
	}
	return rule, nil
}

// Columns returns the partition column names in key order.
func (r *RangeRule) Columns() []string {
	names := make([]string, len(r.columns))
	for i, c := range r.columns {
		names[i] = c.def.Name.Value
	}
	return names
}

// PartitionName returns the declared name of the i-th partition.
func (r *RangeRule) PartitionName(i int) string {
	return r.names[i]
}

// Len returns the number of partitions.
func (r *RangeRule) Len() int {
	return len(r.names)
}

// Locate returns the index of the first partition whose exclusive upper
// bound is greater than key. key holds one literal per partition column.
func (r *RangeRule) Locate(key []ast.Value) (int, error) {
	if len(key) != len(r.columns) {
		return 0, fmt.Errorf("routing: key has %d values, want %d", len(key), len(r.columns))
	}

	converted := make([]datatypes.Value, len(key))
	for k, v := range key {
		if v.IsMaxValue() {
			return 0, fmt.Errorf("routing: %s is not a key value", ast.MaxValueLiteral)
		}
		c, err := r.columns[k].convert(v)
		if err != nil {
			return 0, err
		}
		converted[k] = c
	}

	for i, upper := range r.bounds {
		below, err := keyBelow(converted, upper)
		if err != nil {
			return 0, err
		}
		if below {
			return i, nil
		}
	}
	return 0, fmt.Errorf("routing: key is above every partition bound")
}

// keyBelow reports whether key sorts strictly before upper.
func keyBelow(key []datatypes.Value, upper []bound) (bool, error) {
	for k, b := range upper {
		if b.max {
			return true, nil
		}
		cmp, err := datatypes.Compare(key[k], b.value)
		if err != nil {
			return false, err
		}
		switch {
		case cmp < 0:
			return true, nil
		case cmp > 0:
			return false, nil
		}
	}
	return false, nil
}
