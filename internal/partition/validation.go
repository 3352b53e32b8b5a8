// Package partition validates range partition schemes declared with
// PARTITION BY RANGE COLUMNS and routes key tuples to the partition that
// owns them.
package partition

import (
	"fmt"
	"sort"

	"github.com/arkilian/tsddl/internal/datatypes"
	"github.com/arkilian/tsddl/internal/ddl/ast"
	"github.com/arkilian/tsddl/internal/errors"
)

// partitionColumn is a declared column referenced by the partition clause,
// together with the concrete type its bounds are compared in.
type partitionColumn struct {
	def ast.ColumnDef
	typ datatypes.ConcreteType
	// typErr is kept until a bound of this column actually has to be
	// converted, so an unsupported type only fails schemes that compare it.
	typErr error
}

// Validate proves that partitions is a usable range partitioning of a table
// with the given columns. The checks run in a fixed order and the first
// violation is returned:
//
//  1. every partition column is a declared column
//  2. partition names are unique
//  3. every value list has one value per partition column
//  4. value lists are strictly increasing in declaration order
//  5. the last value list is entirely MAXVALUE
//
// A nil partitions is valid.
func Validate(columns []ast.ColumnDef, partitions *ast.Partitions) error {
	if partitions == nil {
		return nil
	}

	partitionColumns, err := findPartitionColumns(columns, partitions.ColumnList)
	if err != nil {
		return err
	}
	if err := checkUniqueNames(partitions.Entries); err != nil {
		return err
	}
	if err := checkArity(len(partitionColumns), partitions.Entries); err != nil {
		return err
	}
	if err := checkIncreasing(partitionColumns, partitions.Entries); err != nil {
		return err
	}
	return checkMaxValueTail(partitions.Entries)
}

func findPartitionColumns(columns []ast.ColumnDef, names []ast.Ident) ([]partitionColumn, error) {
	result := make([]partitionColumn, 0, len(names))
	for _, name := range names {
		found := false
		for _, col := range columns {
			if col.Name.Value != name.Value {
				continue
			}
			typ, typErr := datatypes.FromSQLType(col.DataType)
			result = append(result, partitionColumn{def: col, typ: typ, typErr: typErr})
			found = true
			break
		}
		if !found {
			return nil, errors.InvalidSQL(fmt.Sprintf("Partition column %q not defined!", name.Value))
		}
	}
	return result, nil
}

func checkUniqueNames(entries []ast.PartitionEntry) error {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name.Value
	}
	sort.Strings(names)

	for i := 1; i < len(names); i++ {
		if names[i] == names[i-1] {
			return errors.InvalidSQL(fmt.Sprintf("Duplicate partition names: %s", names[i]))
		}
	}
	return nil
}

func checkArity(columnCount int, entries []ast.PartitionEntry) error {
	for _, e := range entries {
		if len(e.ValueList) != columnCount {
			return errors.InvalidSQL("Partition value list does not match column list.")
		}
	}
	return nil
}

func checkIncreasing(columns []partitionColumn, entries []ast.PartitionEntry) error {
	for i := 1; i < len(entries); i++ {
		increasing, err := lessThan(columns, entries[i-1].ValueList, entries[i].ValueList)
		if err != nil {
			return err
		}
		if !increasing {
			return errors.InvalidSQL("VALUES LESS THAN value must be strictly increasing for each partition.")
		}
	}
	return nil
}

// lessThan compares two bound tuples lexicographically. Per dimension
// MAXVALUE is greater than any concrete value and equal to itself.
func lessThan(columns []partitionColumn, prev, cur []ast.Value) (bool, error) {
	for k, col := range columns {
		x, y := prev[k], cur[k]
		switch {
		case x.IsMaxValue() && y.IsMaxValue():
			continue
		case x.IsMaxValue():
			return false, nil
		case y.IsMaxValue():
			return true, nil
		}

		cmp, err := compareBounds(col, x, y)
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
	// identical tuples
	return false, nil
}

func compareBounds(col partitionColumn, x, y ast.Value) (int, error) {
	a, err := col.convert(x)
	if err != nil {
		return 0, err
	}
	b, err := col.convert(y)
	if err != nil {
		return 0, err
	}
	return datatypes.Compare(a, b)
}

func (c partitionColumn) convert(v ast.Value) (datatypes.Value, error) {
	name := c.def.Name.Value
	if c.typErr != nil {
		e := errors.InvalidSQL(fmt.Sprintf("Cannot partition by column %q", name))
		e.Cause = c.typErr
		return datatypes.Value{}, e
	}
	converted, err := datatypes.FromLiteral(name, c.typ, v)
	if err != nil {
		e := errors.InvalidSQL(fmt.Sprintf("Invalid partition bound %s for column %q", v.String(), name))
		e.Cause = err
		return datatypes.Value{}, e
	}
	return converted, nil
}

func checkMaxValueTail(entries []ast.PartitionEntry) error {
	if len(entries) > 0 {
		last := entries[len(entries)-1]
		allMax := true
		for _, v := range last.ValueList {
			if !v.IsMaxValue() {
				allMax = false
				break
			}
		}
		if allMax {
			return nil
		}
	}
	return errors.InvalidSQL("Please provide an extra partition that is bounded by 'MAXVALUE'.")
}
