// Package tabledefinition declares the fixed column layouts of the warehouse
// tables this tool appends to. Schema ownership (DDL strategy, migrations)
// lives with the warehouse; this package only states what the tables look
// like so rows and CREATEs can be built consistently.
package tabledefinition

import (
	c "github.com/seoreports/gscsync/constants"
)

// ColumnType is the warehouse-facing type of a column.
type ColumnType string

const (
	TypeString  ColumnType = "STRING"
	TypeInteger ColumnType = "INTEGER"
	TypeFloat   ColumnType = "FLOAT"
	TypeDate    ColumnType = "DATE"
)

// Column is one named, typed column in a table definition.
type Column struct {
	Name string
	Type ColumnType
}

// TableDefinition is a fixed ordered list of named, typed columns plus the
// clustering layout for one logical table.
type TableDefinition struct {
	Columns          []Column
	ClusteringFields []string
}

// ColumnNames returns the declared column names in order.
func (td *TableDefinition) ColumnNames() []string {
	names := make([]string, 0, len(td.Columns))
	for _, col := range td.Columns {
		names = append(names, col.Name)
	}
	return names
}

// MetricColumns returns the names of the numeric columns. The sink writer
// coerces these to numbers before a load, defaulting junk values to zero.
func (td *TableDefinition) MetricColumns() []string {
	names := make([]string, 0)
	for _, col := range td.Columns {
		if col.Type == TypeInteger || col.Type == TypeFloat {
			names = append(names, col.Name)
		}
	}
	return names
}

// HasColumn reports whether the definition declares the named column.
func (td *TableDefinition) HasColumn(name string) bool {
	for _, col := range td.Columns {
		if col.Name == name {
			return true
		}
	}
	return false
}

// RawTable is the definition of the append-only raw fact table.
func RawTable() *TableDefinition {
	return &TableDefinition{
		Columns: []Column{
			{Name: c.ColDate, Type: TypeDate},
			{Name: c.ColQuery, Type: TypeString},
			{Name: c.ColPage, Type: TypeString},
			{Name: c.ColCountry, Type: TypeString},
			{Name: c.ColDevice, Type: TypeString},
			{Name: c.ColSearchAppearance, Type: TypeString},
			{Name: c.ColClicks, Type: TypeInteger},
			{Name: c.ColImpressions, Type: TypeInteger},
			{Name: c.ColCtr, Type: TypeFloat},
			{Name: c.ColPosition, Type: TypeFloat},
			{Name: c.ColSearchType, Type: TypeString},
			{Name: c.ColUniqueKey, Type: TypeString},
			{Name: c.ColFetchDate, Type: TypeDate},
			{Name: c.ColFetchID, Type: TypeString},
		},
		ClusteringFields: []string{c.ColPage, c.ColQuery, c.ColCountry, c.ColDevice},
	}
}

// SearchAppearanceTable is the definition of the appearance summary table.
// It carries no Date column; rows are distinguished by appearance type and
// fetch id only.
func SearchAppearanceTable() *TableDefinition {
	return &TableDefinition{
		Columns: []Column{
			{Name: c.ColSearchAppearance, Type: TypeString},
			{Name: c.ColClicks, Type: TypeInteger},
			{Name: c.ColImpressions, Type: TypeInteger},
			{Name: c.ColCtr, Type: TypeFloat},
			{Name: c.ColPosition, Type: TypeFloat},
			{Name: c.ColUniqueKey, Type: TypeString},
			{Name: c.ColFetchDate, Type: TypeDate},
			{Name: c.ColFetchID, Type: TypeString},
		},
		ClusteringFields: []string{c.ColSearchAppearance},
	}
}

// AllocatedTable is the definition of the derived allocation table.
func AllocatedTable() *TableDefinition {
	return &TableDefinition{
		Columns: []Column{
			{Name: c.ColSearchAppearance, Type: TypeString},
			{Name: c.ColTargetEntity, Type: TypeString},
			{Name: c.ColAllocMethod, Type: TypeString},
			{Name: c.ColAllocWeight, Type: TypeFloat},
			{Name: c.ColClicksAlloc, Type: TypeFloat},
			{Name: c.ColImpressionsAlloc, Type: TypeFloat},
			{Name: c.ColCtrAlloc, Type: TypeFloat},
			{Name: c.ColPositionAlloc, Type: TypeFloat},
			{Name: c.ColFetchID, Type: TypeString},
			{Name: c.ColUniqueKey, Type: TypeString},
		},
		ClusteringFields: []string{c.ColSearchAppearance},
	}
}
