// Package warehouse abstracts the append-only analytical store.
package warehouse

import (
	"github.com/seoreports/gscsync/keys"
	"github.com/seoreports/gscsync/stream"
	tabledefinition "github.com/seoreports/gscsync/table-definition"
)

// Connector abstracts all access to the warehouse. Writes are append-only:
// there is no update or delete path anywhere in this interface.
type Connector interface {
	// Table management:
	TableExists(tableName string) (bool, error)
	CreateTable(tableName string, td *tabledefinition.TableDefinition) error
	// Reads:
	ExistingKeys(tableName string, scope keys.Scope) (map[string]struct{}, error)
	ReadRows(tableName string, td *tabledefinition.TableDefinition, scope keys.Scope) ([]stream.Record, error)
	QueryStringPairs(sqlText string) (map[string]string, error)
	// Writes:
	Append(tableName string, td *tabledefinition.TableDefinition, recs []stream.Record) error
	// Metadata:
	GetType() string
}
