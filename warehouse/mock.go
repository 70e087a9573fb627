package warehouse

import (
	"github.com/pkg/errors"
	c "github.com/seoreports/gscsync/constants"
	"github.com/seoreports/gscsync/keys"
	"github.com/seoreports/gscsync/stream"
	tabledefinition "github.com/seoreports/gscsync/table-definition"
)

// MockConnector is an in-memory Connector for tests. Stored rows keep their
// record form so assertions can read fields back out.
type MockConnector struct {
	Tables           map[string][]stream.Record
	Created          map[string]*tabledefinition.TableDefinition
	StringPairs      map[string]string
	FailExistingKeys bool
	FailAppend       bool
	FailStringPairs  bool
	FailReadRows     bool
	AppendCalls      int
	KeyScopes        []keys.Scope
	ReadScopes       []keys.Scope
}

func NewMockConnector() *MockConnector {
	return &MockConnector{
		Tables:  make(map[string][]stream.Record),
		Created: make(map[string]*tabledefinition.TableDefinition),
	}
}

func (m *MockConnector) GetType() string {
	return "mock"
}

func (m *MockConnector) TableExists(tableName string) (bool, error) {
	_, ok := m.Tables[tableName]
	return ok, nil
}

func (m *MockConnector) CreateTable(tableName string, td *tabledefinition.TableDefinition) error {
	m.Tables[tableName] = make([]stream.Record, 0)
	m.Created[tableName] = td
	return nil
}

func (m *MockConnector) ExistingKeys(tableName string, scope keys.Scope) (map[string]struct{}, error) {
	m.KeyScopes = append(m.KeyScopes, scope)
	if m.FailExistingKeys {
		return nil, errors.New("mock: existing keys query failed")
	}
	existing := make(map[string]struct{})
	for _, rec := range m.Tables[tableName] {
		if v, ok := rec.GetDataOk(c.ColUniqueKey); ok {
			if key, ok := v.(string); ok {
				existing[key] = struct{}{}
			}
		}
	}
	return existing, nil
}

func (m *MockConnector) ReadRows(tableName string, td *tabledefinition.TableDefinition, scope keys.Scope) ([]stream.Record, error) {
	m.ReadScopes = append(m.ReadScopes, scope)
	if m.FailReadRows {
		return nil, errors.New("mock: row read failed")
	}
	out := make([]stream.Record, len(m.Tables[tableName]))
	copy(out, m.Tables[tableName])
	return out, nil
}

func (m *MockConnector) QueryStringPairs(sqlText string) (map[string]string, error) {
	if m.FailStringPairs {
		return nil, errors.New("mock: pair query failed")
	}
	return m.StringPairs, nil
}

func (m *MockConnector) Append(tableName string, td *tabledefinition.TableDefinition, recs []stream.Record) error {
	m.AppendCalls++
	if m.FailAppend {
		return errors.New("mock: append failed")
	}
	m.Tables[tableName] = append(m.Tables[tableName], recs...)
	return nil
}

// RowCount returns the number of rows stored for a table.
func (m *MockConnector) RowCount(tableName string) int {
	return len(m.Tables[tableName])
}
