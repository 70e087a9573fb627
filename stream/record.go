package stream

import (
	"fmt"

	h "github.com/seoreports/gscsync/helper"
	"github.com/seoreports/gscsync/logger"
)

// Record is the unit of data moved between components: one logical row of
// dimension values, metric values and provenance fields.
// Records go by value as they are handed from component to component.
type Record struct {
	data map[string]interface{} // raw field values; absent dimensions are stored as sentinel tokens, not nil.
}

// NewRecord creates a new empty Record and returns it by value.
func NewRecord() Record {
	return Record{
		data: make(map[string]interface{}),
	}
}

func NewNilRecord() Record {
	return Record{}
}

func (sr Record) RecordIsNil() bool {
	return sr.data == nil
}

func (sr Record) SetData(name string, value interface{}) {
	sr.data[name] = value
}

// GetData fetches a field value. Asking for a field that was never set is a
// pipe definition error, not a data condition.
func (sr Record) GetData(name string) interface{} {
	val, ok := sr.data[name]
	if !ok {
		panic(fmt.Sprintf("invalid key name %q supplied while trying to fetch value from record: %v", name, sr.data))
	}
	return val
}

// GetDataOk fetches a field value without the missing-field panic, for
// callers that probe alias field names.
func (sr Record) GetDataOk(name string) (interface{}, bool) {
	val, ok := sr.data[name]
	return val, ok
}

// GetDataAsString will convert the named field's value to a string.
// Dates are rendered in the canonical YYYY-MM-DD format.
func (sr Record) GetDataAsString(log logger.Logger, name string) string {
	v, ok := sr.data[name]
	if !ok {
		panic(fmt.Sprintf("unexpected field %q does not exist in the input stream (bad pipe definition?)", name))
	}
	return h.GetStringFromInterface(log, v)
}

// GetDataKeysAsSlice builds a slice of strings containing the values found in
// sr.data for each of the supplied keys in slice keys.
func (sr Record) GetDataKeysAsSlice(log logger.Logger, keys []string) []string {
	retval := make([]string, 0, len(keys))
	for _, k := range keys {
		retval = append(retval, sr.GetDataAsString(log, k))
	}
	return retval
}
