// Package keys implements content-addressed row identity and the in-memory
// dedup index used to keep the warehouse append-only load exactly-once.
package keys

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	om "github.com/cevaris/ordered_map"
	"github.com/seoreports/gscsync/constants"
	h "github.com/seoreports/gscsync/helper"
	"github.com/seoreports/gscsync/stream"
)

// canonicalColumns maps lowercase dimension names to the column names used in
// stream records and the warehouse tables.
var canonicalColumns = map[string]string{
	constants.DimDate:    constants.ColDate,
	constants.DimQuery:   constants.ColQuery,
	constants.DimPage:    constants.ColPage,
	constants.DimCountry: constants.ColCountry,
	constants.DimDevice:  constants.ColDevice,
	strings.ToLower(constants.DimSearchAppearance): constants.ColSearchAppearance,
	strings.ToLower(constants.ColSearchType):       constants.ColSearchType,
}

// KeySpec fixes the ordered dimension list a batch hashes over.
// The order is declared once at batch-definition time; it never follows
// source-response order, so the derived key is stable across runs.
type KeySpec struct {
	dims *om.OrderedMap // lowercase dimension name -> canonical column name
}

// NewKeySpec builds a KeySpec from the batch's dimension list.
// Dimension names are matched case-insensitively; names without a canonical
// column mapping fall back to themselves.
func NewKeySpec(dims []string) *KeySpec {
	o := om.NewOrderedMap()
	for _, d := range dims {
		dl := strings.ToLower(strings.TrimSpace(d))
		col, ok := canonicalColumns[dl]
		if !ok {
			col = d
		}
		o.Set(dl, col)
	}
	return &KeySpec{dims: o}
}

// Dims returns the lowercase dimension names in declared order.
func (ks *KeySpec) Dims() []string {
	retval := make([]string, 0, ks.dims.Len())
	iter := ks.dims.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		retval = append(retval, kv.Key.(string))
	}
	return retval
}

// Columns returns the canonical column name per dimension in declared order.
func (ks *KeySpec) Columns() []string {
	retval := make([]string, 0, ks.dims.Len())
	iter := ks.dims.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		retval = append(retval, kv.Value.(string))
	}
	return retval
}

// DeriveKey produces the stable identity hash for a record under the given
// KeySpec. Two records with identical canonicalized dimension values always
// hash identically, across runs and processes. Distinct dimension sets hash
// differently for otherwise-identical data because the joined field list
// differs; that is intentional.
func DeriveKey(rec stream.Record, spec *KeySpec) string {
	parts := make([]string, 0, spec.dims.Len())
	iter := spec.dims.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		dim := kv.Key.(string)
		col := kv.Value.(string)
		parts = append(parts, normalizeField(dim, fieldValue(rec, dim, col)))
	}
	return HashFields(parts)
}

// HashFields joins the already-normalized field values with the fixed
// delimiter and returns the lowercase hex sha256 digest. A field value that
// contains the delimiter is not escaped; this is an accepted limitation.
func HashFields(fields []string) string {
	sum := sha256.Sum256([]byte(strings.Join(fields, constants.KeyFieldDelimiter)))
	return hex.EncodeToString(sum[:])
}

// fieldValue extracts the dimension value from the record, falling back
// through the alias names a source row may carry: the canonical column name,
// the dimension as-is, lowercase and uppercase.
func fieldValue(rec stream.Record, dim string, col string) interface{} {
	if v, ok := rec.GetDataOk(col); ok {
		return v
	}
	for _, alias := range []string{dim, strings.ToLower(dim), strings.ToUpper(dim)} {
		if v, ok := rec.GetDataOk(alias); ok {
			return v
		}
	}
	return nil
}

// normalizeField applies the per-field canonicalization: dates reduce to
// YYYY-MM-DD, URL-like fields lose one trailing path separator, everything
// else is trimmed and lowercased. Absence normalizes to the empty value.
func normalizeField(dim string, v interface{}) string {
	if v == nil {
		return constants.TokenEmptyValue
	}
	if dim == constants.DimDate {
		return h.CanonicalDate(v)
	}
	s, ok := v.(string)
	if !ok {
		s = h.CanonicalDate(v) // non-string dimension values are rare; render via the date-safe path.
	}
	if dim == constants.DimPage {
		return h.NormalizeURL(s)
	}
	return h.NormalizeText(s)
}
