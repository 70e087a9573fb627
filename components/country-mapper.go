package components

import (
	"strings"

	c "github.com/seoreports/gscsync/constants"
	"github.com/seoreports/gscsync/logger"
	"github.com/seoreports/gscsync/stream"
	"github.com/seoreports/gscsync/warehouse"
)

// CountryMapperConfig configures country code expansion for raw rows.
type CountryMapperConfig struct {
	Log      logger.Logger
	OutputDb warehouse.Connector
	DimSQL   string // two-column query returning (code, name) pairs; empty disables mapping
}

// CountryMapper rewrites ISO country codes to display names using a
// dimension table in the warehouse. Codes match case-insensitively; the
// source reports lowercase codes while dimension tables commonly store them
// uppercase. A missing table or unmapped code leaves the original value
// untouched; mapping is cosmetic and never blocks a sync.
type CountryMapper struct {
	log     logger.Logger
	mapping map[string]string
}

func NewCountryMapper(cfg *CountryMapperConfig) *CountryMapper {
	m := &CountryMapper{log: cfg.Log, mapping: map[string]string{}}
	if cfg.DimSQL == "" {
		return m
	}
	pairs, err := cfg.OutputDb.QueryStringPairs(cfg.DimSQL)
	if err != nil {
		cfg.Log.Warn("Unable to load country dimension, codes will pass through unmapped: ", err)
		return m
	}
	for code, name := range pairs {
		m.mapping[mapKey(code)] = name
	}
	cfg.Log.Debug("Loaded ", len(pairs), " country mappings")
	return m
}

// Apply rewrites the country field on each record in place.
func (m *CountryMapper) Apply(recs []stream.Record) {
	if len(m.mapping) == 0 {
		return
	}
	for _, rec := range recs {
		v, ok := rec.GetDataOk(c.ColCountry)
		if !ok {
			continue
		}
		code, ok := v.(string)
		if !ok {
			continue
		}
		if name, found := m.mapping[mapKey(code)]; found {
			rec.SetData(c.ColCountry, name)
		}
	}
}

func mapKey(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
