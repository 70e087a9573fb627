package helper

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/seoreports/gscsync/constants"
	"github.com/seoreports/gscsync/logger"
)

// GetStringFromInterface will convert interface{} value to a string.
// Dates are rendered in the canonical YYYY-MM-DD format used throughout.
func GetStringFromInterface(log logger.Logger, input interface{}) (retval string) {
	switch v := input.(type) {
	case int, int16, int32, int64, int8, uint8:
		retval = fmt.Sprintf("%d", v)
	case string:
		retval = v
	case float32:
		retval = strconv.FormatFloat(float64(v), 'f', -1, 32) // use 'f' to preserve all decimal points without an exponent.
	case float64:
		retval = strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		retval = v.UTC().Format(constants.TimeFormatDate)
	case []uint8:
		retval = string(v)
	case bool:
		retval = fmt.Sprintf("%v", v)
	case nil:
		retval = ""
	default:
		log.Panic("unhandled type while fetching string from interface: type = ", reflect.TypeOf(input), "; value = ", input)
	}
	return
}

// NormalizeText trims surrounding whitespace and lowercases free-text and
// categorical dimension values so equivalent values hash identically.
func NormalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeURL applies NormalizeText and strips a single trailing path
// separator, so "https://x.com/a/" and "https://x.com/a" are the same page.
func NormalizeURL(s string) string {
	return strings.TrimSuffix(NormalizeText(s), "/")
}

// CanonicalDate reduces a date-like value to the canonical YYYY-MM-DD string.
// Strings longer than one date (e.g. with a time component) are truncated.
func CanonicalDate(v interface{}) string {
	switch d := v.(type) {
	case time.Time:
		return d.Format(constants.TimeFormatDate)
	case string:
		s := strings.TrimSpace(d)
		if len(s) > len(constants.TimeFormatDate) {
			return s[:len(constants.TimeFormatDate)]
		}
		return s
	case nil:
		return ""
	default:
		s := fmt.Sprintf("%v", d)
		if len(s) > len(constants.TimeFormatDate) {
			return s[:len(constants.TimeFormatDate)]
		}
		return s
	}
}
