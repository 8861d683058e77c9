package render

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/bawdo/wherekit/internal/quoting"
)

// Literal renders a bound value as an SQL literal for inlined output.
// Values implementing driver.Valuer (sql.Null[T] and friends) are unwrapped
// first. Unsupported types panic, like any other programming error in
// rendering.
func Literal(val any) string {
	if v, ok := val.(driver.Valuer); ok {
		dv, err := v.Value()
		if err != nil {
			panic(fmt.Sprintf("wherekit: literal valuer failed: %v", err))
		}
		val = dv
	}
	if val == nil {
		return "NULL"
	}

	switch v := val.(type) {
	case string:
		return quoting.StringLiteral(v)
	case []byte:
		return "X'" + hex.EncodeToString(v) + "'"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return quoting.StringLiteral(v.Format("2006-01-02 15:04:05.999999999Z07:00"))
	default:
		panic(fmt.Sprintf("wherekit: unsupported literal type %T", v))
	}
}
