package apiclient

import (
	"fmt"
	"net/url"
	"strconv"
)

// Params are the query parameters of a request. Values are strings, numbers or bools.
type Params map[string]any

func (p Params) encode(dst url.Values) {
	for k, v := range p {
		if k == "" || v == nil {
			continue
		}
		dst.Set(k, formatValue(v))
	}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
