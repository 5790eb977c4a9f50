package jsonx

import (
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Int is an int64 that decodes from a JSON number or a numeric string.
// Clients send membership and serial numbers both ways. null decodes to 0.
type Int int64

func (n *Int) UnmarshalJSON(b []byte) error {
	v := api.Get(b)
	var s string
	switch v.ValueType() {
	case jsoniter.NilValue:
		*n = 0
		return nil
	case jsoniter.NumberValue:
		s = strings.TrimSpace(string(b))
	case jsoniter.StringValue:
		s = strings.TrimSpace(v.ToString())
	default:
		return fmt.Errorf("jsonx: %s is not an integer", b)
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("jsonx: %q is not an integer", s)
	}
	*n = Int(i)
	return nil
}
