package log

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// FieldType selects which ZField value is set and how it renders.
type FieldType int

const (
	FieldTypeBool FieldType = iota + 1
	FieldTypeString
	FieldTypeStringer
	FieldTypeInt
	FieldTypeUint
	FieldTypeHex8
	FieldTypeHex16
	FieldTypeHex32
	FieldTypeError
	FieldTypeDuration
	FieldTypeBlob
)

// ZField is one key/value pair of a structured entry. Exactly one value
// field is populated, the one Type selects.
type ZField struct {
	Type FieldType
	Key  string

	String    string
	Integer   uint64
	Duration  time.Duration
	Error     error
	Interface any
	Boolean   bool
	Blob      []byte
}

// hexpad renders v as lowercase hex, zero-padded to n digits.
func hexpad(v uint64, n int) string {
	s := strconv.FormatUint(v, 16)
	for len(s) < n {
		s = "0" + s
	}
	return s
}

func (f *ZField) Value() string {
	switch f.Type {
	case FieldTypeBool:
		return strconv.FormatBool(f.Boolean)
	case FieldTypeString:
		return f.String
	case FieldTypeStringer:
		return f.Interface.(fmt.Stringer).String()
	case FieldTypeInt:
		return strconv.FormatInt(int64(f.Integer), 10)
	case FieldTypeUint:
		return strconv.FormatUint(f.Integer, 10)
	case FieldTypeHex8:
		return hexpad(f.Integer, 2)
	case FieldTypeHex16:
		return hexpad(f.Integer, 4)
	case FieldTypeHex32:
		return hexpad(f.Integer, 8)
	case FieldTypeError:
		if f.Error == nil {
			return "<nil>"
		}
		return f.Error.Error()
	case FieldTypeDuration:
		return f.Duration.String()
	case FieldTypeBlob:
		return hex.Dump(f.Blob)
	}
	return ""
}
