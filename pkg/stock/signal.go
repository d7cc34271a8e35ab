package stock

import "fmt"

// Signal is the tri-state availability of a product page.
type Signal int

const (
	Unknown Signal = iota
	InStock
	OutOfStock
)

// Persisted single-character codes.
const (
	CodeInStock    = "1"
	CodeOutOfStock = "0"
	CodeUnknown    = "?"
)

// Code returns the persisted state-file code for s.
func (s Signal) Code() string {
	switch s {
	case InStock:
		return CodeInStock
	case OutOfStock:
		return CodeOutOfStock
	default:
		return CodeUnknown
	}
}

func (s Signal) String() string {
	switch s {
	case InStock:
		return "in_stock"
	case OutOfStock:
		return "out_of_stock"
	default:
		return "unknown"
	}
}

// MarshalText lets signals appear by name in JSON status output.
func (s Signal) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseCode is the inverse of Code.
func ParseCode(code string) (Signal, error) {
	switch code {
	case CodeInStock:
		return InStock, nil
	case CodeOutOfStock:
		return OutOfStock, nil
	case CodeUnknown:
		return Unknown, nil
	}
	return Unknown, fmt.Errorf("%w: %q", ErrInvalidCode, code)
}
