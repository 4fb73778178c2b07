package sheet

import (
	"fmt"
	"regexp"
	"strings"
)

var addressPattern = regexp.MustCompile(`^[A-Z]+[0-9]+$`)

// ColumnName converts a 1-based column index to spreadsheet letters using
// bijective base-26: 1 -> A, 26 -> Z, 27 -> AA, 703 -> AAA. Returns "" for n < 1.
func ColumnName(n int) string {
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// ColumnNumber is the inverse of ColumnName
func ColumnNumber(name string) (int, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	n := 0
	for _, r := range name {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column name %q", name)
		}
		n = n*26 + int(r-'A'+1)
	}
	return n, nil
}

// CellAddress builds an A1 address such as "E3"
func CellAddress(col, row int) string {
	return fmt.Sprintf("%s%d", ColumnName(col), row)
}

// ValidAddress reports whether address is letters followed by digits
func ValidAddress(address string) bool {
	return addressPattern.MatchString(address)
}
