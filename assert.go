package riff

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// AssertBytes checks an internal invariant that two byte slices are present
// and equal; on failure the returned error renders both operands.  A nil
// slice renders as "null" and always fails the check.
func AssertBytes(expected []byte, actual []byte, context string) error {
	if expected != nil && actual != nil && bytes.Equal(expected, actual) {
		return nil
	}
	return fmt.Errorf(
		"%s: %s != %s", context, renderBytes(expected), renderBytes(actual))
}

func renderBytes(b []byte) string {
	if b == nil {
		return "null"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, x := range b {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(int(x)))
	}
	sb.WriteByte(']')
	return sb.String()
}
