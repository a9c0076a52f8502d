package table

import (
	"reflect"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Ranker is implemented by enumerations with an explicit order, such as
// priorities, so that "critical" sorts above "low" rather than alphabetically.
type Ranker interface {
	Rank() int
}

// compareValues orders two field values ascending. nil sorts first. Values
// of different kinds compare equal, which keeps the sort stable for them.
func compareValues(a, b any) int {
	if c, done := compareNil(a, b); done {
		return c
	}

	switch x := a.(type) {
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
		return 0
	case *time.Time:
		y, ok := b.(*time.Time)
		if !ok {
			return 0
		}
		if c, done := compareNil(x, y); done {
			return c
		}
		return x.Compare(*y)
	case Ranker:
		if y, ok := b.(Ranker); ok {
			return cmpInt(int64(x.Rank()), int64(y.Rank()))
		}
		return 0
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch {
	case va.Kind() == reflect.String && vb.Kind() == reflect.String:
		return compareStrings(va.String(), vb.String())
	case va.CanInt() && vb.CanInt():
		return cmpInt(va.Int(), vb.Int())
	case va.CanFloat() && vb.CanFloat():
		return cmpFloat(va.Float(), vb.Float())
	case va.Kind() == reflect.Bool && vb.Kind() == reflect.Bool:
		return cmpBool(va.Bool(), vb.Bool())
	}
	return 0
}

// compareStrings folds case after NFC normalization so "é" typed as one
// code point or as e + combining accent sorts the same.
func compareStrings(a, b string) int {
	a, b = norm.NFC.String(a), norm.NFC.String(b)
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func compareNil(a, b any) (int, bool) {
	an, bn := isNil(a), isNil(b)
	switch {
	case an && bn:
		return 0, true
	case an:
		return -1, true
	case bn:
		return 1, true
	}
	return 0, false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
