// Package refset loads named reference colour sets from delimited text.
//
// A reference set file has one header line followed by one row per colour.
// Fields are separated by ';'. Columns 4, 5 and 6 hold L, a and b as decimal
// numbers. The name column depends on the layout: column 8 in the
// single-language layout, or column 7 (English) / 8 (French) in the
// localised layout.
package refset

import (
	"fmt"

	"golang.org/x/text/language"
)

// Layout describes which columns of a row hold the name and the Lab values.
type Layout struct {
	NameColumn int
	LColumn    int
	AColumn    int
	BColumn    int
}

// Column indexes of the localised layout.
const (
	columnEnglish = 7
	columnFrench  = 8
)

// DefaultLayout returns the single-language layout.
func DefaultLayout() Layout {
	return Layout{
		NameColumn: 8,
		LColumn:    4,
		AColumn:    5,
		BColumn:    6,
	}
}

// LayoutForLocale returns the localised layout for a BCP 47 tag or POSIX
// locale such as "fr_FR.UTF-8". French selects the French name column,
// anything else (including unparsable tags) selects English.
func LayoutForLocale(locale string) Layout {
	l := DefaultLayout()
	l.NameColumn = columnEnglish

	tag, err := language.Parse(normaliseLocale(locale))
	if err != nil {
		return l
	}
	if base, _ := tag.Base(); base == frenchBase {
		l.NameColumn = columnFrench
	}
	return l
}

var frenchBase, _ = language.French.Base()

// normaliseLocale strips the encoding and modifier of a POSIX locale and
// converts the separator so that language.Parse accepts it.
func normaliseLocale(locale string) string {
	for i, r := range locale {
		if r == '.' || r == '@' {
			locale = locale[:i]
			break
		}
	}
	out := []byte(locale)
	for i := range out {
		if out[i] == '_' {
			out[i] = '-'
		}
	}
	return string(out)
}

// width returns the minimum number of fields a row needs for this layout.
func (l Layout) width() int {
	return max(l.NameColumn, l.LColumn, l.AColumn, l.BColumn) + 1
}

// Validate checks that all column indexes are usable.
func (l Layout) Validate() error {
	cols := []struct {
		name  string
		index int
	}{
		{"name", l.NameColumn},
		{"L", l.LColumn},
		{"a", l.AColumn},
		{"b", l.BColumn},
	}
	for _, c := range cols {
		if c.index < 0 {
			return fmt.Errorf("invalid %s column: %d", c.name, c.index)
		}
	}
	return nil
}
