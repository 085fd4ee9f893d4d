package refset

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/swatch/internal/colour"
)

const sample = `id;hex;family;source;L;a;b;name_en;name_fr
1;#ff0000;red;x11;53.2408;80.0925;67.2032;red;rouge
2;#0000ff;blue;x11;32.3026;79.1875;-107.8602;blue;bleu
3;#00ff00;green;x11;87.7347;-86.1827;83.1793;green;vert
`

func TestLoad(t *testing.T) {
	set, err := Load(strings.NewReader(sample), DefaultLayout(), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []colour.Reference{
		{Name: "rouge", Lab: colour.Lab{L: 53.2408, A: 80.0925, B: 67.2032}},
		{Name: "bleu", Lab: colour.Lab{L: 32.3026, A: 79.1875, B: -107.8602}},
		{Name: "vert", Lab: colour.Lab{L: 87.7347, A: -86.1827, B: 83.1793}},
	}
	if diff := cmp.Diff(want, set.Entries()); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadLocaleColumns(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{locale: "en", want: "red"},
		{locale: "en_GB.UTF-8", want: "red"},
		{locale: "fr", want: "rouge"},
		{locale: "fr_CA.UTF-8", want: "rouge"},
		{locale: "fr-FR", want: "rouge"},
		{locale: "de_DE", want: "red"},
		{locale: "", want: "red"},
		{locale: "C", want: "red"},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			set, err := Load(strings.NewReader(sample), LayoutForLocale(tt.locale), nil)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got := set.Entries()[0].Name; got != tt.want {
				t.Errorf("first name = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	input := `header
1;#ff0000;red;x11;53.2;80.1;67.2;red;rouge
2;#000000;short;row
3;#0000ff;blue;x11;not-a-number;79.1;-107.8;blue;bleu
4;#00ff00;green;x11;87.7;-86.1;83.1;green;

5;#ffff00;yellow;x11;97.1;-21.5;94.4;yellow;jaune
`

	set, stats, err := LoadWithStats(strings.NewReader(input), DefaultLayout(), nil)
	if err != nil {
		t.Fatalf("LoadWithStats() error = %v", err)
	}

	var names []string
	for _, r := range set.All() {
		names = append(names, r.Name)
	}
	if diff := cmp.Diff([]string{"rouge", "jaune"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	wantStats := Stats{Rows: 5, Loaded: 2, Skipped: 3}
	if diff := cmp.Diff(wantStats, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDuplicatesLastWins(t *testing.T) {
	input := `header
1;;;;10;0;0;;grey
2;;;;20;0;0;;black
3;;;;30;0;0;;grey
`

	set, stats, err := LoadWithStats(strings.NewReader(input), DefaultLayout(), nil)
	if err != nil {
		t.Fatalf("LoadWithStats() error = %v", err)
	}

	want := []colour.Reference{
		{Name: "grey", Lab: colour.Lab{L: 30}},
		{Name: "black", Lab: colour.Lab{L: 20}},
	}
	if diff := cmp.Diff(want, set.Entries()); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if stats.Duplicates != 1 {
		t.Errorf("stats.Duplicates = %d, want 1", stats.Duplicates)
	}
}

func TestLoadEmpty(t *testing.T) {
	inputs := map[string]string{
		"no input":      "",
		"header only":   "id;hex;family;source;L;a;b;name_en;name_fr\n",
		"all malformed": "header\nnope\n1;2;3\n",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(input), DefaultLayout(), nil)
			if !errors.Is(err, colour.ErrEmptyReferenceSet) {
				t.Errorf("Load() error = %v, want ErrEmptyReferenceSet", err)
			}
		})
	}
}

func TestLoadInvalidLayout(t *testing.T) {
	layout := DefaultLayout()
	layout.AColumn = -1
	if _, err := Load(strings.NewReader(sample), layout, nil); err == nil {
		t.Error("Load() expected error for negative column")
	}
}

func TestLoadCRLF(t *testing.T) {
	input := strings.ReplaceAll(sample, "\n", "\r\n")
	set, err := Load(strings.NewReader(input), LayoutForLocale("fr"), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := set.Lookup("vert"); !ok {
		t.Errorf("Lookup(vert) failed, entries: %v", set.Entries())
	}
}

func TestLoadSkipsOverlongRows(t *testing.T) {
	tests := []struct {
		name string
		junk string
	}{
		{name: "garbage", junk: strings.Repeat("x", 70000)},
		{name: "wide row", junk: "9;#123456;wide;x11;50;0;0;wide;" + strings.Repeat("a", MaxRowBytes)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "header\n" +
				"1;#ff0000;red;x11;53.2;80.1;67.2;red;rouge\n" +
				tt.junk + "\n" +
				"2;#0000ff;blue;x11;32.3;79.2;-107.9;blue;bleu\n"

			set, stats, err := LoadWithStats(strings.NewReader(input), LayoutForLocale("en"), nil)
			if err != nil {
				t.Fatalf("LoadWithStats() error = %v", err)
			}
			wantStats := Stats{Rows: 3, Loaded: 2, Skipped: 1}
			if diff := cmp.Diff(wantStats, stats); diff != "" {
				t.Errorf("stats mismatch (-want +got):\n%s", diff)
			}
			if _, ok := set.Lookup("blue"); !ok {
				t.Errorf("row after the overlong row was not loaded: %v", set.Entries())
			}
		})
	}
}

func TestLoadNoTrailingNewline(t *testing.T) {
	input := strings.TrimSuffix(sample, "\n")
	set, err := Load(strings.NewReader(input), LayoutForLocale("en"), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if set.Len() != 3 {
		t.Errorf("Len() = %d, want 3", set.Len())
	}
	if _, ok := set.Lookup("green"); !ok {
		t.Errorf("last row without newline was not loaded: %v", set.Entries())
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "colours.csv")
	if err := os.WriteFile(plain, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}

	var xzBuf bytes.Buffer
	xw, err := xz.NewWriter(&xzBuf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := xw.Write([]byte(sample)); err != nil {
		t.Fatal(err)
	}
	if err := xw.Close(); err != nil {
		t.Fatal(err)
	}
	compressedXz := filepath.Join(dir, "colours.csv.xz")
	if err := os.WriteFile(compressedXz, xzBuf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	var gzBuf bytes.Buffer
	gw := gzip.NewWriter(&gzBuf)
	if _, err := gw.Write([]byte(sample)); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	compressedGz := filepath.Join(dir, "colours.csv.gz")
	if err := os.WriteFile(compressedGz, gzBuf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{plain, compressedXz, compressedGz} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			set, err := LoadFile(path, LayoutForLocale("en"), nil)
			if err != nil {
				t.Fatalf("LoadFile() error = %v", err)
			}
			if set.Len() != 3 {
				t.Errorf("LoadFile() loaded %d entries, want 3", set.Len())
			}
		})
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.csv"), DefaultLayout(), nil); err == nil {
		t.Error("LoadFile() expected error for missing file")
	}
	if _, err := LoadFile("", DefaultLayout(), nil); err == nil {
		t.Error("LoadFile() expected error for empty path")
	}
}

func TestLimitedReader(t *testing.T) {
	r := newLimitedReader(strings.NewReader(strings.Repeat("x", 100)), 10)
	buf := make([]byte, 64)

	n, err := r.Read(buf)
	if err != nil || n != 10 {
		t.Fatalf("Read() = %d, %v; want 10, nil", n, err)
	}
	if _, err := r.Read(buf); err == nil {
		t.Error("Read() past limit expected error")
	}
}

func TestBuiltin(t *testing.T) {
	set, err := Builtin(LayoutForLocale("en"), nil)
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}
	for _, name := range []string{"red", "blue", "white", "black"} {
		if _, ok := set.Lookup(name); !ok {
			t.Errorf("Builtin() missing %q", name)
		}
	}

	fr, err := Builtin(LayoutForLocale("fr"), nil)
	if err != nil {
		t.Fatalf("Builtin(fr) error = %v", err)
	}
	if fr.Len() != set.Len() {
		t.Errorf("Builtin(fr) has %d entries, want %d", fr.Len(), set.Len())
	}
	if _, ok := fr.Lookup("rouge"); !ok {
		t.Error("Builtin(fr) missing \"rouge\"")
	}
}
