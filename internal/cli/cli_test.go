// Package cli_test provides tests for the CLI package.
package cli_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmylchreest/swatch/internal/cli"
)

// writePNG writes a 40x30 image of c to path.
func writePNG(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode image: %v", err)
	}
}

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runWithEnv(t, nil, args...)
}

// runWithEnv is run with the locale variables cleared and env applied on top.
func runWithEnv(t *testing.T, env map[string]string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "")
	for k, v := range env {
		t.Setenv(k, v)
	}

	var outBuf, errBuf bytes.Buffer
	rootCmd := cli.NewRootCmd()
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "swatch version ") {
		t.Errorf("Expected version line, got %q", out)
	}
	if !strings.Contains(out, "built-in reference set: 37 colours") {
		t.Errorf("Expected reference set size, got %q", out)
	}

	t.Run("JSON", func(t *testing.T) {
		out, _, err := run(t, "version", "--format", "json")
		if err != nil {
			t.Fatalf("version failed: %v", err)
		}
		var got struct {
			Version          string `json:"version"`
			GoVersion        string `json:"go_version"`
			ReferenceColours int    `json:"reference_colours"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("Invalid JSON %q: %v", out, err)
		}
		if got.Version == "" || got.GoVersion == "" || got.ReferenceColours != 37 {
			t.Errorf("Unexpected version info: %+v", got)
		}
	})

	t.Run("BadFormat", func(t *testing.T) {
		if _, _, err := run(t, "version", "--format", "yaml"); err == nil {
			t.Error("Expected error for unsupported format")
		}
	})
}

func TestDistanceCommand(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		out, _, err := run(t, "distance", "--", "50", "2.6772", "-79.7751", "50", "0", "-82.7485")
		if err != nil {
			t.Fatalf("distance failed: %v", err)
		}
		if out != "2.0425\n" {
			t.Errorf("Expected 2.0425, got %q", out)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		out, _, err := run(t, "distance", "--format", "json", "50", "0", "0", "50", "0", "0")
		if err != nil {
			t.Fatalf("distance failed: %v", err)
		}
		var got struct {
			Distance float64 `json:"distance"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("Invalid JSON %q: %v", out, err)
		}
		if got.Distance != 0 {
			t.Errorf("Expected distance 0, got %v", got.Distance)
		}
	})

	t.Run("InvalidArgs", func(t *testing.T) {
		if _, _, err := run(t, "distance", "1", "2", "3"); err == nil {
			t.Error("Expected error for too few values")
		}
		if _, _, err := run(t, "distance", "1", "2", "x", "4", "5", "6"); err == nil {
			t.Error("Expected error for a non-numeric value")
		}
	})
}

func TestMatchCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "HexEnglish", args: []string{"match", "--locale", "en", "--hex", "#ff0000"}, want: "red\n"},
		{name: "HexFrench", args: []string{"match", "--locale", "fr_FR.UTF-8", "--hex", "#ff0000"}, want: "rouge\n"},
		{name: "LabEnglish", args: []string{"match", "--locale", "en", "--", "32.3", "79.2", "-107.9"}, want: "blue\n"},
		{name: "NearNavy", args: []string{"match", "--locale", "en", "--hex", "#000088"}, want: "navy\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("match failed: %v", err)
			}
			if out != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, out)
			}
		})
	}
}

func TestMatchLocaleFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		hex  string
		want string
	}{
		{name: "Unset", hex: "#ff0000", want: "red\n"},
		{name: "POSIX", env: map[string]string{"LANG": "C"}, hex: "#808080", want: "grey\n"},
		{name: "LangFrench", env: map[string]string{"LANG": "fr_FR.UTF-8"}, hex: "#ff0000", want: "rouge\n"},
		{name: "LCAllWins", env: map[string]string{"LC_ALL": "en_GB.UTF-8", "LANG": "fr_FR.UTF-8"}, hex: "#808080", want: "grey\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runWithEnv(t, tt.env, "match", "--hex", tt.hex)
			if err != nil {
				t.Fatalf("match failed: %v", err)
			}
			if out != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, out)
			}
		})
	}
}

func TestMatchTop(t *testing.T) {
	t.Run("Table", func(t *testing.T) {
		out, _, err := run(t, "match", "--locale", "en", "--hex", "#ff8800", "--top", "3")
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 5 {
			t.Fatalf("Expected header, separator and 3 rows, got %d lines:\n%s", len(lines), out)
		}
		if !strings.Contains(lines[0], "NAME") || !strings.Contains(lines[0], "DISTANCE") {
			t.Errorf("Unexpected header: %q", lines[0])
		}
		if !strings.Contains(lines[2], "dark orange") {
			t.Errorf("Expected dark orange first, got %q", lines[2])
		}
	})

	t.Run("JSON", func(t *testing.T) {
		out, _, err := run(t, "match", "--locale", "en", "--hex", "#ff8800", "-n", "2", "-f", "json")
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}
		var got []struct {
			Name     string  `json:"name"`
			Distance float64 `json:"distance"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("Invalid JSON %q: %v", out, err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 matches, got %d", len(got))
		}
		if got[0].Distance > got[1].Distance {
			t.Errorf("Matches not sorted by distance: %+v", got)
		}
	})
}

func TestMatchErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "NoArgs", args: []string{"match"}},
		{name: "HexWithArgs", args: []string{"match", "--hex", "#ffffff", "1", "2", "3"}},
		{name: "BadHex", args: []string{"match", "--hex", "#zzzzzz"}},
		{name: "BadNumber", args: []string{"match", "1", "two", "3"}},
		{name: "BadTop", args: []string{"match", "--hex", "#ffffff", "--top", "0"}},
		{name: "BadFormat", args: []string{"match", "--hex", "#ffffff", "--format", "yaml"}},
		{name: "MissingReference", args: []string{"match", "--hex", "#ffffff", "--reference", "/nonexistent/colours.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := run(t, tt.args...); err == nil {
				t.Errorf("Expected error for %v", tt.args)
			}
		})
	}
}

func TestMatchReferenceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colours.csv")
	csv := "id;hex;family;source;L;a;b;name_en;name_fr\n" +
		"1;#ff0000;red;test;53.24;80.09;67.20;scarlet;écarlate\n" +
		"2;#0000ff;blue;test;32.30;79.19;-107.86;ultramarine;outremer\n"
	if err := os.WriteFile(path, []byte(csv), 0o600); err != nil {
		t.Fatalf("Failed to write reference set: %v", err)
	}

	out, _, err := run(t, "match", "--reference", path, "--locale", "en", "--hex", "#ee1111")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if out != "scarlet\n" {
		t.Errorf("Expected scarlet, got %q", out)
	}

	// Without a locale the default layout names colours from the last column.
	out, _, err = run(t, "match", "--reference", path, "--hex", "#1111ee")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if out != "outremer\n" {
		t.Errorf("Expected outremer, got %q", out)
	}
}

func TestClassifyCommand(t *testing.T) {
	dir := t.TempDir()
	red := filepath.Join(dir, "a-red.png")
	blue := filepath.Join(dir, "b-blue.png")
	writePNG(t, red, color.RGBA{R: 255, A: 255})
	writePNG(t, blue, color.RGBA{B: 255, A: 255})

	t.Run("SingleImage", func(t *testing.T) {
		out, _, err := run(t, "classify", "--locale", "en", red)
		if err != nil {
			t.Fatalf("classify failed: %v", err)
		}
		if out != "red\n" {
			t.Errorf("Expected red, got %q", out)
		}
	})

	t.Run("EachInDirectory", func(t *testing.T) {
		out, _, err := run(t, "classify", "--locale", "en", "--each", dir)
		if err != nil {
			t.Fatalf("classify failed: %v", err)
		}
		want := red + ": red\n" + blue + ": blue\n"
		if out != want {
			t.Errorf("Expected %q, got %q", want, out)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		out, _, err := run(t, "classify", "--locale", "en", "--format", "json", blue)
		if err != nil {
			t.Fatalf("classify failed: %v", err)
		}
		var got struct {
			Name   string `json:"name"`
			Hex    string `json:"hex"`
			Frames int    `json:"frames"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("Invalid JSON %q: %v", out, err)
		}
		if got.Name != "blue" || got.Hex != "#0000ff" || got.Frames != 1 {
			t.Errorf("Unexpected result: %+v", got)
		}
	})

	t.Run("AveragesFrames", func(t *testing.T) {
		out, _, err := run(t, "classify", "--locale", "en", red, red, red)
		if err != nil {
			t.Fatalf("classify failed: %v", err)
		}
		if out != "red\n" {
			t.Errorf("Expected red, got %q", out)
		}
	})
}

func TestClassifyErrors(t *testing.T) {
	dir := t.TempDir()
	white := filepath.Join(dir, "white.png")
	writePNG(t, white, color.White)
	notImage := filepath.Join(dir, "notes.png")
	if err := os.WriteFile(notImage, []byte("dummy image data"), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	t.Run("OnlyWhite", func(t *testing.T) {
		_, _, err := run(t, "classify", white)
		if err == nil || !strings.Contains(err.Error(), "no usable frames") {
			t.Errorf("Expected no usable frames error, got %v", err)
		}
	})

	t.Run("InvalidImage", func(t *testing.T) {
		if _, _, err := run(t, "classify", notImage); err == nil {
			t.Error("Expected error for invalid image data")
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		if _, _, err := run(t, "classify", filepath.Join(dir, "missing.png")); err == nil {
			t.Error("Expected error for missing file")
		}
	})

	t.Run("InvalidAnchor", func(t *testing.T) {
		_, _, err := run(t, "classify", "--anchor", "middle", white)
		if err == nil {
			t.Error("Expected error for invalid anchor")
		}
	})
}

func TestWatchCommand(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "frame-1.png"), color.RGBA{R: 255, A: 255})
	writePNG(t, filepath.Join(dir, "frame-2.png"), color.RGBA{R: 250, G: 5, A: 255})

	t.Run("Text", func(t *testing.T) {
		out, _, err := run(t, "watch", "--locale", "en", "--loop=false", "--fps", "1000", "--interval", "10ms", dir)
		if err != nil {
			t.Fatalf("watch failed: %v", err)
		}
		if !strings.Contains(out, " red ") {
			t.Errorf("Expected a red result, got %q", out)
		}
	})

	t.Run("JSONLines", func(t *testing.T) {
		out, _, err := run(t, "watch", "--locale", "en", "--loop=false", "--fps", "1000", "--interval", "10ms", "--format", "json", dir)
		if err != nil {
			t.Fatalf("watch failed: %v", err)
		}

		scanner := bufio.NewScanner(strings.NewReader(out))
		frames := 0
		for scanner.Scan() {
			var res struct {
				Name   string `json:"name"`
				Frames int    `json:"frames"`
			}
			if err := json.Unmarshal(scanner.Bytes(), &res); err != nil {
				t.Fatalf("Invalid JSON line %q: %v", scanner.Text(), err)
			}
			if res.Name != "red" {
				t.Errorf("Expected red, got %q", res.Name)
			}
			frames += res.Frames
		}
		if frames != 2 {
			t.Errorf("Expected 2 frames across all results, got %d", frames)
		}
	})

	t.Run("InvalidFPS", func(t *testing.T) {
		if _, _, err := run(t, "watch", "--fps", "0", dir); err == nil {
			t.Error("Expected error for zero fps")
		}
	})

	t.Run("NoUsableFrames", func(t *testing.T) {
		blank := t.TempDir()
		writePNG(t, filepath.Join(blank, "black.png"), color.Black)
		_, _, err := run(t, "watch", "--loop=false", "--fps", "1000", "--interval", "10ms", blank)
		if err == nil || !strings.Contains(err.Error(), "no usable frames") {
			t.Errorf("Expected no usable frames error, got %v", err)
		}
	})
}
