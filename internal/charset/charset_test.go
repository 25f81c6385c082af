package charset

import (
	"os"
	"path/filepath"
	"testing"

	xcharset "golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"
)

const (
	french  = "Le café est très chaud, merci à vous."
	russian = "Привет, как дела? Это тестовая строка на русском языке."
)

func encode(t *testing.T, enc *charmap.Charmap, s string) []byte {
	t.Helper()
	b, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return b
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		encoding string
		language string
	}{
		{"ascii", []byte("hello world"), "utf-8", "English"},
		{"utf-8", []byte(russian), "utf-8", "Russian"},
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "hi"...), "utf-8-sig", "English"},
		{"utf-16le bom", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "utf-16-le", "English"},
		{"utf-16be bom", []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}, "utf-16-be", "English"},
		{"utf-32le bom", []byte{0xFF, 0xFE, 0, 0, 'h', 0, 0, 0}, "utf-32-le", "English"},
		{"windows-1252", encode(t, charmap.Windows1252, french), "windows-1252", "Latin Based"},
		{"windows-1251", encode(t, charmap.Windows1251, russian), "windows-1251", "Russian"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.input)
			if got.Encoding != tt.encoding {
				t.Errorf("expected %s, got %s (%.2f)", tt.encoding, got.Encoding, got.Confidence)
			}
			if got.Language != tt.language {
				t.Errorf("expected language %s, got %s", tt.language, got.Language)
			}
			if got.Confidence < DefaultThreshold || got.Confidence > 1 {
				t.Errorf("confidence out of range: %f", got.Confidence)
			}
		})
	}
}

func TestBOMConfidence(t *testing.T) {
	ms := FromBytes([]byte{0xEF, 0xBB, 0xBF, 'o', 'k'})
	best, ok := ms.Best()
	if !ok || best.Confidence != 1 || best.String() != "ok" {
		t.Errorf("unexpected match %+v", best)
	}
	if len(ms) != 1 {
		t.Errorf("a byte order mark should settle detection, got %d matches", len(ms))
	}
}

func TestMatchesSorted(t *testing.T) {
	ms := FromBytes(encode(t, charmap.Windows1251, russian))
	if len(ms) == 0 {
		t.Fatal("expected matches")
	}
	for i := 1; i < len(ms); i++ {
		if ms[i-1].Confidence < ms[i].Confidence {
			t.Fatalf("matches not sorted at %d: %f < %f", i, ms[i-1].Confidence, ms[i].Confidence)
		}
	}
	first, _ := ms.First()
	if first.String() != russian {
		t.Errorf("expected decoded text %q, got %q", russian, first.String())
	}
}

func TestEmpty(t *testing.T) {
	if ms := FromBytes(nil); len(ms) != 0 {
		t.Errorf("expected no matches, got %d", len(ms))
	}
	if _, ok := Matches(nil).Best(); ok {
		t.Error("Best on empty matches should report false")
	}
	if r := Detect(nil); r.Encoding != "" {
		t.Errorf("expected empty result, got %+v", r)
	}
}

func TestIsolationAndExclusion(t *testing.T) {
	b := encode(t, charmap.Windows1252, french)

	for _, m := range FromBytes(b, WithIsolation("koi8-r"), WithThreshold(0)) {
		if m.Encoding != "koi8-r" {
			t.Errorf("isolation leaked %s", m.Encoding)
		}
	}

	best, ok := FromBytes(b, WithExclusion("windows-1252")).Best()
	if !ok || best.Encoding != "iso-8859-1" {
		t.Errorf("expected iso-8859-1 after excluding windows-1252, got %+v", best)
	}
}

func TestNormalize(t *testing.T) {
	got, err := Normalize(encode(t, charmap.Windows1252, french))
	if err != nil {
		t.Fatal(err)
	}
	if got != french {
		t.Errorf("expected %q, got %q", french, got)
	}
	if s, _ := Normalize([]byte("plain")); s != "plain" {
		t.Errorf("utf-8 input should pass through, got %q", s)
	}
}

func TestIsValid(t *testing.T) {
	cp1251 := encode(t, charmap.Windows1251, russian)
	tests := []struct {
		input []byte
		label string
		want  bool
	}{
		{[]byte("hello"), "ascii", true},
		{[]byte(russian), "utf-8", true},
		{cp1251, "utf-8", false},
		{cp1251, "windows-1251", true},
		{cp1251, "cp1251", true},
		{[]byte{0x82, 0x20}, "shift_jis", false},
		{[]byte("x"), "no-such-encoding", false},
	}
	for _, tt := range tests {
		if got := IsValid(tt.input, tt.label); got != tt.want {
			t.Errorf("IsValid(%q, %s): expected %v, got %v", tt.input, tt.label, tt.want, got)
		}
	}
}

func TestFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.txt")
	if err := os.WriteFile(path, encode(t, charmap.Windows1251, russian), 0644); err != nil {
		t.Fatal(err)
	}
	ms, err := FromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if best, _ := ms.Best(); best.Encoding != "windows-1251" {
		t.Errorf("expected windows-1251, got %s", best.Encoding)
	}
	if _, err := FromPath(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestAgreesWithHTMLSniffer(t *testing.T) {
	// The sniffer reports pure ASCII as windows-1252, so only inputs with high
	// bytes are compared.
	for _, b := range [][]byte{[]byte(russian), []byte(french), encode(t, charmap.Windows1252, french)} {
		_, want, _ := xcharset.DetermineEncoding(b, "")
		if got := Detect(b).Encoding; got != want {
			t.Errorf("%q: expected %s, got %s", b, want, got)
		}
	}
}

func BenchmarkDetectLegacy(b *testing.B) {
	data, _ := charmap.Windows1251.NewEncoder().Bytes([]byte(russian))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Detect(data)
	}
}
