package frame

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/floodprep/pkg/geom"
	"github.com/matzehuels/floodprep/pkg/raster"
)

const header3x2 = "ncols 3\nnrows 2\nxllcorner 100\nyllcorner 200\ncellsize 5\nNODATA_value -9999\n"

func TestDecodeRoundTrip(t *testing.T) {
	h := geom.Header{NCols: 3, NRows: 2, CellSize: 2.5, XLLCorner: 1000.25, YLLCorner: -20.5, NoData: geom.NoData}
	data := []float32{0.125, -9999, 3.75, 1e-3, 42, 0.3333}

	f := Decode(raster.ASC(data, h))
	if !f.Valid {
		t.Fatalf("Decode() invalid: %v", f.Err)
	}
	if f.Header != h {
		t.Errorf("Header = %+v, want %+v", f.Header, h)
	}
	want := []float32{0.125, 0, 3.75, 1e-3, 42, 0.3333}
	for i := range want {
		if f.Data[i] != want[i] {
			t.Errorf("Data[%d] = %v, want %v", i, f.Data[i], want[i])
		}
	}
	if f.Min != 0.001 || f.Max != 42 {
		t.Errorf("Min/Max = %v/%v", f.Min, f.Max)
	}
	if f.Count != 6 || f.Truncated || f.HasNegativeDepth || f.BadTokens != 0 {
		t.Errorf("frame = %+v", f)
	}
}

func TestDecodeInstability(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"Stable", "0 0.2 0.3\n0.1 -0.05 0\n", false},
		{"Unstable", "0 0.2 0.3\n0.1 -0.5 0\n", true},
		{"NoDataIgnored", "-9999 0 0\n0 0 0\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Decode([]byte(header3x2 + tt.body))
			if !f.Valid {
				t.Fatalf("invalid: %v", f.Err)
			}
			if f.HasNegativeDepth != tt.want {
				t.Errorf("HasNegativeDepth = %v, want %v", f.HasNegativeDepth, tt.want)
			}
		})
	}
}

func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		want      []float32
		count     int
		truncated bool
		bad       int
	}{
		{"Truncated", "1 2 3\n4\n", []float32{1, 2, 3, 4, 0, 0}, 4, true, 0},
		{"ExtraIgnored", "1 2 3\n4 5 6\n7 8\n", []float32{1, 2, 3, 4, 5, 6}, 6, false, 0},
		{"TrailingToken", "1 2 3\n4 5 6", []float32{1, 2, 3, 4, 5, 6}, 6, false, 0},
		{"Tabs and CRLF", "1\t2\t3\r\n4\t5\t6\r\n", []float32{1, 2, 3, 4, 5, 6}, 6, false, 0},
		{"BadToken", "1 - 3\n4 5e 6\n", []float32{1, 0, 3, 4, 0, 6}, 6, false, 2},
		{"Exponents", "1e-2 -2.5E+1 +3\n.5 5. 0\n", []float32{0.01, -25, 3, 0.5, 5, 0}, 6, false, 0},
		{"LongToken", strings.Repeat("1", 80) + " 2 3\n4 5 6\n", []float32{0, 2, 3, 4, 5, 6}, 6, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Decode([]byte(header3x2 + tt.body))
			if !f.Valid {
				t.Fatalf("invalid: %v", f.Err)
			}
			for i := range tt.want {
				if f.Data[i] != tt.want[i] {
					t.Errorf("Data = %v, want %v", f.Data, tt.want)
					break
				}
			}
			if f.Count != tt.count || f.Truncated != tt.truncated || f.BadTokens != tt.bad {
				t.Errorf("Count=%d Truncated=%v BadTokens=%d, want %d %v %d",
					f.Count, f.Truncated, f.BadTokens, tt.count, tt.truncated, tt.bad)
			}
		})
	}
}

func TestDecodeAllNoData(t *testing.T) {
	f := Decode([]byte(header3x2 + "-9999 -9999 -9999\n-9999 -9999 -9999\n"))
	if f.Min != 0 || f.Max != 0 {
		t.Errorf("Min/Max = %v/%v, want 0/0", f.Min, f.Max)
	}
}

func TestDecodeHeaderVariants(t *testing.T) {
	raw := "NCOLS 2\nNROWS 1\nXLLCENTER 10\nYLLCENTER 20\nCELLSIZE 2\nnodata_value -1\n-1 7\n"
	f := Decode([]byte(raw))
	if !f.Valid {
		t.Fatalf("invalid: %v", f.Err)
	}
	if f.XLLCorner != 9 || f.YLLCorner != 19 {
		t.Errorf("corner = (%v,%v), want (9,19)", f.XLLCorner, f.YLLCorner)
	}
	if f.Data[0] != 0 || f.Data[1] != 7 || f.Min != 7 {
		t.Errorf("Data = %v Min = %v", f.Data, f.Min)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"Empty", "", ErrEmpty},
		{"ShortHeader", "ncols 3\nnrows 2\n1 2 3\n", ErrShortHeader},
		{"NoNewlines", header3x2[:20], ErrShortHeader},
		{"MissingNcols", "nrows 2\na 1\nb 2\nc 3\nd 4\ne 5\n1 2\n", ErrBadHeader},
		{"BadNumber", strings.Replace(header3x2, "ncols 3", "ncols three", 1), ErrBadHeader},
		{"Fractional", strings.Replace(header3x2, "ncols 3", "ncols 2.5", 1), ErrBadHeader},
		{"Huge", strings.Replace(header3x2, "ncols 3", "ncols 1e9", 1), ErrBadHeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Decode([]byte(tt.raw))
			if f.Valid {
				t.Fatal("Decode() reported valid")
			}
			if !errors.Is(f.Err, tt.want) {
				t.Errorf("Err = %v, want %v", f.Err, tt.want)
			}
			if f.Data != nil {
				t.Error("Data allocated for invalid frame")
			}
		})
	}
}

func TestParseFloat(t *testing.T) {
	tokens := []string{
		"0", "-0.000", "0.05", "-1.5e3", "1E-2", "+7", ".5", "5.",
		"123456789012345", "1234567890123456789", "0.1234567890123456789",
		"3.4028235e38", "1e-30", "9999.9999",
	}
	for _, tok := range tokens {
		want, _ := strconv.ParseFloat(tok, 64)
		got, ok := parseFloat([]byte(tok))
		if !ok || got != want || math.Signbit(got) != math.Signbit(want) {
			t.Errorf("parseFloat(%q) = %v, %v; want %v", tok, got, ok, want)
		}
	}

	for _, tok := range []string{"-", "1e", "--1", "1.2.3", "e5", "+", "1e+"} {
		if _, ok := parseFloat([]byte(tok)); ok {
			t.Errorf("parseFloat(%q) accepted", tok)
		}
	}
}

func TestParseFastExactness(t *testing.T) {
	for _, tok := range []string{"0.1", "2.675", "1e22", "123.456e-10", "-0.3"} {
		want, _ := strconv.ParseFloat(tok, 64)
		got, ok := parseFast([]byte(tok))
		if !ok {
			t.Errorf("parseFast(%q) took the slow path", tok)
			continue
		}
		if got != want {
			t.Errorf("parseFast(%q) = %v, want %v", tok, got, want)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	h := geom.Header{NCols: 500, NRows: 500, CellSize: 1, NoData: geom.NoData}
	data := make([]float32, h.Len())
	for i := range data {
		data[i] = float32(i%97) * 0.013
	}
	raw := raster.ASC(data, h)
	b.SetBytes(int64(len(raw)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Decode(raw)
	}
}
