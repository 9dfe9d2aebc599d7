package textutil

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Hà Nội", "ha noi"},
		{"diacritics stripped", "Tổng khởi nghĩa Tháng Tám", "tong khoi nghia thang tam"},
		{"punctuation to space", "19/8/1945: khởi nghĩa!", "19 8 1945 khoi nghia"},
		// đ carries no combining mark, so it survives stripping as-is.
		{"whitespace collapsed", "  Việt   Minh \t ra đời ", "viet minh ra đoi"},
		{"empty", "", ""},
		{"symbols only", "?!.,;:", ""},
		{"digits kept", "2-9-1945", "2 9 1945"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Cách mạng Tháng Tám năm 1945!",
		"  Hồ Chí Minh — Tuyên ngôn Độc lập  ",
		"already normalized text",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Việt Minh, Việt Minh và Tổng bộ!")
	want := []string{"viet", "minh", "viet", "minh", "va", "tong", "bo"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}

	if toks := Tokenize("   "); len(toks) != 0 {
		t.Errorf("expected no tokens for blank input, got %v", toks)
	}
}
