package util

import (
	"bytes"
	"strings"
	"testing"
)

func TestValidateMimeType(t *testing.T) {
	pngHeader := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 16)...)
	binary := []byte{0x00, 0x01, 0x02, 0x03, 0xff, 0xfe}

	cases := []struct {
		name    string
		data    []byte
		allowed []string
		wantErr bool
	}{
		{"png accepted as image", pngHeader, []string{MimeImage}, false},
		{"png rejected as video", pngHeader, []string{MimeVideo}, true},
		{"binary accepted as octet-stream", binary, []string{MimeVideo, MimeOctetStream}, false},
		{"text rejected as pdf", []byte("plain text"), []string{MimePDF}, true},
	}

	for _, tc := range cases {
		_, err := ValidateMimeType(bytes.NewReader(tc.data), tc.allowed)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: err = %v", tc.name, err)
		}
	}
}

func TestGenerateRandomString(t *testing.T) {
	a := GenerateRandomString(8)
	b := GenerateRandomString(8)
	if len(a) != 8 || len(b) != 8 {
		t.Fatalf("lengths %d, %d", len(a), len(b))
	}
	if a == b {
		t.Error("two draws returned the same string")
	}
	if strings.ContainsAny(a, "/\\ ") {
		t.Errorf("unsafe filename characters in %q", a)
	}
}
