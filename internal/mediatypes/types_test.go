package mediatypes

import (
	"reflect"
	"testing"
)

func TestLookupExtensions(t *testing.T) {
	if got := LookupExtensions(false); !reflect.DeepEqual(got, []string{".jpg", ".png", ".webp"}) {
		t.Errorf("LookupExtensions(false) = %v", got)
	}
	if got := LookupExtensions(true); !reflect.DeepEqual(got, []string{".jpg", ".js", ".png", ".webp"}) {
		t.Errorf("LookupExtensions(true) = %v", got)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"header.jpg", KindImage},
		{"header.JPG", KindImage},
		{"thumbnail.png", KindImage},
		{"thumbnail.webp", KindImage},
		{"header.js", KindScript},
		{"info", KindNone},
		{"notes.txt", KindNone},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := KindOf(tt.path); got != tt.want {
				t.Errorf("KindOf(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestGetMimeType(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".jpg", "image/jpeg"},
		{".PNG", "image/png"},
		{".js", "text/javascript; charset=utf-8"},
		{".unknown", "application/octet-stream"},
		{"", "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := GetMimeType(tt.ext); got != tt.want {
				t.Errorf("GetMimeType(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}
