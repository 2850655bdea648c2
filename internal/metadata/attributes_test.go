package metadata

import (
	"reflect"
	"testing"
)

func TestAttributeAccessors(t *testing.T) {
	attrs := Attributes{
		"Title":      "Aurora",
		"Likes":      " 42 ",
		"Bad":        "many",
		"Categories": "web, motion,, print ",
	}

	if v, ok := attrs.String("Title"); !ok || v != "Aurora" {
		t.Errorf("String(Title) = (%q, %v)", v, ok)
	}
	if _, ok := attrs.String("Nope"); ok {
		t.Error("String(Nope) should report absent")
	}

	if n, ok := attrs.Int("Likes"); !ok || n != 42 {
		t.Errorf("Int(Likes) = (%d, %v), want (42, true)", n, ok)
	}
	if _, ok := attrs.Int("Bad"); ok {
		t.Error("Int(Bad) should fail to parse")
	}
	if _, ok := attrs.Int("Nope"); ok {
		t.Error("Int(Nope) should report absent")
	}

	list, ok := attrs.List("Categories")
	if !ok || !reflect.DeepEqual(list, []string{"web", "motion", "print"}) {
		t.Errorf("List(Categories) = (%v, %v)", list, ok)
	}
	if _, ok := attrs.List("Nope"); ok {
		t.Error("List(Nope) should report absent")
	}
}

func TestWithoutCopies(t *testing.T) {
	attrs := Attributes{"Title": "T", "Keep": "k"}
	out := attrs.Without("Title", "NotThere")

	if out.Has("Title") || !out.Has("Keep") {
		t.Errorf("Without() = %v", out)
	}
	if !attrs.Has("Title") {
		t.Error("Without must not mutate the receiver")
	}
}

func TestKeysSorted(t *testing.T) {
	got := Attributes{"b": "", "a": "", "C": ""}.Keys()
	want := []string{"C", "a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestSplitList(t *testing.T) {
	if got := SplitList(""); len(got) != 0 {
		t.Errorf("SplitList(\"\") = %v, want empty", got)
	}
	if got := SplitList(" a "); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("SplitList(\" a \") = %v", got)
	}
}
