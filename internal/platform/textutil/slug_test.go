package textutil

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Álgebra Lineal I", "algebra-lineal-i"},
		{"  Intro to Go!! ", "intro-to-go"},
		{"C++ & Data--Structures", "c-data-structures"},
		{"", ""},
		{"---", ""},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Fatalf("Slugify(%q)=%q want %q", c.in, got, c.want)
		}
	}
}
