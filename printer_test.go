// printer_test.go
package rox

import "testing"

func Test_FormatValue(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{NilValue, "nil"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Num(25), "25"},
		{Num(2.5), "2.5"},
		{Num(-8), "-8"},
		{Num(0.1), "0.1"},
		{Str("hi"), `"hi"`},
		{Str("a\"b"), `"a\"b"`},
		{Str("a\nb"), `"a\nb"`},
	}
	for _, c := range cases {
		if got := FormatValue(c.v); got != c.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func Test_PrintValue_Strings_Are_Raw(t *testing.T) {
	if got := PrintValue(Str("hi")); got != "hi" {
		t.Fatalf("print form of a string is unquoted, got %q", got)
	}
	if got := PrintValue(Num(2.5)); got != "2.5" {
		t.Fatalf("print form of a number, got %q", got)
	}
	if got := PrintValue(NilValue); got != "nil" {
		t.Fatalf("print form of nil, got %q", got)
	}
}
