package vars

import "testing"

func TestFirstNonZero(t *testing.T) {
	if v := FirstNonZero(0, 0, 3, 4); v != 3 {
		t.Fatalf("got %v", v)
	}
	if v := FirstNonZero("", "structural"); v != "structural" {
		t.Fatalf("got %v", v)
	}
	if v := FirstNonZero[int](); v != 0 {
		t.Fatalf("got %v", v)
	}
}

func TestStrToBool(t *testing.T) {
	for str, expected := range map[string]bool{
		"true":  true,
		"Yes":   true,
		" on ":  true,
		"1":     true,
		"false": false,
		"no":    false,
		"":      false,
		"maybe": false,
	} {
		if StrToBool(str) != expected {
			t.Fatalf("%q: got %v", str, !expected)
		}
	}
}
