package recipe

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
		{"mixed whitespace", "  a\n b   c ", "a b c"},
		{"tabs", "1\tcup\t\tflour", "1 cup flour"},
		{"nbsp is whitespace", "2\u00a0eggs", "2 eggs"},
		{"empty", "", ""},
		{"only whitespace", " \t\n ", ""},
		{"already clean", "Tofu, cubed", "Tofu, cubed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := Normalize(got); again != got {
				t.Errorf("Normalize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestDedupe_KeepsFirstCasing(t *testing.T) {
	got := Dedupe([]string{"Tofu", "tofu", "Kale"})
	want := []string{"Tofu", "Kale"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dedupe = %q, want %q", got, want)
	}
}

func TestDedupe_DropsEmptyAndPreservesOrder(t *testing.T) {
	in := []string{"", "salt", "Pepper", "SALT", "", "oil", "pepper"}
	got := Dedupe(in)
	want := []string{"salt", "Pepper", "oil"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dedupe = %q, want %q", got, want)
	}
}

func TestDedupe_Idempotent(t *testing.T) {
	once := Dedupe([]string{"b", "A", "a", "B", "c"})
	twice := Dedupe(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Dedupe not idempotent: %q vs %q", once, twice)
	}
}

func TestDedupe_NilInput(t *testing.T) {
	got := Dedupe(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("Dedupe(nil) = %#v, want empty non-nil slice", got)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" vegan,  spicy ,,stir-fry, ")
	want := []string{"vegan", "spicy", "stir-fry"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitList = %q, want %q", got, want)
	}
}

func TestDedupe_FullCaseFolding(t *testing.T) {
	got := Dedupe([]string{"Straße", "STRASSE", "Crème", "CRÈME"})
	want := []string{"Straße", "Crème"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dedupe = %q, want %q", got, want)
	}
}
