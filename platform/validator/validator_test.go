package validator

import "testing"

func TestBaseNameRule(t *testing.T) {
	val := New()

	valid := []string{"image.png", "動画.mp4", "a b.jpg"}
	for _, name := range valid {
		if err := val.Var(name, "basename"); err != nil {
			t.Fatalf("expected %q to be accepted: %v", name, err)
		}
	}

	invalid := []string{"", "..", "dir/image.png", `dir\image.png`, "line\nbreak.png"}
	for _, name := range invalid {
		if err := val.Var(name, "basename"); err == nil {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
}

func TestStructValidation(t *testing.T) {
	type request struct {
		Filename string `validate:"required,basename"`
		Size     int    `validate:"gt=0"`
	}

	val := New()
	if err := val.Struct(request{Filename: "a.png", Size: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := val.Struct(request{Filename: "a.png"}); err == nil {
		t.Fatal("expected error for zero size")
	}
}
