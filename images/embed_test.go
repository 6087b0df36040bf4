package images

import (
	"bytes"
	"testing"

	"github.com/edward-ap/pizzaindex/internal/dataset"
)

func TestEveryCategoryHasAnIcon(t *testing.T) {
	ds, err := dataset.Default()
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	for _, c := range ds.Categories {
		b, ok := Icon(c.Icon)
		if !ok {
			t.Fatalf("missing icon %q for %q", c.Icon, c.ID)
		}
		if !bytes.Contains(b, []byte("<svg")) {
			t.Fatalf("icon %q is not an SVG", c.Icon)
		}
	}
	if _, ok := Icon("nope.svg"); ok {
		t.Fatal("unexpected icon for unknown name")
	}
	if len(AppIcon) == 0 {
		t.Fatal("app icon is empty")
	}
}
