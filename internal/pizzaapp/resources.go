package pizzaapp

import (
	"sync"

	"fyne.io/fyne/v2"

	"github.com/edward-ap/pizzaindex/images"
)

// AppIcon is the default icon used for the app and window.
var AppIcon fyne.Resource

func init() {
	if len(images.AppIcon) > 0 {
		AppIcon = fyne.NewStaticResource("pizza.svg", images.AppIcon)
	}
}

var (
	iconMu    sync.Mutex
	iconCache = map[string]fyne.Resource{}
)

// CategoryIcon returns the embedded SVG for a category icon file name, or
// nil when there is none.
func CategoryIcon(name string) fyne.Resource {
	iconMu.Lock()
	defer iconMu.Unlock()
	if r, ok := iconCache[name]; ok {
		return r
	}
	b, ok := images.Icon(name)
	if !ok {
		iconCache[name] = nil
		return nil
	}
	r := fyne.NewStaticResource(name, b)
	iconCache[name] = r
	return r
}
