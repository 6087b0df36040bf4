// Package images embeds the application and category icons so the runtime
// does not need an assets folder.
package images

import (
	"embed"
	"path"
)

//go:embed pizza.svg
var AppIcon []byte

//go:embed icons/*.svg
var icons embed.FS

// Icon returns the SVG for a category icon file name such as "militar.svg".
func Icon(name string) ([]byte, bool) {
	if name == "" {
		return nil, false
	}
	b, err := icons.ReadFile(path.Join("icons", path.Base(name)))
	if err != nil {
		return nil, false
	}
	return b, true
}
