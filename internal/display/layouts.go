package display

import (
	"fmt"
	"strings"

	"github.com/backmassage/tilemaster/internal/config"
)

// layoutArt maps each layout to a small box diagram with numbered tiles.
var layoutArt = map[config.Layout][]string{
	config.Layout2x1: {
		"┌──────────┬──────────┐",
		"│    1     │    2     │",
		"└──────────┴──────────┘",
	},
	config.Layout1x2: {
		"┌─────────────────────┐",
		"│          1          │",
		"├─────────────────────┤",
		"│          2          │",
		"└─────────────────────┘",
	},
	config.Layout2x2: {
		"┌──────────┬──────────┐",
		"│    1     │    2     │",
		"├──────────┼──────────┤",
		"│    3     │    4     │",
		"└──────────┴──────────┘",
	},
	config.Layout3x1: {
		"┌───────┬───────┬───────┐",
		"│   1   │   2   │   3   │",
		"└───────┴───────┴───────┘",
	},
	config.Layout1x3: {
		"┌─────────────────────┐",
		"│          1          │",
		"├─────────────────────┤",
		"│          2          │",
		"├─────────────────────┤",
		"│          3          │",
		"└─────────────────────┘",
	},
	config.Layout3x3: {
		"┌───────┬───────┬───────┐",
		"│   1   │   2   │   3   │",
		"├───────┼───────┼───────┤",
		"│   4   │   5   │   6   │",
		"├───────┼───────┼───────┤",
		"│   7   │   8   │   9   │",
		"└───────┴───────┴───────┘",
	},
	config.LayoutPiP: {
		"┌─────────────────────┐",
		"│   1         ┌─────┐ │",
		"│             │  2  │ │",
		"│             └─────┘ │",
		"│                     │",
		"└─────────────────────┘",
	},
	config.Layout1p2: {
		"┌──────────┬──────────┐",
		"│          │    2     │",
		"│    1     ├──────────┤",
		"│          │    3     │",
		"└──────────┴──────────┘",
	},
	config.Layout2p1: {
		"┌──────────┬──────────┐",
		"│    1     │          │",
		"├──────────┤    3     │",
		"│    2     │          │",
		"└──────────┴──────────┘",
	},
	config.Layout1p3: {
		"┌─────────────────────┐",
		"│          1          │",
		"├───────┬──────┬──────┤",
		"│   2   │  3   │  4   │",
		"└───────┴──────┴──────┘",
	},
}

// LayoutDiagram returns the box diagram for l, followed by a numbered
// legend of folder assignments when folders is non-empty.
func LayoutDiagram(l config.Layout, folders []string) string {
	var b strings.Builder
	for _, line := range layoutArt[l] {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for i, f := range folders {
		fmt.Fprintf(&b, "  %d: %s\n", i+1, f)
	}
	return b.String()
}
