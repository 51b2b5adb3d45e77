package display

import (
	"fmt"
	"io"
)

// PrintBanner writes the ASCII art banner.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, ` _____ _ _      __  __           _
|_   _(_) | ___|  \/  | __ _ ___| |_ ___ _ __
  | | | | |/ _ \ |\/| |/ _`+"`"+` / __| __/ _ \ '__|
  | | | | |  __/ |  | | (_| \__ \ ||  __/ |
  |_| |_|_|\___|_|  |_|\__,_|___/\__\___|_|
`)
}
