package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var bannerColor = color.New(color.FgHiMagenta, color.Bold)

// PrintBanner writes the ASCII art banner; colored when colors are enabled.
func PrintBanner(w io.Writer) {
	bannerColor.Fprint(w, `                                     
 _ __ ___  ___ _ __ ___  _   ___  __
| '__/ _ \/ __| '_ `+"`"+` _ \| | | \ \/ /
| | |  __/ (__| | | | | | |_| |>  < 
|_|  \___|\___|_| |_| |_|\__,_/_/\_\
`)
	fmt.Fprintln(w)
}
