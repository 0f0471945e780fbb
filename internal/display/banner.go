package display

import (
	"fmt"
	"os"
)

// PrintBanner prints the ASCII art banner, in magenta when color is enabled.
func PrintBanner(color bool) {
	if color {
		fmt.Fprint(os.Stdout, "\033[1;95m")
	}
	fmt.Fprint(os.Stdout, `      _ _           _          _       _
  ___| (_)_ __  ___| |__  _ __(_)_ __ | | __
 / __| | | '_ \/ __| '_ \| '__| | '_ \| |/ /
| (__| | | |_) \__ \ | | | |  | | | | |   <
 \___|_|_| .__/|___/_| |_|_|  |_|_| |_|_|\_\
         |_|
`)
	if color {
		fmt.Fprintln(os.Stdout, "\033[0m")
	}
}
