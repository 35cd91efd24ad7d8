// Package banner renders the startup banner printed to stderr.
package banner

import "fmt"

// The backtick in the art rules out a raw string literal.
const art = "" +
	"__      _____ _ __ __ _  ___ _ __\n" +
	"\\ \\ /\\ / / _ \\ '__/ _` |/ _ \\ '__|\n" +
	" \\ V  V /  __/ | | (_| |  __/ |\n" +
	"  \\_/\\_/ \\___|_|  \\__, |\\___|_|\n" +
	"                  |___/\n"

// Banner returns the startup banner for the given version.
func Banner(version string) string {
	return fmt.Sprintf("%s          wergêr %s\n\n", art, version)
}
