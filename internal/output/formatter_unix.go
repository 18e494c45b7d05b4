//go:build !windows

package output

import "os"

// enableANSI reports whether f accepts escape sequences; any Unix terminal does
func enableANSI(*os.File) bool {
	return true
}
