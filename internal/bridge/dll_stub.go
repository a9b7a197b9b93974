//go:build !windows

package bridge

import "fmt"

// LoadLibrary is only functional on Windows, where the native bridge library
// is built. Other platforms get a descriptive error instead of a Caller.
func LoadLibrary(path string) (Caller, error) {
	return nil, fmt.Errorf("load %s: the mt5bridge library requires windows", path)
}
