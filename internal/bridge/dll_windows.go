//go:build windows

package bridge

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// dllCaller binds the exported bridge entry points from mt5bridge.dll.
type dllCaller struct {
	initialize *windows.LazyProc
	shutdown   *windows.LazyProc
	evalJSON   *windows.LazyProc
	lastError  *windows.LazyProc
}

// LoadLibrary loads the native bridge library at path and resolves its
// exported entry points up front so binding errors surface at startup.
func LoadLibrary(path string) (Caller, error) {
	dll := windows.NewLazyDLL(path)
	if err := dll.Load(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	caller := &dllCaller{
		initialize: dll.NewProc("mt5bridge_initialize"),
		shutdown:   dll.NewProc("mt5bridge_shutdown"),
		evalJSON:   dll.NewProc("mt5bridge_eval_json"),
		lastError:  dll.NewProc("mt5bridge_last_error"),
	}
	for _, proc := range []*windows.LazyProc{caller.initialize, caller.shutdown, caller.evalJSON, caller.lastError} {
		if err := proc.Find(); err != nil {
			return nil, fmt.Errorf("bind %s: %w", proc.Name, err)
		}
	}
	return caller, nil
}

func (c *dllCaller) Initialize(pythonHome string) int {
	// The native side takes a wide-character path.
	home, err := windows.UTF16PtrFromString(pythonHome)
	if err != nil {
		return -1
	}
	code, _, _ := c.initialize.Call(uintptr(unsafe.Pointer(home)))
	return int(int32(code))
}

func (c *dllCaller) Shutdown() {
	_, _, _ = c.shutdown.Call()
}

func (c *dllCaller) Evaluate(request []byte) []byte {
	// The native side expects a NUL-terminated UTF-8 string.
	buf := make([]byte, len(request)+1)
	copy(buf, request)
	ret, _, _ := c.evalJSON.Call(uintptr(unsafe.Pointer(&buf[0])))
	if ret == 0 {
		return nil
	}
	// Copy out immediately: the native library owns the returned buffer.
	return []byte(windows.BytePtrToString((*byte)(unsafe.Pointer(ret))))
}

func (c *dllCaller) LastError() string {
	ret, _, _ := c.lastError.Call()
	if ret == 0 {
		return ""
	}
	// Only valid until the next native call, so copy now.
	return windows.BytePtrToString((*byte)(unsafe.Pointer(ret)))
}
