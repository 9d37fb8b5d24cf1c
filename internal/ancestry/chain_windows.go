//go:build windows

package ancestry

import (
	"os"
	"syscall"
	"unsafe"
)

const (
	th32csSnapProcess = 0x00000002
	maxPath           = 260
)

// processEntry32 mirrors the Win32 PROCESSENTRY32W struct (the fields this
// package actually reads; padding/layout otherwise matches the OS header).
type processEntry32 struct {
	Size              uint32
	CntUsage          uint32
	ProcessID         uint32
	DefaultHeapID     uintptr
	ModuleID          uint32
	CntThreads        uint32
	ParentProcessID   uint32
	PriClassBase      int32
	Flags             uint32
	ExeFile           [maxPath]uint16
}

var (
	modkernel32              = syscall.NewLazyDLL("kernel32.dll")
	procCreateToolhelp32Snap = modkernel32.NewProc("CreateToolhelp32Snapshot")
	procProcess32FirstW      = modkernel32.NewProc("Process32FirstW")
	procProcess32NextW       = modkernel32.NewProc("Process32NextW")
)

func chain(maxDepth int) []Entry {
	snapshot, ok := snapshotProcesses()
	if !ok {
		return fallbackChain(maxDepth)
	}

	var out []Entry
	seen := make(map[int]struct{})
	pid := os.Getpid()

	for i := 0; i < maxDepth; i++ {
		if pid == 0 {
			break
		}
		if _, ok := seen[pid]; ok {
			break
		}
		seen[pid] = struct{}{}

		info, found := snapshot[pid]
		if !found {
			out = append(out, Entry{PID: pid, Name: "?"})
			break
		}
		out = append(out, Entry{PID: pid, Name: info.name})
		pid = info.ppid
	}

	return out
}

type procInfo struct {
	ppid int
	name string
}

func snapshotProcesses() (map[int]procInfo, bool) {
	h, _, _ := procCreateToolhelp32Snap.Call(uintptr(th32csSnapProcess), 0)
	if h == 0 || int(h) == -1 {
		return nil, false
	}
	handle := syscall.Handle(h)
	defer syscall.CloseHandle(handle)

	var entry processEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	out := make(map[int]procInfo)

	ret, _, _ := procProcess32FirstW.Call(uintptr(handle), uintptr(unsafe.Pointer(&entry)))
	if ret == 0 {
		return out, true
	}
	for {
		out[int(entry.ProcessID)] = procInfo{
			ppid: int(entry.ParentProcessID),
			name: syscall.UTF16ToString(entry.ExeFile[:]),
		}

		entry = processEntry32{Size: uint32(unsafe.Sizeof(entry))}
		ret, _, _ := procProcess32NextW.Call(uintptr(handle), uintptr(unsafe.Pointer(&entry)))
		if ret == 0 {
			break
		}
	}

	return out, true
}

// fallbackChain mirrors the original hook script's last-resort path: if the
// toolhelp snapshot API is unavailable, report only the current process.
func fallbackChain(maxDepth int) []Entry {
	chain := []Entry{{PID: os.Getpid(), Name: "self"}}
	if maxDepth > 1 {
		if ppid := os.Getppid(); ppid != 0 {
			chain = append(chain, Entry{PID: ppid, Name: "parent"})
		}
	}
	return chain
}
