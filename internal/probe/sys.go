package probe

// StatfsInfo is the raw result of a statfs system call.
type StatfsInfo struct {
	Type        int64
	BlockSize   int64
	Blocks      uint64
	FreeBlocks  uint64
	AvailBlocks uint64
	Files       uint64
	FreeFiles   uint64
	FSID        [2]int32
	NameLen     int64
}

// UnameInfo is the kernel identification returned by uname.
type UnameInfo struct {
	Sysname    string
	Nodename   string
	Release    string
	Version    string
	Machine    string
	Domainname string
}

// StatfsFunc and UnameFunc allow collectors to substitute the system calls.
type (
	StatfsFunc func(path string) (StatfsInfo, error)
	UnameFunc  func() (UnameInfo, error)
)
