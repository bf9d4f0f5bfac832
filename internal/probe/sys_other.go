//go:build !linux

package probe

// Statfs is only implemented on Linux and Android.
func Statfs(string) (StatfsInfo, error) {
	return StatfsInfo{}, ErrNotSupported
}

// Uname is only implemented on Linux and Android.
func Uname() (UnameInfo, error) {
	return UnameInfo{}, ErrNotSupported
}
