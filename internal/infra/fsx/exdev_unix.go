//go:build unix

package fsx

import (
	"errors"
	"syscall"
)

// os.Rename 返回的 *os.LinkError 实现了 Unwrap，errors.Is 可直接穿透。
func isEXDEV(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
