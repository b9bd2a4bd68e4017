// Package naming 负责“投影”：用源文件的基本名（+ salt）与目标文件的扩展名合成新文件名。
package naming

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// MissingExtensionError 表示源文件名中没有 '.'，无法确定基本名。
type MissingExtensionError struct {
	Name string
}

func (e *MissingExtensionError) Error() string {
	return fmt.Sprintf("源文件 %q 没有扩展名", e.Name)
}

// IsMissingExtension 判断 err 是否为 *MissingExtensionError。
func IsMissingExtension(err error) bool {
	var e *MissingExtensionError
	return errors.As(err, &e)
}

// Project 计算目标文件投影后的新名字：
//
//	base(source) + salt + ext(destination)
//
// base 是 source 最后一个 '.' 之前的部分；ext 是 destination 从最后一个 '.' 起的后缀（含 '.'，没有则为空）。
// 纯函数，不访问文件系统。
func Project(source, destination, salt string) (string, error) {
	i := strings.LastIndexByte(source, '.')
	if i < 0 {
		return "", &MissingExtensionError{Name: source}
	}

	var b strings.Builder
	b.Grow(len(source) + len(salt) + 8)
	b.WriteString(source[:i])
	b.WriteString(salt)
	if j := strings.LastIndexByte(destination, '.'); j >= 0 {
		b.WriteString(destination[j:])
	}
	return b.String(), nil
}

// ASCII 把名字中的非 ASCII 字符音译为 ASCII（例如 "Příliš" -> "Prilis"）。
// 音译结果中的路径分隔符会被替换为 '-'，避免新名字“逃出”当前目录。
func ASCII(name string) string {
	s := unidecode.Unidecode(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\':
			return '-'
		case 0:
			return -1
		}
		return r
	}, s)
}
