package scan

import (
	"os"
	"sort"
)

// ListDir 列出 dir 下的条目名（不递归）。
//
// 规则：
// - 子目录不参与投影（既不列出也不下探）
// - 其余条目（普通文件、符号链接等）按名字列出
// - 输出按名字排序：配对算法依赖列表顺序，不同文件系统的原始顺序不可比
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}

	// os.ReadDir 已按名字排序；这里显式排序，不依赖该实现细节。
	sort.Strings(names)
	return names, nil
}
