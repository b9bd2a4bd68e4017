package pattern

// Fields 是一次提取的结果：字段名 -> 捕获值，顺序与 Compiled.Names 一致。
type Fields struct {
	Names  []string
	Values []string
}

// Get 按字段名取值。
func (f Fields) Get(name string) (string, bool) {
	for i, n := range f.Names {
		if n == name {
			return f.Values[i], true
		}
	}
	return "", false
}

// Map 返回字段的 map 视图（便于日志/测试）。
func (f Fields) Map() map[string]string {
	m := make(map[string]string, len(f.Names))
	for i, n := range f.Names {
		m[n] = f.Values[i]
	}
	return m
}

// Extract 对文件名做一次匹配（引擎的 leftmost-first 语义），返回各字段的捕获值。
// 未命中返回 ok=false。
func (c *Compiled) Extract(name string) (Fields, bool) {
	m := c.re.FindStringSubmatch(name)
	if m == nil {
		return Fields{}, false
	}
	values := make([]string, len(c.groups))
	for i, g := range c.groups {
		values[i] = m[g]
	}
	return Fields{Names: c.Names(), Values: values}, true
}

// SharedFields 计算两个模式的共同字段（按 src 中的出现顺序），
// 并返回仅出现在一侧的字段名。两侧不一致只是警告，不是错误。
func SharedFields(src, dst *Compiled) (shared, onlySrc, onlyDst []string) {
	inDst := make(map[string]struct{}, len(dst.names))
	for _, n := range dst.names {
		inDst[n] = struct{}{}
	}
	inSrc := make(map[string]struct{}, len(src.names))
	for _, n := range src.names {
		inSrc[n] = struct{}{}
		if _, ok := inDst[n]; ok {
			shared = append(shared, n)
		} else {
			onlySrc = append(onlySrc, n)
		}
	}
	for _, n := range dst.names {
		if _, ok := inSrc[n]; !ok {
			onlyDst = append(onlyDst, n)
		}
	}
	return shared, onlySrc, onlyDst
}
