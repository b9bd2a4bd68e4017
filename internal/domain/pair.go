package domain

// Pair 是一次配对结果：Source 的基本名将被“投影”到 Destination 上。
//
// 不变量：同一次运行中，每个 Destination 至多出现在一个 Pair 里。
type Pair struct {
	Source      string
	Destination string
}

// Ambiguous 描述严格配对模式下被拒绝的源文件（共享字段同时命中多个目标）。
// Candidates 按目录列表顺序保存。
type Ambiguous struct {
	Source     string
	Candidates []string
}
