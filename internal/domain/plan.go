package domain

// PlanEntry 是投影计划中的一条：把目录中的 Old 重命名为 New。
//
// ErrorCode 非空表示该条在规划阶段就被拒绝（例如 missing_extension / target_conflict），
// 不会交给重命名协作方执行。
type PlanEntry struct {
	Source string
	Old    string
	New    string

	ErrorCode string
	ErrorMsg  string
}

// Executable 表示该条目是否可以交给重命名协作方。
func (e PlanEntry) Executable() bool { return e.ErrorCode == "" }

// Plan 是 ProjectionPlanner 的输出（纯计算，不触碰文件系统）。
type Plan struct {
	// Entries 保持配对顺序。
	Entries []PlanEntry
	// Unchanged 是投影后名字不变而被剔除的配对。
	Unchanged []Pair
}

// Executable 返回可执行条目（保持原顺序）。
func (p Plan) Executable() []PlanEntry {
	out := make([]PlanEntry, 0, len(p.Entries))
	for _, e := range p.Entries {
		if e.Executable() {
			out = append(out, e)
		}
	}
	return out
}
