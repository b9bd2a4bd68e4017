package planner

import (
	"fmt"

	"github.com/John-Robertt/fr/internal/domain"
	"github.com/John-Robertt/fr/internal/naming"
)

// Options 控制投影规划。
type Options struct {
	Salt  string
	ASCII bool

	// Existing 是目录中现有的条目名（用于目标冲突判定）；为 nil 时不做存在性检查。
	Existing []string
}

// Plan 基于配对结果生成确定性的投影计划（不做任何写入/重命名）。
//
// 规则：
// - 新名字与目标当前名字相同：视为 no-op，移出计划
// - 源文件没有扩展名：该条标记 missing_extension，其余条目照常规划
// - 新名字已被目录中其他条目占用，或与计划中更早的条目重名：标记 target_conflict
func Plan(pairs []domain.Pair, opts Options) domain.Plan {
	existing := make(map[string]struct{}, len(opts.Existing))
	for _, n := range opts.Existing {
		existing[n] = struct{}{}
	}
	claimed := make(map[string]string, len(pairs)) // new -> old

	plan := domain.Plan{Entries: make([]domain.PlanEntry, 0, len(pairs))}
	for _, p := range pairs {
		e := domain.PlanEntry{Source: p.Source, Old: p.Destination}

		newName, err := naming.Project(p.Source, p.Destination, opts.Salt)
		if err != nil {
			e.ErrorCode = domain.ErrCodeMissingExtension
			e.ErrorMsg = err.Error()
			plan.Entries = append(plan.Entries, e)
			continue
		}
		if opts.ASCII {
			newName = naming.ASCII(newName)
		}
		e.New = newName

		if newName == p.Destination {
			plan.Unchanged = append(plan.Unchanged, p)
			continue
		}

		if prev, ok := claimed[newName]; ok {
			e.ErrorCode = domain.ErrCodeTargetConflict
			e.ErrorMsg = fmt.Sprintf("新名字 %q 已被 %q 的投影占用", newName, prev)
			plan.Entries = append(plan.Entries, e)
			continue
		}
		if _, ok := existing[newName]; ok {
			e.ErrorCode = domain.ErrCodeTargetConflict
			e.ErrorMsg = fmt.Sprintf("目录中已存在 %q", newName)
			plan.Entries = append(plan.Entries, e)
			continue
		}

		claimed[newName] = p.Destination
		plan.Entries = append(plan.Entries, e)
	}
	return plan
}
