package run

import (
	"time"

	"github.com/John-Robertt/fr/internal/config"
	"github.com/John-Robertt/fr/internal/domain"
)

// Observer 用于把“阶段/预览/逐条结果”从核心执行流程中解耦出来。
//
// 约束：run 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
type Observer interface {
	// OnStart 在 ExecuteWithObserver 开始时调用。
	OnStart(eff config.EffectiveConfig)
	// OnPhaseDone 在阶段结束时调用（用于打印阶段统计与耗时）。
	OnPhaseDone(name string, fields map[string]any, dur time.Duration)
	// OnPlan 在确认前调用，items 是完整的预览（含规划阶段被拒绝的条目）。
	OnPlan(items []domain.ItemResult)
	// OnItemDone 在每条重命名执行后调用。
	OnItemDone(idx, total int, res domain.ItemResult)
}

// Confirmer 在真正重命名前征求用户确认。返回 false 表示放弃整批（不做任何重命名）。
type Confirmer interface {
	Confirm(items []domain.ItemResult) (bool, error)
}

// ConfirmFunc 让普通函数满足 Confirmer。
type ConfirmFunc func(items []domain.ItemResult) (bool, error)

func (f ConfirmFunc) Confirm(items []domain.ItemResult) (bool, error) { return f(items) }
