package run

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/John-Robertt/fr/internal/config"
	"github.com/John-Robertt/fr/internal/domain"
)

type recordObserver struct {
	mu sync.Mutex

	startCalls int
	phases     []string
	planned    int
	items      []string
}

func (o *recordObserver) OnStart(eff config.EffectiveConfig) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.startCalls++
}

func (o *recordObserver) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.phases = append(o.phases, name)
}

func (o *recordObserver) OnPlan(items []domain.ItemResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.planned = len(items)
}

func (o *recordObserver) OnItemDone(idx, total int, res domain.ItemResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.items = append(o.items, res.New)
}

func TestExecuteWithObserver_EmitsPhaseAndItemEvents(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "4x10.avi", "s04e10.srt")

	obs := &recordObserver{}
	_ = ExecuteWithObserver(context.Background(), effFor(dir, true), nil, obs)

	if obs.startCalls != 1 {
		t.Fatalf("期望 OnStart 调用 1 次，实际 %d", obs.startCalls)
	}
	wantPhases := []string{"compile", "scan", "pair", "plan"}
	if !reflect.DeepEqual(obs.phases, wantPhases) {
		t.Fatalf("阶段事件不符合预期：got=%v want=%v", obs.phases, wantPhases)
	}
	if obs.planned != 1 {
		t.Fatalf("期望预览 1 条，实际 %d", obs.planned)
	}
	if len(obs.items) != 1 || obs.items[0] != "4x10.srt" {
		t.Fatalf("条目事件不符合预期：items=%v", obs.items)
	}
}

func TestExecuteWithObserver_NilObserver_SameResultAsExecute(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "4x10.avi", "s04e10.srt")

	cfg := effFor(dir, false)
	cfg.DryRun = true

	a := Execute(context.Background(), cfg, nil)
	b := ExecuteWithObserver(context.Background(), cfg, nil, nil)

	// 时间与 run_id 每次不同；对比时归零。
	a.StartedAt, a.FinishedAt, a.RunID = time.Time{}, time.Time{}, ""
	b.StartedAt, b.FinishedAt, b.RunID = time.Time{}, time.Time{}, ""

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("nil observer 不应改变结果：\nExecute=%+v\nWithObs=%+v", a, b)
	}
}
