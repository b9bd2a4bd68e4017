package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/John-Robertt/fr/internal/app/planner"
	"github.com/John-Robertt/fr/internal/config"
	"github.com/John-Robertt/fr/internal/domain"
	"github.com/John-Robertt/fr/internal/infra/fsx"
	"github.com/John-Robertt/fr/internal/match"
	"github.com/John-Robertt/fr/internal/pattern"
	"github.com/John-Robertt/fr/internal/scan"
)

// 可替换的目录列表协作方（测试用它固定列表顺序）。
var listDir = scan.ListDir

// Execute 执行一次投影（dry-run/确认后 apply），并返回对外稳定的 RunReport。
// 单条失败不影响其他条目；只有模式编译与目录读取失败会终止整次运行（此时不做任何重命名）。
func Execute(ctx context.Context, eff config.EffectiveConfig, confirm Confirmer) domain.RunReport {
	return ExecuteWithObserver(ctx, eff, confirm, nil)
}

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer 以输出进度/阶段信息。
//
// 确认规则：DryRun 时从不确认也不重命名；Yes 时跳过确认；否则调用 confirm，
// confirm 为 nil 视为拒绝。
func ExecuteWithObserver(ctx context.Context, eff config.EffectiveConfig, confirm Confirmer, obs Observer) domain.RunReport {
	started := time.Now().UTC()

	if obs != nil {
		obs.OnStart(eff)
	}

	rr := domain.RunReport{
		RunID:              uuid.NewString(),
		Dir:                eff.Dir,
		SourcePattern:      eff.SourcePattern,
		DestinationPattern: eff.DestinationPattern,
		Salt:               eff.Salt,
		DryRun:             eff.DryRun,
		StartedAt:          started,
		Warnings:           []string{},
		Items:              make([]domain.ItemResult, 0, 32),
	}
	log := slog.Default().With("run_id", rr.RunID)

	finish := func() domain.RunReport {
		rr.FinishedAt = time.Now().UTC()
		rr.Finalize()
		return rr
	}

	// 编译：任一模式无效即终止，且发生在读取目录之前。
	compileStarted := time.Now()
	srcPat, err := pattern.Compile(eff.SourcePattern)
	if err != nil {
		log.Error("pattern invalid", "side", "source", "kind", pattern.KindOf(err), "error", err)
		rr.Items = append(rr.Items, syntheticFailed(domain.ErrCodePatternInvalid, "源模式无效："+err.Error()))
		return finish()
	}
	dstPat, err := pattern.Compile(eff.DestinationPattern)
	if err != nil {
		log.Error("pattern invalid", "side", "destination", "kind", pattern.KindOf(err), "error", err)
		rr.Items = append(rr.Items, syntheticFailed(domain.ErrCodePatternInvalid, "目标模式无效："+err.Error()))
		return finish()
	}
	shared, onlySrc, onlyDst := pattern.SharedFields(srcPat, dstPat)
	if len(onlySrc) > 0 || len(onlyDst) > 0 {
		msg := fmt.Sprintf("源模式与目标模式的字段名不一致（仅源：%s；仅目标：%s）", joinOrDash(onlySrc), joinOrDash(onlyDst))
		rr.Warnings = append(rr.Warnings, msg)
		log.Warn("shared field mismatch", "only_source", onlySrc, "only_destination", onlyDst)
	}
	log.Debug("patterns compiled", "source", srcPat.Expr(), "destination", dstPat.Expr(), "shared", shared)
	if obs != nil {
		obs.OnPhaseDone("compile", map[string]any{
			"shared": len(shared),
		}, time.Since(compileStarted))
	}

	scanStarted := time.Now()
	entries, err := listDir(eff.Dir)
	if err != nil {
		rr.Items = append(rr.Items, syntheticFailed(domain.ErrCodeIOFailed, fmt.Sprintf("读取目录失败：%v", err)))
		return finish()
	}
	sources, dests := match.Classify(entries, srcPat, dstPat)
	if obs != nil {
		obs.OnPhaseDone("scan", map[string]any{
			"entries":      len(entries),
			"sources":      len(sources),
			"destinations": len(dests),
		}, time.Since(scanStarted))
	}

	pairStarted := time.Now()
	res := match.NewPairer(eff.Strict).Pair(sources, dests, shared)
	rr.Summary.Pairs = len(res.Pairs)
	rr.Summary.UnpairedSources = len(res.UnpairedSources)
	rr.Summary.UnpairedDestinations = len(res.UnpairedDestinations)
	for _, a := range res.Ambiguous {
		rr.Items = append(rr.Items, ambiguousItem(a))
	}
	if obs != nil {
		obs.OnPhaseDone("pair", map[string]any{
			"pairs":                 len(res.Pairs),
			"ambiguous":             len(res.Ambiguous),
			"unpaired_sources":      len(res.UnpairedSources),
			"unpaired_destinations": len(res.UnpairedDestinations),
		}, time.Since(pairStarted))
	}

	planStarted := time.Now()
	plan := planner.Plan(res.Pairs, planner.Options{
		Salt:     eff.Salt,
		ASCII:    eff.ASCII,
		Existing: entries,
	})
	rr.Summary.Unchanged = len(plan.Unchanged)

	// 计划条目在前（保持配对顺序），合成条目在后；idx 指向 rr.Items 中的可执行条目。
	planItems := make([]domain.ItemResult, 0, len(plan.Entries))
	exec := make([]int, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		it := planItem(e)
		if e.Executable() {
			exec = append(exec, len(planItems))
		}
		planItems = append(planItems, it)
	}
	rr.Items = append(planItems, rr.Items...)

	if obs != nil {
		obs.OnPhaseDone("plan", map[string]any{
			"renames":   len(plan.Executable()),
			"rejected":  len(plan.Entries) - len(exec),
			"unchanged": len(plan.Unchanged),
		}, time.Since(planStarted))
		obs.OnPlan(append([]domain.ItemResult(nil), rr.Items...))
	}

	if len(exec) == 0 || eff.DryRun {
		return finish()
	}

	if !eff.Yes {
		ok := false
		if confirm != nil {
			ok, err = confirm.Confirm(append([]domain.ItemResult(nil), rr.Items...))
			if err != nil {
				log.Warn("confirmation failed", "error", err)
				ok = false
			}
		}
		if !ok {
			rr.Declined = true
			return finish()
		}
	}

	// 顺序执行；单条失败只计数，不回滚、不中断（尽力而为的批处理）。
	for n, idx := range exec {
		it := &rr.Items[idx]
		if err := ctx.Err(); err != nil {
			it.Status = domain.StatusFailed
			it.ErrorCode = domain.ErrCodeCanceled
			it.ErrorMsg = err.Error()
			continue
		}

		oldAbs := filepath.Join(eff.Dir, it.Old)
		newAbs := filepath.Join(eff.Dir, it.New)
		if err := fsx.RenameNoReplace(oldAbs, newAbs); err != nil {
			it.Status = domain.StatusFailed
			it.ErrorCode = domain.ErrCodeRenameFailed
			it.ErrorMsg = err.Error()
			log.Warn("rename failed",
				"old", it.Old,
				"new", it.New,
				"target_exists", errors.Is(err, os.ErrExist) || fsx.IsPathTypeConflict(err),
				"cross_device", fsx.IsCrossDevice(err),
				"error", err,
			)
		} else {
			it.Status = domain.StatusRenamed
			log.Info("renamed", "old", it.Old, "new", it.New)
		}
		if obs != nil {
			obs.OnItemDone(n+1, len(exec), *it)
		}
	}

	return finish()
}

func planItem(e domain.PlanEntry) domain.ItemResult {
	it := domain.ItemResult{
		Source:     e.Source,
		Old:        e.Old,
		New:        e.New,
		Status:     domain.StatusPlanned,
		ErrorCode:  e.ErrorCode,
		ErrorMsg:   e.ErrorMsg,
		Candidates: []string{},
	}
	if !e.Executable() {
		it.Status = domain.StatusFailed
	}
	return it
}

func ambiguousItem(a domain.Ambiguous) domain.ItemResult {
	return domain.ItemResult{
		Source:     a.Source,
		Status:     domain.StatusFailed,
		ErrorCode:  domain.ErrCodeAmbiguousPair,
		ErrorMsg:   fmt.Sprintf("共享字段同时匹配 %d 个目标；请让字段唯一确定目标，或去掉 --strict", len(a.Candidates)),
		Candidates: append([]string(nil), a.Candidates...),
	}
}

func syntheticFailed(code, msg string) domain.ItemResult {
	return domain.ItemResult{
		Status:     domain.StatusFailed,
		ErrorCode:  code,
		ErrorMsg:   msg,
		Candidates: []string{},
	}
}

func joinOrDash(xs []string) string {
	if len(xs) == 0 {
		return "-"
	}
	return strings.Join(xs, ", ")
}
