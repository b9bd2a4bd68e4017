package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/John-Robertt/fr/internal/app/run"
	"github.com/John-Robertt/fr/internal/config"
	"github.com/John-Robertt/fr/internal/domain"
	"github.com/John-Robertt/fr/internal/report"
)

var (
	_ run.Observer  = (*consoleUI)(nil)
	_ run.Confirmer = (*promptConfirmer)(nil)
)

// consoleUI 把 run 层事件渲染为人类可读文本：预览、逐条重命名结果。
// 阶段统计只进日志（debug 级别），不混入预览文本。
type consoleUI struct {
	w io.Writer

	mu        sync.Mutex
	startedAt time.Time
}

func newConsoleUI(w io.Writer) *consoleUI {
	return &consoleUI{w: w}
}

func (u *consoleUI) OnStart(eff config.EffectiveConfig) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.startedAt = time.Now()
	slog.Debug("run started",
		"dir", eff.Dir,
		"mode", modeOf(eff),
		"source", eff.SourcePattern,
		"destination", eff.DestinationPattern,
		"salt", eff.Salt,
		"ascii", eff.ASCII,
		"strict", eff.Strict,
	)
}

func (u *consoleUI) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	attrs := make([]any, 0, 2*len(fields)+4)
	attrs = append(attrs, "phase", name, "dur", formatShortDuration(dur))
	for k, v := range fields {
		attrs = append(attrs, k, v)
	}
	slog.Debug("phase done", attrs...)
}

func (u *consoleUI) OnPlan(items []domain.ItemResult) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if len(items) == 0 {
		fmt.Fprintln(u.w, report.NoPairs)
		return
	}
	report.WritePreview(u.w, items)
}

func (u *consoleUI) OnItemDone(idx, total int, res domain.ItemResult) {
	u.mu.Lock()
	defer u.mu.Unlock()

	report.WriteRename(u.w, res)
	if idx == total {
		slog.Debug("renames done", "total", total, "elapsed", formatShortDuration(time.Since(u.startedAt)))
	}
}

// promptConfirmer 在 w 上打印确认提示，从 in 读取一行回答。
type promptConfirmer struct {
	in *bufio.Reader
	w  io.Writer
}

func newPromptConfirmer(in io.Reader, w io.Writer) *promptConfirmer {
	return &promptConfirmer{in: bufio.NewReader(in), w: w}
}

// Confirm 读到 EOF 时按已读内容判断（空回答视为拒绝）。
func (c *promptConfirmer) Confirm(items []domain.ItemResult) (bool, error) {
	fmt.Fprint(c.w, report.Prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	if errors.Is(err, io.EOF) {
		// 非交互输入没有换行：补一个换行，避免后续输出接在提示后面。
		fmt.Fprintln(c.w)
	}
	return report.IsYes(strings.TrimRight(line, "\r\n")), nil
}

func modeOf(eff config.EffectiveConfig) string {
	switch {
	case eff.DryRun:
		return "dry-run"
	case eff.Yes:
		return "apply"
	default:
		return "confirm"
	}
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
