// Package report 负责 RunReport 的对外呈现：确认前的预览文本、逐条重命名输出、
// 汇总行，以及 JSON/HTML 报告文件。
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/John-Robertt/fr/internal/domain"
)

const (
	PreviewHeader = "Following files match together:"
	NoPairs       = "No matching pairs of files were found."
	Prompt        = "Do you want to proceed with renaming? (y/n): "
)

// WritePreview 输出确认前的预览：每个配对三行（源、旧名、新名），规划阶段被拒绝的条目附带原因。
func WritePreview(w io.Writer, items []domain.ItemResult) {
	fmt.Fprintln(w, PreviewHeader)
	for _, it := range items {
		fmt.Fprintf(w, "%q\n", it.Source)
		if it.Old == "" {
			// 合成条目（例如 ambiguous）：没有旧名/新名。
			if len(it.Candidates) > 0 {
				fmt.Fprintf(w, " - candidates: %s\n", quoteList(it.Candidates))
			}
		} else {
			fmt.Fprintf(w, " - old: %q\n", it.Old)
			if it.New != "" {
				fmt.Fprintf(w, " - new: %q\n", it.New)
			}
		}
		if it.ErrorCode != "" {
			fmt.Fprintf(w, " ! %s: %s\n", it.ErrorCode, it.ErrorMsg)
		}
	}
}

// WriteRename 输出一条重命名的执行结果。
func WriteRename(w io.Writer, it domain.ItemResult) {
	fmt.Fprintf(w, "renaming %q\n", it.Old)
	fmt.Fprintf(w, "  to %q\n", it.New)
	if it.Status == domain.StatusFailed {
		fmt.Fprintf(w, "  FAILED: %s\n", it.ErrorMsg)
	}
}

// SummaryLine 返回“N 个计划中成功 K 个”的汇总行。
func SummaryLine(rr domain.RunReport) string {
	return fmt.Sprintf("Renaming done! (%d of %d files renamed successfully)", rr.Summary.Renamed, rr.Summary.Attempted)
}

// IsYes 判断确认提示的回答是否为肯定（y/yes，不区分大小写）。
func IsYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func quoteList(xs []string) string {
	parts := make([]string, 0, len(xs))
	for _, x := range xs {
		parts = append(parts, fmt.Sprintf("%q", x))
	}
	return strings.Join(parts, ", ")
}
