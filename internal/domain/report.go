package domain

import (
	"encoding/json"
	"sort"
	"time"
)

const (
	StatusPlanned = "planned"
	StatusRenamed = "renamed"
	StatusFailed  = "failed"
)

const (
	ErrCodePatternInvalid   = "pattern_invalid"
	ErrCodeMissingExtension = "missing_extension"
	ErrCodeTargetConflict   = "target_conflict"
	ErrCodeAmbiguousPair    = "ambiguous_pair"
	ErrCodeRenameFailed     = "rename_failed"
	ErrCodeIOFailed         = "io_failed"
	ErrCodeConfigInvalid    = "config_invalid"
	ErrCodeCanceled         = "canceled"
)

// RunReport 是对外稳定输出（--report 文件 / 非 TTY 的 stdout JSON）的结构。
type RunReport struct {
	RunID string `json:"run_id"`
	Dir   string `json:"dir"`

	SourcePattern      string `json:"source_pattern"`
	DestinationPattern string `json:"destination_pattern"`
	Salt               string `json:"salt"`

	DryRun   bool `json:"dry_run"`
	Declined bool `json:"declined"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Warnings []string      `json:"warnings"`
	Summary  ReportSummary `json:"summary"`
	Items    []ItemResult  `json:"items"`
}

// ReportSummary 中 Pairs/Unchanged/Unpaired* 由运行流程填写；
// 其余字段由 Finalize 从 Items 计算得出。
type ReportSummary struct {
	Pairs                int `json:"pairs"`
	Unchanged            int `json:"unchanged"`
	UnpairedSources      int `json:"unpaired_sources"`
	UnpairedDestinations int `json:"unpaired_destinations"`

	Planned   int `json:"planned"`
	Attempted int `json:"attempted"`
	Renamed   int `json:"renamed"`
	Failed    int `json:"failed"`
}

type ItemResult struct {
	Source string `json:"source"`
	Old    string `json:"old"`
	New    string `json:"new"`

	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`

	Candidates []string `json:"candidates"`
}

// Finalize 做三件事：
// 1) 时间统一为 UTC
// 2) items 稳定排序：保持计划顺序，Old=="" 的合成条目排在最后
// 3) 由 items 计算 planned/attempted/renamed/failed
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()
	if r.Warnings == nil {
		r.Warnings = []string{}
	}
	if r.Items == nil {
		r.Items = []ItemResult{}
	}

	sort.SliceStable(r.Items, func(i, j int) bool {
		return r.Items[i].Old != "" && r.Items[j].Old == ""
	})

	s := r.Summary
	s.Planned, s.Attempted, s.Renamed, s.Failed = 0, 0, 0, 0
	for _, it := range r.Items {
		switch it.Status {
		case StatusPlanned:
			s.Planned++
		case StatusRenamed:
			s.Renamed++
			s.Attempted++
		case StatusFailed:
			s.Failed++
			if it.ErrorCode == ErrCodeRenameFailed {
				s.Attempted++
			}
		}
	}
	r.Summary = s
}

// HasCode 判断是否存在指定 error_code 的条目。
func (r RunReport) HasCode(code string) bool {
	for _, it := range r.Items {
		if it.ErrorCode == code {
			return true
		}
	}
	return false
}

// MarshalJSON 仅用于集中约束输出的稳定性。
// 当前只是透传 encoding/json 的默认行为。
func (r RunReport) MarshalJSON() ([]byte, error) {
	type Alias RunReport
	return json.Marshal(Alias(r))
}
