package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/John-Robertt/fr/internal/domain"
	"github.com/John-Robertt/fr/internal/report"
)

const (
	srcPattern = `<s:\d>x<e:\d{2}>`
	dstPattern = `s0<s:\d>e<e:\d{2}>`
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644); err != nil {
			t.Fatalf("写入文件失败：%v", err)
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func runWith(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := runCLI(context.Background(), args, streams{
		in:     strings.NewReader(stdin),
		out:    &stdout,
		errOut: &stderr,
	})
	return code, stdout.String(), stderr.String()
}

func TestParseArgs_FlagsAndChanged(t *testing.T) {
	ca, help, err := parseArgs([]string{"-s", ".cze", "-y", "--ascii=false", "--report", "r.json", srcPattern, dstPattern})
	if err != nil || help {
		t.Fatalf("不期望错误：err=%v help=%v", err, help)
	}
	if ca.Salt != ".cze" || !ca.SaltSet {
		t.Fatalf("salt 解析错误：%+v", ca)
	}
	if !ca.Yes || !ca.YesSet {
		t.Fatalf("yes 解析错误：%+v", ca)
	}
	// 显式 false 也必须记为已指定，才能覆盖配置中的 true。
	if ca.ASCII || !ca.ASCIISet {
		t.Fatalf("ascii 解析错误：%+v", ca)
	}
	if ca.StrictSet || ca.DryRunSet || ca.LogLevelSet {
		t.Fatalf("未指定的参数不应标记为已指定：%+v", ca)
	}
	if ca.SourcePattern != srcPattern || ca.DestinationPattern != dstPattern {
		t.Fatalf("模式解析错误：%+v", ca)
	}
}

func TestParseArgs_Errors(t *testing.T) {
	cases := [][]string{
		{srcPattern},
		{srcPattern, dstPattern, "extra"},
		{"--bogus", srcPattern, dstPattern},
		{"--report=", srcPattern, dstPattern},
	}
	for _, args := range cases {
		if _, _, err := parseArgs(args); err == nil {
			t.Fatalf("期望错误：args=%q", args)
		}
	}
}

func TestParseArgs_Help(t *testing.T) {
	_, help, err := parseArgs([]string{"--help"})
	if err != nil || !help {
		t.Fatalf("期望 help：err=%v help=%v", err, help)
	}
}

func TestCLI_UsageErrorExit2(t *testing.T) {
	code, _, stderr := runWith(t, "", srcPattern)
	if code != exitUsage {
		t.Fatalf("期望退出码 2，实际 %d", code)
	}
	if !strings.Contains(stderr, "用法：") {
		t.Fatalf("stderr 应包含用法：%q", stderr)
	}
}

func TestCLI_NoTTY_StdoutOnlyRunReportJSON(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "4x10 - The Fight.avi", "himym_s04e10.srt")

	code, stdout, stderr := runWith(t, "", "-d", dir, "-y", "-s", ".cze", srcPattern, dstPattern)
	if code != exitOK {
		t.Fatalf("期望退出码 0，实际 %d；stderr=%s", code, stderr)
	}

	var rr domain.RunReport
	if err := json.Unmarshal([]byte(stdout), &rr); err != nil {
		t.Fatalf("stdout 不是合法的 RunReport JSON：%v\nstdout=%q", err, stdout)
	}
	if rr.Summary.Renamed != 1 {
		t.Fatalf("summary 不符合预期：%+v", rr.Summary)
	}

	// 预览与汇总走 stderr。
	for _, want := range []string{report.PreviewHeader, `renaming "himym_s04e10.srt"`, "Renaming done! (1 of 1 files renamed successfully)"} {
		if !strings.Contains(stderr, want) {
			t.Fatalf("stderr 缺少 %q：%q", want, stderr)
		}
	}
	if strings.Contains(stdout, report.PreviewHeader) {
		t.Fatalf("stdout 不应包含预览：%q", stdout)
	}
	if !exists(filepath.Join(dir, "4x10 - The Fight.cze.srt")) {
		t.Fatalf("期望文件已重命名")
	}
}

func TestCLI_PromptDecline(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "4x10.avi", "s04e10.srt")

	code, _, stderr := runWith(t, "n\n", "-d", dir, srcPattern, dstPattern)
	if code != exitOK {
		t.Fatalf("拒绝不算失败，实际退出码 %d", code)
	}
	if !strings.Contains(stderr, report.Prompt) {
		t.Fatalf("应输出确认提示：%q", stderr)
	}
	if strings.Contains(stderr, "Renaming done!") {
		t.Fatalf("拒绝后不应输出汇总：%q", stderr)
	}
	if !exists(filepath.Join(dir, "s04e10.srt")) {
		t.Fatalf("拒绝后不应改名")
	}
}

func TestCLI_PromptAcceptWithoutNewline(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "4x10.avi", "s04e10.srt")

	code, _, _ := runWith(t, "YES", "-d", dir, srcPattern, dstPattern)
	if code != exitOK {
		t.Fatalf("期望退出码 0，实际 %d", code)
	}
	if !exists(filepath.Join(dir, "4x10.srt")) {
		t.Fatalf("确认后应改名")
	}
}

func TestCLI_NoPairs(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "readme.txt")

	code, _, stderr := runWith(t, "", "-d", dir, srcPattern, dstPattern)
	if code != exitOK {
		t.Fatalf("期望退出码 0，实际 %d", code)
	}
	if !strings.Contains(stderr, report.NoPairs) {
		t.Fatalf("应提示没有配对：%q", stderr)
	}
	if strings.Contains(stderr, report.Prompt) {
		t.Fatalf("没有配对时不应征求确认：%q", stderr)
	}
}

func TestCLI_InvalidPatternExit2(t *testing.T) {
	dir := t.TempDir()
	code, stdout, stderr := runWith(t, "", "-d", dir, "<a:x><a:y>", dstPattern)
	if code != exitUsage {
		t.Fatalf("期望退出码 2，实际 %d", code)
	}
	if !strings.Contains(stderr, domain.ErrCodePatternInvalid) {
		t.Fatalf("stderr 应包含错误码：%q", stderr)
	}
	var rr domain.RunReport
	if err := json.Unmarshal([]byte(stdout), &rr); err != nil {
		t.Fatalf("stdout 不是合法 JSON：%v", err)
	}
}

func TestCLI_MissingDirExit2(t *testing.T) {
	code, stdout, _ := runWith(t, "", "-d", filepath.Join(t.TempDir(), "nope"), srcPattern, dstPattern)
	if code != exitUsage {
		t.Fatalf("期望退出码 2，实际 %d", code)
	}
	var rr domain.RunReport
	if err := json.Unmarshal([]byte(stdout), &rr); err != nil {
		t.Fatalf("stdout 不是合法 JSON：%v", err)
	}
	if len(rr.Items) != 1 || rr.Items[0].ErrorCode != "dir_not_found" {
		t.Fatalf("配置错误条目不符合预期：%+v", rr.Items)
	}
}

func TestCLI_MissingExtensionExit1AndReports(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	touch(t, dir, "4x01", "4x02.avi", "s04e01.srt", "s04e02.srt")

	reportPath := filepath.Join(out, "report.json")
	htmlPath := filepath.Join(out, "report.html")
	code, _, stderr := runWith(t, "", "-d", dir, "-y", "--report", reportPath, "--html", htmlPath, srcPattern, dstPattern)
	if code != exitFailure {
		t.Fatalf("期望退出码 1，实际 %d；stderr=%s", code, stderr)
	}
	if !exists(filepath.Join(dir, "4x02.srt")) {
		t.Fatalf("其余配对应继续执行")
	}

	b, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("读取 report 失败：%v", err)
	}
	var rr domain.RunReport
	if err := json.Unmarshal(b, &rr); err != nil {
		t.Fatalf("report 不是合法 JSON：%v", err)
	}
	if !rr.HasCode(domain.ErrCodeMissingExtension) {
		t.Fatalf("report 应包含 missing_extension：%+v", rr.Items)
	}
	if !exists(htmlPath) {
		t.Fatalf("期望写出 html 报告")
	}
}
