package fsx

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic_SuccessAndNoTempLeft(t *testing.T) {
	dir := t.TempDir()

	if err := WriteFileAtomic(dir, "report.json", []byte("{}")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	// 覆盖写入。
	if err := WriteFileAtomic(dir, "report.json", []byte("hello")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "report.json"))
	if err != nil {
		t.Fatalf("读取文件失败：%v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("内容不一致：%q", string(b))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".report.json.tmp-") {
			t.Fatalf("临时文件未清理：%q", e.Name())
		}
	}
}

func TestWriteFileAtomic_RenameFail_CleanupTemp(t *testing.T) {
	dir := t.TempDir()

	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return os.ErrPermission
	}
	defer func() { renameFunc = old }()

	if err := WriteFileAtomic(dir, "a.txt", []byte("hello")); err == nil {
		t.Fatalf("期望失败，但得到 nil")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("不应留下任何文件：%v", entries)
	}
}

func TestRenameNoReplace(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.srt")
	dst := filepath.Join(dir, "b.srt")
	write(t, src)

	if err := RenameNoReplace(src, dst); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("期望目标存在：%v", err)
	}
}

func TestRenameNoReplace_TargetExists(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.srt")
	dst := filepath.Join(dir, "b.srt")
	write(t, src)
	write(t, dst)

	err := RenameNoReplace(src, dst)
	if !errors.Is(err, os.ErrExist) {
		t.Fatalf("期望 ErrExist，实际：%v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("源文件不应被移动：%v", err)
	}
}

func TestRenameNoReplace_TargetIsDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.srt")
	write(t, src)
	if err := os.Mkdir(filepath.Join(dir, "b.srt"), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}

	err := RenameNoReplace(src, filepath.Join(dir, "b.srt"))
	if !IsPathTypeConflict(err) {
		t.Fatalf("期望 PathTypeConflictError，实际：%T %v", err, err)
	}
}

func write(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
}
