package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/John-Robertt/fr/internal/app/run"
	"github.com/John-Robertt/fr/internal/config"
	"github.com/John-Robertt/fr/internal/domain"
	"github.com/John-Robertt/fr/internal/logging"
	"github.com/John-Robertt/fr/internal/report"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// streams 是 CLI 的输入输出端点；main 绑定到进程的标准流，测试绑定到缓冲区。
type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// outTTY 为 false 时 stdout 只输出一个 RunReport JSON，人类可读输出改走 errOut。
	outTTY bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := runCLI(ctx, os.Args[1:], streams{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		outTTY: isTTY(os.Stdout),
	})
	stop()
	os.Exit(code)
}

func runCLI(ctx context.Context, args []string, s streams) int {
	ca, help, err := parseArgs(args)
	if help {
		printUsage(s.out)
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(s.errOut, "参数错误：%v\n\n", err)
		printUsage(s.errOut)
		return exitUsage
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(s.errOut, "读取当前目录失败：%v\n", err)
		return exitFailure
	}

	eff, err := config.LoadEffective(cwd, ca)
	if err != nil {
		fmt.Fprintf(s.errOut, "%s: %v\n", config.Code(err), err)
		if !s.outTTY {
			emitJSON(s.out, reportForConfigError(cwd, ca, err))
		}
		return exitUsage
	}

	if _, err := logging.Setup(s.errOut, eff.LogLevel, eff.LogFormat); err != nil {
		fmt.Fprintf(s.errOut, "初始化日志失败：%v\n", err)
		return exitUsage
	}
	if eff.ConfigFile != "" {
		slog.Debug("config loaded", "file", eff.ConfigFile)
	}

	// 人类可读输出：stdout 是终端时直接写 stdout，否则写 stderr（stdout 留给 JSON）。
	human := s.out
	if !s.outTTY {
		human = s.errOut
	}
	ui := newConsoleUI(human)
	confirm := newPromptConfirmer(s.in, human)

	rr := run.ExecuteWithObserver(ctx, eff, confirm, ui)

	emitDiagnostics(s.errOut, rr)
	if rr.Summary.Attempted > 0 {
		fmt.Fprintln(human, report.SummaryLine(rr))
	}

	code := exitCode(rr)
	if eff.ReportPath != "" {
		if err := report.WriteJSONFile(eff.ReportPath, rr); err != nil {
			fmt.Fprintf(s.errOut, "写入 report 失败：%v\n", err)
			code = max(code, exitFailure)
		} else {
			fmt.Fprintf(human, "report: %s\n", eff.ReportPath)
		}
	}
	if eff.HTMLPath != "" {
		if err := report.WriteHTMLFile(eff.HTMLPath, rr); err != nil {
			fmt.Fprintf(s.errOut, "写入 html 报告失败：%v\n", err)
			code = max(code, exitFailure)
		} else {
			fmt.Fprintf(human, "html: %s\n", eff.HTMLPath)
		}
	}

	if !s.outTTY {
		emitJSON(s.out, rr)
	}
	return code
}

// parseArgs 解析命令行；返回的 CLIArgs 保留“是否显式指定”，交给 config 做优先级合并。
func parseArgs(args []string) (config.CLIArgs, bool, error) {
	var ca config.CLIArgs

	fs := newFlagSet(&ca)
	help := fs.BoolP("help", "h", false, "显示帮助")
	if err := fs.Parse(args); err != nil {
		return config.CLIArgs{}, false, err
	}
	if *help {
		return config.CLIArgs{}, true, nil
	}

	rest := fs.Args()
	switch len(rest) {
	case 2:
	case 0, 1:
		return config.CLIArgs{}, false, errors.New("需要 SOURCE_PATTERN 与 DESTINATION_PATTERN 两个参数")
	default:
		return config.CLIArgs{}, false, fmt.Errorf("多余的参数：%q", rest[2:])
	}
	ca.SourcePattern, ca.DestinationPattern = rest[0], rest[1]

	ca.SaltSet = fs.Changed("salt")
	ca.ASCIISet = fs.Changed("ascii")
	ca.StrictSet = fs.Changed("strict")
	ca.YesSet = fs.Changed("yes")
	ca.DryRunSet = fs.Changed("dry-run")
	ca.ReportSet = fs.Changed("report")
	ca.HTMLSet = fs.Changed("html")
	ca.LogLevelSet = fs.Changed("log-level")
	ca.LogFormatSet = fs.Changed("log-format")

	if ca.ReportSet && ca.Report == "" {
		return config.CLIArgs{}, false, errors.New("--report 不能为空")
	}
	if ca.HTMLSet && ca.HTML == "" {
		return config.CLIArgs{}, false, errors.New("--html 不能为空")
	}
	return ca, false, nil
}

func newFlagSet(ca *config.CLIArgs) *pflag.FlagSet {
	fs := pflag.NewFlagSet("fr", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.StringVarP(&ca.Salt, "salt", "s", "", "插入到新名字基本名与扩展名之间的字符串")
	fs.StringVarP(&ca.Dir, "dir", "d", "", "工作目录（默认当前目录）")
	fs.BoolVarP(&ca.Yes, "yes", "y", false, "跳过确认，直接重命名")
	fs.BoolVarP(&ca.DryRun, "dry-run", "n", false, "只预览，不确认也不重命名")
	fs.BoolVar(&ca.ASCII, "ascii", false, "把新名字音译为 ASCII")
	fs.BoolVar(&ca.Strict, "strict", false, "共享字段命中多个目标时拒绝配对")
	fs.StringVar(&ca.Report, "report", "", "把 RunReport 以 JSON 写入 `FILE`")
	fs.StringVar(&ca.HTML, "html", "", "把 RunReport 以 HTML 写入 `FILE`")
	fs.StringVar(&ca.LogLevel, "log-level", config.DefaultLogLevel, "日志级别：debug|info|warn|error")
	fs.StringVar(&ca.LogFormat, "log-format", config.DefaultLogFormat, "日志格式：text|json")
	return fs
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `用法：
  fr [flags] SOURCE_PATTERN DESTINATION_PATTERN

按共享字段把目录中匹配 DESTINATION_PATTERN 的文件与匹配 SOURCE_PATTERN 的文件配对，
并把目标文件重命名为：源文件基本名 + salt + 目标文件扩展名。

模式语法：<name:regex> 声明字段；* 匹配除路径分隔符外的任意字符；其他字符按字面匹配。

参数：
`)
	var ca config.CLIArgs
	fs := newFlagSet(&ca)
	fs.BoolP("help", "h", false, "显示帮助")
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprint(w, `
示例：
  fr -s .cze '<s:\d>x<e:\d{2}>' 's0<s:\d>e<e:\d{2}>'
`)
}

// exitCode：模式/配置错误为 2；任一条目失败为 1；其余（包括无可做、被拒绝）为 0。
func exitCode(rr domain.RunReport) int {
	if rr.HasCode(domain.ErrCodePatternInvalid) {
		return exitUsage
	}
	if rr.Summary.Failed > 0 {
		return exitFailure
	}
	return exitOK
}

// emitDiagnostics 把没有出现在预览中的终止性错误写到 stderr。
func emitDiagnostics(w io.Writer, rr domain.RunReport) {
	for _, it := range rr.Items {
		switch it.ErrorCode {
		case domain.ErrCodePatternInvalid, domain.ErrCodeIOFailed:
			fmt.Fprintf(w, "%s: %s\n", it.ErrorCode, it.ErrorMsg)
		}
	}
}

func emitJSON(w io.Writer, rr domain.RunReport) {
	enc := json.NewEncoder(w)
	_ = enc.Encode(rr)
}

func reportForConfigError(cwd string, ca config.CLIArgs, err error) domain.RunReport {
	now := time.Now().UTC()
	dir := ca.Dir
	if dir == "" {
		dir = cwd
	} else if !filepath.IsAbs(dir) {
		dir = filepath.Join(cwd, dir)
	}
	rr := domain.RunReport{
		Dir:                filepath.Clean(dir),
		SourcePattern:      ca.SourcePattern,
		DestinationPattern: ca.DestinationPattern,
		Salt:               ca.Salt,
		DryRun:             ca.DryRunSet && ca.DryRun,
		StartedAt:          now,
		FinishedAt:         now,
		Items: []domain.ItemResult{{
			Status:     domain.StatusFailed,
			ErrorCode:  config.Code(err),
			ErrorMsg:   err.Error(),
			Candidates: []string{},
		}},
	}
	rr.Finalize()
	return rr
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
