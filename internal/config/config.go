package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/John-Robertt/fr/internal/domain"
)

const (
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = domain.ErrCodeConfigInvalid
	// ErrCodeDirNotFound 表示工作目录不存在或不是目录。
	ErrCodeDirNotFound = "dir_not_found"
)

const (
	// FileName 是配置文件名（不含扩展名）；支持 viper 能识别的所有格式（yaml/json/toml…）。
	FileName = "fr"
	// EnvPrefix 是环境变量前缀，例如 FR_SALT、FR_LOG_LEVEL。
	EnvPrefix = "FR"

	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// CLIArgs 是 CLI 暴露的入口，并保留“是否显式指定”的信息。
// 这能保证覆盖优先级可实现：例如 --ascii=false 必须能覆盖配置中的 ascii: true。
type CLIArgs struct {
	Dir string

	SourcePattern      string
	DestinationPattern string

	Salt    string
	SaltSet bool

	ASCII    bool
	ASCIISet bool

	Strict    bool
	StrictSet bool

	Yes    bool
	YesSet bool

	DryRun    bool
	DryRunSet bool

	Report    string
	ReportSet bool

	HTML    string
	HTMLSet bool

	LogLevel    string
	LogLevelSet bool

	LogFormat    string
	LogFormatSet bool
}

// FileConfig 对应 fr.yaml（或 fr.json/fr.toml）以及 FR_* 环境变量。
type FileConfig struct {
	Salt   string `mapstructure:"salt"`
	ASCII  bool   `mapstructure:"ascii"`
	Strict bool   `mapstructure:"strict"`
	Yes    bool   `mapstructure:"yes"`
	DryRun bool   `mapstructure:"dry_run"`
	Report string `mapstructure:"report"`
	HTML   string `mapstructure:"html"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	Dir string

	SourcePattern      string
	DestinationPattern string
	Salt               string

	ASCII  bool
	Strict bool
	Yes    bool
	DryRun bool

	// ReportPath/HTMLPath 为空表示不写出。
	ReportPath string
	HTMLPath   string

	LogLevel  string
	LogFormat string

	// ConfigFile 是实际读取到的配置文件（没有则为空）。
	ConfigFile string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeDirNotFound:
		return fmt.Sprintf("%s：工作目录 %q 不存在或不是目录", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 读取工作目录下的可选配置文件与 FR_* 环境变量，然后与 CLI 参数合并为最终配置。
//
// 工作目录：CLI --dir > cwd。配置文件固定在 <dir>/fr.{yaml,json,toml,...}，不存在不算错误。
//
// 覆盖优先级（固定）：CLI 显式参数 > 环境变量 > 配置文件 > 内置默认。
// 模式本身只能来自 CLI。
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	dir := cwdAbs
	if strings.TrimSpace(cli.Dir) != "" {
		dir = absCleanFrom(cwdAbs, cli.Dir)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return EffectiveConfig{}, &Error{Code: ErrCodeDirNotFound, Path: dir, Err: err}
	}

	fc, used, err := readFileConfig(dir)
	if err != nil {
		path := used
		if path == "" {
			path = filepath.Join(dir, FileName+".*")
		}
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}

	return merge(cwdAbs, dir, cli, fc, used)
}

func merge(cwdAbs, dir string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	eff := EffectiveConfig{
		Dir:                dir,
		SourcePattern:      cli.SourcePattern,
		DestinationPattern: cli.DestinationPattern,
		Salt:               pickString(cli.SaltSet, cli.Salt, fc.Salt),
		ASCII:              pickBool(cli.ASCIISet, cli.ASCII, fc.ASCII),
		Strict:             pickBool(cli.StrictSet, cli.Strict, fc.Strict),
		Yes:                pickBool(cli.YesSet, cli.Yes, fc.Yes),
		DryRun:             pickBool(cli.DryRunSet, cli.DryRun, fc.DryRun),
		LogLevel:           strings.ToLower(strings.TrimSpace(pickString(cli.LogLevelSet, cli.LogLevel, fc.Log.Level))),
		LogFormat:          strings.ToLower(strings.TrimSpace(pickString(cli.LogFormatSet, cli.LogFormat, fc.Log.Format))),
		ConfigFile:         cfgPath,
	}

	if eff.LogLevel == "" {
		eff.LogLevel = DefaultLogLevel
	}
	if eff.LogFormat == "" {
		eff.LogFormat = DefaultLogFormat
	}
	switch eff.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("log.level 只能是 debug|info|warn|error，实际是 %q", eff.LogLevel)}
	}
	switch eff.LogFormat {
	case "text", "json":
	default:
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("log.format 只能是 text|json，实际是 %q", eff.LogFormat)}
	}

	// 报告路径：CLI 给出的相对路径相对 cwd；配置文件给出的相对路径相对工作目录。
	if cli.ReportSet {
		eff.ReportPath = absCleanFrom(cwdAbs, cli.Report)
	} else {
		eff.ReportPath = absCleanFrom(dir, fc.Report)
	}
	if cli.HTMLSet {
		eff.HTMLPath = absCleanFrom(cwdAbs, cli.HTML)
	} else {
		eff.HTMLPath = absCleanFrom(dir, fc.HTML)
	}

	return eff, nil
}

func pickString(set bool, cli, file string) string {
	if set {
		return cli
	}
	return file
}

func pickBool(set bool, cli, file bool) bool {
	if set {
		return cli
	}
	return file
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute；p 为空时返回空串。
func absCleanFrom(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = filepath.Clean(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 通过 viper 读取 <dir>/fr.* 与 FR_* 环境变量。
// 返回值 used 是实际读取到的配置文件路径（不存在时为空，且不算错误）。
func readFileConfig(dir string) (fc FileConfig, used string, err error) {
	v := viper.New()
	v.SetConfigName(FileName)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv 只对“已知 key”生效；用默认值把所有 key 注册一遍。
	v.SetDefault("salt", "")
	v.SetDefault("ascii", false)
	v.SetDefault("strict", false)
	v.SetDefault("yes", false)
	v.SetDefault("dry_run", false)
	v.SetDefault("report", "")
	v.SetDefault("html", "")
	v.SetDefault("log.level", "")
	v.SetDefault("log.format", "")

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return FileConfig{}, v.ConfigFileUsed(), err
		}
	}
	used = v.ConfigFileUsed()

	if err := v.Unmarshal(&fc); err != nil {
		return FileConfig{}, used, err
	}
	return fc, used, nil
}
