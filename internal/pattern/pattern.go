// Package pattern 实现“特定模式”（specific pattern）小语言：
// 字面字符 + 通配符 * + 字段 <名字:正则>，编译为可在文件名任意位置命中的匹配器。
package pattern

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// FieldNameChars 是字段名允许的字符集。
const FieldNameChars = `A-Za-z0-9_-`

// 字段 token：<id:re>。id/re 允许为空以便给出 MalformedFieldToken，而不是静默当作字面量。
var fieldTokenRE = regexp.MustCompile(`<([` + FieldNameChars + `]*):([^>]*)>`)

// 通配符：除路径分隔符以外的任意字符序列。
var wildcardExpr = `[^` + regexp.QuoteMeta(string(filepath.Separator)) + `]*`

const (
	anyPrefix = `^.*`
	anySuffix = `.*$`
)

// Compiled 是编译后的特定模式。构建后不可变，可并发读。
type Compiled struct {
	source string
	re     *regexp.Regexp
	names  []string
	groups []int // names[i] 对应的子匹配下标
}

// Compile 把特定模式编译为匹配器。
//
// 扫描规则（从左到右）：
// - 字段 token 之前的文本逐字符复制：* 变为通配符，其余字符转义
// - 字段 token 变为命名捕获组，内部正则原样嵌入
// - 结果包裹为 ^.* + body + .*$（不要求整串锚定）
func Compile(pattern string) (*Compiled, error) {
	var body strings.Builder
	names := make([]string, 0, 4)
	seen := make(map[string]struct{}, 4)

	rest := pattern
	for rest != "" {
		loc := fieldTokenRE.FindStringSubmatchIndex(rest)
		if loc == nil {
			writeLiteral(&body, rest)
			break
		}

		writeLiteral(&body, rest[:loc[0]])

		token := rest[loc[0]:loc[1]]
		id := rest[loc[2]:loc[3]]
		inner := rest[loc[4]:loc[5]]
		if id == "" || inner == "" {
			return nil, &CompileError{Kind: MalformedFieldToken, Pattern: pattern, Token: token}
		}
		if _, dup := seen[id]; dup {
			return nil, &CompileError{Kind: DuplicateField, Pattern: pattern, Field: id}
		}
		seen[id] = struct{}{}

		// Go 的组名只允许 [A-Za-z0-9_]，字段名可能含 '-'，因此组名用下标生成，再映射回字段名。
		body.WriteString("(?P<" + groupName(len(names)) + ">" + inner + ")")
		names = append(names, id)

		rest = rest[loc[1]:]
	}

	re, err := regexp.Compile(anyPrefix + body.String() + anySuffix)
	if err != nil {
		return nil, &CompileError{Kind: InvalidInnerRegex, Pattern: pattern, Err: err}
	}

	groups := make([]int, len(names))
	for i := range names {
		groups[i] = re.SubexpIndex(groupName(i))
		if groups[i] < 0 {
			// 内部正则自带同名组时 SubexpIndex 可能失效；宁可报错也不要取错值。
			return nil, &CompileError{Kind: InvalidInnerRegex, Pattern: pattern, Err: fmt.Errorf("字段 %q 的捕获组无法定位", names[i])}
		}
	}

	return &Compiled{
		source: pattern,
		re:     re,
		names:  names,
		groups: groups,
	}, nil
}

// MustCompile 与 Compile 相同，失败时 panic。仅用于测试与常量模式。
func MustCompile(pattern string) *Compiled {
	c, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return c
}

func writeLiteral(b *strings.Builder, s string) {
	for _, r := range s {
		if r == '*' {
			b.WriteString(wildcardExpr)
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
}

func groupName(i int) string { return "frfield" + strconv.Itoa(i) }

// String 返回原始特定模式。
func (c *Compiled) String() string { return c.source }

// Expr 返回最终交给正则引擎的表达式（便于诊断）。
func (c *Compiled) Expr() string { return c.re.String() }

// Names 返回字段名（按出现顺序）。返回值为副本。
func (c *Compiled) Names() []string { return append([]string(nil), c.names...) }

// Match 只判断是否命中，不做字段提取。
func (c *Compiled) Match(name string) bool { return c.re.MatchString(name) }
