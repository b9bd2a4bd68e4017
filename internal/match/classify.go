// Package match 负责把目录条目分为源/目标候选，并按共享字段把两者配对。
package match

import "github.com/John-Robertt/fr/internal/pattern"

// Candidate 是一个已分类的文件名及其字段（只提取一次）。
type Candidate struct {
	Name   string
	Fields pattern.Fields
}

// Classify 按列表顺序把条目分为源候选与目标候选。
//
// 优先级固定：先试源模式，命中即为源（不再试目标模式）；两者都不命中的条目丢弃。
func Classify(entries []string, src, dst *pattern.Compiled) (sources, dests []Candidate) {
	sources = make([]Candidate, 0, len(entries))
	dests = make([]Candidate, 0, len(entries))
	for _, name := range entries {
		if f, ok := src.Extract(name); ok {
			sources = append(sources, Candidate{Name: name, Fields: f})
			continue
		}
		if f, ok := dst.Extract(name); ok {
			dests = append(dests, Candidate{Name: name, Fields: f})
		}
	}
	return sources, dests
}
