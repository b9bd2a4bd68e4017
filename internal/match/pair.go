package match

import "github.com/John-Robertt/fr/internal/domain"

// Result 是一次配对的完整结果。
type Result struct {
	Pairs     []domain.Pair
	Ambiguous []domain.Ambiguous

	UnpairedSources      []string
	UnpairedDestinations []string
}

// Pairer 是可替换的配对策略。
type Pairer interface {
	Pair(sources, dests []Candidate, shared []string) Result
}

// NewPairer 根据是否严格模式返回对应策略。
func NewPairer(strict bool) Pairer {
	if strict {
		return Strict{}
	}
	return FirstFit{}
}

// FirstFit 是贪心、依赖列表顺序的配对：
// 按顺序遍历源；对每个源，取剩余目标中第一个所有共享字段都相等的目标，配对后把它移出剩余集合。
// 找不到目标的源直接跳过。结果不保证全局最优。
type FirstFit struct{}

func (FirstFit) Pair(sources, dests []Candidate, shared []string) Result {
	remaining := append([]Candidate(nil), dests...)
	res := Result{Pairs: make([]domain.Pair, 0, len(sources))}

	for _, s := range sources {
		hit := -1
		for i := range remaining {
			if FieldsEqual(s, remaining[i], shared) {
				hit = i
				break
			}
		}
		if hit < 0 {
			res.UnpairedSources = append(res.UnpairedSources, s.Name)
			continue
		}
		res.Pairs = append(res.Pairs, domain.Pair{Source: s.Name, Destination: remaining[hit].Name})
		remaining = append(remaining[:hit], remaining[hit+1:]...)
	}

	res.UnpairedDestinations = names(remaining)
	return res
}

// Strict 要求共享字段在剩余目标中唯一确定一个目标：
// 命中多个目标的源记为 ambiguous 且不配对（宁可不改，也不要改错），目标保留给后续源。
type Strict struct{}

func (Strict) Pair(sources, dests []Candidate, shared []string) Result {
	remaining := append([]Candidate(nil), dests...)
	res := Result{Pairs: make([]domain.Pair, 0, len(sources))}

	for _, s := range sources {
		var hits []int
		for i := range remaining {
			if FieldsEqual(s, remaining[i], shared) {
				hits = append(hits, i)
			}
		}
		switch len(hits) {
		case 0:
			res.UnpairedSources = append(res.UnpairedSources, s.Name)
		case 1:
			hit := hits[0]
			res.Pairs = append(res.Pairs, domain.Pair{Source: s.Name, Destination: remaining[hit].Name})
			remaining = append(remaining[:hit], remaining[hit+1:]...)
		default:
			cands := make([]string, 0, len(hits))
			for _, i := range hits {
				cands = append(cands, remaining[i].Name)
			}
			res.Ambiguous = append(res.Ambiguous, domain.Ambiguous{Source: s.Name, Candidates: cands})
		}
	}

	res.UnpairedDestinations = names(remaining)
	return res
}

func names(cs []Candidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}
