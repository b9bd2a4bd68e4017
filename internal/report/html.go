package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/fr/internal/domain"
)

// 骨架只包含结构；所有用户数据都通过 SetText 写入（由 goquery/x/net/html 负责转义）。
const htmlSkeleton = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title></title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
td.status-renamed { color: #2a7a2a; }
td.status-failed { color: #b22222; }
td.status-planned { color: #555; }
</style>
</head>
<body>
<h1></h1>
<dl id="meta"></dl>
<ul id="warnings"></ul>
<table id="items">
<thead><tr><th>#</th><th>source</th><th>old</th><th>new</th><th>status</th><th>error</th></tr></thead>
<tbody></tbody>
</table>
<p id="summary"></p>
</body>
</html>`

const rowSkeleton = `<tr><td class="idx"></td><td class="source"></td><td class="old"></td><td class="new"></td><td class="status"></td><td class="error"></td></tr>`

// RenderHTML 把 RunReport 渲染为一个独立的 HTML 页面。
func RenderHTML(rr domain.RunReport) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSkeleton))
	if err != nil {
		return nil, err
	}

	title := "fr " + mode(rr)
	doc.Find("title").SetText(title)
	doc.Find("h1").SetText(title)

	meta := doc.Find("#meta")
	for _, kv := range [][2]string{
		{"run_id", rr.RunID},
		{"dir", rr.Dir},
		{"source_pattern", rr.SourcePattern},
		{"destination_pattern", rr.DestinationPattern},
		{"salt", rr.Salt},
		{"started_at", rr.StartedAt.Format("2006-01-02T15:04:05Z07:00")},
	} {
		meta.AppendHtml("<dt></dt><dd></dd>")
		meta.Find("dt").Last().SetText(kv[0])
		meta.Find("dd").Last().SetText(kv[1])
	}

	warnings := doc.Find("#warnings")
	if len(rr.Warnings) == 0 {
		warnings.Remove()
	}
	for _, w := range rr.Warnings {
		warnings.AppendHtml("<li></li>")
		warnings.Find("li").Last().SetText(w)
	}

	tbody := doc.Find("#items tbody")
	for i, it := range rr.Items {
		tbody.AppendHtml(rowSkeleton)
		row := tbody.Find("tr").Last()
		row.SetAttr("data-status", it.Status)
		row.Find("td.idx").SetText(strconv.Itoa(i + 1))
		row.Find("td.source").SetText(it.Source)
		row.Find("td.old").SetText(it.Old)
		row.Find("td.new").SetText(it.New)
		row.Find("td.status").SetText(it.Status).AddClass("status-" + it.Status)
		errText := it.ErrorCode
		if it.ErrorMsg != "" {
			errText += ": " + it.ErrorMsg
		}
		if len(it.Candidates) > 0 {
			errText += " [" + strings.Join(it.Candidates, ", ") + "]"
		}
		row.Find("td.error").SetText(errText)
	}

	s := rr.Summary
	doc.Find("#summary").SetText(fmt.Sprintf(
		"pairs=%d unchanged=%d planned=%d attempted=%d renamed=%d failed=%d unpaired_sources=%d unpaired_destinations=%d",
		s.Pairs, s.Unchanged, s.Planned, s.Attempted, s.Renamed, s.Failed, s.UnpairedSources, s.UnpairedDestinations,
	))

	out, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func mode(rr domain.RunReport) string {
	switch {
	case rr.DryRun:
		return "dry-run"
	case rr.Declined:
		return "declined"
	default:
		return "apply"
	}
}
