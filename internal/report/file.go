package report

import (
	"encoding/json"
	"path/filepath"

	"github.com/John-Robertt/fr/internal/domain"
	"github.com/John-Robertt/fr/internal/infra/fsx"
)

// WriteJSONFile 把 RunReport 以缩进 JSON 原子写入 path（覆盖）。
func WriteJSONFile(path string, rr domain.RunReport) error {
	b, err := json.MarshalIndent(rr, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return fsx.WriteFileAtomic(filepath.Dir(path), filepath.Base(path), b)
}

// WriteHTMLFile 把 RunReport 渲染为 HTML 并原子写入 path（覆盖）。
func WriteHTMLFile(path string, rr domain.RunReport) error {
	b, err := RenderHTML(rr)
	if err != nil {
		return err
	}
	return fsx.WriteFileAtomic(filepath.Dir(path), filepath.Base(path), b)
}
