package generate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kotomap/kotomap/pkg/catalog"
)

// systemPrompt renders the backend-independent instruction text for a domain
// catalog: the domain description, the closed kind vocabulary and the output
// contract. The contract is stated firmly but treated as advisory; the
// sanitizer enforces it for real.
func systemPrompt(cat *catalog.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "あなたは「%s」についての知識グラフを広げるアシスタントです。\n", cat.Prompt)
	b.WriteString("与えられたフォーカスノードに直接関連する項目を最大3件提案してください。\n\n")

	b.WriteString("ノードの kind は次のいずれかに限ります:\n")
	for _, k := range cat.Kinds {
		if k.ID == catalog.KindRoot {
			continue
		}
		fmt.Fprintf(&b, "  - %s (%s)\n", k.ID, k.Label)
	}

	b.WriteString(`
出力は次の形の JSON オブジェクトのみとします:
{"nodes": [{"id": "...", "label": "...", "kind": "..."}],
 "edges": [{"source": "<フォーカスのid>", "target": "<ノードのid>", "label": "..."}]}

ラベルと関係の説明は日本語で書いてください。固有名詞はそのままで構いません。
existingElementIds に含まれる id は使わないでください。
`)
	return b.String()
}

// userPrompt renders the per-request message: the request itself as JSON.
func userPrompt(req Request) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	return string(data), nil
}
