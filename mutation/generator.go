// Package mutation expands a base instruction into the variants evaluated in
// one optimization round.
package mutation

import (
	"fmt"
	"strings"

	"github.com/autopromptix/autopromptix/analyzer"
)

// Variant is one candidate instruction.
type Variant struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Instruction string   `json:"instruction"`
}

var baseTemplates = map[string]string{
	"en": "User request: %s\n\nExpected result: %s\n\nWrite a concrete and practical answer that fits the request above.",
	"ko": "사용자 요청: %s\n\n기대 결과: %s\n\n위 요청에 맞는 구체적이고 실용적인 답변을 작성해라.",
}

var fallbackInstructions = map[string]string{
	"en": "include concrete content",
	"ko": "구체적인 내용을 포함하여 작성",
}

// BaseInstruction renders the unmodified instruction for a request.
func BaseInstruction(language, userInput, expectedOutput string) string {
	tmpl, ok := baseTemplates[language]
	if !ok {
		tmpl = baseTemplates["en"]
	}
	return fmt.Sprintf(tmpl, userInput, expectedOutput)
}

// Generator builds the variant list. The zero value generates English
// variants with no caller extras.
type Generator struct {
	Language string
	// Extra variants are appended after the generated ones. Entries whose
	// name is already taken are dropped.
	Extra []Variant
}

// Generate returns base first, then custom when requirements are given, then
// at most one direction variant. If only base would be returned, the fixed
// tone and format variants are added.
func (g *Generator) Generate(base string, analysis analyzer.Result, custom []string) []Variant {
	variants := []Variant{{Name: Base.String(), Category: Base, Instruction: base}}

	if len(custom) > 0 {
		variants = append(variants, g.variant(Custom, base, bulletList(custom)))
	}

	if c, ok := ForDirection(analysis.Direction); ok {
		instructions := analysis.Instructions
		if strings.TrimSpace(instructions) == "" {
			instructions = g.lookup(fallbackInstructions)
		}
		variants = append(variants, g.variant(c, base, instructions))
	}

	if len(variants) == 1 {
		variants = append(variants,
			Variant{Name: Tone.String(), Category: Tone, Instruction: base + "\n\n" + Tone.header(g.Language)},
			Variant{Name: Format.String(), Category: Format, Instruction: base + "\n\n" + Format.header(g.Language)},
		)
	}

	taken := make(map[string]bool, len(variants)+len(g.Extra))
	for _, v := range variants {
		taken[v.Name] = true
	}
	for _, v := range g.Extra {
		if v.Name == "" || taken[v.Name] {
			continue
		}
		taken[v.Name] = true
		v.Category = Caller
		variants = append(variants, v)
	}
	return variants
}

func (g *Generator) variant(c Category, base, body string) Variant {
	return Variant{
		Name:        c.String(),
		Category:    c,
		Instruction: base + "\n\n" + c.header(g.Language) + "\n" + body,
	}
}

func (g *Generator) lookup(texts map[string]string) string {
	if text, ok := texts[g.Language]; ok {
		return text
	}
	return texts["en"]
}

func bulletList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}
