package mutation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopromptix/autopromptix/analyzer"
)

func names(vs []Variant) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Name
	}
	return out
}

func TestGenerateDirections(t *testing.T) {
	tests := []struct {
		direction string
		want      []string
	}{
		{"structure", []string{"base", "structure"}},
		{"professional", []string{"base", "professional"}},
		{"specific", []string{"base", "specific"}},
		{"persuasive", []string{"base", "persuasive"}},
		{"actionable", []string{"base", "actionable"}},
		{"구조화", []string{"base", "structure"}},
		{"전문성", []string{"base", "professional"}},
		{"구체성", []string{"base", "specific"}},
		{"설득력 (투자자 대상)", []string{"base", "persuasive"}},
		{"실행성", []string{"base", "actionable"}},
		// single branch: structure outranks the persuasion marker
		{"investor report", []string{"base", "structure"}},
		{"something else", []string{"base", "tone", "format"}},
		{"", []string{"base", "tone", "format"}},
	}

	g := &Generator{}
	for _, tt := range tests {
		t.Run(tt.direction, func(t *testing.T) {
			vs := g.Generate("BASE", analyzer.Result{Direction: tt.direction, Instructions: "do it"}, nil)
			assert.Equal(t, tt.want, names(vs))
		})
	}
}

func TestGenerateAlwaysTwoVariantsBaseFirst(t *testing.T) {
	g := &Generator{Language: "ko"}
	for _, dir := range []string{"structure", "unknown", "", "실행", "customer"} {
		vs := g.Generate("BASE", analyzer.Result{Direction: dir}, nil)
		require.GreaterOrEqual(t, len(vs), 2, dir)
		assert.Equal(t, "base", vs[0].Name)
		assert.Equal(t, "BASE", vs[0].Instruction)
		assert.Equal(t, Base, vs[0].Category)
	}
}

func TestGenerateCustom(t *testing.T) {
	g := &Generator{}
	vs := g.Generate("BASE", analyzer.Result{Direction: "specific", Instructions: "add numbers"}, []string{"mention pricing", "keep it short"})

	require.Equal(t, []string{"base", "custom", "specific"}, names(vs))
	assert.Equal(t, "BASE\n\nCaller requirements:\n- mention pricing\n- keep it short", vs[1].Instruction)
	assert.Equal(t, Custom, vs[1].Category)
	assert.Equal(t, "BASE\n\nYour answer must include these elements:\nadd numbers", vs[2].Instruction)
}

func TestGenerateCustomSuppressesFallbacks(t *testing.T) {
	g := &Generator{Language: "ko"}
	vs := g.Generate("BASE", analyzer.Result{Direction: "none"}, []string{"짧게"})
	require.Equal(t, []string{"base", "custom"}, names(vs))
	assert.Equal(t, "BASE\n\n사용자 요구사항:\n- 짧게", vs[1].Instruction)
}

func TestGenerateFallbackBlocks(t *testing.T) {
	vs := (&Generator{Language: "ko"}).Generate("BASE", analyzer.Result{}, nil)
	require.Len(t, vs, 3)
	assert.True(t, strings.HasPrefix(vs[1].Instruction, "BASE\n\n답변은 반드시 다음 형식으로 작성해라:\n1. "))
	assert.Contains(t, vs[2].Instruction, "- 부록: [참고 자료나 추가 정보]")
}

func TestGenerateEmptyInstructions(t *testing.T) {
	vs := (&Generator{}).Generate("BASE", analyzer.Result{Direction: "actionable"}, nil)
	require.Len(t, vs, 2)
	assert.Equal(t, "BASE\n\nYour answer must be presented in this form:\ninclude concrete content", vs[1].Instruction)
}

func TestGenerateExtraUniqueNames(t *testing.T) {
	g := &Generator{Extra: []Variant{
		{Name: "base", Instruction: "dup of base"},
		{Name: "short", Instruction: "be short"},
		{Name: "short", Instruction: "second short"},
		{Name: "", Instruction: "nameless"},
	}}
	vs := g.Generate("BASE", analyzer.Result{Direction: "specific"}, nil)

	require.Equal(t, []string{"base", "specific", "short"}, names(vs))
	assert.Equal(t, "be short", vs[2].Instruction)
	assert.Equal(t, Caller, vs[2].Category)
	assert.Equal(t, "BASE", vs[0].Instruction)
}

func TestBaseInstruction(t *testing.T) {
	assert.Equal(t,
		"사용자 요청: 앱 소개\n\n기대 결과: 세 문단\n\n위 요청에 맞는 구체적이고 실용적인 답변을 작성해라.",
		BaseInstruction("ko", "앱 소개", "세 문단"))
	assert.True(t, strings.HasPrefix(BaseInstruction("xx", "a", "b"), "User request: a\n\nExpected result: b"))
}

func TestCategoryText(t *testing.T) {
	b, err := json.Marshal(Variant{Name: "tone", Category: Tone})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"tone","category":"tone","instruction":""}`, string(b))

	var c Category
	require.NoError(t, c.UnmarshalText([]byte("Persuasive")))
	assert.Equal(t, Persuasive, c)
	assert.Error(t, c.UnmarshalText([]byte("nope")))
	assert.Equal(t, "Category(42)", Category(42).String())
}

func TestDemoBoosts(t *testing.T) {
	boosts := DemoBoosts()
	assert.Equal(t, 0.4, boosts[Custom])
	assert.Equal(t, 0.35, boosts[Format])
	_, hasBase := boosts[Base]
	assert.False(t, hasBase)
	assert.Len(t, boosts, 8)
}
