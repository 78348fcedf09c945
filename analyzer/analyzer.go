// Package analyzer picks the improvement direction for a user request.
package analyzer

import (
	"context"
	"fmt"

	"github.com/autopromptix/autopromptix/extract"
	"github.com/autopromptix/autopromptix/oracle"
	"github.com/autopromptix/autopromptix/utils"
)

// Directions the oracle is asked to choose from.
const (
	DirectionStructure    = "structure"
	DirectionProfessional = "professional"
	DirectionSpecific     = "specific"
	DirectionPersuasive   = "persuasive"
	DirectionActionable   = "actionable"
)

// Result is the analysis of one request. Direction is free text as returned
// by the oracle; the mutation generator maps it onto a category.
type Result struct {
	Direction    string `json:"direction" jsonschema:"description=One of structure professional specific persuasive or actionable" validate:"required"`
	Instructions string `json:"instructions" jsonschema:"description=Concrete instructions for improving the answer in that direction"`
}

var resultSchema = extract.Schema(&Result{})

var defaults = map[string]Result{
	"en": {Direction: DirectionSpecific, Instructions: "include concrete figures and examples"},
	"ko": {Direction: DirectionSpecific, Instructions: "구체적인 수치와 예시를 포함하여 작성"},
}

// Default is the analysis used whenever the oracle reply is unusable.
func Default(language string) Result {
	if r, ok := defaults[language]; ok {
		return r
	}
	return defaults["en"]
}

type Analyzer struct {
	oracle   oracle.Oracle
	language string
	logger   utils.Logger
}

type Option func(*Analyzer)

func WithLogger(logger utils.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithLanguage selects the prompt and default language ("en" or "ko").
func WithLanguage(language string) Option {
	return func(a *Analyzer) {
		a.language = language
	}
}

func New(o oracle.Oracle, opts ...Option) *Analyzer {
	a := &Analyzer{
		oracle:   o,
		language: "en",
		logger:   utils.NewLogger(utils.LogLevelWarn),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze makes exactly one oracle call. It never fails: oracle errors and
// unusable replies yield Default.
func (a *Analyzer) Analyze(ctx context.Context, userInput string) Result {
	reply, err := a.oracle.Complete(ctx, a.prompt(userInput), a.requestLabel())
	if err != nil {
		a.logger.Warn("Input analysis failed, using default direction", "error", err)
		return Default(a.language)
	}

	res, err := extract.DecodeOr(reply, Default(a.language))
	if err != nil {
		a.logger.Warn("Analysis reply unusable, using default direction", "error", err)
		a.logger.Debug("Unusable analysis reply", "reply", reply)
		return res
	}
	a.logger.Debug("Input analyzed", "direction", res.Direction)
	return res
}

func (a *Analyzer) requestLabel() string {
	if a.language == "ko" {
		return "분석 요청"
	}
	return "Analyze the request."
}

func (a *Analyzer) prompt(userInput string) string {
	if a.language == "ko" {
		return fmt.Sprintf(`다음 사용자 요청을 분석하여 가장 적합한 프롬프트 개선 방향을 제시해라:

사용자 요청: %s

다음 중 가장 적합한 방향을 선택하고 구체적인 지시사항을 작성해라:
1. 구조화 (문서, 계획서, 보고서 등)
2. 전문성 (전문 용어, 데이터, 분석 등)
3. 구체성 (수치, 예시, 단계별 설명 등)
4. 설득력 (투자자, 고객 대상 등)
5. 실행성 (실행 가능한 액션 플랜 등)

선택한 방향과 구체적 지시사항을 다음 스키마의 JSON 객체 하나로만 응답해라:
%s`, userInput, resultSchema)
	}

	return fmt.Sprintf(`Analyze the following user request and propose the most suitable direction for improving the prompt.

User request: %s

Choose the single best direction and write concrete instructions for it:
1. structure (documents, plans, reports)
2. professional (domain terminology, data, analysis)
3. specific (figures, examples, step-by-step explanations)
4. persuasive (aimed at investors or customers)
5. actionable (an executable action plan)

Reply with a single JSON object matching this schema, without markdown:
%s`, userInput, resultSchema)
}
