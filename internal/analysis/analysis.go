// Package analysis 提供简历评分与职位匹配的策略接口。
//
// 路由层只依赖 Engine，占位实现可以在不改动任何 handler 的前提下
// 被真正的分析服务替换。
package analysis

import (
	"context"
	"math/rand/v2"

	"resumehub/internal/database"
)

// CategoryFeedback 是评分反馈中的一个类别。
type CategoryFeedback struct {
	Category    string   `json:"category"`
	Score       int      `json:"score"`
	Suggestions []string `json:"suggestions"`
}

// ScoreResult 是一次简历评分的产出。
type ScoreResult struct {
	Score    int
	Feedback []CategoryFeedback
}

// MatchResult 是一次简历与职位描述匹配的产出。
type MatchResult struct {
	MatchScore      int
	MissingKeywords []string
	Suggestions     []string
}

// Engine 产出评分与匹配结果。
type Engine interface {
	ScoreResume(ctx context.Context, resume *database.Resume) (*ScoreResult, error)
	MatchJobDescription(ctx context.Context, resume *database.Resume, jobDescription string) (*MatchResult, error)
}

// RandomEngine 是占位实现：分数为伪随机数，建议为固定文案。
// 它不读取简历内容，只模拟真实分析服务的输出形状。
type RandomEngine struct{}

// NewRandomEngine 构造占位引擎。
func NewRandomEngine() *RandomEngine {
	return &RandomEngine{}
}

var _ Engine = (*RandomEngine)(nil)

// ScoreResume 生成 70–100 的总分和三个类别（各 1–10 分）的固定建议。
func (e *RandomEngine) ScoreResume(_ context.Context, _ *database.Resume) (*ScoreResult, error) {
	return &ScoreResult{
		Score: rand.IntN(31) + 70,
		Feedback: []CategoryFeedback{
			{
				Category:    "Content",
				Score:       rand.IntN(10) + 1,
				Suggestions: []string{"Add more quantifiable achievements", "Use action verbs"},
			},
			{
				Category:    "Format",
				Score:       rand.IntN(10) + 1,
				Suggestions: []string{"Improve spacing", "Use consistent formatting"},
			},
			{
				Category:    "Keywords",
				Score:       rand.IntN(10) + 1,
				Suggestions: []string{"Add industry-specific keywords", "Include technical skills"},
			},
		},
	}, nil
}

// MatchJobDescription 生成 60–100 的匹配分与固定的缺失关键词、建议列表。
func (e *RandomEngine) MatchJobDescription(_ context.Context, _ *database.Resume, _ string) (*MatchResult, error) {
	return &MatchResult{
		MatchScore:      rand.IntN(41) + 60,
		MissingKeywords: []string{"leadership", "project management", "agile", "teamwork"},
		Suggestions: []string{
			"Add more details about leadership experience",
			"Highlight project management methodologies",
			"Include examples of agile development",
			"Emphasize teamwork achievements",
		},
	}, nil
}
