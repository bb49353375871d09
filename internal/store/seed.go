package store

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"resumehub/internal/database"
)

// seedTemplates 返回三套内置模板。每次调用返回新副本，避免共享可变状态。
func seedTemplates() []database.Template {
	return []database.Template{
		{
			Name:         "Modern Professional",
			Description:  "A clean, modern design suitable for most industries.",
			PreviewImage: strPtr("modern_professional.svg"),
			Structure:    sectionsJSON("header", "summary", "experience", "education", "skills"),
			IsPremium:    false,
		},
		{
			Name:         "Creative Minimal",
			Description:  "Perfect for creative industries and design roles.",
			PreviewImage: strPtr("creative_minimal.svg"),
			Structure:    sectionsJSON("header", "portfolio", "experience", "skills", "education"),
			IsPremium:    true,
		},
		{
			Name:         "Executive Classic",
			Description:  "Traditional design perfect for executive and management roles.",
			PreviewImage: strPtr("executive_classic.svg"),
			Structure:    sectionsJSON("header", "summary", "experience", "achievements", "education", "skills"),
			IsPremium:    true,
		},
	}
}

// EnsureSeedTemplates 在模板表为空时写入内置模板，已存在任何模板则跳过。
// 先查后插，没有事务保护；并发的首次启动可能重复写入，单实例部署下可接受。
func EnsureSeedTemplates(ctx context.Context, s Store) error {
	existing, err := s.GetAllTemplates(ctx)
	if err != nil {
		return fmt.Errorf("count templates: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	templates := seedTemplates()
	for i := range templates {
		if err := s.CreateTemplate(ctx, &templates[i]); err != nil {
			return fmt.Errorf("seed template %q: %w", templates[i].Name, err)
		}
	}
	return nil
}

func sectionsJSON(sections ...string) datatypes.JSON {
	data, err := json.Marshal(map[string][]string{"sections": sections})
	if err != nil {
		return datatypes.JSON([]byte(`{}`))
	}
	return datatypes.JSON(data)
}

func strPtr(s string) *string { return &s }
