package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"resumehub/internal/database"
)

// Gorm 是由关系数据库支撑的持久化 Store 实现。
// 生产环境使用 PostgreSQL，测试中可换用 SQLite 内存库。
type Gorm struct {
	db *gorm.DB
}

// NewGorm 基于已初始化的 GORM 连接构造存储。
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

var _ Store = (*Gorm)(nil)

// GetUser 返回指定 ID 的用户。
func (g *Gorm) GetUser(ctx context.Context, id uint) (*database.User, error) {
	var user database.User
	if err := g.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

// GetUserByUsername 按用户名查找第一个匹配的用户。
func (g *Gorm) GetUserByUsername(ctx context.Context, username string) (*database.User, error) {
	var user database.User
	if err := g.db.WithContext(ctx).
		Where("username = ?", username).
		Order("id ASC").
		First(&user).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

// GetUserByEmail 按邮箱查找第一个匹配的用户。
func (g *Gorm) GetUserByEmail(ctx context.Context, email string) (*database.User, error) {
	var user database.User
	if err := g.db.WithContext(ctx).
		Where("email = ?", email).
		Order("id ASC").
		First(&user).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

// CreateUser 存储用户，planType 缺省为 free。
func (g *Gorm) CreateUser(ctx context.Context, user *database.User) error {
	if user.PlanType == "" {
		user.PlanType = defaultPlanType
	}
	if err := g.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetResume 返回指定 ID 的简历。
func (g *Gorm) GetResume(ctx context.Context, id uint) (*database.Resume, error) {
	var resume database.Resume
	if err := g.db.WithContext(ctx).First(&resume, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &resume, nil
}

// GetResumesByUserID 按插入顺序返回用户的全部简历。
func (g *Gorm) GetResumesByUserID(ctx context.Context, userID uint) ([]database.Resume, error) {
	resumes := make([]database.Resume, 0)
	if err := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	return resumes, nil
}

// CreateResume 写入时间戳并存储简历。
func (g *Gorm) CreateResume(ctx context.Context, resume *database.Resume) error {
	now := time.Now().UTC()
	resume.CreatedAt = now
	resume.UpdatedAt = now
	if err := g.db.WithContext(ctx).Create(resume).Error; err != nil {
		return fmt.Errorf("create resume: %w", err)
	}
	return nil
}

// UpdateResume 合并提供的字段并刷新 UpdatedAt。不存在的 ID 返回 ErrNotFound，
// 绝不会因更新而创建新行。
func (g *Gorm) UpdateResume(ctx context.Context, id uint, update ResumeUpdate) (*database.Resume, error) {
	var resume database.Resume
	if err := g.db.WithContext(ctx).First(&resume, id).Error; err != nil {
		return nil, translateErr(err)
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		updates["title"] = *update.Title
	}
	if update.Content != nil {
		updates["content"] = update.Content
	}
	if update.TemplateID != nil {
		updates["template_id"] = *update.TemplateID
	}

	if err := g.db.WithContext(ctx).Model(&resume).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update resume: %w", err)
	}
	if err := g.db.WithContext(ctx).First(&resume, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &resume, nil
}

// DeleteResume 删除简历并返回是否确实存在过该行。
func (g *Gorm) DeleteResume(ctx context.Context, id uint) (bool, error) {
	res := g.db.WithContext(ctx).Delete(&database.Resume{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete resume: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// GetCoverLetter 返回指定 ID 的求职信。
func (g *Gorm) GetCoverLetter(ctx context.Context, id uint) (*database.CoverLetter, error) {
	var letter database.CoverLetter
	if err := g.db.WithContext(ctx).First(&letter, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &letter, nil
}

// GetCoverLettersByUserID 按插入顺序返回用户的全部求职信。
func (g *Gorm) GetCoverLettersByUserID(ctx context.Context, userID uint) ([]database.CoverLetter, error) {
	letters := make([]database.CoverLetter, 0)
	if err := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&letters).Error; err != nil {
		return nil, fmt.Errorf("list cover letters: %w", err)
	}
	return letters, nil
}

// CreateCoverLetter 写入时间戳并存储求职信。
func (g *Gorm) CreateCoverLetter(ctx context.Context, letter *database.CoverLetter) error {
	now := time.Now().UTC()
	letter.CreatedAt = now
	letter.UpdatedAt = now
	if err := g.db.WithContext(ctx).Create(letter).Error; err != nil {
		return fmt.Errorf("create cover letter: %w", err)
	}
	return nil
}

// UpdateCoverLetter 合并提供的字段并刷新 UpdatedAt。
func (g *Gorm) UpdateCoverLetter(ctx context.Context, id uint, update CoverLetterUpdate) (*database.CoverLetter, error) {
	var letter database.CoverLetter
	if err := g.db.WithContext(ctx).First(&letter, id).Error; err != nil {
		return nil, translateErr(err)
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		updates["title"] = *update.Title
	}
	if update.Content != nil {
		updates["content"] = *update.Content
	}
	if update.JobDescription != nil {
		updates["job_description"] = *update.JobDescription
	}

	if err := g.db.WithContext(ctx).Model(&letter).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update cover letter: %w", err)
	}
	if err := g.db.WithContext(ctx).First(&letter, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &letter, nil
}

// DeleteCoverLetter 删除求职信并返回是否确实存在过该行。
func (g *Gorm) DeleteCoverLetter(ctx context.Context, id uint) (bool, error) {
	res := g.db.WithContext(ctx).Delete(&database.CoverLetter{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete cover letter: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// GetTemplate 返回指定 ID 的模板。
func (g *Gorm) GetTemplate(ctx context.Context, id uint) (*database.Template, error) {
	var template database.Template
	if err := g.db.WithContext(ctx).First(&template, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &template, nil
}

// GetAllTemplates 按插入顺序返回全部模板。
func (g *Gorm) GetAllTemplates(ctx context.Context) ([]database.Template, error) {
	templates := make([]database.Template, 0)
	if err := g.db.WithContext(ctx).
		Order("id ASC").
		Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

// GetTemplatesByPremiumStatus 返回 isPremium 等于 flag 的全部模板。
func (g *Gorm) GetTemplatesByPremiumStatus(ctx context.Context, isPremium bool) ([]database.Template, error) {
	templates := make([]database.Template, 0)
	if err := g.db.WithContext(ctx).
		Where("is_premium = ?", isPremium).
		Order("id ASC").
		Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("list templates by premium: %w", err)
	}
	return templates, nil
}

// CreateTemplate 存储模板。
func (g *Gorm) CreateTemplate(ctx context.Context, template *database.Template) error {
	if err := g.db.WithContext(ctx).Create(template).Error; err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

// GetResumeScore 返回指定 ID 的评分。
func (g *Gorm) GetResumeScore(ctx context.Context, id uint) (*database.ResumeScore, error) {
	var score database.ResumeScore
	if err := g.db.WithContext(ctx).First(&score, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &score, nil
}

// GetResumeScoreByResumeID 返回该简历最近一次的评分。
func (g *Gorm) GetResumeScoreByResumeID(ctx context.Context, resumeID uint) (*database.ResumeScore, error) {
	var score database.ResumeScore
	if err := g.db.WithContext(ctx).
		Where("resume_id = ?", resumeID).
		Order("id DESC").
		First(&score).Error; err != nil {
		return nil, translateErr(err)
	}
	return &score, nil
}

// CreateResumeScore 写入创建时间并存储评分。
func (g *Gorm) CreateResumeScore(ctx context.Context, score *database.ResumeScore) error {
	score.CreatedAt = time.Now().UTC()
	if err := g.db.WithContext(ctx).Create(score).Error; err != nil {
		return fmt.Errorf("create resume score: %w", err)
	}
	return nil
}

// GetResumeJdMatch 返回指定 ID 的匹配记录。
func (g *Gorm) GetResumeJdMatch(ctx context.Context, id uint) (*database.ResumeJdMatch, error) {
	var match database.ResumeJdMatch
	if err := g.db.WithContext(ctx).First(&match, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &match, nil
}

// GetResumeJdMatchesByResumeID 按插入顺序返回该简历的全部匹配历史。
func (g *Gorm) GetResumeJdMatchesByResumeID(ctx context.Context, resumeID uint) ([]database.ResumeJdMatch, error) {
	matches := make([]database.ResumeJdMatch, 0)
	if err := g.db.WithContext(ctx).
		Where("resume_id = ?", resumeID).
		Order("id ASC").
		Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("list jd matches: %w", err)
	}
	return matches, nil
}

// CreateResumeJdMatch 写入创建时间并存储匹配记录。
func (g *Gorm) CreateResumeJdMatch(ctx context.Context, match *database.ResumeJdMatch) error {
	match.CreatedAt = time.Now().UTC()
	if err := g.db.WithContext(ctx).Create(match).Error; err != nil {
		return fmt.Errorf("create jd match: %w", err)
	}
	return nil
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
