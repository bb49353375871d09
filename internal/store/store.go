// Package store 定义所有实体的持久化契约。
//
// 契约有两个可互换的实现：基于内存 map 的 Memory 与基于 GORM 的 Gorm。
// 对调用方而言两者的行为必须完全一致，这一等价性由共享的契约测试保证。
package store

import (
	"context"
	"errors"

	"gorm.io/datatypes"

	"resumehub/internal/database"
)

// ErrNotFound 表示目标行不存在。查询缺失的行不会返回其他错误。
var ErrNotFound = errors.New("store: not found")

// ResumeUpdate 描述对简历的部分更新。nil 字段保持原值不变。
type ResumeUpdate struct {
	Title      *string
	Content    datatypes.JSON
	TemplateID *string
}

// CoverLetterUpdate 描述对求职信的部分更新。nil 字段保持原值不变。
type CoverLetterUpdate struct {
	Title          *string
	Content        *string
	JobDescription *string
}

// Store 是全部实体持久化的唯一入口。
//
// 约定：
//   - Create 为实体分配严格递增、进程内不复用的 ID，填充时间戳后原地写回；
//   - Update 只合并提供的字段并刷新 UpdatedAt，绝不因更新而创建新行；
//   - Delete 返回是否真的删除了一行；
//   - 按父键查询返回按插入顺序排列的列表，无匹配时为空列表而非 ErrNotFound。
type Store interface {
	// 用户
	GetUser(ctx context.Context, id uint) (*database.User, error)
	GetUserByUsername(ctx context.Context, username string) (*database.User, error)
	GetUserByEmail(ctx context.Context, email string) (*database.User, error)
	CreateUser(ctx context.Context, user *database.User) error

	// 简历
	GetResume(ctx context.Context, id uint) (*database.Resume, error)
	GetResumesByUserID(ctx context.Context, userID uint) ([]database.Resume, error)
	CreateResume(ctx context.Context, resume *database.Resume) error
	UpdateResume(ctx context.Context, id uint, update ResumeUpdate) (*database.Resume, error)
	DeleteResume(ctx context.Context, id uint) (bool, error)

	// 求职信
	GetCoverLetter(ctx context.Context, id uint) (*database.CoverLetter, error)
	GetCoverLettersByUserID(ctx context.Context, userID uint) ([]database.CoverLetter, error)
	CreateCoverLetter(ctx context.Context, letter *database.CoverLetter) error
	UpdateCoverLetter(ctx context.Context, id uint, update CoverLetterUpdate) (*database.CoverLetter, error)
	DeleteCoverLetter(ctx context.Context, id uint) (bool, error)

	// 模板
	GetTemplate(ctx context.Context, id uint) (*database.Template, error)
	GetAllTemplates(ctx context.Context) ([]database.Template, error)
	GetTemplatesByPremiumStatus(ctx context.Context, isPremium bool) ([]database.Template, error)
	CreateTemplate(ctx context.Context, template *database.Template) error

	// 简历评分
	GetResumeScore(ctx context.Context, id uint) (*database.ResumeScore, error)
	GetResumeScoreByResumeID(ctx context.Context, resumeID uint) (*database.ResumeScore, error)
	CreateResumeScore(ctx context.Context, score *database.ResumeScore) error

	// 职位匹配
	GetResumeJdMatch(ctx context.Context, id uint) (*database.ResumeJdMatch, error)
	GetResumeJdMatchesByResumeID(ctx context.Context, resumeID uint) ([]database.ResumeJdMatch, error)
	CreateResumeJdMatch(ctx context.Context, match *database.ResumeJdMatch) error
}

const defaultPlanType = "free"
