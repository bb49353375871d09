package database

import (
	"time"

	"gorm.io/datatypes"
)

// User 表示系统中的账号信息。
// Password 存放 bcrypt 哈希，序列化时永远不会出现在响应里。
// Username 可以为空，唯一索引只约束非空值。
type User struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Username  *string `gorm:"uniqueIndex;size:64" json:"username"`
	Password  string  `gorm:"size:255" json:"-"`
	Email     string  `gorm:"uniqueIndex;size:255" json:"email"`
	FirstName *string `gorm:"size:64" json:"firstName"`
	LastName  *string `gorm:"size:64" json:"lastName"`
	PlanType  string  `gorm:"size:32;default:free" json:"planType"`
}

// Resume 表示用户创建的简历。
// Content 为结构化 JSON 文档；TemplateID 是模板的字符串引用，不做外键约束。
type Resume struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"index" json:"userId"`
	Title      string         `gorm:"size:255" json:"title"`
	Content    datatypes.JSON `gorm:"type:jsonb" json:"content"`
	TemplateID string         `gorm:"size:64" json:"templateId"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// CoverLetter 表示求职信，生命周期与 Resume 一致。
type CoverLetter struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"index" json:"userId"`
	Title          string    `gorm:"size:255" json:"title"`
	Content        string    `gorm:"type:text" json:"content"`
	JobDescription *string   `gorm:"type:text" json:"jobDescription"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Template 表示内置简历模板，启动时种子写入，应用内只读。
type Template struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:255" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	PreviewImage *string        `gorm:"size:512" json:"previewImage"`
	Structure    datatypes.JSON `gorm:"type:jsonb" json:"structure"`
	IsPremium    bool           `gorm:"default:false" json:"isPremium"`
}

// ResumeScore 表示一次简历评分结果。
// 重新评分会插入新行，历史记录会累积。
type ResumeScore struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ResumeID  uint           `gorm:"index" json:"resumeId"`
	Score     int            `json:"score"`
	Feedback  datatypes.JSON `gorm:"type:jsonb" json:"feedback"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ResumeJdMatch 表示简历与职位描述的一次匹配分析，按简历累积历史。
type ResumeJdMatch struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	ResumeID        uint           `gorm:"index" json:"resumeId"`
	JobDescription  string         `gorm:"type:text" json:"jobDescription"`
	MatchScore      int            `json:"matchScore"`
	MissingKeywords datatypes.JSON `gorm:"type:jsonb" json:"missingKeywords"`
	Suggestions     datatypes.JSON `gorm:"type:jsonb" json:"suggestions"`
	CreatedAt       time.Time      `json:"createdAt"`
}
