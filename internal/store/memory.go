package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"resumehub/internal/database"
)

// Memory 是基于 map 的易失性 Store 实现，适用于开发与测试。
// 所有状态由实例自身持有，ID 计数器按实体独立递增、进程内不复用。
type Memory struct {
	mu sync.RWMutex

	users           map[uint]database.User
	resumes         map[uint]database.Resume
	coverLetters    map[uint]database.CoverLetter
	templates       map[uint]database.Template
	resumeScores    map[uint]database.ResumeScore
	resumeJdMatches map[uint]database.ResumeJdMatch

	nextUserID          uint
	nextResumeID        uint
	nextCoverLetterID   uint
	nextTemplateID      uint
	nextResumeScoreID   uint
	nextResumeJdMatchID uint
}

// NewMemory 构造一个空的内存存储。
func NewMemory() *Memory {
	return &Memory{
		users:               map[uint]database.User{},
		resumes:             map[uint]database.Resume{},
		coverLetters:        map[uint]database.CoverLetter{},
		templates:           map[uint]database.Template{},
		resumeScores:        map[uint]database.ResumeScore{},
		resumeJdMatches:     map[uint]database.ResumeJdMatch{},
		nextUserID:          1,
		nextResumeID:        1,
		nextCoverLetterID:   1,
		nextTemplateID:      1,
		nextResumeScoreID:   1,
		nextResumeJdMatchID: 1,
	}
}

var _ Store = (*Memory)(nil)

// GetUser 返回指定 ID 的用户。
func (m *Memory) GetUser(_ context.Context, id uint) (*database.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

// GetUserByUsername 按用户名查找第一个匹配的用户。
func (m *Memory) GetUserByUsername(_ context.Context, username string) (*database.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range sortedKeys(m.users) {
		if u := m.users[id]; u.Username != nil && *u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// GetUserByEmail 按邮箱查找第一个匹配的用户。
func (m *Memory) GetUserByEmail(_ context.Context, email string) (*database.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range sortedKeys(m.users) {
		if m.users[id].Email == email {
			user := m.users[id]
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// CreateUser 分配新 ID 并存储用户，planType 缺省为 free。
func (m *Memory) CreateUser(_ context.Context, user *database.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user.ID = m.nextUserID
	m.nextUserID++
	if user.PlanType == "" {
		user.PlanType = defaultPlanType
	}
	m.users[user.ID] = *user
	return nil
}

// GetResume 返回指定 ID 的简历。
func (m *Memory) GetResume(_ context.Context, id uint) (*database.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resume, ok := m.resumes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &resume, nil
}

// GetResumesByUserID 按插入顺序返回用户的全部简历。
func (m *Memory) GetResumesByUserID(_ context.Context, userID uint) ([]database.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]database.Resume, 0)
	for _, id := range sortedKeys(m.resumes) {
		if m.resumes[id].UserID == userID {
			result = append(result, m.resumes[id])
		}
	}
	return result, nil
}

// CreateResume 分配新 ID、写入创建/更新时间戳并存储简历。
func (m *Memory) CreateResume(_ context.Context, resume *database.Resume) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	resume.ID = m.nextResumeID
	m.nextResumeID++
	now := time.Now().UTC()
	resume.CreatedAt = now
	resume.UpdatedAt = now
	m.resumes[resume.ID] = *resume
	return nil
}

// UpdateResume 合并提供的字段并刷新 UpdatedAt。
func (m *Memory) UpdateResume(_ context.Context, id uint, update ResumeUpdate) (*database.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	resume, ok := m.resumes[id]
	if !ok {
		return nil, ErrNotFound
	}

	if update.Title != nil {
		resume.Title = *update.Title
	}
	if update.Content != nil {
		resume.Content = update.Content
	}
	if update.TemplateID != nil {
		resume.TemplateID = *update.TemplateID
	}
	resume.UpdatedAt = time.Now().UTC()

	m.resumes[id] = resume
	return &resume, nil
}

// DeleteResume 删除简历并返回是否确实存在过该行。
func (m *Memory) DeleteResume(_ context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.resumes[id]; !ok {
		return false, nil
	}
	delete(m.resumes, id)
	return true, nil
}

// GetCoverLetter 返回指定 ID 的求职信。
func (m *Memory) GetCoverLetter(_ context.Context, id uint) (*database.CoverLetter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	letter, ok := m.coverLetters[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &letter, nil
}

// GetCoverLettersByUserID 按插入顺序返回用户的全部求职信。
func (m *Memory) GetCoverLettersByUserID(_ context.Context, userID uint) ([]database.CoverLetter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]database.CoverLetter, 0)
	for _, id := range sortedKeys(m.coverLetters) {
		if m.coverLetters[id].UserID == userID {
			result = append(result, m.coverLetters[id])
		}
	}
	return result, nil
}

// CreateCoverLetter 分配新 ID、写入时间戳并存储求职信。
func (m *Memory) CreateCoverLetter(_ context.Context, letter *database.CoverLetter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	letter.ID = m.nextCoverLetterID
	m.nextCoverLetterID++
	now := time.Now().UTC()
	letter.CreatedAt = now
	letter.UpdatedAt = now
	m.coverLetters[letter.ID] = *letter
	return nil
}

// UpdateCoverLetter 合并提供的字段并刷新 UpdatedAt。
func (m *Memory) UpdateCoverLetter(_ context.Context, id uint, update CoverLetterUpdate) (*database.CoverLetter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	letter, ok := m.coverLetters[id]
	if !ok {
		return nil, ErrNotFound
	}

	if update.Title != nil {
		letter.Title = *update.Title
	}
	if update.Content != nil {
		letter.Content = *update.Content
	}
	if update.JobDescription != nil {
		letter.JobDescription = update.JobDescription
	}
	letter.UpdatedAt = time.Now().UTC()

	m.coverLetters[id] = letter
	return &letter, nil
}

// DeleteCoverLetter 删除求职信并返回是否确实存在过该行。
func (m *Memory) DeleteCoverLetter(_ context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.coverLetters[id]; !ok {
		return false, nil
	}
	delete(m.coverLetters, id)
	return true, nil
}

// GetTemplate 返回指定 ID 的模板。
func (m *Memory) GetTemplate(_ context.Context, id uint) (*database.Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	template, ok := m.templates[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &template, nil
}

// GetAllTemplates 按插入顺序返回全部模板。
func (m *Memory) GetAllTemplates(_ context.Context) ([]database.Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]database.Template, 0, len(m.templates))
	for _, id := range sortedKeys(m.templates) {
		result = append(result, m.templates[id])
	}
	return result, nil
}

// GetTemplatesByPremiumStatus 返回 isPremium 等于 flag 的全部模板。
func (m *Memory) GetTemplatesByPremiumStatus(_ context.Context, isPremium bool) ([]database.Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]database.Template, 0)
	for _, id := range sortedKeys(m.templates) {
		if m.templates[id].IsPremium == isPremium {
			result = append(result, m.templates[id])
		}
	}
	return result, nil
}

// CreateTemplate 分配新 ID 并存储模板。
func (m *Memory) CreateTemplate(_ context.Context, template *database.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	template.ID = m.nextTemplateID
	m.nextTemplateID++
	m.templates[template.ID] = *template
	return nil
}

// GetResumeScore 返回指定 ID 的评分。
func (m *Memory) GetResumeScore(_ context.Context, id uint) (*database.ResumeScore, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	score, ok := m.resumeScores[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &score, nil
}

// GetResumeScoreByResumeID 返回该简历最近一次的评分。
func (m *Memory) GetResumeScoreByResumeID(_ context.Context, resumeID uint) (*database.ResumeScore, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *database.ResumeScore
	for _, id := range sortedKeys(m.resumeScores) {
		if m.resumeScores[id].ResumeID == resumeID {
			score := m.resumeScores[id]
			latest = &score
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

// CreateResumeScore 分配新 ID、写入创建时间并存储评分。
func (m *Memory) CreateResumeScore(_ context.Context, score *database.ResumeScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	score.ID = m.nextResumeScoreID
	m.nextResumeScoreID++
	score.CreatedAt = time.Now().UTC()
	m.resumeScores[score.ID] = *score
	return nil
}

// GetResumeJdMatch 返回指定 ID 的匹配记录。
func (m *Memory) GetResumeJdMatch(_ context.Context, id uint) (*database.ResumeJdMatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	match, ok := m.resumeJdMatches[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &match, nil
}

// GetResumeJdMatchesByResumeID 按插入顺序返回该简历的全部匹配历史。
func (m *Memory) GetResumeJdMatchesByResumeID(_ context.Context, resumeID uint) ([]database.ResumeJdMatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]database.ResumeJdMatch, 0)
	for _, id := range sortedKeys(m.resumeJdMatches) {
		if m.resumeJdMatches[id].ResumeID == resumeID {
			result = append(result, m.resumeJdMatches[id])
		}
	}
	return result, nil
}

// CreateResumeJdMatch 分配新 ID、写入创建时间并存储匹配记录。
func (m *Memory) CreateResumeJdMatch(_ context.Context, match *database.ResumeJdMatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	match.ID = m.nextResumeJdMatchID
	m.nextResumeJdMatchID++
	match.CreatedAt = time.Now().UTC()
	m.resumeJdMatches[match.ID] = *match
	return nil
}

// sortedKeys 返回升序排列的 map 键，ID 升序即插入顺序。
func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
