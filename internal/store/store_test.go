package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resumehub/internal/database"
)

var testDBSeq int64

func newGormStore(t *testing.T) Store {
	t.Helper()
	dsn := fmt.Sprintf("file:store_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewGorm(db)
}

// TestStoreContract 用同一组断言驱动两个实现，保证行为一致。
func TestStoreContract(t *testing.T) {
	impls := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemory() },
		"gorm":   newGormStore,
	}

	cases := map[string]func(t *testing.T, s Store){
		"Users":        testUsers,
		"ResumeCRUD":   testResumeCRUD,
		"CoverLetters": testCoverLetters,
		"Templates":    testTemplates,
		"ResumeScores": testResumeScores,
		"JdMatches":    testJdMatches,
		"IDAssignment": testIDAssignment,
	}

	for implName, newStore := range impls {
		t.Run(implName, func(t *testing.T) {
			for caseName, run := range cases {
				t.Run(caseName, func(t *testing.T) {
					run(t, newStore(t))
				})
			}
		})
	}
}

func testUsers(t *testing.T, s Store) {
	ctx := context.Background()

	u1 := "u1"
	first := &database.User{Username: &u1, Password: "hash1", Email: "u1@x.com"}
	if err := s.CreateUser(ctx, first); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if first.PlanType != "free" {
		t.Fatalf("expected default plan type free, got %q", first.PlanType)
	}

	// 未提供用户名的账号可以共存
	second := &database.User{Password: "hash2", Email: "u2@x.com", PlanType: "premium"}
	if err := s.CreateUser(ctx, second); err != nil {
		t.Fatalf("create second user: %v", err)
	}
	third := &database.User{Password: "hash3", Email: "u3@x.com"}
	if err := s.CreateUser(ctx, third); err != nil {
		t.Fatalf("create third user without username: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("expected increasing ids, got %d then %d", first.ID, second.ID)
	}
	if second.PlanType != "premium" {
		t.Fatalf("expected explicit plan type kept, got %q", second.PlanType)
	}

	got, err := s.GetUser(ctx, first.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Email != "u1@x.com" {
		t.Fatalf("unexpected email %q", got.Email)
	}

	byEmail, err := s.GetUserByEmail(ctx, "u2@x.com")
	if err != nil || byEmail.ID != second.ID {
		t.Fatalf("get by email: %v, %+v", err, byEmail)
	}
	byUsername, err := s.GetUserByUsername(ctx, "u1")
	if err != nil || byUsername.ID != first.ID {
		t.Fatalf("get by username: %v, %+v", err, byUsername)
	}

	if _, err := s.GetUser(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetUserByEmail(ctx, "nobody@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetUserByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testResumeCRUD(t *testing.T, s Store) {
	ctx := context.Background()
	content := []byte(`{"personalInfo":{"name":"Jane"},"summary":"engineer","skills":["go","sql"]}`)

	resume := &database.Resume{UserID: 1, Title: "R1", Content: content, TemplateID: "1"}
	if err := s.CreateResume(ctx, resume); err != nil {
		t.Fatalf("create resume: %v", err)
	}
	if resume.CreatedAt.IsZero() || resume.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps stamped on create")
	}
	if resume.UpdatedAt.Before(resume.CreatedAt) {
		t.Fatal("updatedAt must not precede createdAt")
	}

	// 往返：读回的 content 与写入的深度相等
	got, err := s.GetResume(ctx, resume.ID)
	if err != nil {
		t.Fatalf("get resume: %v", err)
	}
	if !bytes.Equal(got.Content, content) {
		t.Fatalf("content round trip mismatch: %s", got.Content)
	}

	// 部分更新只动提供的字段
	time.Sleep(5 * time.Millisecond)
	newTitle := "R1-edited"
	updated, err := s.UpdateResume(ctx, resume.ID, ResumeUpdate{Title: &newTitle})
	if err != nil {
		t.Fatalf("update resume: %v", err)
	}
	if updated.Title != "R1-edited" {
		t.Fatalf("title not updated: %q", updated.Title)
	}
	if !bytes.Equal(updated.Content, content) {
		t.Fatalf("content must survive partial update: %s", updated.Content)
	}
	if updated.TemplateID != "1" {
		t.Fatalf("templateId must survive partial update: %q", updated.TemplateID)
	}
	if !updated.UpdatedAt.After(resume.UpdatedAt) {
		t.Fatal("updatedAt must advance on update")
	}

	// 空的部分更新保持业务字段不变，但仍推进 updatedAt
	time.Sleep(5 * time.Millisecond)
	empty, err := s.UpdateResume(ctx, resume.ID, ResumeUpdate{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if empty.Title != "R1-edited" || !bytes.Equal(empty.Content, content) || empty.TemplateID != "1" {
		t.Fatal("empty update must not change business fields")
	}
	if !empty.UpdatedAt.After(updated.UpdatedAt) {
		t.Fatal("empty update must still advance updatedAt")
	}

	// 更新不存在的行不会创建新行
	if _, err := s.UpdateResume(ctx, 9999, ResumeUpdate{Title: &newTitle}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetResume(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update must not create rows, got %v", err)
	}

	deleted, err := s.DeleteResume(ctx, resume.ID)
	if err != nil || !deleted {
		t.Fatalf("delete existing: %v %v", deleted, err)
	}
	if _, err := s.GetResume(ctx, resume.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	deleted, err = s.DeleteResume(ctx, resume.ID)
	if err != nil || deleted {
		t.Fatalf("delete missing must report false, got %v %v", deleted, err)
	}

	// 按用户列出保持插入顺序，无匹配时为空列表
	for _, title := range []string{"a", "b", "c"} {
		r := &database.Resume{UserID: 7, Title: title, Content: content, TemplateID: "2"}
		if err := s.CreateResume(ctx, r); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	list, err := s.GetResumesByUserID(ctx, 7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Title != "a" || list[1].Title != "b" || list[2].Title != "c" {
		t.Fatalf("unexpected order: %+v", list)
	}
	emptyList, err := s.GetResumesByUserID(ctx, 404)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if emptyList == nil || len(emptyList) != 0 {
		t.Fatalf("expected empty list, got %+v", emptyList)
	}
}

func testCoverLetters(t *testing.T, s Store) {
	ctx := context.Background()

	jd := "We are hiring a senior backend engineer."
	letter := &database.CoverLetter{UserID: 3, Title: "CL1", Content: "Dear team,", JobDescription: &jd}
	if err := s.CreateCoverLetter(ctx, letter); err != nil {
		t.Fatalf("create cover letter: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	newContent := "Dear hiring manager,"
	updated, err := s.UpdateCoverLetter(ctx, letter.ID, CoverLetterUpdate{Content: &newContent})
	if err != nil {
		t.Fatalf("update cover letter: %v", err)
	}
	if updated.Content != newContent {
		t.Fatalf("content not updated: %q", updated.Content)
	}
	if updated.Title != "CL1" {
		t.Fatalf("title must survive partial update: %q", updated.Title)
	}
	if updated.JobDescription == nil || *updated.JobDescription != jd {
		t.Fatalf("jobDescription must survive partial update: %v", updated.JobDescription)
	}
	if !updated.UpdatedAt.After(letter.UpdatedAt) {
		t.Fatal("updatedAt must advance on update")
	}

	if _, err := s.UpdateCoverLetter(ctx, 9999, CoverLetterUpdate{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	deleted, err := s.DeleteCoverLetter(ctx, letter.ID)
	if err != nil || !deleted {
		t.Fatalf("delete existing: %v %v", deleted, err)
	}
	deleted, err = s.DeleteCoverLetter(ctx, letter.ID)
	if err != nil || deleted {
		t.Fatalf("delete missing must report false, got %v %v", deleted, err)
	}
}

func testTemplates(t *testing.T, s Store) {
	ctx := context.Background()

	if err := EnsureSeedTemplates(ctx, s); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// 再次执行必须是幂等的
	if err := EnsureSeedTemplates(ctx, s); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	all, err := s.GetAllTemplates(ctx)
	if err != nil {
		t.Fatalf("all templates: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(all))
	}
	wantNames := []string{"Modern Professional", "Creative Minimal", "Executive Classic"}
	wantPremium := []bool{false, true, true}
	for i, tpl := range all {
		if tpl.Name != wantNames[i] || tpl.IsPremium != wantPremium[i] {
			t.Fatalf("template %d mismatch: %+v", i, tpl)
		}
	}

	free, err := s.GetTemplatesByPremiumStatus(ctx, false)
	if err != nil || len(free) != 1 || free[0].Name != "Modern Professional" {
		t.Fatalf("free templates: %v %+v", err, free)
	}
	premium, err := s.GetTemplatesByPremiumStatus(ctx, true)
	if err != nil || len(premium) != 2 {
		t.Fatalf("premium templates: %v %+v", err, premium)
	}

	got, err := s.GetTemplate(ctx, all[0].ID)
	if err != nil || got.Name != "Modern Professional" {
		t.Fatalf("get template: %v %+v", err, got)
	}
	if _, err := s.GetTemplate(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testResumeScores(t *testing.T, s Store) {
	ctx := context.Background()
	feedback := []byte(`[{"category":"Content","score":5,"suggestions":["Use action verbs"]}]`)

	if _, err := s.GetResumeScoreByResumeID(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	first := &database.ResumeScore{ResumeID: 1, Score: 75, Feedback: feedback}
	if err := s.CreateResumeScore(ctx, first); err != nil {
		t.Fatalf("create score: %v", err)
	}
	second := &database.ResumeScore{ResumeID: 1, Score: 90, Feedback: feedback}
	if err := s.CreateResumeScore(ctx, second); err != nil {
		t.Fatalf("create second score: %v", err)
	}

	// 重新评分累积历史，按简历查询返回最近一次
	latest, err := s.GetResumeScoreByResumeID(ctx, 1)
	if err != nil {
		t.Fatalf("get by resume: %v", err)
	}
	if latest.ID != second.ID || latest.Score != 90 {
		t.Fatalf("expected latest score, got %+v", latest)
	}

	byID, err := s.GetResumeScore(ctx, first.ID)
	if err != nil || byID.Score != 75 {
		t.Fatalf("get by id: %v %+v", err, byID)
	}
}

func testJdMatches(t *testing.T, s Store) {
	ctx := context.Background()
	keywords := []byte(`["leadership","agile"]`)
	suggestions := []byte(`["Add more details about leadership experience"]`)

	for i, score := range []int{65, 80} {
		match := &database.ResumeJdMatch{
			ResumeID:        2,
			JobDescription:  fmt.Sprintf("posting %d", i),
			MatchScore:      score,
			MissingKeywords: keywords,
			Suggestions:     suggestions,
		}
		if err := s.CreateResumeJdMatch(ctx, match); err != nil {
			t.Fatalf("create match: %v", err)
		}
	}

	matches, err := s.GetResumeJdMatchesByResumeID(ctx, 2)
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(matches) != 2 || matches[0].MatchScore != 65 || matches[1].MatchScore != 80 {
		t.Fatalf("unexpected matches: %+v", matches)
	}

	none, err := s.GetResumeJdMatchesByResumeID(ctx, 404)
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty list, got %v %+v", err, none)
	}

	byID, err := s.GetResumeJdMatch(ctx, matches[0].ID)
	if err != nil || byID.MatchScore != 65 {
		t.Fatalf("get by id: %v %+v", err, byID)
	}
	if _, err := s.GetResumeJdMatch(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testIDAssignment(t *testing.T, s Store) {
	ctx := context.Background()
	content := []byte(`{}`)

	ids := make([]uint, 0, 3)
	for i := 0; i < 3; i++ {
		r := &database.Resume{UserID: 1, Title: fmt.Sprintf("r%d", i), Content: content, TemplateID: "1"}
		if err := s.CreateResume(ctx, r); err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, r.ID)
	}
	if !(ids[0] < ids[1] && ids[1] < ids[2]) {
		t.Fatalf("ids must be strictly increasing: %v", ids)
	}

	// 删除中间一行后，新 ID 不会与存活行冲突
	if _, err := s.DeleteResume(ctx, ids[1]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	r := &database.Resume{UserID: 1, Title: "after-delete", Content: content, TemplateID: "1"}
	if err := s.CreateResume(ctx, r); err != nil {
		t.Fatalf("create after delete: %v", err)
	}
	if r.ID == ids[0] || r.ID == ids[2] {
		t.Fatalf("new id %d collides with live rows %v", r.ID, ids)
	}
}
