package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-portal/backend/internal/dto"
	"campus-portal/backend/internal/model"
	"campus-portal/backend/internal/repository"
)

// TranscriptService 成绩单业务接口
type TranscriptService interface {
	// GetTranscripts 查询多个学期的成绩单
	//
	// since 非 nil 时每学期仅含 updated_at 严格大于 since 的科目，
	// 无变化的学期整项省略；学期 UpdatedAt 为学期行与返回科目的最大值。
	GetTranscripts(ctx context.Context, studentID string, terms []string, since *time.Time) (*dto.TranscriptsResponse, error)
}

type transcriptService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTranscriptService 创建 TranscriptService 实例
func NewTranscriptService(repo *repository.Repository, logger *zap.Logger) TranscriptService {
	return &transcriptService{repo: repo, logger: logger}
}

func (s *transcriptService) GetTranscripts(ctx context.Context, studentID string, terms []string, since *time.Time) (*dto.TranscriptsResponse, error) {
	items := make([]dto.TranscriptTermResponse, 0, len(terms))

	for _, term := range terms {
		termRow, err := s.repo.Transcript.GetTerm(ctx, studentID, term)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // 未开课学期直接跳过
			}
			s.logger.Error("查询学期成绩失败", zap.String("term", term), zap.Error(err))
			return nil, err
		}

		var courses []model.TranscriptCourse
		if since == nil {
			courses, err = s.repo.Transcript.ListCourses(ctx, studentID, term)
		} else {
			courses, err = s.repo.Transcript.ListCoursesUpdatedSince(ctx, studentID, term, *since)
		}
		if err != nil {
			s.logger.Error("查询科目成绩失败", zap.String("term", term), zap.Error(err))
			return nil, err
		}

		// 增量模式下无变化的学期不进入结果
		if since != nil && len(courses) == 0 {
			continue
		}

		item := dto.TranscriptTermResponse{
			Term:      term,
			GPA:       termRow.GPA,
			UpdatedAt: termRow.UpdatedAt,
			Courses:   make([]dto.TranscriptCourseResponse, 0, len(courses)),
		}
		for i := range courses {
			if courses[i].UpdatedAt.After(item.UpdatedAt) {
				item.UpdatedAt = courses[i].UpdatedAt
			}
			item.Courses = append(item.Courses, dto.NewTranscriptCourseResponse(&courses[i]))
		}
		items = append(items, item)
	}

	var echo *string
	if since != nil {
		v := since.UTC().Format(time.RFC3339)
		echo = &v
	}

	return &dto.TranscriptsResponse{Items: items, Since: echo}, nil
}
