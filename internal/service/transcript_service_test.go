package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"campus-portal/backend/internal/model"
	"campus-portal/backend/internal/repository"
)

func transcriptFixture() *repository.Repository {
	termAt := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	oldAt := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	newAt := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	return repoWith(func(r *repository.Repository) {
		r.Transcript = &mockTranscriptRepo{
			terms: []model.TranscriptTerm{
				{StudentID: "S2025001", Term: "2024-2", GPA: 3.4, UpdatedAt: termAt},
				{StudentID: "S2025001", Term: "2025-1", GPA: 3.8, UpdatedAt: termAt},
			},
			courses: []model.TranscriptCourse{
				{StudentID: "S2025001", Term: "2024-2", CourseID: "CS101", Name: "程序设计", Score: 88, UpdatedAt: oldAt},
				{StudentID: "S2025001", Term: "2025-1", CourseID: "MA201", Name: "线性代数", Score: 92, UpdatedAt: newAt},
			},
		}
	})
}

func TestTranscripts_FullFetch(t *testing.T) {
	svc := NewTranscriptService(transcriptFixture(), zap.NewNop())

	resp, err := svc.GetTranscripts(context.Background(), "S2025001", []string{"2024-2", "2025-1"}, nil)
	if err != nil {
		t.Fatalf("GetTranscripts 应成功: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("全量应返回 2 个学期, got %d", len(resp.Items))
	}
	if resp.Since != nil {
		t.Fatalf("全量响应 since 应为 nil, got %v", *resp.Since)
	}
}

func TestTranscripts_SinceOmitsUnchangedTerms(t *testing.T) {
	svc := NewTranscriptService(transcriptFixture(), zap.NewNop())

	// 2024-2 的科目都在 since 之前，应整项省略
	since := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	resp, err := svc.GetTranscripts(context.Background(), "S2025001", []string{"2024-2", "2025-1"}, &since)
	if err != nil {
		t.Fatalf("GetTranscripts 应成功: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Term != "2025-1" {
		t.Fatalf("无变化学期应省略, got %+v", resp.Items)
	}
	if len(resp.Items[0].Courses) != 1 || resp.Items[0].Courses[0].CourseID != "MA201" {
		t.Fatalf("应只含变化的科目, got %+v", resp.Items[0].Courses)
	}
	if resp.Since == nil {
		t.Fatal("增量响应应回显 since")
	}
}

func TestTranscripts_ItemWatermarkIsMaxCourse(t *testing.T) {
	svc := NewTranscriptService(transcriptFixture(), zap.NewNop())

	resp, err := svc.GetTranscripts(context.Background(), "S2025001", []string{"2025-1"}, nil)
	if err != nil {
		t.Fatalf("GetTranscripts 应成功: %v", err)
	}

	want := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	if !resp.Items[0].UpdatedAt.Equal(want) {
		t.Fatalf("学期水位线应为科目最大 updatedAt %v, got %v", want, resp.Items[0].UpdatedAt)
	}
}

func TestTranscripts_UnknownTermSkipped(t *testing.T) {
	svc := NewTranscriptService(transcriptFixture(), zap.NewNop())

	resp, err := svc.GetTranscripts(context.Background(), "S2025001", []string{"1999-1"}, nil)
	if err != nil {
		t.Fatalf("未知学期不应报错: %v", err)
	}
	if len(resp.Items) != 0 {
		t.Fatalf("未知学期应返回空列表, got %+v", resp.Items)
	}
}
