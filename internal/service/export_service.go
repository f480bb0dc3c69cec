package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"campus-portal/backend/internal/repository"
)

// ExportService 课表 / 成绩单导出业务接口
type ExportService interface {
	// TranscriptXLSX 导出成绩单为 Excel，每个学期一张工作表
	TranscriptXLSX(ctx context.Context, studentID string, terms []string) (*bytes.Buffer, error)
	// ScheduleICS 导出某学期课表为 iCalendar，每条课程按周重复
	ScheduleICS(ctx context.Context, term string) ([]byte, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

func (s *exportService) TranscriptXLSX(ctx context.Context, studentID string, terms []string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headers := []string{"课程代码", "课程名称", "学分", "成绩", "等第", "名次"}
	wroteSheet := false

	for _, term := range terms {
		courses, err := s.repo.Transcript.ListCourses(ctx, studentID, term)
		if err != nil {
			s.logger.Error("查询科目成绩失败", zap.String("term", term), zap.Error(err))
			return nil, err
		}
		if len(courses) == 0 {
			continue
		}

		sheet := term
		if !wroteSheet {
			// 重命名默认工作表
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, err
			}
			wroteSheet = true
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, err
			}
		}

		for col, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return nil, err
			}
		}

		for row, c := range courses {
			values := []interface{}{c.CourseID, c.Name, c.Credit, c.Score, c.Grade}
			if c.Rank != nil {
				values = append(values, *c.Rank)
			} else {
				values = append(values, "")
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, err
				}
			}
		}
	}

	if !wroteSheet {
		// 无数据时仍返回含表头的空表
		for col, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue("Sheet1", cell, h); err != nil {
				return nil, err
			}
		}
	}

	return f.WriteToBuffer()
}

// periodTimes 节次 → 上课时间（时、分），一节课 50 分钟
var periodTimes = map[int][2]int{
	1:  {8, 10},
	2:  {9, 10},
	3:  {10, 10},
	4:  {11, 10},
	5:  {13, 10},
	6:  {14, 10},
	7:  {15, 10},
	8:  {16, 10},
	9:  {17, 10},
	10: {18, 10},
}

func (s *exportService) ScheduleICS(ctx context.Context, term string) ([]byte, error) {
	if term == "" {
		return nil, ErrTermRequired
	}

	entries, err := s.repo.Schedule.ListByTerm(ctx, term)
	if err != nil {
		s.logger.Error("查询课表失败", zap.String("term", term), zap.Error(err))
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	// 以本周一为锚点展开每周重复事件
	now := s.now()
	monday := now.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, now.Location())

	for i := range entries {
		e := &entries[i]
		start, ok := periodTimes[e.Period]
		if !ok {
			continue
		}

		day := monday.AddDate(0, 0, e.Weekday-1)
		startAt := time.Date(day.Year(), day.Month(), day.Day(), start[0], start[1], 0, 0, day.Location())
		endAt := startAt.Add(50 * time.Minute)

		uid := fmt.Sprintf("%s-%d-%d-%s@campus-portal", term, e.Weekday, e.Period, e.CourseID)
		event := cal.AddEvent(uid)
		event.SetSummary(e.CourseID)
		event.SetStartAt(startAt)
		event.SetEndAt(endAt)
		if e.Room != "" {
			event.SetLocation(e.Room)
		}
		if e.Teacher != "" {
			event.SetDescription("授课教师: " + e.Teacher)
		}
		event.AddRrule("FREQ=WEEKLY")
	}

	return []byte(cal.Serialize()), nil
}
