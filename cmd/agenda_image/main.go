package main

import (
	"fmt"
	"os"
	"time"

	"github.com/melodia/agenda_bot/internal/controller/callbacks/common"
	"github.com/melodia/agenda_bot/internal/model"
	"github.com/melodia/agenda_bot/internal/service"
)

func main() {
	// Начинаем с понедельника текущей недели
	now := time.Now()
	startDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for startDate.Weekday() != time.Monday {
		startDate = startDate.AddDate(0, 0, -1)
	}

	courses := map[int64]*model.Course{
		1: {ID: 1, Name: "Фортепиано", Color: "#8b5cf6"},
		2: {ID: 2, Name: "Вокал", Color: "#ec4899"},
		3: {ID: 3, Name: "Гитара", Color: "#10b981"},
	}

	// Тестовые занятия на неделю
	lessons := []*model.Lesson{
		{
			ID: 1, CourseID: 1, StudentID: 1, TeacherID: 10,
			StartTime: startDate.Add(9 * time.Hour),
			EndTime:   startDate.Add(10 * time.Hour),
			Room:      "Зал 1",
			Status:    model.LessonStatusScheduled,
		},
		{
			ID: 2, CourseID: 2, StudentID: 2, TeacherID: 11,
			StartTime: startDate.Add(14 * time.Hour),
			EndTime:   startDate.Add(15*time.Hour + 30*time.Minute),
			Room:      "Зал 2",
			Status:    model.LessonStatusInProgress,
		},
		{
			ID: 3, CourseID: 3, StudentID: 3, TeacherID: 10,
			StartTime: startDate.AddDate(0, 0, 1).Add(10 * time.Hour),
			EndTime:   startDate.AddDate(0, 0, 1).Add(11 * time.Hour),
			Room:      "Зал 1",
			Status:    model.LessonStatusCanceled,
		},
		{
			ID: 4, CourseID: 1, StudentID: 4, TeacherID: 12,
			StartTime: startDate.AddDate(0, 0, 2).Add(16 * time.Hour),
			EndTime:   startDate.AddDate(0, 0, 2).Add(17 * time.Hour),
			Room:      "Зал 3",
			Status:    model.LessonStatusCompleted,
		},
		{
			ID: 5, CourseID: 2, StudentID: 5, TeacherID: 11,
			StartTime: startDate.AddDate(0, 0, 4).Add(11 * time.Hour),
			EndTime:   startDate.AddDate(0, 0, 4).Add(12 * time.Hour),
			Room:      "Зал 2",
			Status:    model.LessonStatusScheduled,
		},
	}

	events := service.ProjectLessons(lessons, courses)

	image, err := common.GenerateAgendaImage(startDate, events, os.Getenv("AGENDA_FONT_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "render failed: %v\n", err)
		os.Exit(1)
	}

	outPath := "agenda_week.png"
	if err := os.WriteFile(outPath, image, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Картинка недели сохранена в %s (%d событий)\n", outPath, len(events))
}
