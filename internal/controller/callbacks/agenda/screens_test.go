package agenda

import (
	"testing"

	"github.com/melodia/agenda_bot/internal/model"
	"github.com/melodia/agenda_bot/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestViewerCriteriaForcesOwnLessons(t *testing.T) {
	stored := service.FilterCriteria{TeacherID: 99, Status: model.LessonStatusScheduled}

	teacher := &model.User{ID: 10, Role: model.RoleTeacher}
	criteria := ViewerCriteria(teacher, stored)
	// Выбранный фильтр по чужому преподавателю перекрывается своим ID
	assert.Equal(t, int64(10), criteria.TeacherID)
	assert.Equal(t, model.LessonStatusScheduled, criteria.Status)

	student := &model.User{ID: 20, Role: model.RoleStudent}
	criteria = ViewerCriteria(student, service.FilterCriteria{})
	assert.Equal(t, int64(20), criteria.StudentID)
	assert.Zero(t, criteria.TeacherID)
}

func TestViewerCriteriaStaffUnrestricted(t *testing.T) {
	stored := service.FilterCriteria{TeacherID: 10, StudentID: 20}

	for _, role := range []model.Role{model.RoleAdmin, model.RoleSecretary} {
		viewer := &model.User{ID: 1, Role: role}
		criteria := ViewerCriteria(viewer, stored)
		assert.Equal(t, stored, criteria, "role %s must keep chosen filters", role)
	}
}
