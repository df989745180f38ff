package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionPackParse(t *testing.T) {
	topicID := uint(7)
	courseID := uint(42)

	tests := []struct {
		name   string
		action Action
		packed string
	}{
		{
			name:   "только действие",
			action: Action{Name: ActionShowMainMenu},
			packed: "nav:show_main_menu:::0:0",
		},
		{
			name:   "тема и страница",
			action: Action{Name: ActionCourses, TopicID: &topicID, Page: 2},
			packed: "nav:courses:7::2:0",
		},
		{
			name:   "курс",
			action: Action{Name: ActionCourse, CourseID: &courseID, Page: 1},
			packed: "nav:course::42:1:0",
		},
		{
			name:   "акция",
			action: Action{Name: ActionShowPromotionDetails, PromotionID: 3},
			packed: "nav:show_promotion_details:::0:3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.packed, tt.action.Pack())

			parsed, err := ParseAction(tt.packed)
			require.NoError(t, err)
			assert.Equal(t, tt.action, parsed)
		})
	}
}

func TestParseActionRejectsMalformedData(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"пустая строка", ""},
		{"чужой префикс", "pay:course::1:0:0"},
		{"мало полей", "nav:courses:1"},
		{"неизвестное действие", "nav:launch_rocket:::0:0"},
		{"нечисловая тема", "nav:courses:abc::0:0"},
		{"нечисловая страница", "nav:courses:1::abc:0"},
		{"отрицательный id", "nav:course::-5:0:0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAction(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestParseActionEveryKeyboardButtonRoundTrips(t *testing.T) {
	// Все callback-данные, которые собирают клавиатуры, должны разбираться
	id := uint(1)
	actions := []Action{
		{Name: ActionTopics},
		{Name: ActionCatalog},
		{Name: ActionPromotions},
		{Name: ActionReviews},
		{Name: ActionAboutProject},
		{Name: ActionSupport},
		{Name: ActionShowTopicDetails, TopicID: &id},
		{Name: ActionPrevPageTopics, Page: 1},
		{Name: ActionNextPageTopics, Page: 2},
		{Name: ActionPrevPageCourses, TopicID: &id, Page: 0},
		{Name: ActionNextPageCourses, TopicID: &id, Page: 1},
		{Name: ActionPayment, CourseID: &id},
		{Name: ActionMainMenu},
	}

	for _, action := range actions {
		parsed, err := ParseAction(action.Pack())
		require.NoError(t, err, "action %s", action.Name)
		assert.Equal(t, action, parsed)
	}
}
