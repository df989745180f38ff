package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// Имена действий навигации. Каждой инлайн-кнопке соответствует одно действие.
const (
	ActionShowMainMenu         = "show_main_menu"
	ActionMainMenu             = "main_menu"
	ActionAboutProject         = "about_project"
	ActionPromotions           = "promotions"
	ActionShowPromotionDetails = "show_promotion_details"
	ActionReviews              = "reviews"
	ActionSupport              = "support"
	ActionCatalog              = "catalog"
	ActionTopics               = "topics"
	ActionShowTopicDetails     = "show_topic_details"
	ActionPrevPageTopics       = "prev_page_topics"
	ActionNextPageTopics       = "next_page_topics"
	ActionCourses              = "courses"
	ActionPrevPageCourses      = "prev_page_courses"
	ActionNextPageCourses      = "next_page_courses"
	ActionCourse               = "course"
	ActionPayment              = "payment"
)

// callbackPrefix открывает каждую строку callback-данных навигации.
const callbackPrefix = "nav"

var knownActions = map[string]bool{
	ActionShowMainMenu:         true,
	ActionMainMenu:             true,
	ActionAboutProject:         true,
	ActionPromotions:           true,
	ActionShowPromotionDetails: true,
	ActionReviews:              true,
	ActionSupport:              true,
	ActionCatalog:              true,
	ActionTopics:               true,
	ActionShowTopicDetails:     true,
	ActionPrevPageTopics:       true,
	ActionNextPageTopics:       true,
	ActionCourses:              true,
	ActionPrevPageCourses:      true,
	ActionNextPageCourses:      true,
	ActionCourse:               true,
	ActionPayment:              true,
}

// Action описывает разобранные callback-данные навигации.
// Отсутствующие идентификаторы равны nil.
type Action struct {
	Name        string
	TopicID     *uint
	CourseID    *uint
	Page        int
	PromotionID uint
}

// Pack сериализует действие в строку callback-данных вида
// "nav:<action>:<topic>:<course>:<page>:<promo>". Пустые поля остаются пустыми.
func (a Action) Pack() string {
	parts := []string{
		callbackPrefix,
		a.Name,
		packID(a.TopicID),
		packID(a.CourseID),
		strconv.Itoa(a.Page),
		strconv.FormatUint(uint64(a.PromotionID), 10),
	}
	return strings.Join(parts, ":")
}

// ParseAction разбирает строку callback-данных навигации
func ParseAction(data string) (Action, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 6 || parts[0] != callbackPrefix {
		return Action{}, fmt.Errorf("malformed callback data: %q", data)
	}
	if !knownActions[parts[1]] {
		return Action{}, fmt.Errorf("unknown action: %q", parts[1])
	}

	action := Action{Name: parts[1]}

	var err error
	if action.TopicID, err = parseID(parts[2]); err != nil {
		return Action{}, fmt.Errorf("bad topic id in %q: %w", data, err)
	}
	if action.CourseID, err = parseID(parts[3]); err != nil {
		return Action{}, fmt.Errorf("bad course id in %q: %w", data, err)
	}
	if parts[4] != "" {
		if action.Page, err = strconv.Atoi(parts[4]); err != nil {
			return Action{}, fmt.Errorf("bad page in %q: %w", data, err)
		}
	}
	if parts[5] != "" {
		promoID, err := strconv.ParseUint(parts[5], 10, 32)
		if err != nil {
			return Action{}, fmt.Errorf("bad promotion id in %q: %w", data, err)
		}
		action.PromotionID = uint(promoID)
	}

	return action, nil
}

func packID(id *uint) string {
	if id == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*id), 10)
}

func parseID(s string) (*uint, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil, err
	}
	id := uint(v)
	return &id, nil
}
