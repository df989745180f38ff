package models

import (
	"time"
)

// Ключи пунктов меню. Навигация бота опирается на них по имени,
// поэтому ключи должны оставаться стабильными.
const (
	MenuKeyAboutProject = "about_project"
	MenuKeyPromotions   = "promotions"
	MenuKeyReviews      = "reviews"
	MenuKeySupport      = "support"
	MenuKeyCatalog      = "catalog"
)

// User представляет пользователя бота. Создается при первом /start,
// никогда не удаляется.
type User struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	TelegramID       int64     `json:"telegram_id" gorm:"uniqueIndex;not null"`
	Username         string    `json:"username"`
	RegistrationDate time.Time `json:"registration_date" gorm:"not null"`

	// Связи
	Purchases []Purchase `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Topic представляет тему (категорию) курсов. Поддерживается двухуровневое
// дерево через ParentID.
type Topic struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"uniqueIndex;not null"`
	ParentID  *uint  `json:"parent_id" gorm:"index"`
	ImagePath string `json:"image_path"`

	// Связи
	Children []Topic  `json:"-" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Courses  []Course `json:"-" gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE"`
}

// Course представляет курс внутри темы.
type Course struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	TopicID     uint    `json:"topic_id" gorm:"index;not null"`
	Name        string  `json:"name" gorm:"not null"`
	Description string  `json:"description"`
	Price       float64 `json:"price" gorm:"not null;check:price >= 0"`
	PaymentLink string  `json:"payment_link"`
	ImagePath   string  `json:"image_path"`

	// Связи
	Purchases []Purchase `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

// Purchase представляет покупку курса пользователем. Запись только
// добавляется; уникальность пары (user, course) намеренно не объявлена.
type Purchase struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	CourseID     uint      `json:"course_id" gorm:"index;not null"`
	PurchaseDate time.Time `json:"purchase_date" gorm:"not null"`
	Amount       float64   `json:"amount" gorm:"not null"`
}

// MenuItem представляет статический информационный блок меню,
// редактируемый в админке и отображаемый ботом по ключу.
type MenuItem struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Key       string `json:"key" gorm:"uniqueIndex;not null"`
	Title     string `json:"title" gorm:"not null"`
	Content   string `json:"content" gorm:"not null"`
	ImagePath string `json:"image_path"`
	URLLink   string `json:"url_link" gorm:"default:''"`
}

// Promotion представляет маркетинговую акцию со ссылкой на внешний курс.
// Флаги IsPeriodEnabled/IsPriceEnabled управляют только отображением
// соответствующих полей.
type Promotion struct {
	ID              uint     `json:"id" gorm:"primaryKey"`
	Name            string   `json:"name" gorm:"not null"`
	Description     string   `json:"description"`
	CourseLink      string   `json:"course_link" gorm:"not null"`
	DiscountedPrice *float64 `json:"discounted_price"`
	StartDate       *string  `json:"start_date" gorm:"index"`
	EndDate         *string  `json:"end_date" gorm:"index"`
	ImagePath       string   `json:"image_path"`
	IsPeriodEnabled bool     `json:"is_period_enabled"`
	IsPriceEnabled  bool     `json:"is_price_enabled"`
}
