package entity

import (
	"time"
)

// DefaultTimeLimitSec — лимит времени прохождения по умолчанию (10 минут)
const DefaultTimeLimitSec = 600

// Quiz представляет викторину. Для ядра попыток контент доступен только на чтение:
// создание и публикация принадлежат административному контуру.
type Quiz struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"size:100;not null" json:"title"`
	Description  string     `gorm:"type:text;not null;default:''" json:"description"`
	TimeLimitSec int        `gorm:"not null;default:600" json:"time_limit_sec"`
	CreatedBy    uint       `gorm:"not null;index" json:"created_by"`
	IsPublished  bool       `gorm:"not null;default:false;index" json:"is_published"`
	ChapterID    *uint      `gorm:"index" json:"chapter_id,omitempty"`
	Questions    []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Quiz) TableName() string {
	return "quizzes"
}

// EffectiveTimeLimit возвращает лимит времени с подстановкой умолчания.
// Снимок этого значения фиксируется в попытке на момент старта.
func (q *Quiz) EffectiveTimeLimit() int {
	if q.TimeLimitSec <= 0 {
		return DefaultTimeLimitSec
	}
	return q.TimeLimitSec
}
