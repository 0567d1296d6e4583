package entity

import (
	"time"
)

// Question представляет вопрос викторины. Варианты ответов хранятся отдельными
// записями Option; правильность определяется исключительно флагом is_correct —
// ядро оценки её не выводит заново, а только читает.
type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	QuizID    uint      `gorm:"not null;index" json:"quiz_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Options   []Option  `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// Option представляет вариант ответа на вопрос
type Option struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	Text       string    `gorm:"size:255;not null" json:"text"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"-"` // Скрыто от клиента
	CreatedAt  time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Option) TableName() string {
	return "options"
}

// HasOption проверяет, принадлежит ли вариант ответа этому вопросу
func (q *Question) HasOption(optionID uint) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

// CorrectOptionID возвращает ID правильного варианта ответа.
// Инвариант авторского контура: у каждого вопроса ≥2 вариантов и хотя бы один правильный.
func (q *Question) CorrectOptionID() (uint, bool) {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt.ID, true
		}
	}
	return 0, false
}

// IsCorrectOption проверяет, является ли выбранный вариант правильным
func (q *Question) IsCorrectOption(optionID uint) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return opt.IsCorrect
		}
	}
	return false
}

// OptionsCount возвращает количество вариантов ответа
func (q *Question) OptionsCount() int {
	return len(q.Options)
}
