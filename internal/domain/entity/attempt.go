package entity

import (
	"time"
)

// Attempt представляет одно прохождение викторины пользователем.
//
// Машина состояний пары (user, quiz): NONE → OPEN → COMPLETED.
// Инварианты:
//   - не более одной открытой попытки (completed_at IS NULL) на пару (user_id, quiz_id) —
//     обеспечивается partial unique index idx_attempts_single_open;
//   - score устанавливается тогда и только тогда, когда устанавливается completed_at
//     (атомарно, одним UPDATE);
//   - после установки completed_at попытка неизменяема.
type Attempt struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	QuizID       uint       `gorm:"not null;index" json:"quiz_id"`
	TimeLimitSec int        `gorm:"not null;default:600" json:"time_limit_sec"` // Снимок лимита на момент старта
	Score        *float64   `gorm:"type:double precision" json:"score,omitempty"`
	StartedAt    time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt  *time.Time `gorm:"index" json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Attempt) TableName() string {
	return "user_quiz_attempts"
}

// IsCompleted проверяет, завершена ли попытка
func (a *Attempt) IsCompleted() bool {
	return a.CompletedAt != nil
}

// Deadline возвращает момент, после которого попытка считается просроченной.
// Лимит берётся из снимка на момент старта: последующее редактирование викторины
// не влияет на уже идущие попытки.
func (a *Attempt) Deadline() time.Time {
	return a.StartedAt.Add(time.Duration(a.TimeLimitSec) * time.Second)
}

// IsExpired проверяет, истёк ли дедлайн попытки с учётом допуска grace.
// Допуск поглощает сетевые задержки клиента на финальной отправке.
func (a *Attempt) IsExpired(now time.Time, grace time.Duration) bool {
	return now.After(a.Deadline().Add(grace))
}

// UserAnswer представляет ответ пользователя на вопрос внутри попытки.
// На пару (attempt_id, question_id) существует не более одной записи:
// повторная отправка ответа на тот же вопрос заменяет предыдущую (last write wins).
type UserAnswer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AttemptID  uint      `gorm:"not null;index;uniqueIndex:idx_answers_attempt_question" json:"attempt_id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_answers_attempt_question" json:"question_id"`
	OptionID   uint      `gorm:"not null" json:"option_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (UserAnswer) TableName() string {
	return "user_answers"
}
