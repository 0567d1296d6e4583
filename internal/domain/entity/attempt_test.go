package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttempt_Deadline(t *testing.T) {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	attempt := Attempt{TimeLimitSec: 600, StartedAt: started}

	assert.Equal(t, started.Add(10*time.Minute), attempt.Deadline())
}

func TestAttempt_IsExpired(t *testing.T) {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	attempt := Attempt{TimeLimitSec: 600, StartedAt: started}
	grace := 5 * time.Second

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"в середине попытки", started.Add(5 * time.Minute), false},
		{"ровно на дедлайне", started.Add(10 * time.Minute), false},
		{"внутри допуска", started.Add(10*time.Minute + 3*time.Second), false},
		{"сразу за допуском", started.Add(10*time.Minute + 6*time.Second), true},
		{"давно просрочена", started.Add(time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, attempt.IsExpired(tt.now, grace))
		})
	}
}

func TestAttempt_IsCompleted(t *testing.T) {
	open := Attempt{}
	assert.False(t, open.IsCompleted())

	now := time.Now()
	closed := Attempt{CompletedAt: &now}
	assert.True(t, closed.IsCompleted())
}

func TestQuiz_EffectiveTimeLimit(t *testing.T) {
	assert.Equal(t, 300, (&Quiz{TimeLimitSec: 300}).EffectiveTimeLimit())
	assert.Equal(t, DefaultTimeLimitSec, (&Quiz{TimeLimitSec: 0}).EffectiveTimeLimit())
	assert.Equal(t, DefaultTimeLimitSec, (&Quiz{TimeLimitSec: -1}).EffectiveTimeLimit())
}

func TestQuestion_OptionHelpers(t *testing.T) {
	q := Question{
		ID: 1,
		Options: []Option{
			{ID: 10, QuestionID: 1, IsCorrect: false},
			{ID: 11, QuestionID: 1, IsCorrect: true},
		},
	}

	assert.True(t, q.HasOption(10))
	assert.False(t, q.HasOption(99))

	correct, ok := q.CorrectOptionID()
	assert.True(t, ok)
	assert.Equal(t, uint(11), correct)

	assert.True(t, q.IsCorrectOption(11))
	assert.False(t, q.IsCorrectOption(10))
}
