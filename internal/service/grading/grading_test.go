package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/entity"
)

// вопрос с четырьмя вариантами; правильный — options[correctIdx]
func makeQuestion(id uint, correctIdx int) entity.Question {
	q := entity.Question{ID: id, QuizID: 1, Text: "Вопрос"}
	for i := 0; i < 4; i++ {
		q.Options = append(q.Options, entity.Option{
			ID:         id*10 + uint(i),
			QuestionID: id,
			Text:       "Вариант",
			IsCorrect:  i == correctIdx,
		})
	}
	return q
}

func TestGrade_ThreeOfFourCorrect(t *testing.T) {
	// Arrange: 4 вопроса, правильный вариант всегда с индексом 0 (ID = q*10)
	questions := []entity.Question{
		makeQuestion(1, 0),
		makeQuestion(2, 0),
		makeQuestion(3, 0),
		makeQuestion(4, 0),
	}
	answers := map[uint]uint{
		1: 10, // верно
		2: 20, // верно
		3: 30, // верно
		4: 41, // неверно
	}

	// Act
	summary := Grade(questions, answers)

	// Assert: 3 из 4 дают 75.0
	assert.Equal(t, 3, summary.CorrectCount)
	assert.Equal(t, 4, summary.TotalQuestions)
	assert.InDelta(t, 75.0, summary.Score, 1e-9)
}

func TestGrade_ZeroQuestions(t *testing.T) {
	// Викторина без вопросов — score 0, а не ошибка и не NaN
	summary := Grade(nil, map[uint]uint{})

	assert.Equal(t, 0, summary.CorrectCount)
	assert.Equal(t, 0, summary.TotalQuestions)
	assert.Equal(t, 0.0, summary.Score)
}

func TestGrade_UnansweredCountsAsIncorrect(t *testing.T) {
	questions := []entity.Question{
		makeQuestion(1, 0),
		makeQuestion(2, 0),
	}
	// Ответ только на первый вопрос
	answers := map[uint]uint{1: 10}

	summary := Grade(questions, answers)

	assert.Equal(t, 1, summary.CorrectCount)
	assert.Equal(t, 2, summary.TotalQuestions)
	assert.InDelta(t, 50.0, summary.Score, 1e-9)
}

func TestGrade_AnswerToUnknownOptionIsIncorrect(t *testing.T) {
	questions := []entity.Question{makeQuestion(1, 0)}
	// Вариант 999 вопросу не принадлежит — не засчитывается
	answers := map[uint]uint{1: 999}

	summary := Grade(questions, answers)

	assert.Equal(t, 0, summary.CorrectCount)
	assert.Equal(t, 0.0, summary.Score)
}

func TestGrade_AllCorrect(t *testing.T) {
	questions := []entity.Question{
		makeQuestion(1, 2),
		makeQuestion(2, 1),
		makeQuestion(3, 3),
	}
	answers := map[uint]uint{1: 12, 2: 21, 3: 33}

	summary := Grade(questions, answers)

	assert.Equal(t, 3, summary.CorrectCount)
	assert.InDelta(t, 100.0, summary.Score, 1e-9)
}

func TestGrade_ScoreMatchesRatioProperty(t *testing.T) {
	// Свойство: score == correct/total*100 при независимом пересчёте
	testCases := []struct {
		name    string
		total   int
		correct int
	}{
		{"1 из 3", 3, 1},
		{"2 из 3", 3, 2},
		{"5 из 7", 7, 5},
		{"0 из 10", 10, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var questions []entity.Question
			answers := map[uint]uint{}
			for i := 1; i <= tc.total; i++ {
				q := makeQuestion(uint(i), 0)
				questions = append(questions, q)
				if i <= tc.correct {
					answers[uint(i)] = uint(i * 10) // правильный вариант
				} else {
					answers[uint(i)] = uint(i*10 + 1) // неправильный
				}
			}

			summary := Grade(questions, answers)

			expected := float64(tc.correct) / float64(tc.total) * 100
			assert.Equal(t, tc.correct, summary.CorrectCount)
			assert.InDelta(t, expected, summary.Score, 1e-9)
		})
	}
}

func TestAnswerMap(t *testing.T) {
	answers := []entity.UserAnswer{
		{AttemptID: 1, QuestionID: 5, OptionID: 50},
		{AttemptID: 1, QuestionID: 6, OptionID: 61},
	}

	m := AnswerMap(answers)

	assert.Len(t, m, 2)
	assert.Equal(t, uint(50), m[5])
	assert.Equal(t, uint(61), m[6])
}
