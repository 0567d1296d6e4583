package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены
	// (викторина, попытка, вопрос).
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок аутентификации (неверный токен, нет caller-а).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия
	// (чужая попытка, доступ не-владельца к деталям).
	ErrForbidden = errors.New("forbidden")

	// ErrQuizNotAvailable означает, что викторина не опубликована и недоступна
	// обычному пользователю. Администратор может проходить её в режиме превью.
	ErrQuizNotAvailable = errors.New("quiz is not available")

	// ErrAttemptCompleted означает, что попытка уже завершена:
	// любые дальнейшие записи ответов и повторная оценка запрещены.
	ErrAttemptCompleted = errors.New("attempt has already been completed")

	// ErrQuestionMismatch означает, что вопрос не принадлежит викторине попытки.
	ErrQuestionMismatch = errors.New("question does not belong to the attempt's quiz")

	// ErrInvalidOption означает, что вариант ответа не принадлежит указанному вопросу.
	ErrInvalidOption = errors.New("option does not belong to the question")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния.
	ErrConflict = errors.New("resource state conflict")

	// ErrUnavailable используется для временных сбоев хранилища.
	// Единственный вид ошибки, при котором вызывающей стороне безопасно повторить запрос.
	ErrUnavailable = errors.New("storage temporarily unavailable")
)
