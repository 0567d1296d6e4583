package repository

import "errors"

var (
	// ErrOpenAttemptExists означает, что у пары (user, quiz) уже есть открытая попытка.
	// Вызывающая сторона перечитывает её и возвращает как resume.
	ErrOpenAttemptExists = errors.New("an open attempt already exists for this user and quiz")
)
