// Package i18n holds the user-facing messages of the API in every supported
// locale.
package i18n

import "fmt"

// Key identifies a user-facing message.
type Key int

const (
	Registered Key = iota
	LoggedIn
	LoggedOut
	DuplicateUsername
	InvalidCredentials
	PasswordTooLong
	Unauthenticated
	NoTasks
	TaskNotFound
	StatusChanged
	InvalidBody
	InternalError
)

var catalog = map[string]map[Key]string{
	"ru": {
		Registered:         "Вы успешно зарегистрировались",
		LoggedIn:           "Вы успешно авторизованы.",
		LoggedOut:          "Вы успешно вышли из системы.",
		DuplicateUsername:  "Пользователь с таким username уже существует.",
		InvalidCredentials: "Неверный username или password.",
		PasswordTooLong:    "Пароль не должен превышать 72 байта.",
		Unauthenticated:    "Не авторизован.",
		NoTasks:            "Задач пока что нет.",
		TaskNotFound:       "Задача не найдена.",
		StatusChanged:      "Статус для задачи с id %d успешно изменен.",
		InvalidBody:        "Некорректные данные запроса: %s",
		InternalError:      "Внутренняя ошибка сервера.",
	},
	"en": {
		Registered:         "You have registered successfully",
		LoggedIn:           "You have logged in successfully.",
		LoggedOut:          "You have logged out successfully.",
		DuplicateUsername:  "A user with this username already exists.",
		InvalidCredentials: "Invalid username or password.",
		PasswordTooLong:    "Password must not exceed 72 bytes.",
		Unauthenticated:    "Not authenticated.",
		NoTasks:            "There are no tasks yet.",
		TaskNotFound:       "Task not found.",
		StatusChanged:      "Status of task %d has been changed successfully.",
		InvalidBody:        "Invalid request body: %s",
		InternalError:      "Internal server error.",
	},
}

// Messages renders messages for one locale.
type Messages struct {
	table map[Key]string
}

// New returns the messages for locale, or an error if it is unsupported.
func New(locale string) (*Messages, error) {
	table, ok := catalog[locale]
	if !ok {
		return nil, fmt.Errorf("unsupported locale %q", locale)
	}
	return &Messages{table: table}, nil
}

// Get renders the message for key, formatting it with args when the message
// takes parameters.
func (m *Messages) Get(key Key, args ...any) string {
	msg := m.table[key]
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
