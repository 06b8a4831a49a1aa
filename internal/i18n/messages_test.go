package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogsAreComplete(t *testing.T) {
	for locale, table := range catalog {
		for key := Registered; key <= InternalError; key++ {
			assert.NotEmpty(t, table[key], "locale %s is missing key %d", locale, key)
		}
	}
}

func TestGet(t *testing.T) {
	en, err := New("en")
	require.NoError(t, err)
	assert.Equal(t, "Not authenticated.", en.Get(Unauthenticated))
	assert.Equal(t, "Status of task 5 has been changed successfully.", en.Get(StatusChanged, 5))

	ru, err := New("ru")
	require.NoError(t, err)
	assert.Equal(t, "Задач пока что нет.", ru.Get(NoTasks))
	assert.Equal(t, "Пароль не должен превышать 72 байта.", ru.Get(PasswordTooLong))

	_, err = New("fr")
	assert.Error(t, err)
}
