package validator

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	once        sync.Once
	registerErr error
)

// Register installs the custom validations on gin's binding validator.
// It is safe to call more than once; every call reports the outcome of the
// first registration.
func Register() error {
	once.Do(func() {
		registerErr = register()
	})
	return registerErr
}

func register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		return fmt.Errorf("failed to register notblank: %w", err)
	}
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		return fmt.Errorf("failed to register maxbytes: %w", err)
	}
	return nil
}

// notBlank fails for strings made only of whitespace.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// maxBytes bounds the UTF-8 encoded length of a string. The builtin max tag
// counts runes, which lets multi-byte passwords past bcrypt's 72-byte limit.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}
