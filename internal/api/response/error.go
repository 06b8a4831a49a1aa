package response

// Error is an expected failure with its HTTP status and user-facing message.
type Error struct {
	Code   int
	Detail string
}

func (e Error) Error() string {
	return e.Detail
}

func NewError(code int, detail string) Error {
	return Error{
		Code:   code,
		Detail: detail,
	}
}
