package code_admin

import (
	"strings"
)

// ValidationError 入力検証エラー（問題のあるフィールドを列挙する）
type ValidationError struct {
	Fields []string
}

// Error エラーメッセージを返す
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

// validationFailure フィールドを集約してValidationErrorを作成
func validationFailure(fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
