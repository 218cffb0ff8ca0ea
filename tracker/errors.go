package tracker

import "fmt"

type (
	ValidationError struct {
		Field  string
		Reason string
	}
)

func (v ValidationError) Error() string {
	return fmt.Sprintf("%v %v", v.Field, v.Reason)
}
