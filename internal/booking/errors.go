package booking

import (
	"errors"
	"fmt"
)

// ErrNotFound 引用的车辆/预订/网点不存在。
var ErrNotFound = errors.New("not found")

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}
