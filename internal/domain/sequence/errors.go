package sequence

import (
	"errors"
	"fmt"
)

// Sentinel kinds for sequence parsing. ErrEmpty also matches ErrParse.
var (
	ErrParse = errors.New("parse error")
	ErrEmpty = fmt.Errorf("%w: no numeric values", ErrParse)
)
