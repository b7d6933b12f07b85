package forecast

import "errors"

var (
	ErrNotLoaded = errors.New("forecast dataset not loaded")
	ErrDecode    = errors.New("prediction cannot be decoded to a demand count")
)
