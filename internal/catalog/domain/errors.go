package domain

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrIndexOutOfRange = errors.New("index out of range")
)
