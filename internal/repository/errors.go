package repository

import "errors"

var (
	ErrItemNotFound     = errors.New("memory item not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrSettingsNotFound = errors.New("settings not found")
)
