package repository

import "errors"

var (
	// 対象が無い（他人の行も含む）
	ErrNotFound = errors.New("not found")
	// 一意制約違反
	ErrDuplicate = errors.New("duplicate")
	// 在庫不足
	ErrInsufficientStock = errors.New("insufficient stock")
)
