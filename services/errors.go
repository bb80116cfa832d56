package services

import "errors"

var (
	// ErrProvider: Google Places trả status khác OK/ZERO_RESULTS hoặc lỗi transport
	ErrProvider = errors.New("place provider request failed")
	// ErrConflict: vi phạm unique constraint khi join (user đã có attendee row do writer khác)
	ErrConflict = errors.New("user already attending a dinner group")
	// ErrNotFound: row biến mất giữa lookup và delete; caller coi như đã leave xong
	ErrNotFound = errors.New("attendee not found")
	// ErrInvalidInput: thiếu userID / restaurantID, không mutation gì hết
	ErrInvalidInput = errors.New("invalid input")
)
