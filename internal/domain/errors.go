package domain

import "errors"

var (
	ErrCandidateNotFound   = errors.New("candidate not found")
	ErrDuplicateTelegramID = errors.New("candidate with this telegram id already exists")
)
