package model

// Sale status shared by dishes and setmeals.
const (
	StatusDisabled = 0
	StatusEnabled  = 1
)
