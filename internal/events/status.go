package events

type Status string

const (
	StatusActive           Status = "ACTIVE"
	StatusCancelled        Status = "CANCELLED"
	StatusCancelledByAdmin Status = "CANCELLED_BY_ADMIN"
	StatusFinished         Status = "FINISHED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCancelled, StatusCancelledByAdmin, StatusFinished:
		return true
	default:
		return false
	}
}

func (s Status) IsCancelled() bool {
	return s == StatusCancelled || s == StatusCancelledByAdmin
}

func (s Status) String() string {
	return string(s)
}
