package job

type Status string

const (
	StatusScheduled = Status("scheduled")
	StatusRecording = Status("recording")
	StatusCompleted = Status("completed")
	// 繰り返し予約は常にこれ
	StatusActive    = Status("active")
	StatusCancelled = Status("cancelled")
)

func (s Status) String() string {
	return string(s)
}

type Kind string

const (
	KindSingle    = Kind("single")
	KindRecurring = Kind("recurring")
)

func (k Kind) String() string {
	return string(k)
}
