package work

type CreatedEvent struct {
	Result *Work
}

type UpdatedEvent struct {
	Result *Work
}

type DeletedEvent struct {
	Result *Work
}

type ReorderedEvent struct {
	Year int
}
