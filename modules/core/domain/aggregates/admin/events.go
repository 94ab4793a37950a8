package admin

type CreatedEvent struct {
	Result *Admin
}

type UpdatedEvent struct {
	Result *Admin
}

type DeletedEvent struct {
	ID uint
}
