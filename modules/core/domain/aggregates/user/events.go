package user

type RegisteredEvent struct {
	Result *User
}

type UpdatedEvent struct {
	Result *User
}
