package domain

import "github.com/google/uuid"

type (
	Id         = uuid.UUID
	OptionalId = uuid.NullUUID

	CategoryName = string
	ForumName    = string
	SortOrder    = int
	Level        = int

	TopicSubject = string
	CustomData   = string
)

// Entity is satisfied by a pointer to every persisted type.
// Repositories use it to read and assign store-generated identifiers.
type Entity interface {
	GetId() Id
	SetId(id Id)
}

func SomeId(id Id) OptionalId {
	return OptionalId{UUID: id, Valid: true}
}

var NoId = OptionalId{}
