package domain

type ForumCreationData struct {
	CategoryId  string    `validate:"notblank,id"`
	Name        ForumName `validate:"notblank"`
	SortOrder   SortOrder
	Description string
}

type SubForumCreationData struct {
	ParentForumId string    `validate:"notblank,id"`
	Name          ForumName `validate:"notblank"`
	SortOrder     SortOrder
	Description   string
}

type ForumUpdateData struct {
	Id          string    `validate:"notblank,id"`
	Name        ForumName `validate:"notblank"`
	SortOrder   SortOrder
	Description string
}

// Forum is a board owned by exactly one category.
// Level is 0 for a top-level forum and ParentForumId is then invalid;
// a sub-forum has Level == parent.Level + 1.
type Forum struct {
	Id            Id
	Name          ForumName
	SortOrder     SortOrder
	Description   string
	CategoryId    Id
	ParentForumId OptionalId
	Level         Level
}

func (f Forum) GetId() Id     { return f.Id }
func (f *Forum) SetId(id Id) { f.Id = id }

func (f Forum) IsTopLevel() bool {
	return !f.ParentForumId.Valid
}
