package domain

// to iterate thru layers: cli -> service -> datastore
type CategoryCreationData struct {
	Name        CategoryName `validate:"notblank"`
	SortOrder   SortOrder
	Description string
}

type CategoryUpdateData struct {
	Id          string       `validate:"notblank,id"`
	Name        CategoryName `validate:"notblank"`
	SortOrder   SortOrder
	Description string
}

type Category struct {
	Id          Id
	Name        CategoryName
	SortOrder   SortOrder
	Description string
}

func (c Category) GetId() Id     { return c.Id }
func (c *Category) SetId(id Id) { c.Id = id }
