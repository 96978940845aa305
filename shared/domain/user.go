package domain

type ForumUserCreationData struct {
	ExternalId   string `validate:"notblank"`
	Username     string `validate:"notblank"`
	Fullname     string
	EmailAddress string
	UseFullname  bool
	Culture      string
	TimeZone     string
}

// ForumUser is the forum-local identity, separate from whatever
// authenticated the caller (ExternalId links the two).
type ForumUser struct {
	Id           Id
	ExternalId   string
	Username     string
	Fullname     string
	EmailAddress string
	UseFullname  bool
	Culture      string
	TimeZone     string
	Deleted      bool
}

func (u ForumUser) GetId() Id     { return u.Id }
func (u *ForumUser) SetId(id Id) { u.Id = id }

func (u *ForumUser) DisplayName() string {
	if u.UseFullname && u.Fullname != "" {
		return u.Fullname
	}
	return u.Username
}
