package datastore

import (
	"context"
	"fmt"

	"github.com/nforum-dev/nforum/shared/domain"
	"github.com/nforum-dev/nforum/shared/validation"
)

func (d *DataStore) CreateForumUser(ctx context.Context, data domain.ForumUserCreationData) (domain.ForumUser, error) {
	if err := validation.Struct(data); err != nil {
		return domain.ForumUser{}, err
	}
	user, err := d.repos.Users.Create(ctx, domain.ForumUser{
		ExternalId:   data.ExternalId,
		Username:     data.Username,
		Fullname:     data.Fullname,
		EmailAddress: data.EmailAddress,
		UseFullname:  data.UseFullname,
		Culture:      data.Culture,
		TimeZone:     data.TimeZone,
	})
	if err != nil {
		return domain.ForumUser{}, fmt.Errorf("failed to create forum user: %w", err)
	}
	return user, nil
}

func (d *DataStore) FindForumUserById(ctx context.Context, rawId string) (domain.ForumUser, error) {
	id, err := validation.ParseId("Id", rawId)
	if err != nil {
		return domain.ForumUser{}, err
	}
	user, err := d.repos.Users.FindById(ctx, id)
	if err != nil {
		return domain.ForumUser{}, notFound(err, EntityForumUser, id)
	}
	return user, nil
}
