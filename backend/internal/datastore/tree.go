package datastore

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/nforum-dev/nforum/shared/domain"
	nferrors "github.com/nforum-dev/nforum/shared/errors"
	"github.com/nforum-dev/nforum/shared/validation"
)

// treeDepth is how many forum levels a Plus2Levels read hydrates below its root.
const treeDepth = 2

func sortForums(forums []domain.Forum) {
	slices.SortStableFunc(forums, func(a, b domain.Forum) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})
}

func topLevelForums(all []domain.Forum, categoryId domain.Id) []domain.Forum {
	var top []domain.Forum
	for _, f := range all {
		if f.CategoryId == categoryId && f.IsTopLevel() {
			top = append(top, f)
		}
	}
	sortForums(top)
	return top
}

func childForums(all []domain.Forum, parentId domain.Id) []domain.Forum {
	var children []domain.Forum
	for _, f := range all {
		if f.ParentForumId.Valid && f.ParentForumId.UUID == parentId {
			children = append(children, f)
		}
	}
	sortForums(children)
	return children
}

// hydrate wraps forums into nodes and attaches descendants up to depth
// further levels. Nothing below that is loaded, whatever is stored.
func hydrate(all, forums []domain.Forum, depth int) []domain.ForumNode {
	nodes := make([]domain.ForumNode, 0, len(forums))
	for _, f := range forums {
		node := domain.ForumNode{Forum: f}
		if depth > 0 {
			node.SubForums = hydrate(all, childForums(all, f.Id), depth-1)
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func categoryTree(category domain.Category, all []domain.Forum) domain.CategoryTree {
	return domain.CategoryTree{
		Category: category,
		Forums:   hydrate(all, topLevelForums(all, category.Id), treeDepth-1),
	}
}

func (d *DataStore) allForums(ctx context.Context) ([]domain.Forum, error) {
	forums, err := d.repos.Forums.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list forums: %w", err)
	}
	return forums, nil
}

// FindCategoriesPlus2Levels returns every category (ascending SortOrder) with
// its top-level forums and their direct sub-forums.
func (d *DataStore) FindCategoriesPlus2Levels(ctx context.Context) ([]domain.CategoryTree, error) {
	categories, err := d.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	forums, err := d.allForums(ctx)
	if err != nil {
		return nil, err
	}
	trees := make([]domain.CategoryTree, 0, len(categories))
	for _, c := range categories {
		trees = append(trees, categoryTree(c, forums))
	}
	return trees, nil
}

// FindCategoryPlus2Levels returns one category with its top-level forums and
// their direct sub-forums. A missing category is an InternalInconsistencyError.
func (d *DataStore) FindCategoryPlus2Levels(ctx context.Context, rawId string) (domain.CategoryTree, error) {
	id, err := validation.ParseId("Id", rawId)
	if err != nil {
		return domain.CategoryTree{}, err
	}
	category, err := d.repos.Categories.FindById(ctx, id)
	if err != nil {
		return domain.CategoryTree{}, inconsistent(err, EntityCategory, id, "requested category does not exist")
	}
	forums, err := d.allForums(ctx)
	if err != nil {
		return domain.CategoryTree{}, err
	}
	return categoryTree(category, forums), nil
}

// FindForumPlus2Levels returns the forum with its children and grandchildren,
// its owning category, and the chain of ancestors up to the top-level forum.
// Any entity missing along the way is an InternalInconsistencyError.
func (d *DataStore) FindForumPlus2Levels(ctx context.Context, rawId string) (domain.ForumTree, error) {
	id, err := validation.ParseId("Id", rawId)
	if err != nil {
		return domain.ForumTree{}, err
	}
	forum, err := d.repos.Forums.FindById(ctx, id)
	if err != nil {
		return domain.ForumTree{}, inconsistent(err, EntityForum, id, "requested forum does not exist")
	}
	category, err := d.repos.Categories.FindById(ctx, forum.CategoryId)
	if err != nil {
		return domain.ForumTree{}, inconsistent(err, EntityCategory, forum.CategoryId, fmt.Sprintf("owner of forum %s does not exist", forum.Id))
	}
	ancestors, err := d.ancestors(ctx, forum)
	if err != nil {
		return domain.ForumTree{}, err
	}
	forums, err := d.allForums(ctx)
	if err != nil {
		return domain.ForumTree{}, err
	}
	return domain.ForumTree{
		Category:  category,
		Ancestors: ancestors,
		Node: domain.ForumNode{
			Forum:     forum,
			SubForums: hydrate(forums, childForums(forums, forum.Id), treeDepth-1),
		},
	}, nil
}

// ancestors walks parent references upward and returns them top-level first.
func (d *DataStore) ancestors(ctx context.Context, forum domain.Forum) ([]domain.Forum, error) {
	var chain []domain.Forum
	seen := map[domain.Id]bool{forum.Id: true}
	for current := forum; current.ParentForumId.Valid; {
		parentId := current.ParentForumId.UUID
		if seen[parentId] {
			return nil, &nferrors.InternalInconsistencyError{Entity: EntityForum, Id: parentId, Reason: "parent chain loops"}
		}
		seen[parentId] = true

		parent, err := d.repos.Forums.FindById(ctx, parentId)
		if err != nil {
			return nil, inconsistent(err, EntityForum, parentId, fmt.Sprintf("parent of forum %s does not exist", current.Id))
		}
		chain = append(chain, parent)
		current = parent
	}
	slices.Reverse(chain)
	return chain, nil
}
