package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/author"
	"github.com/xiebiao/library/internal/domain/branch"
	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/domain/shared"
)

func TestAuthorRepository_ListWithBookCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	asimov := f.author(t, "Isaac", "Asimov")
	f.author(t, "Arthur", "Clarke")
	f.book(t, "Foundation", "9780553293357", asimov.ID, 1, 1)
	f.book(t, "I, Robot", "9780553382563", asimov.ID, 1, 1)

	list, total, err := f.authors.List(ctx, author.ListParams{Page: shared.Page{Page: 1, PageSize: 10}, SortBy: "books"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "Asimov", list[0].LastName)
	assert.EqualValues(t, 2, list[0].BookCount)
	assert.EqualValues(t, 0, list[1].BookCount)

	list, _, err = f.authors.List(ctx, author.ListParams{Page: shared.Page{Page: 1, PageSize: 10}, Keyword: "clar"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Arthur Clarke", list[0].FullName())
}

func TestAuthorRepository_DeleteRestricted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.author(t, "Ray", "Bradbury")
	f.book(t, "Fahrenheit 451", "9781451673319", a.ID, 1, 1)

	assert.ErrorIs(t, f.authors.Delete(ctx, a.ID), author.ErrAuthorHasBooks)

	lonely := f.author(t, "No", "Books")
	require.NoError(t, f.authors.Delete(ctx, lonely.ID))
	assert.ErrorIs(t, f.authors.Delete(ctx, lonely.ID), author.ErrAuthorNotFound)
}

func TestCategoryRepository_NameUniqueness(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sf := f.category(t, "Science Fiction")

	taken, err := f.cats.ExistsByName(ctx, "science fiction", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = f.cats.ExistsByName(ctx, "Science Fiction", sf.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	dup := category.NewCategory(category.Fields{Name: "Science Fiction"})
	assert.ErrorIs(t, f.cats.Create(ctx, dup), category.ErrNameDuplicate)
}

func TestBranchRepository_DeleteNullsReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.author(t, "Terry", "Pratchett")
	b := f.book(t, "Mort", "9780062225719", a.ID, 1, 1)
	east := f.branch(t, "East")

	c := f.customer(t, "Sam", "sam@example.com", "LIB-2026-0001")
	c.PreferredBranchID = &east.ID
	require.NoError(t, f.customers.Update(ctx, c))

	now := testNow()
	l := f.loan(t, b.ID, c.ID, &east.ID, now, now.AddDate(0, 0, 14))

	list, _, err := f.branches.List(ctx, branch.ListParams{Page: shared.Page{Page: 1, PageSize: 10}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 1, list[0].ActiveLoanCount)

	require.NoError(t, f.branches.Delete(ctx, east.ID))

	gotCustomer, err := f.customers.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, gotCustomer.PreferredBranchID)

	gotLoan, err := f.loans.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Nil(t, gotLoan.BranchID)

	assert.ErrorIs(t, f.branches.Delete(ctx, east.ID), branch.ErrBranchNotFound)
}
