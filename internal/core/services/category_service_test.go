package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	portssvc "github.com/fincast/fincast/internal/core/ports/services"
	"github.com/fincast/fincast/internal/dto"
	"github.com/fincast/fincast/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CategoryServiceTestSuite struct {
	suite.Suite
	container *portssvc.ServiceContainer
	ownerID   string
	checking  domain.Account
}

func (suite *CategoryServiceTestSuite) SetupTest() {
	suite.container, _ = newMemContainer(&config.Config{})

	owner := createTestOwner(suite.T(), suite.container, "category-owner", domain.NewDate(2025, time.September, 1))
	suite.ownerID = owner.OwnerID

	suite.checking = createTestAccount(suite.T(), suite.container, suite.ownerID, dto.CreateAccountRequest{
		Name:           "Main Checking",
		AccountType:    domain.Checking,
		OpeningBalance: decimal.NewFromInt(1000),
	})
}

func (suite *CategoryServiceTestSuite) defaultCategory() domain.Category {
	categories, err := suite.container.Category.ListCategories(context.Background(), suite.ownerID)
	suite.Require().NoError(err)
	suite.Require().NotEmpty(categories)
	suite.Require().True(categories[0].IsDefault)
	return categories[0]
}

func (suite *CategoryServiceTestSuite) createCategory(name string) domain.Category {
	category, err := suite.container.Category.CreateCategory(context.Background(), suite.ownerID, dto.CreateCategoryRequest{
		Name: name,
	})
	suite.Require().NoError(err)
	return *category
}

func (suite *CategoryServiceTestSuite) TestRegistrationProvisionsStarterSet() {
	categories, err := suite.container.Category.ListCategories(context.Background(), suite.ownerID)
	suite.Require().NoError(err)
	suite.Len(categories, 10)

	suite.Equal("Uncategorized", categories[0].Name)
	suite.True(categories[0].IsDefault)
	for _, c := range categories[1:] {
		suite.False(c.IsDefault, "only Uncategorized should be the default, got %s", c.Name)
		suite.NotEmpty(c.Color)
	}
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_DefaultColor() {
	category := suite.createCategory("Subscriptions")

	suite.Equal("Subscriptions", category.Name)
	suite.Equal("#6366f1", category.Color)
	suite.False(category.IsDefault)
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_DuplicateName() {
	suite.createCategory("Subscriptions")

	_, err := suite.container.Category.CreateCategory(context.Background(), suite.ownerID, dto.CreateCategoryRequest{
		Name: "Subscriptions",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory() {
	ctx := context.Background()
	category := suite.createCategory("Subscriptions")

	name := "Streaming"
	color := "#112233"
	monthly := true
	updated, err := suite.container.Category.UpdateCategory(ctx, suite.ownerID, category.CategoryID, dto.UpdateCategoryRequest{
		Name:      &name,
		Color:     &color,
		IsMonthly: &monthly,
	})
	suite.Require().NoError(err)
	suite.Equal("Streaming", updated.Name)
	suite.Equal("#112233", updated.Color)
	suite.True(updated.IsMonthly)
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_DefaultCannotBeRenamed() {
	def := suite.defaultCategory()

	name := "Misc"
	_, err := suite.container.Category.UpdateCategory(context.Background(), suite.ownerID, def.CategoryID, dto.UpdateCategoryRequest{
		Name: &name,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_ReassignsEntriesToDefault() {
	ctx := context.Background()
	dining := suite.createCategory("Dining Out")

	_, err := suite.container.Posting.PostExpense(ctx, suite.ownerID, dto.ExpenseRequest{
		AccountID:   suite.checking.AccountID,
		Description: "Dinner",
		Amount:      decimal.NewFromInt(40),
		CategoryID:  &dining.CategoryID,
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.container.Category.DeleteCategory(ctx, suite.ownerID, dining.CategoryID))

	def := suite.defaultCategory()
	resp, err := suite.container.Ledger.ListEntries(ctx, suite.ownerID, dto.ListEntriesParams{})
	suite.Require().NoError(err)
	for _, entry := range resp.Entries {
		if entry.Description == "Dinner" && entry.Side == string(domain.Debit) {
			suite.Require().NotNil(entry.CategoryID)
			suite.Equal(def.CategoryID, *entry.CategoryID)
		}
	}

	// The deleted category is gone from the registry.
	categories, err := suite.container.Category.ListCategories(ctx, suite.ownerID)
	suite.Require().NoError(err)
	for _, c := range categories {
		suite.NotEqual(dining.CategoryID, c.CategoryID)
	}
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_ReassignsRecurringDefinitions() {
	ctx := context.Background()
	housing := suite.createCategory("Rent & Fees")

	_, err := suite.container.Scheduler.CreateRecurring(ctx, suite.ownerID, dto.CreateRecurringRequest{
		Kind:        domain.RecurringExpense,
		Description: "Rent",
		Amount:      decimal.NewFromInt(800),
		AccountID:   suite.checking.AccountID,
		DueDay:      1,
		CategoryID:  &housing.CategoryID,
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.container.Category.DeleteCategory(ctx, suite.ownerID, housing.CategoryID))

	def := suite.defaultCategory()
	defs, err := suite.container.Scheduler.ListRecurring(ctx, suite.ownerID, "")
	suite.Require().NoError(err)
	suite.Require().Len(defs, 1)
	suite.Require().NotNil(defs[0].CategoryID)
	suite.Equal(def.CategoryID, *defs[0].CategoryID)
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_DefaultRejected() {
	def := suite.defaultCategory()

	err := suite.container.Category.DeleteCategory(context.Background(), suite.ownerID, def.CategoryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CategoryServiceTestSuite) TestPostExpense_UnknownCategoryRejected() {
	unknown := "no-such-category"
	_, err := suite.container.Posting.PostExpense(context.Background(), suite.ownerID, dto.ExpenseRequest{
		AccountID:   suite.checking.AccountID,
		Description: "Mystery",
		Amount:      decimal.NewFromInt(10),
		CategoryID:  &unknown,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CategoryServiceTestSuite) TestPostExpense_ForeignCategoryRejected() {
	ctx := context.Background()
	stranger := createTestOwner(suite.T(), suite.container, "category-stranger", domain.NewDate(2025, time.September, 1))
	foreign, err := suite.container.Category.CreateCategory(ctx, stranger.OwnerID, dto.CreateCategoryRequest{
		Name: "Their Dining",
	})
	suite.Require().NoError(err)

	_, err = suite.container.Posting.PostExpense(ctx, suite.ownerID, dto.ExpenseRequest{
		AccountID:   suite.checking.AccountID,
		Description: "Dinner",
		Amount:      decimal.NewFromInt(25),
		CategoryID:  &foreign.CategoryID,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CategoryServiceTestSuite) TestCreateRecurring_ForeignCategoryRejected() {
	ctx := context.Background()
	stranger := createTestOwner(suite.T(), suite.container, "recurring-stranger", domain.NewDate(2025, time.September, 1))
	foreign, err := suite.container.Category.CreateCategory(ctx, stranger.OwnerID, dto.CreateCategoryRequest{
		Name: "Their Housing",
	})
	suite.Require().NoError(err)

	_, err = suite.container.Scheduler.CreateRecurring(ctx, suite.ownerID, dto.CreateRecurringRequest{
		Kind:        domain.RecurringExpense,
		Description: "Rent",
		Amount:      decimal.NewFromInt(800),
		AccountID:   suite.checking.AccountID,
		DueDay:      1,
		CategoryID:  &foreign.CategoryID,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CategoryServiceTestSuite) TestSetGroupCategory_RelabelsDebitLegOnly() {
	ctx := context.Background()
	groceries := suite.createCategory("Groceries")

	group, err := suite.container.Posting.PostExpense(ctx, suite.ownerID, dto.ExpenseRequest{
		AccountID:   suite.checking.AccountID,
		Description: "Weekly shop",
		Amount:      decimal.NewFromInt(60),
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.container.Category.SetGroupCategory(ctx, suite.ownerID, group.GroupID, &groceries.CategoryID))

	resp, err := suite.container.Ledger.ListEntries(ctx, suite.ownerID, dto.ListEntriesParams{})
	suite.Require().NoError(err)
	for _, entry := range resp.Entries {
		if entry.GroupID != group.GroupID {
			continue
		}
		if entry.Side == string(domain.Debit) {
			suite.Require().NotNil(entry.CategoryID)
			suite.Equal(groceries.CategoryID, *entry.CategoryID)
		} else {
			suite.Nil(entry.CategoryID)
		}
	}
}

func (suite *CategoryServiceTestSuite) TestSetGroupCategory_ForeignGroupRejected() {
	ctx := context.Background()
	stranger := createTestOwner(suite.T(), suite.container, "group-stranger", domain.NewDate(2025, time.September, 1))
	groceries := suite.createCategory("Groceries")

	group, err := suite.container.Posting.PostExpense(ctx, suite.ownerID, dto.ExpenseRequest{
		AccountID:   suite.checking.AccountID,
		Description: "Weekly shop",
		Amount:      decimal.NewFromInt(60),
	})
	suite.Require().NoError(err)

	err = suite.container.Category.SetGroupCategory(ctx, stranger.OwnerID, group.GroupID, &groceries.CategoryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestCategoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}
