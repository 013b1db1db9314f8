package services_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dineqr/backoffice/models"
	"github.com/dineqr/backoffice/services"
	"github.com/dineqr/backoffice/utils"
)

type stubScorer struct {
	scores map[string]float64
	err    error
}

func (s stubScorer) Scores(restaurantID string, window time.Duration) (map[string]float64, error) {
	return s.scores, s.err
}

func setupQueryDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.MenuItemPhoto{},
		&models.ModifierGroup{},
		&models.ModifierOption{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createCategory(t *testing.T, db *gorm.DB, restaurantID, name, status string, displayOrder int) models.MenuCategory {
	t.Helper()
	cat := models.MenuCategory{
		RestaurantID: restaurantID,
		Name:         name,
		Status:       status,
		DisplayOrder: displayOrder,
	}
	assert.NoError(t, db.Create(&cat).Error)
	return cat
}

func createItem(t *testing.T, db *gorm.DB, restaurantID, categoryID, name string, price float64, status string, deleted bool) models.MenuItem {
	t.Helper()
	item := models.MenuItem{
		RestaurantID: restaurantID,
		CategoryID:   categoryID,
		Name:         name,
		Price:        price,
		Status:       status,
		IsDeleted:    deleted,
	}
	assert.NoError(t, db.Create(&item).Error)
	return item
}

func defaultPage(t *testing.T) services.PageSpec {
	t.Helper()
	p, err := services.NewPageSpec(1, 20)
	assert.NoError(t, err)
	return p
}

func TestGuestMenuVisibilityRules(t *testing.T) {
	db := setupQueryDB(t)
	engine := services.NewMenuQueryService(db, stubScorer{})

	active := createCategory(t, db, "rest-a", "Mains", models.CategoryStatusActive, 1)
	hidden := createCategory(t, db, "rest-a", "Secret", models.CategoryStatusInactive, 2)

	createItem(t, db, "rest-a", active.ID, "Burger", 9.5, models.ItemStatusAvailable, false)
	createItem(t, db, "rest-a", active.ID, "Soldout", 7.0, models.ItemStatusSoldOut, false)
	createItem(t, db, "rest-a", active.ID, "Ghost", 5.0, models.ItemStatusAvailable, true)
	createItem(t, db, "rest-a", hidden.ID, "OffMenu", 4.0, models.ItemStatusAvailable, false)
	createItem(t, db, "rest-b", active.ID, "OtherTenant", 3.0, models.ItemStatusAvailable, false)

	page, err := engine.GuestMenu("rest-a", services.ItemFilter{}, services.SortByName, services.SortAsc, defaultPage(t))
	assert.NoError(t, err)

	assert.Equal(t, int64(1), page.Pagination.Total)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, "Mains", page.Items[0].Name)
	assert.Len(t, page.Items[0].MenuItems, 1)
	assert.Equal(t, "Burger", page.Items[0].MenuItems[0].Name)
}

func TestGuestMenuIgnoresStatusFilter(t *testing.T) {
	db := setupQueryDB(t)
	engine := services.NewMenuQueryService(db, stubScorer{})

	cat := createCategory(t, db, "rest-a", "Mains", models.CategoryStatusActive, 1)
	createItem(t, db, "rest-a", cat.ID, "Burger", 9.5, models.ItemStatusAvailable, false)
	createItem(t, db, "rest-a", cat.ID, "Soldout", 7.0, models.ItemStatusSoldOut, false)

	// Guests cannot widen visibility with a status filter.
	page, err := engine.GuestMenu("rest-a", services.ItemFilter{Status: models.ItemStatusSoldOut},
		services.SortByName, services.SortAsc, defaultPage(t))
	assert.NoError(t, err)

	assert.Equal(t, int64(1), page.Pagination.Total)
	assert.Equal(t, "Burger", page.Items[0].MenuItems[0].Name)
}

func TestGuestMenuPopularitySort(t *testing.T) {
	db := setupQueryDB(t)
	cat := createCategory(t, db, "rest-a", "Mains", models.CategoryStatusActive, 1)

	burger := createItem(t, db, "rest-a", cat.ID, "Burger", 9.5, models.ItemStatusAvailable, false)
	pasta := createItem(t, db, "rest-a", cat.ID, "Pasta", 11.0, models.ItemStatusAvailable, false)
	createItem(t, db, "rest-a", cat.ID, "Unranked", 4.0, models.ItemStatusAvailable, false)

	engine := services.NewMenuQueryService(db, stubScorer{scores: map[string]float64{
		burger.ID: 3,
		pasta.ID:  7,
	}})

	page, err := engine.GuestMenu("rest-a", services.ItemFilter{}, services.SortByPopularity, services.SortDesc, defaultPage(t))
	assert.NoError(t, err)

	items := page.Items[0].MenuItems
	assert.Len(t, items, 3)
	assert.Equal(t, "Pasta", items[0].Name)
	assert.Equal(t, float64(7), items[0].Popularity)
	assert.Equal(t, "Burger", items[1].Name)
	// Items with no recorded orders score zero, never an error.
	assert.Equal(t, "Unranked", items[2].Name)
	assert.Equal(t, float64(0), items[2].Popularity)
}

func TestGuestMenuGroupingFollowsSortOrder(t *testing.T) {
	db := setupQueryDB(t)
	engine := services.NewMenuQueryService(db, stubScorer{})

	mains := createCategory(t, db, "rest-a", "Mains", models.CategoryStatusActive, 1)
	drinks := createCategory(t, db, "rest-a", "Drinks", models.CategoryStatusActive, 2)

	createItem(t, db, "rest-a", mains.ID, "Apple Pie", 5, models.ItemStatusAvailable, false)
	createItem(t, db, "rest-a", drinks.ID, "Beer", 4, models.ItemStatusAvailable, false)
	createItem(t, db, "rest-a", mains.ID, "Curry", 10, models.ItemStatusAvailable, false)

	page, err := engine.GuestMenu("rest-a", services.ItemFilter{}, services.SortByName, services.SortAsc, defaultPage(t))
	assert.NoError(t, err)

	// Group order follows first occurrence in the sorted item list, not
	// category display order.
	assert.Len(t, page.Items, 2)
	assert.Equal(t, "Mains", page.Items[0].Name)
	assert.Equal(t, []string{"Apple Pie", "Curry"}, itemNames(page.Items[0].MenuItems))
	assert.Equal(t, "Drinks", page.Items[1].Name)
	assert.Equal(t, []string{"Beer"}, itemNames(page.Items[1].MenuItems))
}

func itemNames(items []services.ScoredItem) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}

func TestGuestMenuPaginationCompleteness(t *testing.T) {
	db := setupQueryDB(t)
	engine := services.NewMenuQueryService(db, stubScorer{})

	cat := createCategory(t, db, "rest-a", "Mains", models.CategoryStatusActive, 1)
	for i := 0; i < 5; i++ {
		createItem(t, db, "rest-a", cat.ID, fmt.Sprintf("Item %d", i), float64(i+1), models.ItemStatusAvailable, false)
	}

	seen := map[string]bool{}
	for pageNum := 1; pageNum <= 3; pageNum++ {
		spec, err := services.NewPageSpec(pageNum, 2)
		assert.NoError(t, err)

		page, err := engine.GuestMenu("rest-a", services.ItemFilter{}, services.SortByName, services.SortAsc, spec)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), page.Pagination.Total)
		assert.Equal(t, 3, page.Pagination.TotalPages)

		for _, group := range page.Items {
			for _, it := range group.MenuItems {
				assert.False(t, seen[it.ID], "item %s appeared on two pages", it.Name)
				seen[it.ID] = true
			}
		}
	}
	assert.Len(t, seen, 5)

	// Walking past the end returns an empty page, not an error.
	spec, err := services.NewPageSpec(4, 2)
	assert.NoError(t, err)
	page, err := engine.GuestMenu("rest-a", services.ItemFilter{}, services.SortByName, services.SortAsc, spec)
	assert.NoError(t, err)
	assert.Len(t, page.Items, 0)
}

func TestGuestMenuPriceDescSecondPage(t *testing.T) {
	db := setupQueryDB(t)
	engine := services.NewMenuQueryService(db, stubScorer{})

	cat := createCategory(t, db, "rest-a", "Mains", models.CategoryStatusActive, 1)
	for _, price := range []float64{5, 10, 15, 20, 25} {
		createItem(t, db, "rest-a", cat.ID, fmt.Sprintf("Dish %.0f", price), price, models.ItemStatusAvailable, false)
	}

	spec, err := services.NewPageSpec(2, 2)
	assert.NoError(t, err)

	page, err := engine.GuestMenu("rest-a", services.ItemFilter{}, services.SortByPrice, services.SortDesc, spec)
	assert.NoError(t, err)

	// Descending price order is [25 20 15 10 5]; the second page of two
	// holds the middle slice.
	assert.Len(t, page.Items, 1)
	assert.Equal(t, []string{"Dish 15", "Dish 10"}, itemNames(page.Items[0].MenuItems))
	assert.Equal(t, int64(5), page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.TotalPages)
}

func TestGuestMenuScorerFailure(t *testing.T) {
	db := setupQueryDB(t)
	cat := createCategory(t, db, "rest-a", "Mains", models.CategoryStatusActive, 1)
	createItem(t, db, "rest-a", cat.ID, "Burger", 9.5, models.ItemStatusAvailable, false)

	engine := services.NewMenuQueryService(db, stubScorer{err: errors.New("rpc unreachable")})

	_, err := engine.GuestMenu("rest-a", services.ItemFilter{}, services.SortByName, services.SortAsc, defaultPage(t))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrUpstreamScoring))
}

func TestGuestMenuSearchFilter(t *testing.T) {
	db := setupQueryDB(t)
	engine := services.NewMenuQueryService(db, stubScorer{})

	cat := createCategory(t, db, "rest-a", "Mains", models.CategoryStatusActive, 1)
	createItem(t, db, "rest-a", cat.ID, "Beef Burger", 9.5, models.ItemStatusAvailable, false)
	createItem(t, db, "rest-a", cat.ID, "Pasta", 11, models.ItemStatusAvailable, false)

	page, err := engine.GuestMenu("rest-a", services.ItemFilter{Search: "BURGER"}, services.SortByName, services.SortAsc, defaultPage(t))
	assert.NoError(t, err)
	assert.Equal(t, int64(1), page.Pagination.Total)
	assert.Equal(t, "Beef Burger", page.Items[0].MenuItems[0].Name)
}

func TestAdminItemsStatusFilter(t *testing.T) {
	db := setupQueryDB(t)
	engine := services.NewMenuQueryService(db, stubScorer{})

	cat := createCategory(t, db, "rest-a", "Mains", models.CategoryStatusActive, 1)
	createItem(t, db, "rest-a", cat.ID, "Burger", 9.5, models.ItemStatusAvailable, false)
	createItem(t, db, "rest-a", cat.ID, "Soldout", 7, models.ItemStatusSoldOut, false)
	createItem(t, db, "rest-a", cat.ID, "Ghost", 5, models.ItemStatusAvailable, true)

	// Staff see every non-deleted item regardless of status.
	page, err := engine.AdminItems("rest-a", services.ItemFilter{}, services.SortByName, services.SortAsc, defaultPage(t))
	assert.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.Total)
	assert.Equal(t, []string{"Burger", "Soldout"}, itemNames(page.Items))

	page, err = engine.AdminItems("rest-a", services.ItemFilter{Status: models.ItemStatusSoldOut}, services.SortByName, services.SortAsc, defaultPage(t))
	assert.NoError(t, err)
	assert.Equal(t, []string{"Soldout"}, itemNames(page.Items))
}

func TestAdminCategoriesItemCountSort(t *testing.T) {
	db := setupQueryDB(t)
	engine := services.NewMenuQueryService(db, stubScorer{})

	full := createCategory(t, db, "rest-a", "Full", models.CategoryStatusActive, 1)
	mid := createCategory(t, db, "rest-a", "Mid", models.CategoryStatusActive, 2)
	createCategory(t, db, "rest-a", "Empty", models.CategoryStatusActive, 3)

	for i := 0; i < 3; i++ {
		createItem(t, db, "rest-a", full.ID, fmt.Sprintf("F%d", i), 5, models.ItemStatusAvailable, false)
	}
	createItem(t, db, "rest-a", mid.ID, "M0", 5, models.ItemStatusAvailable, false)
	createItem(t, db, "rest-a", mid.ID, "Deleted", 5, models.ItemStatusAvailable, true)

	asc, err := engine.AdminCategories("rest-a", services.CategoryFilter{}, services.SortByItemCount, services.SortAsc)
	assert.NoError(t, err)
	// asc on itemCount returns the fullest categories first.
	assert.Equal(t, []string{"Full", "Mid", "Empty"}, categoryNames(asc))
	assert.Equal(t, int64(3), asc[0].ItemCount)
	assert.Equal(t, int64(1), asc[1].ItemCount)
	assert.Equal(t, int64(0), asc[2].ItemCount)

	desc, err := engine.AdminCategories("rest-a", services.CategoryFilter{}, services.SortByItemCount, services.SortDesc)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Empty", "Mid", "Full"}, categoryNames(desc))
}

func categoryNames(cats []services.CategoryWithCount) []string {
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	return names
}

func TestAdminCategoriesDisplayOrderDefault(t *testing.T) {
	db := setupQueryDB(t)
	engine := services.NewMenuQueryService(db, stubScorer{})

	createCategory(t, db, "rest-a", "Second", models.CategoryStatusActive, 2)
	createCategory(t, db, "rest-a", "First", models.CategoryStatusActive, 1)
	createCategory(t, db, "rest-b", "Elsewhere", models.CategoryStatusActive, 0)

	field, dir, err := services.ParseCategorySort("", "")
	assert.NoError(t, err)

	cats, err := engine.AdminCategories("rest-a", services.CategoryFilter{}, field, dir)
	assert.NoError(t, err)
	assert.Equal(t, []string{"First", "Second"}, categoryNames(cats))
}

func TestParseSortValidation(t *testing.T) {
	// createdAt is staff-only; guests cannot sort by it.
	_, _, err := services.ParseGuestSort("createdAt", "asc")
	assert.Error(t, err)

	_, _, err = services.ParseGuestSort("name", "sideways")
	assert.Error(t, err)

	field, dir, err := services.ParseItemSort("", "")
	assert.NoError(t, err)
	assert.Equal(t, services.SortByName, field)
	assert.Equal(t, services.SortAsc, dir)

	field, _, err = services.ParseCategorySort("", "")
	assert.NoError(t, err)
	assert.Equal(t, services.SortByDisplayOrder, field)
}

func TestNewPageSpecBounds(t *testing.T) {
	_, err := services.NewPageSpec(0, 20)
	assert.Error(t, err)

	_, err = services.NewPageSpec(1, 0)
	assert.Error(t, err)

	_, err = services.NewPageSpec(1, 101)
	assert.Error(t, err)

	spec, err := services.NewPageSpec(1, 100)
	assert.NoError(t, err)
	assert.Equal(t, 100, spec.Limit)
}

func TestGroupByCategoryMovesCategoryToGroup(t *testing.T) {
	cat := models.MenuCategory{ID: "cat-1", Name: "Mains"}
	items := []services.ScoredItem{
		{MenuItem: models.MenuItem{ID: "i1", CategoryID: cat.ID, Category: &cat, Name: "Burger"}},
		{MenuItem: models.MenuItem{ID: "i2", CategoryID: cat.ID, Category: &cat, Name: "Pasta"}},
	}

	groups := services.GroupByCategory(items)
	assert.Len(t, groups, 1)
	assert.Equal(t, "Mains", groups[0].Name)
	for _, it := range groups[0].MenuItems {
		assert.Nil(t, it.Category)
	}
}
