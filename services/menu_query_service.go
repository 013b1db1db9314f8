package services

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/dineqr/backoffice/models"
	"github.com/dineqr/backoffice/utils"
)

// SortField enumerates every sortable column across item and category
// listings. Keeping it closed means each listing picks its comparators from
// an explicit table instead of switching on raw strings.
type SortField int

const (
	SortByName SortField = iota
	SortByPrice
	SortByCreatedAt
	SortByPopularity
	SortByDisplayOrder
	SortByItemCount
)

type SortDirection int

const (
	SortAsc SortDirection = iota
	SortDesc
)

var guestSortFields = map[string]SortField{
	"name":       SortByName,
	"price":      SortByPrice,
	"popularity": SortByPopularity,
}

var itemSortFields = map[string]SortField{
	"name":       SortByName,
	"price":      SortByPrice,
	"createdAt":  SortByCreatedAt,
	"popularity": SortByPopularity,
}

var categorySortFields = map[string]SortField{
	"name":         SortByName,
	"displayOrder": SortByDisplayOrder,
	"createdAt":    SortByCreatedAt,
	"itemCount":    SortByItemCount,
}

func parseSort(sortBy, sortOrder string, allowed map[string]SortField, def SortField) (SortField, SortDirection, error) {
	field := def
	if sortBy != "" {
		f, ok := allowed[sortBy]
		if !ok {
			return 0, 0, fmt.Errorf("unknown sortBy value %q", sortBy)
		}
		field = f
	}

	switch sortOrder {
	case "", "asc":
		return field, SortAsc, nil
	case "desc":
		return field, SortDesc, nil
	default:
		return 0, 0, fmt.Errorf("unknown sortOrder value %q", sortOrder)
	}
}

// ParseGuestSort accepts the guest menu sort parameters (name, price,
// popularity). Defaults to name ascending.
func ParseGuestSort(sortBy, sortOrder string) (SortField, SortDirection, error) {
	return parseSort(sortBy, sortOrder, guestSortFields, SortByName)
}

// ParseItemSort accepts the admin item listing sort parameters.
func ParseItemSort(sortBy, sortOrder string) (SortField, SortDirection, error) {
	return parseSort(sortBy, sortOrder, itemSortFields, SortByName)
}

// ParseCategorySort accepts the admin category listing sort parameters.
// Defaults to displayOrder ascending.
func ParseCategorySort(sortBy, sortOrder string) (SortField, SortDirection, error) {
	return parseSort(sortBy, sortOrder, categorySortFields, SortByDisplayOrder)
}

// PageSpec is a validated page request.
type PageSpec struct {
	Page  int
	Limit int
}

func NewPageSpec(page, limit int) (PageSpec, error) {
	if page < 1 {
		return PageSpec{}, fmt.Errorf("page must be >= 1, got %d", page)
	}
	if limit < 1 || limit > 100 {
		return PageSpec{}, fmt.Errorf("limit must be between 1 and 100, got %d", limit)
	}
	return PageSpec{Page: page, Limit: limit}, nil
}

// ItemFilter carries the relationally expressible filters. Status only
// applies to admin listings; guests always see available items in active
// categories.
type ItemFilter struct {
	Search          string
	CategoryID      string
	ChefRecommended *bool
	Status          string
}

type CategoryFilter struct {
	Search string
	Status string
}

// ScoredItem is a menu item with its popularity score merged in.
type ScoredItem struct {
	models.MenuItem
	Popularity float64 `json:"popularity"`
}

// CategoryGroup is one category with the page's items that belong to it.
type CategoryGroup struct {
	models.MenuCategory
	MenuItems []ScoredItem `json:"menu_items"`
}

type CategoryWithCount struct {
	models.MenuCategory
	ItemCount int64 `json:"item_count"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type GuestMenuPage struct {
	Items      []CategoryGroup `json:"items"`
	Pagination Pagination      `json:"pagination"`
}

type AdminItemPage struct {
	Items      []ScoredItem `json:"items"`
	Pagination Pagination   `json:"pagination"`
}

// MenuQueryService runs listings as a staged pipeline: fetch the candidate
// set, merge popularity scores, sort in memory, paginate, then (for guests)
// regroup by category. Sorting happens in memory because the popularity
// signal is computed outside the store's native ordering.
type MenuQueryService struct {
	DB     *gorm.DB
	Scorer PopularityScorer
}

func NewMenuQueryService(db *gorm.DB, scorer PopularityScorer) *MenuQueryService {
	return &MenuQueryService{DB: db, Scorer: scorer}
}

// itemQuery builds the relational filter set shared by the fetch and count
// queries. guest adds the visibility rules: active category, available item.
func (s *MenuQueryService) itemQuery(restaurantID string, f ItemFilter, guest bool) *gorm.DB {
	q := s.DB.Model(&models.MenuItem{}).
		Where("menu_items.restaurant_id = ?", restaurantID).
		Where("menu_items.is_deleted = ?", false)

	if guest {
		q = q.Joins("JOIN menu_categories ON menu_categories.id = menu_items.category_id").
			Where("menu_categories.status = ?", models.CategoryStatusActive).
			Where("menu_items.status = ?", models.ItemStatusAvailable)
	}

	if f.Search != "" {
		q = q.Where("LOWER(menu_items.name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	if f.CategoryID != "" {
		q = q.Where("menu_items.category_id = ?", f.CategoryID)
	}
	if f.ChefRecommended != nil {
		q = q.Where("menu_items.is_chef_recommended = ?", *f.ChefRecommended)
	}
	if !guest && f.Status != "" {
		q = q.Where("menu_items.status = ?", f.Status)
	}

	return q
}

func (s *MenuQueryService) fetchItems(restaurantID string, f ItemFilter, guest bool) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.itemQuery(restaurantID, f, guest).
		Preload("Category").
		Preload("Photos").
		Preload("ModifierGroups", "status = ?", models.ModifierStatusActive).
		Preload("ModifierGroups.Options").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("fetch menu items: %w", err)
	}
	return items, nil
}

// countItems shares the relational filters with fetchItems but runs as a
// plain count; the joins used for row expansion make counting on the fetch
// query unreliable.
func (s *MenuQueryService) countItems(restaurantID string, f ItemFilter, guest bool) (int64, error) {
	var total int64
	if err := s.itemQuery(restaurantID, f, guest).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count menu items: %w", err)
	}
	return total, nil
}

// scoreItems merges popularity onto every candidate row. A scorer failure
// aborts the whole listing; no unranked fallback.
func (s *MenuQueryService) scoreItems(restaurantID string, items []models.MenuItem) ([]ScoredItem, error) {
	scores, err := s.Scorer.Scores(restaurantID, DefaultPopularityWindow)
	if err != nil {
		utils.ErrorLogger.Printf("popularity scoring failed for restaurant %s: %v", restaurantID, err)
		return nil, fmt.Errorf("%w: %v", utils.ErrUpstreamScoring, err)
	}

	scored := make([]ScoredItem, 0, len(items))
	for _, it := range items {
		scored = append(scored, ScoredItem{MenuItem: it, Popularity: scores[it.ID]})
	}
	return scored, nil
}

func compareFold(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

var itemComparators = map[SortField]func(a, b ScoredItem) int{
	SortByName: func(a, b ScoredItem) int {
		return compareFold(a.Name, b.Name)
	},
	SortByPrice: func(a, b ScoredItem) int {
		return compareFloat(a.Price, b.Price)
	},
	SortByCreatedAt: func(a, b ScoredItem) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	},
	SortByPopularity: func(a, b ScoredItem) int {
		return compareFloat(a.Popularity, b.Popularity)
	},
}

func sortItems(items []ScoredItem, field SortField, dir SortDirection) error {
	cmp, ok := itemComparators[field]
	if !ok {
		return fmt.Errorf("sort field not supported for items")
	}
	sort.SliceStable(items, func(i, j int) bool {
		c := cmp(items[i], items[j])
		if dir == SortDesc {
			return c > 0
		}
		return c < 0
	})
	return nil
}

func paginateItems(items []ScoredItem, p PageSpec) []ScoredItem {
	offset := (p.Page - 1) * p.Limit
	if offset >= len(items) {
		return []ScoredItem{}
	}
	end := offset + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func newPagination(p PageSpec, total int64) Pagination {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Pagination{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: totalPages}
}

// GroupByCategory folds a flat, already-sorted page of items into per
// category buckets. Group order follows the first occurrence of each
// category in the input, not the category's display order: items are sorted
// and paginated first, so a category can appear out of its natural order or
// be split across pages.
func GroupByCategory(items []ScoredItem) []CategoryGroup {
	groups := make([]CategoryGroup, 0)
	index := make(map[string]int)

	for _, it := range items {
		i, ok := index[it.CategoryID]
		if !ok {
			var cat models.MenuCategory
			if it.Category != nil {
				cat = *it.Category
			} else {
				cat = models.MenuCategory{ID: it.CategoryID}
			}
			i = len(groups)
			index[it.CategoryID] = i
			groups = append(groups, CategoryGroup{MenuCategory: cat, MenuItems: []ScoredItem{}})
		}
		it.Category = nil // category now lives on the group
		groups[i].MenuItems = append(groups[i].MenuItems, it)
	}

	return groups
}

// GuestMenu serves the token-gated guest listing: visibility rules applied,
// page regrouped by category.
func (s *MenuQueryService) GuestMenu(restaurantID string, f ItemFilter, field SortField, dir SortDirection, page PageSpec) (*GuestMenuPage, error) {
	f.Status = ""

	items, err := s.fetchItems(restaurantID, f, true)
	if err != nil {
		return nil, err
	}
	total, err := s.countItems(restaurantID, f, true)
	if err != nil {
		return nil, err
	}

	scored, err := s.scoreItems(restaurantID, items)
	if err != nil {
		return nil, err
	}
	if err := sortItems(scored, field, dir); err != nil {
		return nil, err
	}

	return &GuestMenuPage{
		Items:      GroupByCategory(paginateItems(scored, page)),
		Pagination: newPagination(page, total),
	}, nil
}

// AdminItems serves the staff-facing item listing: same pipeline as the
// guest menu without the visibility rules or regrouping.
func (s *MenuQueryService) AdminItems(restaurantID string, f ItemFilter, field SortField, dir SortDirection, page PageSpec) (*AdminItemPage, error) {
	items, err := s.fetchItems(restaurantID, f, false)
	if err != nil {
		return nil, err
	}
	total, err := s.countItems(restaurantID, f, false)
	if err != nil {
		return nil, err
	}

	scored, err := s.scoreItems(restaurantID, items)
	if err != nil {
		return nil, err
	}
	if err := sortItems(scored, field, dir); err != nil {
		return nil, err
	}

	return &AdminItemPage{
		Items:      paginateItems(scored, page),
		Pagination: newPagination(page, total),
	}, nil
}

var categoryComparators = map[SortField]func(a, b CategoryWithCount) int{
	SortByName: func(a, b CategoryWithCount) int {
		return compareFold(a.Name, b.Name)
	},
	SortByDisplayOrder: func(a, b CategoryWithCount) int {
		return a.DisplayOrder - b.DisplayOrder
	},
	SortByCreatedAt: func(a, b CategoryWithCount) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	},
	SortByItemCount: func(a, b CategoryWithCount) int {
		return int(a.ItemCount - b.ItemCount)
	},
}

func sortCategories(cats []CategoryWithCount, field SortField, dir SortDirection) error {
	cmp, ok := categoryComparators[field]
	if !ok {
		return fmt.Errorf("sort field not supported for categories")
	}

	asc := dir == SortAsc
	if field == SortByItemCount {
		// Long-standing quirk clients depend on: asc returns the fullest
		// categories first, desc the emptiest. Kept as shipped.
		asc = !asc
	}

	sort.SliceStable(cats, func(i, j int) bool {
		c := cmp(cats[i], cats[j])
		if asc {
			return c < 0
		}
		return c > 0
	})
	return nil
}

// AdminCategories lists a restaurant's categories with non-deleted item
// counts merged in. The item counts come from a separate grouped count, so
// ordering by them happens in memory like the popularity sort.
func (s *MenuQueryService) AdminCategories(restaurantID string, f CategoryFilter, field SortField, dir SortDirection) ([]CategoryWithCount, error) {
	var cats []models.MenuCategory
	q := s.DB.Where("restaurant_id = ?", restaurantID)
	if f.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if err := q.Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}

	type countRow struct {
		CategoryID string
		N          int64
	}
	var counts []countRow
	err := s.DB.Model(&models.MenuItem{}).
		Select("category_id AS category_id, COUNT(*) AS n").
		Where("restaurant_id = ?", restaurantID).
		Where("is_deleted = ?", false).
		Group("category_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count category items: %w", err)
	}

	countByCategory := make(map[string]int64, len(counts))
	for _, c := range counts {
		countByCategory[c.CategoryID] = c.N
	}

	out := make([]CategoryWithCount, 0, len(cats))
	for _, cat := range cats {
		out = append(out, CategoryWithCount{
			MenuCategory: cat,
			ItemCount:    countByCategory[cat.ID],
		})
	}

	if err := sortCategories(out, field, dir); err != nil {
		return nil, err
	}
	return out, nil
}
