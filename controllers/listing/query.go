package listingControllers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Omphii/peercart-api/models"
)

// PageSize is the fixed catalog page length.
const PageSize = 12

// Query carries every browse filter. Filters compose conjunctively; zero
// values mean "not set".
type Query struct {
	Search     string
	CategoryID uint
	Condition  string
	City       string
	MinPrice   *float64
	MaxPrice   *float64
	Quick      string // named quick filter: discount, featured, new, low-stock, high-view
	Sort       string // newest, price_asc, price_desc, most_viewed, lowest_stock
	Page       int
}

// Result is one catalog page plus the numbers the pager needs.
type Result struct {
	Listings   []models.Listing `json:"listings"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

const highViewThreshold = 100

// Run builds and executes the catalog query: all supplied filters ANDed over
// the visible (active) listings, a whitelisted sort, fixed-size pagination.
func (q Query) Run(db *gorm.DB) (*Result, error) {
	query := db.Model(&models.Listing{}).
		Where("is_active = ?", true).
		Where("status = ?", models.ListingStatusActive)

	if q.Search != "" {
		likePattern := "%" + q.Search + "%"
		query = query.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)",
			likePattern, likePattern,
		)
	}
	if q.CategoryID != 0 {
		query = query.Where("category_id = ?", q.CategoryID)
	}
	if q.Condition != "" {
		query = query.Where("condition = ?", q.Condition)
	}
	if q.City != "" {
		query = query.Where("city = ?", q.City)
	}
	if q.MinPrice != nil {
		query = query.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		query = query.Where("price <= ?", *q.MaxPrice)
	}

	switch q.Quick {
	case "discount":
		query = query.Where("original_price IS NOT NULL AND original_price > price")
	case "featured":
		query = query.Where("is_featured = ?", true)
	case "new":
		query = query.Where("created_at >= ?", time.Now().AddDate(0, 0, -7))
	case "low-stock", "low_stock":
		query = query.Where("quantity > 0 AND quantity <= 5")
	case "high-view":
		query = query.Where("views >= ?", highViewThreshold)
	}

	// Count on a clone so the count's SELECT does not leak into the page query.
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}

	var listings []models.Listing
	if err := query.
		Order(sortClause(q.Sort)).
		Limit(PageSize).
		Offset((page - 1) * PageSize).
		Find(&listings).Error; err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(PageSize)))
	return &Result{
		Listings:   listings,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// sortClause whitelists sort keys; anything unknown falls back to newest.
func sortClause(sort string) string {
	switch sort {
	case "price_asc":
		return "price ASC"
	case "price_desc":
		return "price DESC"
	case "most_viewed":
		return "views DESC"
	case "lowest_stock":
		return "quantity ASC"
	default:
		return "created_at DESC"
	}
}

// GET /listings
func GetListings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := parseQuery(c)
		if err != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": err})
			return
		}

		result, runErr := q.Run(db)
		if runErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listings"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func parseQuery(c *gin.Context) (Query, string) {
	q := Query{
		Search:    c.Query("search"),
		Condition: c.Query("condition"),
		City:      c.Query("city"),
		Quick:     c.Query("filter"),
		Sort:      c.Query("sort"),
		Page:      1,
	}

	// category_id with category as the legacy alias.
	categoryStr := c.Query("category_id")
	if categoryStr == "" {
		categoryStr = c.Query("category")
	}
	if categoryStr != "" {
		cid, err := strconv.ParseUint(categoryStr, 10, 64)
		if err != nil {
			return q, "Invalid category_id"
		}
		q.CategoryID = uint(cid)
	}

	if minStr := c.Query("min_price"); minStr != "" {
		mp, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			return q, "Invalid min_price"
		}
		q.MinPrice = &mp
	}
	if maxStr := c.Query("max_price"); maxStr != "" {
		mp, err := strconv.ParseFloat(maxStr, 64)
		if err != nil {
			return q, "Invalid max_price"
		}
		q.MaxPrice = &mp
	}
	if pageStr := c.Query("page"); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 1 {
			return q, "Invalid page"
		}
		q.Page = p
	}
	return q, ""
}
