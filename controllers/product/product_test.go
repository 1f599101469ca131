package productcontroller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Appyouz/ecommerce-backend/auth"
	"github.com/Appyouz/ecommerce-backend/models"
	"github.com/Appyouz/ecommerce-backend/routes"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
	)
	require.NoError(t, err)

	r := gin.New()
	r.Use(gin.Recovery())
	// nil cache: the catalog works with caching disabled
	routes.SetupCatalogRoutes(r.Group("/api"), testDB, nil)

	return r, testDB
}

func newUser(t *testing.T, db *gorm.DB, username string, role models.Role) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func send(t *testing.T, r *gin.Engine, user *models.User, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, err := auth.IssueToken(user)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateProduct(t *testing.T) {
	r, db := setupCatalogTest(t)
	seller := newUser(t, db, "seller", models.RoleSeller)
	buyer := newUser(t, db, "buyer", models.RoleBuyer)

	t.Run("seller creates product", func(t *testing.T) {
		w := send(t, r, &seller, http.MethodPost, "/api/products/",
			gin.H{"name": "Widget", "price": "10.00", "stock": 5})
		assert.Equal(t, http.StatusCreated, w.Code)

		var product models.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
		assert.Equal(t, seller.ID, product.SellerID)
		assert.True(t, product.Price.Equal(decimal.NewFromFloat(10.00)))
	})

	t.Run("buyer forbidden", func(t *testing.T) {
		w := send(t, r, &buyer, http.MethodPost, "/api/products/",
			gin.H{"name": "Widget", "price": "10.00"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("anonymous forbidden", func(t *testing.T) {
		w := send(t, r, nil, http.MethodPost, "/api/products/",
			gin.H{"name": "Widget", "price": "10.00"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("non-positive price rejected", func(t *testing.T) {
		w := send(t, r, &seller, http.MethodPost, "/api/products/",
			gin.H{"name": "Freebie", "price": "0"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad category id degrades to null", func(t *testing.T) {
		w := send(t, r, &seller, http.MethodPost, "/api/products/",
			gin.H{"name": "Orphan", "price": "1.00", "category_id": 9999})
		assert.Equal(t, http.StatusCreated, w.Code)

		var product models.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
		assert.Nil(t, product.CategoryID)
	})
}

func TestProductOwnership(t *testing.T) {
	r, db := setupCatalogTest(t)
	owner := newUser(t, db, "owner", models.RoleSeller)
	rival := newUser(t, db, "rival", models.RoleSeller)

	product := models.Product{
		Name:     "Widget",
		Price:    decimal.NewFromFloat(10.00),
		SellerID: owner.ID,
	}
	require.NoError(t, db.Create(&product).Error)
	path := fmt.Sprintf("/api/products/%d/", product.ID)

	t.Run("non-owner read succeeds", func(t *testing.T) {
		w := send(t, r, &rival, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non-owner update forbidden", func(t *testing.T) {
		w := send(t, r, &rival, http.MethodPatch, path,
			gin.H{"name": "Hijacked", "price": "1.00"})
		assert.Equal(t, http.StatusForbidden, w.Code)

		var stored models.Product
		require.NoError(t, db.First(&stored, product.ID).Error)
		assert.Equal(t, "Widget", stored.Name)
	})

	t.Run("non-owner delete forbidden", func(t *testing.T) {
		w := send(t, r, &rival, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner update succeeds", func(t *testing.T) {
		w := send(t, r, &owner, http.MethodPatch, path,
			gin.H{"name": "Widget v2", "price": "12.00"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("owner delete succeeds", func(t *testing.T) {
		w := send(t, r, &owner, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestUpdateProductPartial(t *testing.T) {
	r, db := setupCatalogTest(t)
	owner := newUser(t, db, "owner", models.RoleSeller)

	category := models.Category{Name: "Tools"}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{
		Name:        "Widget",
		Description: "a fine widget",
		Price:       decimal.NewFromFloat(10.00),
		Stock:       5,
		Image:       "http://example.com/widget.png",
		SellerID:    owner.ID,
		CategoryID:  &category.ID,
	}
	require.NoError(t, db.Create(&product).Error)
	path := fmt.Sprintf("/api/products/%d/", product.ID)

	t.Run("omitted fields survive", func(t *testing.T) {
		w := send(t, r, &owner, http.MethodPatch, path, gin.H{"stock": 3})
		assert.Equal(t, http.StatusOK, w.Code)

		var stored models.Product
		require.NoError(t, db.First(&stored, product.ID).Error)
		assert.Equal(t, 3, stored.Stock)
		assert.Equal(t, "Widget", stored.Name)
		assert.Equal(t, "a fine widget", stored.Description)
		assert.True(t, stored.Price.Equal(decimal.NewFromFloat(10.00)))
		assert.Equal(t, "http://example.com/widget.png", stored.Image)
		require.NotNil(t, stored.CategoryID)
		assert.Equal(t, category.ID, *stored.CategoryID)
	})

	t.Run("renaming keeps the category", func(t *testing.T) {
		w := send(t, r, &owner, http.MethodPatch, path, gin.H{"name": "Widget v2"})
		assert.Equal(t, http.StatusOK, w.Code)

		var stored models.Product
		require.NoError(t, db.First(&stored, product.ID).Error)
		assert.Equal(t, "Widget v2", stored.Name)
		require.NotNil(t, stored.CategoryID)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		w := send(t, r, &owner, http.MethodPatch, path, gin.H{"name": ""})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-positive price rejected", func(t *testing.T) {
		w := send(t, r, &owner, http.MethodPatch, path, gin.H{"price": "-1.00"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var stored models.Product
		require.NoError(t, db.First(&stored, product.ID).Error)
		assert.True(t, stored.Price.Equal(decimal.NewFromFloat(10.00)))
	})

	t.Run("explicit null detaches the category", func(t *testing.T) {
		w := send(t, r, &owner, http.MethodPatch, path, gin.H{"category_id": nil})
		assert.Equal(t, http.StatusOK, w.Code)

		var stored models.Product
		require.NoError(t, db.First(&stored, product.ID).Error)
		assert.Nil(t, stored.CategoryID)
	})
}

func TestCatalogMalformedID(t *testing.T) {
	r, db := setupCatalogTest(t)
	seller := newUser(t, db, "seller", models.RoleSeller)

	w := send(t, r, nil, http.MethodGet, "/api/products/abc/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(t, r, &seller, http.MethodPatch, "/api/products/abc/", gin.H{"stock": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(t, r, nil, http.MethodGet, "/api/categories/abc/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(t, r, &seller, http.MethodDelete, "/api/categories/abc/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListProductsFilters(t *testing.T) {
	r, db := setupCatalogTest(t)
	seller := newUser(t, db, "seller", models.RoleSeller)

	category := models.Category{Name: "Tools"}
	require.NoError(t, db.Create(&category).Error)

	hammer := models.Product{Name: "Hammer", Description: "steel head",
		Price: decimal.NewFromFloat(15.00), SellerID: seller.ID, CategoryID: &category.ID}
	duck := models.Product{Name: "Rubber Duck", Description: "debugging aid",
		Price: decimal.NewFromFloat(5.00), SellerID: seller.ID}
	require.NoError(t, db.Create(&hammer).Error)
	require.NoError(t, db.Create(&duck).Error)

	t.Run("no filter lists everything", func(t *testing.T) {
		w := send(t, r, nil, http.MethodGet, "/api/products/", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		var products []models.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
		assert.Len(t, products, 2)
	})

	t.Run("category filter", func(t *testing.T) {
		w := send(t, r, nil, http.MethodGet, fmt.Sprintf("/api/products/?category=%d", category.ID), nil)
		var products []models.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
		require.Len(t, products, 1)
		assert.Equal(t, "Hammer", products[0].Name)
	})

	t.Run("search filter matches description", func(t *testing.T) {
		w := send(t, r, nil, http.MethodGet, "/api/products/?search=debugging", nil)
		var products []models.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
		require.Len(t, products, 1)
		assert.Equal(t, "Rubber Duck", products[0].Name)
	})
}

func TestDeleteCategoryDetachesProducts(t *testing.T) {
	r, db := setupCatalogTest(t)
	seller := newUser(t, db, "seller", models.RoleSeller)

	category := models.Category{Name: "Doomed"}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{Name: "Widget", Price: decimal.NewFromFloat(10.00),
		SellerID: seller.ID, CategoryID: &category.ID}
	require.NoError(t, db.Create(&product).Error)

	w := send(t, r, &seller, http.MethodDelete, fmt.Sprintf("/api/categories/%d/", category.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var stored models.Product
	require.NoError(t, db.First(&stored, product.ID).Error)
	assert.Nil(t, stored.CategoryID, "product should survive with category detached")
}

func TestCategoryCRUD(t *testing.T) {
	r, db := setupCatalogTest(t)
	user := newUser(t, db, "someone", models.RoleBuyer)

	t.Run("anonymous write rejected", func(t *testing.T) {
		w := send(t, r, nil, http.MethodPost, "/api/categories/", gin.H{"name": "Tools"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("create and list", func(t *testing.T) {
		w := send(t, r, &user, http.MethodPost, "/api/categories/",
			gin.H{"name": "Tools", "description": "hand tools"})
		assert.Equal(t, http.StatusCreated, w.Code)

		w = send(t, r, nil, http.MethodGet, "/api/categories/", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		var categories []models.Category
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &categories))
		assert.Len(t, categories, 1)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		w := send(t, r, &user, http.MethodPost, "/api/categories/", gin.H{"name": "Tools"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
