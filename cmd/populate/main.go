// Command populate loads sample categories and products from a JSON
// file and assigns the products to an existing seller account.
//
// Usage: populate -seller <username> [-file sample_products.json]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Appyouz/ecommerce-backend/models"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type sampleProduct struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	Image        string          `json:"image"`
	CategoryName string          `json:"category_name"`
}

func main() {
	sellerName := flag.String("seller", "", "username of the seller to assign products to")
	jsonFile := flag.String("file", "sample_products.json", "JSON file to load product data from")
	flag.Parse()

	if *sellerName == "" {
		log.Fatal("-seller is required")
	}

	_ = godotenv.Load()

	db := connectDatabase()

	raw, err := os.ReadFile(*jsonFile)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *jsonFile, err)
	}
	var products []sampleProduct
	if err := json.Unmarshal(raw, &products); err != nil {
		log.Fatalf("Failed to parse %s: %v", *jsonFile, err)
	}
	log.Printf("Loaded %d products from %s", len(products), *jsonFile)

	var seller models.User
	if err := db.Where("username = ?", *sellerName).First(&seller).Error; err != nil {
		log.Fatalf("Seller user %q not found", *sellerName)
	}
	if !seller.IsSeller() {
		log.Fatalf("User %q is not a seller; products can only be assigned to a seller", *sellerName)
	}

	// First pass: categories
	categories := make(map[string]uint)
	for _, p := range products {
		if p.CategoryName == "" {
			continue
		}
		if _, done := categories[p.CategoryName]; done {
			continue
		}
		var category models.Category
		if err := db.Where(models.Category{Name: p.CategoryName}).
			FirstOrCreate(&category).Error; err != nil {
			log.Fatalf("Failed to get or create category %q: %v", p.CategoryName, err)
		}
		categories[p.CategoryName] = category.ID
	}
	log.Printf("Processed %d categories", len(categories))

	// Second pass: products
	created := 0
	for _, p := range products {
		if !p.Price.IsPositive() {
			log.Printf("Skipping %q: price must be positive", p.Name)
			continue
		}
		product := models.Product{
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Stock:       p.Stock,
			Image:       p.Image,
			SellerID:    seller.ID,
		}
		if id, ok := categories[p.CategoryName]; ok {
			categoryID := id
			product.CategoryID = &categoryID
		}
		if err := db.Create(&product).Error; err != nil {
			log.Printf("Failed to create product %q: %v", p.Name, err)
			continue
		}
		created++
	}
	log.Printf("Created %d products for seller %s", created, seller.Username)
}

func connectDatabase() *gorm.DB {
	cfg := &gorm.Config{TranslateError: true}

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), cfg)
		if err != nil {
			log.Fatalf("DB connection failed: %v", err)
		}
		return db
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		log.Fatalf("Failed to connect DB: %v", err)
	}
	return db
}
