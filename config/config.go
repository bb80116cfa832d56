package config

import (
	"fmt"
	"log"
	"os"

	"github.com/devneill/dinnernotonyourown/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// PlacesAPIKey là credential gọi Google Places, bắt buộc phải có lúc khởi động.
var PlacesAPIKey string

// ConnectDB khởi tạo kết nối PostgreSQL và migrate bảng
func ConnectDB() {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=America/Denver",
		host, user, password, dbName, port)

	// TranslateError để unique violation map về gorm.ErrDuplicatedKey
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto migrate bảng
	err = db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.DinnerGroup{},
		&models.Attendee{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	DB = db
	log.Println("Connected to PostgreSQL & migrated successfully")
}

// LoadPlacesKey đọc GOOGLE_PLACES_API_KEY; thiếu key là lỗi cấu hình,
// dừng process ngay chứ không để tới lúc request mới vỡ.
func LoadPlacesKey() {
	PlacesAPIKey = os.Getenv("GOOGLE_PLACES_API_KEY")
	if PlacesAPIKey == "" {
		log.Fatal("GOOGLE_PLACES_API_KEY không được thiết lập")
	}
}
