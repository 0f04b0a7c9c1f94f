package config

import (
	"fmt"
	"log"
	"os"

	"github.com/creative2/guest-feedback-server/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDB khởi tạo kết nối PostgreSQL và migrate bảng
func ConnectDB() {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Ho_Chi_Minh",
		host, user, password, dbName, port)

	// TranslateError: vòng phát hành token cần nhận ra lỗi trùng unique
	// (gorm.ErrDuplicatedKey) để retry thay vì trả lỗi cho client.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto migrate bảng
	err = db.AutoMigrate(
		&models.User{},
		&models.Hotel{},
		&models.UserHotel{},
		&models.Guest{},
		&models.ReviewToken{},
		&models.SmtpProfile{},
		&models.EmailTemplate{},
		&models.EmailLog{},
		&models.Feedback{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	DB = db
	log.Println("Connected to PostgreSQL & migrated successfully")
}
