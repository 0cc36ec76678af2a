package dbmysql

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zzj2012/backend-project/internal/common"
	"github.com/zzj2012/backend-project/internal/config"
)

// MainRoomName names the single always-present room every user joins.
const MainRoomName = "General"

// NewMySQL returns a GORM DB instance connected to MySQL
func NewMySQL(cnf *config.Config) (*gorm.DB, error) {
	dsn := cnf.DSN()
	if dsn == "" {
		return nil, fmt.Errorf("MYSQL_DSN is not set")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Warn),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql.DB error: %w", err)
	}
	sqlDB.SetMaxOpenConns(cnf.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cnf.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	log.Println("Connected to MySQL successfully")

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Room{},
		&RoomMember{},
		&Message{},
		&Invitation{},
	)
}

// Bootstrap ensures the main room and the default administrator exist. It is
// idempotent and safe to run on every startup.
func Bootstrap(db *gorm.DB, cnf *config.Config) error {
	var main Room
	err := db.Where("is_main = ?", true).First(&main).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		main = Room{Name: MainRoomName, IsMain: true, CreatedAt: common.Now()}
		if err := db.Create(&main).Error; err != nil {
			return fmt.Errorf("create main room: %w", err)
		}
		log.Printf("created main room %q", MainRoomName)
	} else if err != nil {
		return err
	}

	var admin User
	err = db.Where("username = ?", cnf.Admin.Username).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hash, err := common.HashPassword(cnf.Admin.Password)
		if err != nil {
			return err
		}
		admin = User{
			Username:     cnf.Admin.Username,
			PasswordHash: hash,
			IsAdmin:      true,
			CreatedAt:    common.Now(),
		}
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&admin).Error; err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			member := RoomMember{UserID: admin.ID, RoomID: main.ID, JoinedAt: admin.CreatedAt}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
			log.Printf("created default admin account %q", cnf.Admin.Username)
			return nil
		})
	}
	return err
}
