package repositories

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/maxaizer/jobmatch/internal/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string) (*DbContext, error) {
	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {
	err := c.DB.AutoMigrate(entities.JobListing{})
	if err != nil {
		return fmt.Errorf("failed to migrate JobListing entity: %w", err)
	}

	if err = c.DB.Exec("CREATE INDEX IF NOT EXISTS idx_job_listings_posted_date ON job_listings (posted_date); " +
		"CREATE INDEX IF NOT EXISTS idx_job_listings_company ON job_listings (company);").
		Error; err != nil {
		return fmt.Errorf("failed to create job listing indexes: %w", err)
	}

	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
