package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/maxaizer/jobmatch/internal/entities"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Jobs is the listing accessor. The matching core only reads from it;
// the write side exists for ingestion and the expiry cleaner.
type Jobs struct {
	db *gorm.DB
}

func NewJobsRepository(db *gorm.DB) *Jobs {
	return &Jobs{db: db}
}

func (repo *Jobs) GetByID(ctx context.Context, id string) (*entities.JobListing, error) {

	var job entities.JobListing
	if err := repo.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// GetFiltered returns listings surviving the structural filters. Salary, type,
// location, company and age constraints translate to SQL; skill constraints are
// applied in memory because skills live in serialized JSON columns.
func (repo *Jobs) GetFiltered(ctx context.Context, filters *entities.SearchFilters) ([]entities.JobListing, error) {

	query := repo.db.WithContext(ctx).Model(&entities.JobListing{})

	if filters != nil {
		if filters.MinSalary != nil {
			query = query.Where("salary_max >= ?", *filters.MinSalary)
		}
		if filters.MaxSalary != nil {
			query = query.Where("salary_min <= ?", *filters.MaxSalary)
		}
		if len(filters.JobTypes) > 0 {
			query = query.Where("job_type IN ?", filters.JobTypes)
		}
		if len(filters.RemoteTypes) > 0 {
			query = query.Where("remote_type IN ?", filters.RemoteTypes)
		}
		if len(filters.ExperienceLevels) > 0 {
			query = query.Where("experience_level IN ?", filters.ExperienceLevels)
		}
		if len(filters.Locations) > 0 {
			locations := repo.db
			for _, location := range filters.Locations {
				locations = locations.Or("location LIKE ?", "%"+location+"%")
			}
			query = query.Where(locations)
		}
		if len(filters.Companies) > 0 {
			query = query.Where("company IN ?", filters.Companies)
		}

		cutoff := time.Now().AddDate(0, 0, -filters.MaxAge())
		query = query.Where("posted_date >= ?", cutoff)
	}

	var jobs []entities.JobListing
	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}

	return filterBySkills(jobs, filters), nil
}

func (repo *Jobs) Count(ctx context.Context) (int64, error) {

	var count int64
	if err := repo.db.WithContext(ctx).Model(&entities.JobListing{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *Jobs) Add(ctx context.Context, jobs []entities.JobListing) error {
	if len(jobs) == 0 {
		return nil
	}
	return repo.db.WithContext(ctx).Create(&jobs).Error
}

// RemoveExpired deletes listings whose expiry date has passed, plus
// listings without one that were posted before staleBefore.
func (repo *Jobs) RemoveExpired(ctx context.Context, now time.Time, staleBefore time.Time) (int64, error) {
	res := repo.db.WithContext(ctx).
		Delete(&entities.JobListing{},
			"(expires_date IS NOT NULL AND expires_date < ?) OR (expires_date IS NULL AND posted_date < ?)",
			now, staleBefore)
	return res.RowsAffected, res.Error
}

func filterBySkills(jobs []entities.JobListing, filters *entities.SearchFilters) []entities.JobListing {

	if filters == nil || (len(filters.RequiredSkills) == 0 && len(filters.ExcludedSkills) == 0) {
		return jobs
	}

	required := lo.Map(filters.RequiredSkills, func(s string, _ int) string { return strings.ToLower(strings.TrimSpace(s)) })
	excluded := lo.Map(filters.ExcludedSkills, func(s string, _ int) string { return strings.ToLower(strings.TrimSpace(s)) })

	return lo.Filter(jobs, func(job entities.JobListing, _ int) bool {
		skills := job.Skills()
		if len(required) > 0 && !lo.Every(skills, required) {
			return false
		}
		if len(excluded) > 0 && lo.Some(skills, excluded) {
			return false
		}
		return true
	})
}
