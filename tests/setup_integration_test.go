package tests

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/maxaizer/jobmatch/internal/config"
	"github.com/maxaizer/jobmatch/internal/entities"
	"github.com/maxaizer/jobmatch/internal/repositories"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

var dbCtx *repositories.DbContext

var seedJobs = []entities.JobListing{
	{
		ID:              "go-backend-1",
		Title:           "Golang Backend Developer",
		Company:         "Acme",
		Location:        "Berlin, Germany",
		RemoteType:      entities.Remote,
		JobType:         entities.FullTime,
		ExperienceLevel: entities.MidLevel,
		Description:     "Build and operate golang backend services",
		SkillsRequired:  []string{"go", "postgresql", "docker"},
		SalaryMin:       lo.ToPtr(70_000.0),
		SalaryMax:       lo.ToPtr(95_000.0),
		PostedDate:      time.Now().Add(-24 * time.Hour),
	},
	{
		ID:              "frontend-1",
		Title:           "Frontend Developer",
		Company:         "Globex",
		Location:        "Paris, France",
		RemoteType:      entities.OnSite,
		JobType:         entities.FullTime,
		ExperienceLevel: entities.EntryLevel,
		Description:     "Build react frontends",
		SkillsRequired:  []string{"javascript", "react"},
		PostedDate:      time.Now().Add(-48 * time.Hour),
	},
	{
		ID:              "go-platform-1",
		Title:           "Platform Engineer",
		Company:         "Initech",
		Location:        "Berlin, Germany",
		RemoteType:      entities.Hybrid,
		JobType:         entities.FullTime,
		ExperienceLevel: entities.SeniorLevel,
		Description:     "Golang platform tooling and infrastructure",
		SkillsRequired:  []string{"go", "kubernetes"},
		PostedDate:      time.Now().Add(-72 * time.Hour),
		ExpiresDate:     lo.ToPtr(time.Now().Add(30 * 24 * time.Hour)),
	},
	{
		ID:              "expired-1",
		Title:           "Data Analyst",
		Company:         "Umbrella",
		Location:        "Remote",
		RemoteType:      entities.Remote,
		JobType:         entities.Contract,
		ExperienceLevel: entities.Associate,
		Description:     "Analyze datasets",
		SkillsRequired:  []string{"sql", "python"},
		PostedDate:      time.Now().Add(-10 * 24 * time.Hour),
		ExpiresDate:     lo.ToPtr(time.Now().Add(-24 * time.Hour)),
	},
}

func upEnvironment() {

	os.Setenv("DB_CONNECTION_STRING", "testdatabase.db")
	os.Setenv("GEMINI_KEY", "test-key")
	cfg := config.Get()

	var err error
	dbCtx, err = repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("could not create db context: %s", err)
	}

	err = dbCtx.Migrate()
	if err != nil {
		log.Fatalf("could not migrate db: %s", err)
	}

	jobs := repositories.NewJobsRepository(dbCtx.DB)
	err = jobs.Add(context.Background(), seedJobs)
	if err != nil {
		log.Fatalf("could not add jobs: %s", err)
	}
}

func downEnvironment() {
	_ = dbCtx.Close()
	_ = os.Remove("testdatabase.db")
}

func TestMain(m *testing.M) {

	err := os.Chdir("../") //project root to resolve correctly relative paths in code
	if err != nil {
		log.Fatal(err)
	}

	upEnvironment()

	code := m.Run()

	downEnvironment()

	os.Exit(code)
}
