package scraper

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jmatsuda/jobscout/internal/types"
)

// Sample corpora for generated jobs.
var (
	mockCompanies = []string{
		"TechCorp Inc", "DataCo", "AI Solutions LLC", "DevStudio", "CloudWorks",
		"InnovateLab", "StartupXYZ", "BigTech Co", "WebDev Agency", "FinTech Pro",
		"GreenTech Solutions", "HealthTech Inc", "EduTech Platform", "GameDev Studio",
		"CyberSec Corp", "MobileDev Inc", "BlockChain Co", "IoT Innovations",
	}

	mockTitles = []string{
		"Software Engineer", "Senior Python Developer", "Full Stack Developer",
		"Backend Developer", "Frontend Developer", "DevOps Engineer",
		"Data Scientist", "Machine Learning Engineer", "Product Manager",
		"Software Architect", "Technical Lead", "QA Engineer",
		"Security Engineer", "Mobile Developer", "Cloud Engineer",
		"Site Reliability Engineer", "Platform Engineer", "Solutions Architect",
	}

	mockLocations = []string{
		"Remote", "San Francisco, CA", "New York, NY", "Seattle, WA",
		"Austin, TX", "Boston, MA", "Chicago, IL", "Los Angeles, CA",
		"Denver, CO", "Atlanta, GA", "Portland, OR", "Miami, FL",
		"Washington, DC", "Toronto, ON", "Vancouver, BC", "London, UK",
	}

	mockJobTypes = []types.JobType{
		types.JobTypeFullTime, types.JobTypePartTime, types.JobTypeContract,
		types.JobTypeInternship, types.JobTypeRemote,
	}

	mockSkills = []string{
		"Python", "JavaScript", "TypeScript", "React", "Node.js", "Django",
		"FastAPI", "PostgreSQL", "MongoDB", "Redis", "Docker", "Kubernetes",
		"AWS", "Azure", "GCP", "Git", "CI/CD", "REST APIs", "GraphQL",
		"Microservices", "TensorFlow", "PyTorch", "Pandas", "NumPy",
		"Linux", "Agile", "Scrum", "Jest", "Pytest", "Selenium",
	}
)

// Mock generates plausible synthetic records without touching the network.
// A fixed seed yields a reproducible record stream, which is what the rest
// of the pipeline is tested against.
type Mock struct {
	seed int64
	log  *zap.Logger
}

// NewMock returns a synthetic source seeded with seed.
func NewMock(seed int64, log *zap.Logger) *Mock {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mock{seed: seed, log: log}
}

func (m *Mock) Name() string { return "mock" }

// Search produces between 5 and 15 records, bounded by q.MaxResults. Records
// honor the query's locations when given and embed a random skill subset in
// the description so match scoring has something to bite on.
func (m *Mock) Search(ctx context.Context, q Query) ([]types.JobRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(m.seed))

	count := 5 + rng.Intn(11)
	if q.MaxResults > 0 && count > q.MaxResults {
		count = q.MaxResults
	}

	m.log.Debug("generating synthetic jobs",
		zap.Int("count", count),
		zap.Strings("keywords", q.Keywords))

	now := time.Now().UTC()
	jobs := make([]types.JobRecord, 0, count)
	for i := 0; i < count; i++ {
		company := mockCompanies[rng.Intn(len(mockCompanies))]
		title := mockTitles[rng.Intn(len(mockTitles))]

		location := mockLocations[rng.Intn(len(mockLocations))]
		if len(q.Locations) > 0 {
			location = q.Locations[rng.Intn(len(q.Locations))]
		}

		baseSalary := (70 + rng.Intn(131)) * 1000
		salaryMin := baseSalary
		salaryMax := baseSalary + (20+rng.Intn(31))*1000

		skills := sampleSkills(rng, 3+rng.Intn(6))
		slug := strings.ReplaceAll(strings.ToLower(company), " ", "")
		posted := now.AddDate(0, 0, -(1 + rng.Intn(30)))

		jobs = append(jobs, types.JobRecord{
			Title:    title,
			Company:  company,
			Location: location,
			Description: fmt.Sprintf(
				"We are seeking a talented %s to join our %s team.\n\nRequired Skills: %s\n\nWe offer competitive compensation and comprehensive benefits.",
				title, company, strings.Join(skills, ", ")),
			Requirements:     "Required: " + strings.Join(skills[:min(3, len(skills))], ", "),
			Benefits:         "Health insurance, 401(k) matching, flexible PTO, remote work options",
			SalaryMin:        &salaryMin,
			SalaryMax:        &salaryMax,
			JobType:          mockJobTypes[rng.Intn(len(mockJobTypes))],
			Source:           m.Name(),
			ExternalID:       fmt.Sprintf("mock_%s_%d", strings.ReplaceAll(strings.ToLower(company), " ", "_"), i+1),
			ExternalURL:      fmt.Sprintf("https://%s.com/careers/%d", slug, i+1),
			ApplicationURL:   fmt.Sprintf("https://%s.com/careers/apply/%d", slug, i+1),
			ApplicationEmail: "careers@" + slug + ".com",
			PostedDate:       &posted,
			ScrapedAt:        now,
			IsActive:         true,
		})
	}

	return jobs, nil
}

func sampleSkills(rng *rand.Rand, n int) []string {
	idx := rng.Perm(len(mockSkills))
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, mockSkills[i])
	}
	return out
}
