package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmatsuda/jobscout/internal/types"
)

const boardResultsPage = `<html><body>
<div data-jk="abc123">
  <h2><a><span>Senior Go Developer</span></a></h2>
  <span data-testid="company-name">Acme Corp</span>
  <div data-testid="job-location">Remote</div>
  <div data-testid="attribute_snippet_testid">$120,000 - $150,000 a year</div>
  <div class="job-snippet">Build distributed systems in Go.</div>
</div>
<div data-jk="def456">
  <h2><a><span>Part-Time QA Analyst</span></a></h2>
  <span data-testid="company-name">DataCo</span>
  <div data-testid="job-location">Boston, MA</div>
</div>
<div data-jk="">
  <h2><a><span>Missing ID Job</span></a></h2>
</div>
</body></html>`

func newTestBoard() *Board {
	return NewBoard(BoardOptions{BaseURL: "https://board.example.com/"})
}

func TestBoard_ParseListings(t *testing.T) {
	jobs, err := newTestBoard().parseListings(boardResultsPage, "Anywhere")
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	first := jobs[0]
	assert.Equal(t, "Senior Go Developer", first.Title)
	assert.Equal(t, "Acme Corp", first.Company)
	assert.Equal(t, "Remote", first.Location)
	assert.Equal(t, "abc123", first.ExternalID)
	assert.Equal(t, "board", first.Source)
	assert.Equal(t, "https://board.example.com/viewjob?jk=abc123", first.ExternalURL)
	require.NotNil(t, first.SalaryMin)
	assert.Equal(t, 120000, *first.SalaryMin)
	require.NotNil(t, first.SalaryMax)
	assert.Equal(t, 150000, *first.SalaryMax)
	assert.Equal(t, types.JobTypeRemote, first.JobType)

	second := jobs[1]
	assert.Equal(t, "Part-Time QA Analyst", second.Title)
	assert.Nil(t, second.SalaryMin)
	assert.Equal(t, types.JobTypePartTime, second.JobType)
}

func TestBoard_ParseListingsFallsBackToSearchedLocation(t *testing.T) {
	page := `<div data-jk="x1"><h2><a><span>Engineer</span></a></h2></div>`
	jobs, err := newTestBoard().parseListings(page, "Austin, TX")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Austin, TX", jobs[0].Location)
}

func TestBoard_SearchURL(t *testing.T) {
	b := newTestBoard()
	salaryMin := 100000

	u := b.searchURL("go developer", "Boston, MA", &salaryMin, 1)
	assert.Contains(t, u, "https://board.example.com/jobs?")
	assert.Contains(t, u, "q=go+developer")
	assert.Contains(t, u, "l=Boston%2C+MA")
	assert.Contains(t, u, "salary=100000%2B")
	assert.Contains(t, u, "start=50")

	u = b.searchURL("", "", nil, 0)
	assert.NotContains(t, u, "start=")
	assert.NotContains(t, u, "salary=")
}
