package capture

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectSource(t *testing.T) {
	cases := map[string]string{
		"https://boards.greenhouse.io/acme/jobs/123":               "greenhouse",
		"https://jobs.lever.co/globex/abc-def":                     "lever",
		"https://acme.wd5.myworkdayjobs.com/en-US/careers/job/123": "workday",
		"https://www.linkedin.com/jobs/view/456":                   "linkedin",
		"https://www.indeed.com/viewjob?jk=789":                    "indeed",
		"https://jobs.ashbyhq.com/acme/xyz":                        "ashby",
		"https://acme.example/careers":                             "",
	}
	for url, want := range cases {
		require.Equal(t, want, DetectSource(url), "url: %s", url)
	}
}

const jsonLDPage = `<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org/",
  "@type": "JobPosting",
  "title": "Senior Backend Engineer",
  "description": "<p>Build &amp; run services.</p>",
  "hiringOrganization": {"@type": "Organization", "name": "Acme Corp"},
  "jobLocation": {"@type": "Place", "address": {"addressLocality": "Berlin", "addressRegion": "BE"}},
  "baseSalary": {"@type": "MonetaryAmount", "currency": "EUR", "value": {"minValue": 80000, "maxValue": 100000}}
}
</script>
</head><body>irrelevant</body></html>`

func TestDetect_JSONLD(t *testing.T) {
	p := Detect("https://boards.greenhouse.io/acme/jobs/1", jsonLDPage)
	require.NotNil(t, p)
	require.Equal(t, MethodJSONLD, p.Method)
	require.Equal(t, "Acme Corp", p.Company)
	require.Equal(t, "Senior Backend Engineer", p.Role)
	require.Equal(t, "Berlin, BE", p.Location)
	require.Equal(t, "Build & run services.", p.Description)
	require.Equal(t, "EUR 80000 - 100000", p.Salary)
	require.Equal(t, "greenhouse", p.Source)
	require.GreaterOrEqual(t, p.Confidence, 0.9)
}

const graphPage = `<html><head>
<script type="application/ld+json">
{"@graph": [
  {"@type": "WebSite", "name": "Careers"},
  {"@type": "JobPosting", "title": "Data Scientist", "hiringOrganization": {"name": "Globex"}}
]}
</script></head></html>`

func TestDetect_JSONLDGraph(t *testing.T) {
	p := Detect("https://globex.example/jobs/2", graphPage)
	require.NotNil(t, p)
	require.Equal(t, "Data Scientist", p.Role)
	require.Equal(t, "Globex", p.Company)
}

const arrayTypePage = `<script type='application/ld+json'>
[{"@type": ["JobPosting"], "title": "SRE", "hiringOrganization": {"name": "Initech"}}]
</script>`

func TestDetect_JSONLDArrayForms(t *testing.T) {
	p := Detect("https://initech.example", arrayTypePage)
	require.NotNil(t, p)
	require.Equal(t, "SRE", p.Role)
	require.Equal(t, "Initech", p.Company)
}

func TestDetect_TitleHeuristic(t *testing.T) {
	page := `<html><head><title>Platform Engineer - Hooli Careers</title></head><body></body></html>`
	p := Detect("https://jobs.lever.co/hooli/1", page)
	require.NotNil(t, p)
	require.Equal(t, MethodHeuristic, p.Method)
	require.Equal(t, "Platform Engineer", p.Role)
	require.Equal(t, "Hooli", p.Company)
	require.Equal(t, "lever", p.Source)
	// known board bumps heuristic confidence
	require.Greater(t, p.Confidence, 0.5)
}

func TestDetect_OpenGraphBeatsTitle(t *testing.T) {
	page := `<html><head>
<title>Jobs</title>
<meta property="og:title" content="Staff Engineer at Umbrella" />
</head></html>`
	p := Detect("https://umbrella.example/j/9", page)
	require.NotNil(t, p)
	require.Equal(t, "Staff Engineer", p.Role)
	require.Equal(t, "Umbrella", p.Company)
}

func TestDetect_SiteNameFallback(t *testing.T) {
	page := `<html><head>
<meta property="og:title" content="Machine Learning Engineer" />
<meta property="og:site_name" content="Vehement AI" />
</head></html>`
	p := Detect("https://vehement.example", page)
	require.NotNil(t, p)
	require.Equal(t, "Machine Learning Engineer", p.Role)
	require.Equal(t, "Vehement AI", p.Company)
}

func TestDetect_NothingCredible(t *testing.T) {
	require.Nil(t, Detect("https://example.com", "<html><head><title>Welcome</title></head></html>"))
	require.Nil(t, Detect("https://example.com", "<html><body>plain page</body></html>"))
}
