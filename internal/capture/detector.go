// Package capture implements the quick-capture pipeline behind the browser
// extension: cheap detection of job postings from a page's URL and HTML,
// falling back to LLM extraction only when the heuristics come up short.
package capture

import (
	"encoding/json"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Detection methods, strongest first.
const (
	MethodJSONLD    = "jsonld"
	MethodHeuristic = "heuristic"
	MethodLLM       = "llm"
)

type Posting struct {
	Company     string  `json:"company"`
	Role        string  `json:"role"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Salary      string  `json:"salary"`
	Source      string  `json:"source"` // job board, if recognized
	Method      string  `json:"method"`
	Confidence  float64 `json:"confidence"`
}

// boardPatterns recognize the big ATS/job-board hosts. Matching one bumps
// confidence but is never sufficient on its own.
var boardPatterns = map[string]*regexp.Regexp{
	"greenhouse": regexp.MustCompile(`(?:boards\.greenhouse\.io|greenhouse\.io/.+/jobs)`),
	"lever":      regexp.MustCompile(`jobs\.lever\.co/`),
	"workday":    regexp.MustCompile(`\.myworkdayjobs\.com/`),
	"linkedin":   regexp.MustCompile(`linkedin\.com/jobs/`),
	"indeed":     regexp.MustCompile(`indeed\.com/(?:viewjob|job/)`),
	"ashby":      regexp.MustCompile(`jobs\.ashbyhq\.com/`),
}

// DetectSource returns the recognized job board for a URL, or "".
func DetectSource(url string) string {
	for name, re := range boardPatterns {
		if re.MatchString(url) {
			return name
		}
	}
	return ""
}

var (
	jsonLDRe   = regexp.MustCompile(`(?is)<script[^>]*type\s*=\s*["']application/ld\+json["'][^>]*>(.*?)</script>`)
	titleTagRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	ogRe       = regexp.MustCompile(`(?is)<meta[^>]+property\s*=\s*["']og:(title|site_name)["'][^>]+content\s*=\s*["']([^"']*)["']`)
	tagStripRe = regexp.MustCompile(`(?s)<[^>]*>`)
)

// Detect runs the non-LLM pipeline: JSON-LD first, then DOM-text heuristics.
// Returns nil when nothing credible was found and the caller should fall
// through to LLM extraction.
func Detect(url, rawHTML string) *Posting {
	source := DetectSource(url)

	if p := fromJSONLD(rawHTML); p != nil {
		p.Source = source
		return p
	}

	if p := fromPageText(rawHTML); p != nil {
		p.Source = source
		if source != "" {
			// known board + plausible title parse is a decent signal
			p.Confidence += 0.2
			if p.Confidence > 0.9 {
				p.Confidence = 0.9
			}
		}
		return p
	}
	return nil
}

// jsonLDPosting mirrors the schema.org JobPosting fields we care about.
type jsonLDPosting struct {
	Type               interface{} `json:"@type"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	HiringOrganization struct {
		Name string `json:"name"`
	} `json:"hiringOrganization"`
	JobLocation interface{}       `json:"jobLocation"`
	BaseSalary  interface{}       `json:"baseSalary"`
	Graph       []json.RawMessage `json:"@graph"`
}

func fromJSONLD(rawHTML string) *Posting {
	for _, m := range jsonLDRe.FindAllStringSubmatch(rawHTML, -1) {
		if p := parseJSONLDBlock([]byte(strings.TrimSpace(m[1]))); p != nil {
			return p
		}
	}
	return nil
}

func parseJSONLDBlock(data []byte) *Posting {
	// A block can be a JobPosting, an array of things, or a @graph container.
	var one jsonLDPosting
	if err := json.Unmarshal(data, &one); err == nil {
		if p := postingFromLD(&one); p != nil {
			return p
		}
		for _, raw := range one.Graph {
			if p := parseJSONLDBlock(raw); p != nil {
				return p
			}
		}
	}

	var many []json.RawMessage
	if err := json.Unmarshal(data, &many); err == nil {
		for _, raw := range many {
			if p := parseJSONLDBlock(raw); p != nil {
				return p
			}
		}
	}
	return nil
}

func postingFromLD(ld *jsonLDPosting) *Posting {
	if !isJobPostingType(ld.Type) || ld.Title == "" {
		return nil
	}
	return &Posting{
		Company:     ld.HiringOrganization.Name,
		Role:        ld.Title,
		Location:    locationFromLD(ld.JobLocation),
		Description: cleanText(ld.Description),
		Salary:      salaryFromLD(ld.BaseSalary),
		Method:      MethodJSONLD,
		Confidence:  0.95,
	}
}

func isJobPostingType(t interface{}) bool {
	switch v := t.(type) {
	case string:
		return v == "JobPosting"
	case []interface{}:
		for _, e := range v {
			if s, ok := e.(string); ok && s == "JobPosting" {
				return true
			}
		}
	}
	return false
}

// locationFromLD digs the locality out of schema.org's several jobLocation
// shapes (single Place, array of Places).
func locationFromLD(v interface{}) string {
	place := func(m map[string]interface{}) string {
		addr, ok := m["address"].(map[string]interface{})
		if !ok {
			return ""
		}
		locality, _ := addr["addressLocality"].(string)
		region, _ := addr["addressRegion"].(string)
		switch {
		case locality != "" && region != "":
			return locality + ", " + region
		case locality != "":
			return locality
		default:
			return region
		}
	}
	switch loc := v.(type) {
	case map[string]interface{}:
		return place(loc)
	case []interface{}:
		for _, e := range loc {
			if m, ok := e.(map[string]interface{}); ok {
				if s := place(m); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func salaryFromLD(v interface{}) string {
	m, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	val, ok := m["value"].(map[string]interface{})
	if !ok {
		return ""
	}
	currency, _ := m["currency"].(string)
	fmtNum := func(x interface{}) string {
		f, ok := x.(float64)
		if !ok {
			return ""
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	min := fmtNum(val["minValue"])
	max := fmtNum(val["maxValue"])
	switch {
	case min != "" && max != "":
		return strings.TrimSpace(currency + " " + min + " - " + max)
	case min != "":
		return strings.TrimSpace(currency + " " + min)
	default:
		return ""
	}
}

// titleSeparators split page titles like "Senior Engineer - Acme" or
// "Senior Engineer | Acme Careers".
var titleSeparators = []string{" - ", " – ", " | ", " at ", " @ "}

// fromPageText scrapes <title> and OpenGraph tags. Low confidence: it only
// claims a posting when the title splits into a plausible role/company pair.
func fromPageText(rawHTML string) *Posting {
	title := ""
	if m := titleTagRe.FindStringSubmatch(rawHTML); m != nil {
		title = cleanText(m[1])
	}

	ogTitle, ogSite := "", ""
	for _, m := range ogRe.FindAllStringSubmatch(rawHTML, -1) {
		switch m[1] {
		case "title":
			ogTitle = cleanText(m[2])
		case "site_name":
			ogSite = cleanText(m[2])
		}
	}
	if ogTitle != "" {
		title = ogTitle
	}
	if title == "" {
		return nil
	}

	role, company := splitTitle(title)
	if company == "" {
		company = ogSite
	}
	if role == "" || company == "" {
		return nil
	}
	return &Posting{
		Company:    strings.TrimSpace(strings.TrimSuffix(company, "Careers")),
		Role:       role,
		Method:     MethodHeuristic,
		Confidence: 0.5,
	}
}

func splitTitle(title string) (role, company string) {
	for _, sep := range titleSeparators {
		if i := strings.Index(title, sep); i > 0 {
			return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+len(sep):])
		}
	}
	return strings.TrimSpace(title), ""
}

func cleanText(s string) string {
	s = tagStripRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
