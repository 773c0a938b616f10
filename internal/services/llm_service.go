package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/applyos/applyos/internal/config"
	"github.com/pkoukk/tiktoken-go"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Postings larger than this are truncated before prompting. Measured in
// tokens, not bytes, so multi-byte content doesn't blow the budget.
const maxPromptTokens = 6000

type LLMService struct {
	// Client is the langchaingo model interface; tests swap in a stub.
	Client llms.Model
}

// NewLLMService initializes the Gemini client.
func NewLLMService(cfg config.GeminiConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	ctx := context.Background()
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &LLMService{Client: llm}, nil
}

const questionExtractionPrompt = `
You are an expert Application Question Extraction Agent. Your task is to analyze the provided raw HTML/Text from a job or scholarship posting and extract every question an applicant is asked to answer.

### INSTRUCTIONS:
1. **Analyze** the text to identify application questions (essay prompts, short-answer fields, "why us" questions).
2. **Ignore** navigation menus, footers, legal boilerplate, and generic form fields (name, email, phone).
3. **Extract** each question verbatim, plus its word/character limit when one is stated.
4. **Format** the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "questions": [
        {"prompt": "The question text", "word_limit": 250}
    ]
}

### CONSTRAINT:
If no word limit is stated, set word_limit to 0. If the posting contains no questions, return {"questions": []}. Do not hallucinate questions.

### RAW CONTENT:
%s
`

// ExtractQuestions takes raw posting content and returns a JSON question list.
func (s *LLMService) ExtractQuestions(ctx context.Context, rawContent string) (string, error) {
	prompt := fmt.Sprintf(questionExtractionPrompt, truncateTokens(rawContent, maxPromptTokens))
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
	if err != nil {
		return "", err
	}
	return ExtractJSON(resp), nil
}

const answerPrompt = `
You are an expert application-writing assistant. Draft an answer to the application question below, grounded ONLY in the candidate profile provided.

### QUESTION:
%s

### WORD LIMIT:
%s

### CANDIDATE PROFILE (JSON, may be empty):
%s

### APPLICATION CONTEXT:
Company: %s
Role: %s

### INSTRUCTIONS:
- Write in first person, specific and concrete, tone: %s.
- Stay within the word limit when one is given.
- Never invent experience not present in the profile.
- Return the answer text only, no preamble, no markdown.
`

// GenerateAnswer drafts an answer for one question using the resume profile as grounding.
func (s *LLMService) GenerateAnswer(ctx context.Context, question string, wordLimit int, profileJSON, company, role, tone string) (string, error) {
	limit := "none stated"
	if wordLimit > 0 {
		limit = fmt.Sprintf("%d words", wordLimit)
	}
	if tone == "" {
		tone = "professional"
	}
	prompt := fmt.Sprintf(answerPrompt, question, limit, truncateTokens(profileJSON, 2000), company, role, tone)
	return llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
}

const coverLetterPrompt = `
You are an expert cover-letter writer. Write a one-page cover letter for the application below, grounded ONLY in the candidate profile provided.

### APPLICATION:
Company: %s
Role: %s
Notes: %s

### CANDIDATE PROFILE (JSON, may be empty):
%s

### INSTRUCTIONS:
- Three to four paragraphs, tone: %s.
- Lead with genuine interest in the company, close with a call to action.
- Never invent experience not present in the profile.
- Return the letter text only, no placeholders like [Your Name] if the profile names the candidate.
`

func (s *LLMService) GenerateCoverLetter(ctx context.Context, company, role, notes, profileJSON, tone string) (string, error) {
	if tone == "" {
		tone = "professional"
	}
	prompt := fmt.Sprintf(coverLetterPrompt, company, role, notes, truncateTokens(profileJSON, 2000), tone)
	return llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
}

const resumeAnalysisPrompt = `
You are an expert AI career assistant that evaluates how well a candidate's resume matches a job description.

Your goal is to:
- Analyze the resume in detail.
- Compare it with the provided job description.
- Identify relevant experience, skills, and education.
- Point out missing or weak areas.
- Assign an overall match score from 0 to 100.

Return your result as a structured JSON object in this format:

{
  "match_score": 0,
  "matched_skills": ["..."],
  "missing_skills": ["..."],
  "summary": "...",
  "recommendation": "..."
}

Base all reasoning only on the provided text. Do not make up data or assume experience not explicitly mentioned. Return only valid JSON, no markdown, no text before or after.

### RESUME:
%s

### JOB DESCRIPTION:
%s
`

// AnalyzeResume scores a resume against a job description, returning raw JSON.
func (s *LLMService) AnalyzeResume(ctx context.Context, resumeText, jobDescription string) (string, error) {
	prompt := fmt.Sprintf(resumeAnalysisPrompt,
		truncateTokens(resumeText, maxPromptTokens/2),
		truncateTokens(jobDescription, maxPromptTokens/2))
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
	if err != nil {
		return "", err
	}
	return ExtractJSON(resp), nil
}

const resumeParsePrompt = `
You are a resume parsing agent. Extract the structured profile from the resume text below.

### OUTPUT SCHEMA:
{
  "name": "...",
  "email": "...",
  "education": [{"institution": "...", "degree": "...", "year": "..."}],
  "experience": [{"company": "...", "title": "...", "duration": "...", "highlights": ["..."]}],
  "skills": ["..."]
}

### CONSTRAINT:
Set missing fields to null or empty arrays. Return only valid JSON, no markdown fences.

### RESUME TEXT:
%s
`

// ParseResume extracts a structured profile (education/experience/skills) from resume text.
func (s *LLMService) ParseResume(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(resumeParsePrompt, truncateTokens(text, maxPromptTokens))
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
	if err != nil {
		return "", err
	}
	return ExtractJSON(resp), nil
}

const postingExtractionPrompt = `
You are an expert Job Data Extraction Agent. Your task is to analyze the provided raw HTML/Text from a job posting and extract structured data.

### INSTRUCTIONS:
1. **Analyze** the text to identify the core job details.
2. **Ignore** navigation menus, footers, "similar jobs" lists, and site advertisements.
3. **Extract** the following fields strictly.
4. **Format** the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "company": "Name of the company (e.g., Google, StartupInc)",
    "role": "Job title (e.g., Senior Backend Engineer)",
    "location": "Job location or 'Remote'",
    "description": "A clean summary of the job. Focus on Responsibilities and Requirements. Remove HTML tags.",
    "salary": "The salary string if explicitly mentioned (e.g., '$100k - $150k'), otherwise null"
}

### CONSTRAINT:
If a piece of information is missing, set the value to null. Do not hallucinate or guess.

### RAW CONTENT:
%s
`

// ExtractPosting is the LLM fallback behind quick-capture: raw HTML in, posting JSON out.
func (s *LLMService) ExtractPosting(ctx context.Context, rawHTML string) (string, error) {
	prompt := fmt.Sprintf(postingExtractionPrompt, truncateTokens(rawHTML, maxPromptTokens))
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
	if err != nil {
		return "", err
	}
	return ExtractJSON(resp), nil
}

// ExtractJSON strips markdown fences and surrounding prose from a model reply,
// returning the outermost JSON object or array. Models occasionally wrap JSON
// despite being told not to.
func ExtractJSON(resp string) string {
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")
	resp = strings.TrimSpace(resp)

	start := strings.IndexAny(resp, "{[")
	if start == -1 {
		return resp
	}
	var end int
	if resp[start] == '{' {
		end = strings.LastIndex(resp, "}")
	} else {
		end = strings.LastIndex(resp, "]")
	}
	if end <= start {
		return resp
	}
	return resp[start : end+1]
}

var tokenEncoder *tiktoken.Tiktoken

func init() {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		// Byte-based truncation still applies below; log and move on.
		log.Printf("tiktoken init failed, falling back to byte truncation: %v", err)
		return
	}
	tokenEncoder = enc
}

// truncateTokens trims s to at most max tokens (approximate bytes when the
// encoder is unavailable).
func truncateTokens(s string, max int) string {
	if tokenEncoder == nil {
		// ~4 bytes per token is close enough for a safety cut
		if len(s) > max*4 {
			return s[:max*4]
		}
		return s
	}
	ids := tokenEncoder.Encode(s, nil, nil)
	if len(ids) <= max {
		return s
	}
	return tokenEncoder.Decode(ids[:max])
}
