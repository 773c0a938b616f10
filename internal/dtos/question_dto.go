package dtos

type QuestionExtractRequest struct {
	RawContent string `json:"raw_content" binding:"required"`
	URL        string `json:"url"`
}

type QuestionCreateRequest struct {
	Prompt    string `json:"prompt" binding:"required"`
	WordLimit int    `json:"word_limit"`
}

type AnswerGenerateRequest struct {
	// DocumentID selects the resume whose parsed profile grounds the answer.
	// Optional; without it the answer is generated from the application alone.
	DocumentID string `json:"document_id"`
	Tone       string `json:"tone"`
}

type CoverLetterRequest struct {
	DocumentID string `json:"document_id"`
	Tone       string `json:"tone"`
}

type AnalyzeRequest struct {
	// Either ResumeText or DocumentID must be set.
	ResumeText     string `json:"resume_text"`
	DocumentID     string `json:"document_id"`
	JobDescription string `json:"job_description" binding:"required"`
}

type CaptureRequest struct {
	URL     string `json:"url" binding:"required"`
	RawHTML string `json:"raw_html" binding:"required"`
}
