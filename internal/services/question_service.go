package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/applyos/applyos/internal/dtos"
	"github.com/applyos/applyos/internal/models"
	"gorm.io/gorm"
)

type QuestionService struct {
	DB  *gorm.DB
	LLM *LLMService
}

func NewQuestionService(db *gorm.DB, llm *LLMService) *QuestionService {
	return &QuestionService{DB: db, LLM: llm}
}

// fallbackQuestions is what the extract endpoint returns when the model is
// unavailable or its output can't be parsed. The product choice is to always
// give the user something to work with rather than an error page.
var fallbackQuestions = []dtos.QuestionCreateRequest{
	{Prompt: "Why are you interested in this role?"},
	{Prompt: "What relevant experience makes you a strong candidate?"},
	{Prompt: "Is there anything else you would like us to know?"},
}

type extractedQuestion struct {
	Prompt    string `json:"prompt"`
	WordLimit int    `json:"word_limit"`
}

// Extract runs LLM extraction over the raw posting and persists the result
// against the application. The returned flag reports whether the generic
// fallback set was used instead of model output.
func (s *QuestionService) Extract(ctx context.Context, appID uint, rawContent string) ([]models.Question, bool, error) {
	var app models.Application
	if err := s.DB.First(&app, appID).Error; err != nil {
		return nil, false, err
	}

	parsed, ok := s.runExtraction(ctx, rawContent)
	usedFallback := !ok
	if usedFallback {
		parsed = nil
		for _, q := range fallbackQuestions {
			parsed = append(parsed, extractedQuestion{Prompt: q.Prompt})
		}
	}

	questions := make([]models.Question, 0, len(parsed))
	for _, p := range parsed {
		if p.Prompt == "" {
			continue
		}
		questions = append(questions, models.Question{
			ApplicationID: appID,
			Prompt:        p.Prompt,
			WordLimit:     p.WordLimit,
			Source:        models.SourceExtracted,
		})
	}
	if len(questions) > 0 {
		if err := s.DB.Create(&questions).Error; err != nil {
			return nil, usedFallback, err
		}
	}
	return questions, usedFallback, nil
}

func (s *QuestionService) runExtraction(ctx context.Context, rawContent string) ([]extractedQuestion, bool) {
	raw, err := s.LLM.ExtractQuestions(ctx, rawContent)
	if err != nil {
		log.Printf("question extraction failed, using fallback set: %v", err)
		return nil, false
	}

	var payload struct {
		Questions []extractedQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		log.Printf("question extraction returned unparseable JSON, using fallback set: %v", err)
		return nil, false
	}
	return payload.Questions, true
}

func (s *QuestionService) Create(appID uint, req *dtos.QuestionCreateRequest) (*models.Question, error) {
	var app models.Application
	if err := s.DB.First(&app, appID).Error; err != nil {
		return nil, err
	}
	q := &models.Question{
		ApplicationID: appID,
		Prompt:        req.Prompt,
		WordLimit:     req.WordLimit,
		Source:        models.SourceManual,
	}
	if err := s.DB.Create(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) ListForApplication(appID uint) ([]models.Question, error) {
	var qs []models.Question
	err := s.DB.Where("application_id = ?", appID).Order("created_at ASC").Find(&qs).Error
	return qs, err
}

func (s *QuestionService) Delete(id uint) error {
	res := s.DB.Delete(&models.Question{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Answer generates and stores an AI answer for one question.
func (s *QuestionService) Answer(ctx context.Context, questionID uint, profileJSON, tone string) (*models.Question, error) {
	var q models.Question
	if err := s.DB.First(&q, questionID).Error; err != nil {
		return nil, err
	}
	var app models.Application
	if err := s.DB.First(&app, q.ApplicationID).Error; err != nil {
		return nil, err
	}

	answer, err := s.LLM.GenerateAnswer(ctx, q.Prompt, q.WordLimit, profileJSON, app.Company, app.Role, tone)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(&q).Update("answer", answer).Error; err != nil {
		return nil, err
	}
	q.Answer = answer
	return &q, nil
}

// CoverLetter generates a cover letter for the application. Nothing is
// persisted; the caller decides what to do with the draft.
func (s *QuestionService) CoverLetter(ctx context.Context, appID uint, profileJSON, tone string) (string, error) {
	var app models.Application
	if err := s.DB.First(&app, appID).Error; err != nil {
		return "", err
	}
	return s.LLM.GenerateCoverLetter(ctx, app.Company, app.Role, app.Notes, profileJSON, tone)
}
