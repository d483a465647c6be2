package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ibtsamraza/psychometric-analysis/internal/agent"
	"github.com/ibtsamraza/psychometric-analysis/internal/config"
	"github.com/ibtsamraza/psychometric-analysis/internal/model"
)

// GeneratorService is the narrative-generation collaborator, backed by the
// Gemini API with a model per pipeline stage. When no API key is
// configured it serves deterministic mock narratives so the pipeline stays
// exercisable locally; real call failures always propagate and abort the
// in-flight run.
type GeneratorService struct {
	config *config.AIConfig
	client *http.Client
	logger *zap.Logger
}

// NewGeneratorService creates a generator service
func NewGeneratorService(cfg *config.AIConfig, logger *zap.Logger) *GeneratorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeneratorService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
		logger: logger,
	}
}

// GenerateAnalysis writes the behavioral narrative for the classified profile
func (s *GeneratorService) GenerateAnalysis(ctx context.Context, profile model.ClassifiedProfile) (string, error) {
	if !s.config.IsEnabled() {
		return s.mockAnalysis(profile), nil
	}

	response, err := s.callGemini(ctx, s.config.Models.Generate, s.buildGeneratePrompt(profile), false)
	if err != nil {
		return "", fmt.Errorf("generate narrative: %w", err)
	}
	return stripReasoning(response), nil
}

// CheckCompleteness names the listed traits the narrative fails to mention
func (s *GeneratorService) CheckCompleteness(ctx context.Context, profile model.ClassifiedProfile, analysis string) (agent.MissingTraits, error) {
	if !s.config.IsEnabled() {
		return agent.MissingTraits{}, nil
	}

	response, err := s.callGemini(ctx, s.config.Models.Completeness, s.buildCompletenessPrompt(profile, analysis), true)
	if err != nil {
		return agent.MissingTraits{}, fmt.Errorf("check completeness: %w", err)
	}
	return parseMissingTraits(response)
}

// JudgeAnalysis rules on the narrative's two acceptance criteria
func (s *GeneratorService) JudgeAnalysis(ctx context.Context, analysis string) (agent.Verdict, error) {
	if !s.config.IsEnabled() {
		return agent.VerdictAcceptable, nil
	}

	response, err := s.callGemini(ctx, s.config.Models.Judge, s.buildJudgePrompt(analysis), false)
	if err != nil {
		return agent.VerdictUnacceptable, fmt.Errorf("judge narrative: %w", err)
	}
	return agent.ParseVerdict(stripReasoning(response)), nil
}

// CorrelateDomains reorders sentences so correlated traits sit together
func (s *GeneratorService) CorrelateDomains(ctx context.Context, analysis string, correlated map[string][]string) (string, error) {
	if !s.config.IsEnabled() {
		return analysis, nil
	}

	response, err := s.callGemini(ctx, s.config.Models.Correlate, s.buildCorrelatePrompt(analysis, correlated), false)
	if err != nil {
		return "", fmt.Errorf("correlate domains: %w", err)
	}
	return stripReasoning(response), nil
}

// ItemAnalysis writes the item-level narrative from grouped responses
func (s *GeneratorService) ItemAnalysis(ctx context.Context, profile model.ClassifiedProfile, items model.ItemGroups) (string, error) {
	if !s.config.IsEnabled() {
		return s.mockItemAnalysis(items), nil
	}

	response, err := s.callGemini(ctx, s.config.Models.Items, s.buildItemPrompt(profile, items), false)
	if err != nil {
		return "", fmt.Errorf("item analysis: %w", err)
	}
	return stripReasoning(response), nil
}

// callGemini makes a request to the Gemini API
func (s *GeneratorService) callGemini(ctx context.Context, modelName, prompt string, wantJSON bool) (string, error) {
	generationConfig := map[string]interface{}{}
	if wantJSON {
		generationConfig["responseMimeType"] = "application/json"
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": generationConfig,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(modelName), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

var thinkTagPattern = regexp.MustCompile(`(?s)</think>(.*)`)

// stripReasoning drops everything up to a closing reasoning tag, for
// models that emit their chain of thought before the answer.
func stripReasoning(text string) string {
	if m := thinkTagPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// parseMissingTraits decodes the completeness response, tolerating prose
// around the JSON object.
func parseMissingTraits(response string) (agent.MissingTraits, error) {
	var missing agent.MissingTraits

	text := stripReasoning(response)
	if err := json.Unmarshal([]byte(text), &missing); err == nil {
		return missing, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return missing, fmt.Errorf("no JSON object in completeness response")
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &missing); err != nil {
		return missing, fmt.Errorf("decode completeness response: %w", err)
	}
	return missing, nil
}

// Prompt builders

func formatNodes(nodes []model.ScoreNode) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = fmt.Sprintf("%s (%.1f)", n.Name, n.Score)
	}
	return strings.Join(parts, ", ")
}

func formatItems(items model.ItemGroups) string {
	var sb strings.Builder
	for subdomain, responses := range items {
		sb.WriteString(subdomain + ":\n")
		for _, r := range responses {
			sb.WriteString(fmt.Sprintf("  - %s -> %s\n", r.Item, r.SelectedOption))
		}
	}
	return sb.String()
}

func (s *GeneratorService) buildGeneratePrompt(profile model.ClassifiedProfile) string {
	return fmt.Sprintf(`You are an expert psychologist specializing in employee behavior analysis through psychometric evaluations. Write a concise, professional assessment focusing strictly on behavioral patterns based on the provided scores. Stay neutral and insightful.

Rules:
- Cover every listed strength and development area.
- Do not end with an overall behavioral tendency statement.
- Use the word "composure" only when "Emotional Composure" itself is listed.
- Return a single paragraph of plain text.

Strengths: %s
Development areas: %s`,
		formatNodes(profile.Strengths), formatNodes(profile.DevelopmentAreas))
}

func (s *GeneratorService) buildCompletenessPrompt(profile model.ClassifiedProfile, analysis string) string {
	return fmt.Sprintf(`You are an expert in psychometric analysis and critical evaluation. Compare the listed strengths and weaknesses with the analysis and identify any that the analysis fails to mention.

Return ONLY valid JSON:
{
  "missing_strengths": ["trait", ...],
  "missing_weaknesses": ["trait", ...]
}

Strengths: %s
Weaknesses: %s
Analysis: %s`,
		formatNodes(profile.Strengths), formatNodes(profile.DevelopmentAreas), analysis)
}

func (s *GeneratorService) buildJudgePrompt(analysis string) string {
	return fmt.Sprintf(`You are analyzing a psychometric report for two specific issues. Carefully read the analysis and perform the following checks:

1. Check if the analysis ends with an overall behavioral tendency statement (e.g., summarizing the candidate's general behavior or personality as a whole).
2. Check if the word "composure" is used to describe traits like "patience", even though "Emotional Composure" is not mentioned in the strengths or weaknesses.

Return "Unacceptable" if either or both issues are found. Return "Acceptable" only if neither issue is present.

Analysis: %s`, analysis)
}

func (s *GeneratorService) buildCorrelatePrompt(analysis string, correlated map[string][]string) string {
	pairs := make([]string, 0, len(correlated))
	for trait, related := range correlated {
		pairs = append(pairs, fmt.Sprintf("%s: %s", trait, strings.Join(related, ", ")))
	}

	return fmt.Sprintf(`You are an expert in text structuring and organization. Reorder the sentences in this psychometric analysis so that insights about correlated domains appear consecutively.

Rules:
- Do not add, remove, or alter any words, phrases, or sentence structures.
- Do not state that domains are correlated or introduce explanations.
- The result must read naturally as a single paragraph.

Correlated domains:
%s

Analysis: %s`, strings.Join(pairs, "\n"), analysis)
}

func (s *GeneratorService) buildItemPrompt(profile model.ClassifiedProfile, items model.ItemGroups) string {
	return fmt.Sprintf(`You are an expert psychologist. Using the candidate's strengths, development areas, and their individual questionnaire responses grouped by subdomain, write a concise item-level behavioral analysis. Point out response patterns that support or contradict the score-based profile. Return plain text.

Strengths: %s
Development areas: %s

Responses by subdomain:
%s`,
		formatNodes(profile.Strengths), formatNodes(profile.DevelopmentAreas), formatItems(items))
}

// Mock outputs used when no API key is configured

func (s *GeneratorService) mockAnalysis(profile model.ClassifiedProfile) string {
	var sb strings.Builder
	sb.WriteString("The individual")
	for i, n := range profile.Strengths {
		if i == 0 {
			sb.WriteString(" shows strengths in ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(n.Name)
	}
	for i, n := range profile.DevelopmentAreas {
		if i == 0 {
			sb.WriteString(". Development areas include ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(n.Name)
	}
	sb.WriteString(".")
	return sb.String()
}

func (s *GeneratorService) mockItemAnalysis(items model.ItemGroups) string {
	return fmt.Sprintf("Item-level responses across %d subdomains are broadly consistent with the score profile.", len(items))
}
