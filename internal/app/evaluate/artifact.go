package evaluate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/samudraneel05/TDSProject1/internal/llm"
	"github.com/samudraneel05/TDSProject1/internal/model"
)

const (
	CheckMITLicense    = "MIT License"
	CheckReadmeQuality = "README Quality"
	CheckCodeQuality   = "Code Quality"

	readmePassScore = 70
	codePassScore   = 60
	codeMaxChars    = 3000
	logExcerptChars = 200
)

func (s *Service) checkLicense(ctx context.Context, sub model.Submission) model.CheckOutcome {
	o := model.CheckOutcome{Check: CheckMITLicense}

	status, body, err := s.host.RawFile(ctx, sub.RepoURL, sub.CommitSHA, "LICENSE")
	switch {
	case err != nil:
		o.Reason, o.Logs = "Error checking license", err.Error()
	case status != http.StatusOK:
		o.Reason, o.Logs = "No LICENSE file found", fmt.Sprintf("Status: %d", status)
	default:
		content := strings.ToLower(string(body))
		if strings.Contains(content, "mit") && strings.Contains(content, "permission is hereby granted") {
			o.Score, o.Reason, o.Logs = 1, "MIT license found", "License content: "+excerpt(string(body), logExcerptChars)+"..."
		} else {
			o.Reason, o.Logs = "License file exists but may not be MIT", "Content: "+excerpt(string(body), logExcerptChars)+"..."
		}
	}

	return o
}

const readmePrompt = `Evaluate the quality of this README.md file.

README Content:
%s

Rate the README on a scale of 0-100 based on:
1. Completeness (has summary, setup, usage sections)
2. Clarity and professionalism
3. Code explanation
4. License mention

Respond with JSON: {"score": 0-100, "reason": "brief explanation"}`

func (s *Service) checkReadme(ctx context.Context, sub model.Submission) model.CheckOutcome {
	return s.checkRubric(ctx, sub, rubric{
		check:      CheckReadmeQuality,
		path:       "README.md",
		prompt:     readmePrompt,
		passScore:  readmePassScore,
		notFound:   "No README.md found",
		failReason: "Error evaluating README",
	})
}

const codePrompt = `Evaluate the quality of this web application code.

Code:
%s...

Rate the code on a scale of 0-100 based on:
1. Code structure and organization
2. Best practices and modern JavaScript
3. Error handling
4. Comments and documentation

Respond with JSON: {"score": 0-100, "reason": "brief explanation"}`

func (s *Service) checkCode(ctx context.Context, sub model.Submission) model.CheckOutcome {
	return s.checkRubric(ctx, sub, rubric{
		check:      CheckCodeQuality,
		path:       "index.html",
		prompt:     codePrompt,
		maxChars:   codeMaxChars,
		passScore:  codePassScore,
		notFound:   "No index.html found",
		failReason: "Error evaluating code",
	})
}

type rubric struct {
	check      string
	path       string
	prompt     string
	maxChars   int
	passScore  int
	notFound   string
	failReason string
}

func (s *Service) checkRubric(ctx context.Context, sub model.Submission, r rubric) model.CheckOutcome {
	o := model.CheckOutcome{Check: r.check}

	status, body, err := s.host.RawFile(ctx, sub.RepoURL, sub.CommitSHA, r.path)
	if err != nil {
		o.Reason, o.Logs = r.failReason, err.Error()
		return o
	}
	if status != http.StatusOK {
		o.Reason, o.Logs = r.notFound, fmt.Sprintf("Status: %d", status)
		return o
	}

	content := string(body)
	if r.maxChars > 0 {
		content = excerpt(content, r.maxChars)
	}

	score, err := llm.ScoreRubric(ctx, s.llm, fmt.Sprintf(r.prompt, content))
	if err != nil {
		o.Reason, o.Logs = r.failReason, err.Error()
		return o
	}

	if score.Score >= r.passScore {
		o.Score = 1
	}
	o.Reason = score.Reason
	o.Logs = fmt.Sprintf("LLM Score: %d/100", score.Score)
	return o
}

// excerpt returns the first n characters of s.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
