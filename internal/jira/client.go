package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-agent/internal/config"
)

// Client talks to the Jira Cloud REST v3 API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authHeader string
	logger     *zap.Logger
}

// CreateIssueInput describes a new tracked issue.
type CreateIssueInput struct {
	Summary     string
	Description string
	ProjectID   string
	IssueTypeID string
	ReporterID  string
}

// NewClient builds a Jira client from configuration.
func NewClient(cfg config.JiraConfig, logger *zap.Logger) *Client {
	credentials := base64.StdEncoding.EncodeToString([]byte(cfg.Email + ":" + cfg.APIToken))
	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		authHeader: "Basic " + credentials,
		logger:     logger,
	}
}

// Atlassian Document Format wrappers for the description field.
type adfDocument struct {
	Type    string     `json:"type"`
	Version int        `json:"version"`
	Content []adfBlock `json:"content"`
}

type adfBlock struct {
	Type    string    `json:"type"`
	Content []adfText `json:"content"`
}

type adfText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type issueFields struct {
	Project     idRef       `json:"project"`
	IssueType   idRef       `json:"issuetype"`
	Summary     string      `json:"summary"`
	Description adfDocument `json:"description"`
	Labels      []string    `json:"labels"`
	Reporter    *idRef      `json:"reporter,omitempty"`
}

type idRef struct {
	ID string `json:"id"`
}

type createIssueRequest struct {
	Fields issueFields `json:"fields"`
}

type createIssueResponse struct {
	Key string `json:"key"`
}

type issueStatusResponse struct {
	Fields struct {
		Status struct {
			Name string `json:"name"`
		} `json:"status"`
	} `json:"fields"`
}

// CreateIssue files a new issue and returns its key. A non-201 response or
// a response without a key is an error; no retry is attempted.
func (c *Client) CreateIssue(ctx context.Context, in CreateIssueInput) (string, error) {
	payload := createIssueRequest{Fields: buildIssueFields(in)}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal issue payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/api/3/issue", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build issue request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("jira request: %w", err)
	}
	defer resp.Body.Close()

	var parsed createIssueResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode jira response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusCreated || parsed.Key == "" {
		return "", fmt.Errorf("jira issue creation failed: status %d", resp.StatusCode)
	}

	c.logger.Info("jira issue created", zap.String("issue_key", parsed.Key))
	return parsed.Key, nil
}

// GetIssueStatus returns the issue's current status name. Any transport
// error, non-success response, or parse failure yields "Unknown".
func (c *Client) GetIssueStatus(ctx context.Context, issueKey string) string {
	if strings.TrimSpace(issueKey) == "" {
		return "Unknown"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/api/3/issue/"+issueKey, nil)
	if err != nil {
		return "Unknown"
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("jira status request failed", zap.String("issue_key", issueKey), zap.Error(err))
		return "Unknown"
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("jira status fetch failed",
			zap.String("issue_key", issueKey),
			zap.Int("status_code", resp.StatusCode))
		return "Unknown"
	}

	var parsed issueStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.Warn("jira status response unreadable", zap.String("issue_key", issueKey), zap.Error(err))
		return "Unknown"
	}
	if parsed.Fields.Status.Name == "" {
		return "Unknown"
	}
	return parsed.Fields.Status.Name
}

func buildIssueFields(in CreateIssueInput) issueFields {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = "No description"
	}

	fields := issueFields{
		Project:   idRef{ID: in.ProjectID},
		IssueType: idRef{ID: in.IssueTypeID},
		Summary:   in.Summary,
		Description: adfDocument{
			Type:    "doc",
			Version: 1,
			Content: []adfBlock{{
				Type:    "paragraph",
				Content: []adfText{{Type: "text", Text: description}},
			}},
		},
		Labels: []string{},
	}

	// Slack user ids start with U or W and are not valid Jira account ids.
	if in.ReporterID != "" && !strings.HasPrefix(in.ReporterID, "U") && !strings.HasPrefix(in.ReporterID, "W") {
		fields.Reporter = &idRef{ID: in.ReporterID}
	}
	return fields
}
