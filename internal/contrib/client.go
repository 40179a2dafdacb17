package contrib

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dacebt/gh-brickbreak/internal/config"
)

// contributionsQuery asks the GraphQL API for the user's contribution
// calendar: per-day counts, dates and quartile levels.
const contributionsQuery = `
query($username: String!) {
  user(login: $username) {
    contributionsCollection {
      contributionCalendar {
        totalContributions
        weeks {
          contributionDays {
            contributionCount
            date
            contributionLevel
          }
        }
      }
    }
  }
}`

// Client fetches contribution calendars from the GitHub GraphQL API.
type Client struct {
	apiURL string
	token  string
	http   *http.Client
	logger *log.Logger
}

// NewClient creates a client for the configured endpoint. The token
// argument wins over the GITHUB_TOKEN environment variable; with
// neither set the constructor fails, since the GraphQL API rejects
// anonymous calls.
func NewClient(cfg config.GitHub, token string) (*Client, error) {
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("contrib: GitHub token required: pass one explicitly or set GITHUB_TOKEN")
	}
	return &Client{
		apiURL: cfg.APIURL,
		token:  token,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "contrib"}),
	}, nil
}

type graphQLRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

type graphQLResponse struct {
	Data *struct {
		User *struct {
			ContributionsCollection *struct {
				ContributionCalendar struct {
					TotalContributions int `json:"totalContributions"`
					Weeks              []struct {
						ContributionDays []struct {
							ContributionCount int    `json:"contributionCount"`
							Date              string `json:"date"`
							ContributionLevel string `json:"contributionLevel"`
						} `json:"contributionDays"`
					} `json:"weeks"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchCalendar retrieves the contribution calendar for a user.
func (c *Client) FetchCalendar(ctx context.Context, username string) (*Calendar, error) {
	c.logger.Debug("fetching contributions", "user", username, "url", c.apiURL)

	body, err := json.Marshal(graphQLRequest{
		Query:     contributionsQuery,
		Variables: map[string]string{"username": username},
	})
	if err != nil {
		return nil, fmt.Errorf("contrib: cannot encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("contrib: cannot build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contrib: cannot fetch contributions for %q: %w", username, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("contrib: GitHub API returned status %d for user %q", resp.StatusCode, username)
	}

	var gr graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("contrib: cannot decode response: %w", err)
	}

	if len(gr.Errors) > 0 {
		return nil, fmt.Errorf("contrib: GitHub API error: %s", gr.Errors[0].Message)
	}
	if gr.Data == nil || gr.Data.User == nil || gr.Data.User.ContributionsCollection == nil {
		return nil, fmt.Errorf("contrib: user %q not found or contribution data unavailable", username)
	}

	cal := buildCalendar(username, gr)
	c.logger.Debug("fetched contributions", "user", username, "total", cal.Total, "weeks", len(cal.Weeks))
	return cal, nil
}

func buildCalendar(username string, gr graphQLResponse) *Calendar {
	calendar := gr.Data.User.ContributionsCollection.ContributionCalendar

	cal := &Calendar{
		Username: username,
		Total:    calendar.TotalContributions,
	}
	for _, w := range calendar.Weeks {
		week := Week{Days: make([]Day, 0, len(w.ContributionDays))}
		for _, d := range w.ContributionDays {
			week.Days = append(week.Days, Day{
				Date:  d.Date,
				Count: d.ContributionCount,
				Level: levelFromQuartile(d.ContributionLevel),
			})
			// ISO dates compare lexically.
			if cal.StartDate == "" || d.Date < cal.StartDate {
				cal.StartDate = d.Date
			}
			if d.Date > cal.EndDate {
				cal.EndDate = d.Date
			}
		}
		cal.Weeks = append(cal.Weeks, week)
	}

	if cal.StartDate == "" {
		today := time.Now().Format("2006-01-02")
		cal.StartDate = today
		cal.EndDate = today
	}
	return cal
}

// levelFromQuartile maps the API's quartile enum to the numeric level.
// Unknown values count as no contribution.
func levelFromQuartile(s string) int {
	switch s {
	case "FIRST_QUARTILE":
		return 1
	case "SECOND_QUARTILE":
		return 2
	case "THIRD_QUARTILE":
		return 3
	case "FOURTH_QUARTILE":
		return 4
	default:
		return 0
	}
}
