package analysis

import (
	"fmt"
	"regexp"

	"github.com/reviewlens/backend/internal/models"
)

// ValidationError rejects a request outright; it is the only pipeline error
// surfaced to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

var platformURLPatterns = map[string]*regexp.Regexp{
	"imdb_url":       regexp.MustCompile(`^https?://(www\.)?imdb\.com/title/tt\d+`),
	"steam_url":      regexp.MustCompile(`^https?://store\.steampowered\.com/app/\d+`),
	"metacritic_url": regexp.MustCompile(`^https?://(www\.)?metacritic\.com/`),
}

// AnalyzeRequest is the inbound payload. "title" is accepted as an alias for
// "name".
type AnalyzeRequest struct {
	Name          string `json:"name"`
	Title         string `json:"title"`
	MediaType     string `json:"media_type"`
	IMDbURL       string `json:"imdb_url"`
	SteamURL      string `json:"steam_url"`
	MetacriticURL string `json:"metacritic_url"`
}

// Validate checks the request and resolves it into a TitleInfo. Platform URLs
// are optional but malformed ones are rejected, never silently repaired.
func Validate(req AnalyzeRequest) (*models.TitleInfo, error) {
	name := req.Name
	if name == "" {
		name = req.Title
	}
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "title name is required"}
	}

	if req.MediaType == "" {
		return nil, &ValidationError{Field: "media_type", Message: "media type is required"}
	}
	mediaType, ok := models.ParseMediaType(req.MediaType)
	if !ok {
		return nil, &ValidationError{Field: "media_type", Message: fmt.Sprintf("unknown media type %q", req.MediaType)}
	}

	urls := map[string]string{
		"imdb_url":       req.IMDbURL,
		"steam_url":      req.SteamURL,
		"metacritic_url": req.MetacriticURL,
	}
	for field, url := range urls {
		if url == "" {
			continue
		}
		if !platformURLPatterns[field].MatchString(url) {
			return nil, &ValidationError{Field: field, Message: "malformed platform URL"}
		}
	}

	return &models.TitleInfo{
		Name:          name,
		MediaType:     mediaType,
		IMDbURL:       req.IMDbURL,
		SteamURL:      req.SteamURL,
		MetacriticURL: req.MetacriticURL,
	}, nil
}
