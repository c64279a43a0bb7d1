package tmdb

import "strings"

// Movie is the summary TMDb returns in discover and search listings.
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	PosterPath       string  `json:"poster_path"`
	Popularity       float64 `json:"popularity"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	OriginalLanguage string  `json:"original_language"`
}

// Year is the four-digit release year, or "" when unknown.
func (m Movie) Year() string {
	if len(m.ReleaseDate) < 4 {
		return ""
	}
	return m.ReleaseDate[:4]
}

func (m Movie) Language() string {
	return strings.ToUpper(m.OriginalLanguage)
}

// Page is one page of a listing.
type Page struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// errorBody covers TMDb's {success,status_code,status_message} shape and the
// {Response:"False",Error} shape some compatible services use.
type errorBody struct {
	Success       *bool  `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Response      string `json:"Response"`
	Error         string `json:"Error"`
}

func (b errorBody) failed() bool {
	return (b.Success != nil && !*b.Success) || strings.EqualFold(b.Response, "false")
}

// present reports whether the body carried any of the error fields.
func (b errorBody) present() bool {
	return b.Success != nil || b.StatusMessage != "" || b.Response != "" || b.Error != ""
}

func (b errorBody) message() string {
	if b.StatusMessage != "" {
		return b.StatusMessage
	}
	return b.Error
}
