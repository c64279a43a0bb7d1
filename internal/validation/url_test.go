package validation

import (
	"strings"
	"testing"
)

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		name        string
		validator   *EndpointValidator
		input       string
		want        string
		shouldError bool
		errorMsg    string
	}{
		{name: "tmdb api", validator: NewEndpointValidator(), input: "https://api.themoviedb.org/3", want: "https://api.themoviedb.org/3"},
		{name: "trailing slash trimmed", validator: NewEndpointValidator(), input: "https://image.tmdb.org/t/p/", want: "https://image.tmdb.org/t/p"},
		{name: "scheme added", validator: NewEndpointValidator(), input: "  api.themoviedb.org/3 ", want: "https://api.themoviedb.org/3"},
		{name: "empty", validator: NewEndpointValidator(), input: "   ", shouldError: true, errorMsg: "cannot be empty"},
		{name: "plain http rejected", validator: NewEndpointValidator(), input: "http://api.themoviedb.org/3", shouldError: true, errorMsg: "must use https"},
		{name: "ftp rejected", validator: NewPermissiveEndpointValidator(), input: "ftp://files.example/3", shouldError: true, errorMsg: "http or https"},
		{name: "query rejected", validator: NewEndpointValidator(), input: "https://api.themoviedb.org/3?api_key=x", shouldError: true, errorMsg: "query or fragment"},
		{name: "quotes rejected", validator: NewEndpointValidator(), input: `https://api.themoviedb.org/"3"`, shouldError: true, errorMsg: "invalid characters"},
		{name: "traversal rejected", validator: NewEndpointValidator(), input: "https://api.themoviedb.org/3/../4", shouldError: true, errorMsg: "traversal"},
		{name: "localhost rejected", validator: NewEndpointValidator(), input: "https://localhost:8443/3", shouldError: true, errorMsg: "localhost"},
		{name: "loopback ip rejected", validator: NewEndpointValidator(), input: "https://127.0.0.1/3", shouldError: true, errorMsg: "localhost"},
		{name: "private ip rejected", validator: NewEndpointValidator(), input: "https://192.168.1.10/3", shouldError: true, errorMsg: "private"},
		{name: "unspecified rejected", validator: NewPermissiveEndpointValidator(), input: "http://0.0.0.0:80", shouldError: true, errorMsg: "unspecified"},
		{name: "permissive allows test server", validator: NewPermissiveEndpointValidator(), input: "http://127.0.0.1:54321/3/", want: "http://127.0.0.1:54321/3"},
		{name: "permissive allows private ip", validator: NewPermissiveEndpointValidator(), input: "http://10.0.0.2/3", want: "http://10.0.0.2/3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.validator.ValidateBaseURL(tt.input)
			if tt.shouldError {
				if err == nil {
					t.Fatalf("expected error for %q, got %q", tt.input, got)
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("error %q does not mention %q", err, tt.errorMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ValidateBaseURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateBaseURL_TooLong(t *testing.T) {
	v := NewEndpointValidator()
	v.MaxLength = 32
	if _, err := v.ValidateBaseURL("https://api.themoviedb.org/3/" + strings.Repeat("a", 40)); err == nil {
		t.Error("expected length error")
	}
}
