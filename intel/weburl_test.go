package intel

import (
	"net"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "valid https", url: "https://example.com/pricing"},
		{name: "http rejected", url: "http://example.com", wantErr: true},
		{name: "localhost rejected", url: "https://localhost/admin", wantErr: true},
		{name: "loopback ip rejected", url: "https://127.0.0.1/", wantErr: true},
		{name: "private ip rejected", url: "https://10.0.0.5/", wantErr: true},
		{name: "local domain rejected", url: "https://metrics.internal/", wantErr: true},
		{name: "dot local rejected", url: "https://printer.local/", wantErr: true},
		{name: "garbage rejected", url: "://not-a-url", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip      string
		private bool
	}{
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"100.64.0.1", true},      // CGNAT
		{"169.254.1.1", true},     // link-local
		{"::1", true},             // v6 loopback
		{"fc00::1", true},         // v6 unique local
		{"fe80::1", true},         // v6 link-local
		{"::ffff:192.168.0.1", true}, // v6-mapped v4 private
		{"8.8.8.8", false},
		{"2606:4700::1111", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			if ip == nil {
				t.Fatalf("bad test IP %q", tt.ip)
			}
			if got := IsPrivateIP(ip); got != tt.private {
				t.Errorf("IsPrivateIP(%s) = %v, want %v", tt.ip, got, tt.private)
			}
		})
	}
}

func TestExtractDomain(t *testing.T) {
	if got := ExtractDomain("https://www.example.com/pricing?x=1"); got != "www.example.com" {
		t.Errorf("ExtractDomain = %q", got)
	}
	if got := ExtractDomain("://bad"); got != "" {
		t.Errorf("expected empty domain for invalid URL, got %q", got)
	}
}
