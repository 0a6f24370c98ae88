package model

import "testing"

func TestMakeLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Electronics", "electronics"},
		{"spaces", "Home Appliances", "home-appliances"},
		{"multiple spaces", "Home   Appliances", "home-appliances"},
		{"punctuation stripped", "Kids' Toys & Games!", "kids-toys-games"},
		{"underscore stripped", "snake_case_name", "snakecasename"},
		{"leading trailing spaces", "  Gaming Laptops  ", "gaming-laptops"},
		{"digits kept", "iPhone 15 Pro", "iphone-15-pro"},
		{"unicode stripped", "Café Münchén", "caf-mnchn"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MakeLabel(tt.input)
			if got != tt.expected {
				t.Errorf("MakeLabel(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidRole(t *testing.T) {
	tests := []struct {
		role     string
		expected bool
	}{
		{"admin", true},
		{"customer", true},
		{"", false},
		{"Admin", false},
		{"superuser", false},
	}

	for _, tt := range tests {
		if got := ValidRole(tt.role); got != tt.expected {
			t.Errorf("ValidRole(%q) = %v, want %v", tt.role, got, tt.expected)
		}
	}
}
