package main

import (
	"reflect"
	"testing"
)

func TestAnalyzeHeaders(t *testing.T) {
	tests := []struct {
		name        string
		input       []string
		wantHeaders []string
	}{
		{
			name:        "Valid headers",
			input:       []string{"Name", "Age", "Email", "Phone"},
			wantHeaders: []string{"Name", "Age", "Email", "Phone"},
		},
		{
			name:        "Surrounding spaces",
			input:       []string{" Name ", "\tAge"},
			wantHeaders: []string{"Name", "Age"},
		},
		{
			name:        "Duplicate headers",
			input:       []string{"Name", "Name", "Name", "Age"},
			wantHeaders: []string{"Name", "Name.1", "Name.2", "Age"},
		},
		{
			name:        "Empty headers",
			input:       []string{"", "", "", ""},
			wantHeaders: []string{"column_1", "column_2", "column_3", "column_4"},
		},
		{
			name:        "Partially empty",
			input:       []string{"city", "", "sales"},
			wantHeaders: []string{"city", "column_2", "sales"},
		},
		{
			name:        "Korean headers",
			input:       []string{"이름", "나이"},
			wantHeaders: []string{"이름", "나이"},
		},
		{
			name:        "Byte order mark",
			input:       []string{"\uFEFFid", "name"},
			wantHeaders: []string{"id", "name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeHeaders(tt.input)
			if !reflect.DeepEqual(got, tt.wantHeaders) {
				t.Errorf("AnalyzeHeaders() = %v, want %v", got, tt.wantHeaders)
			}
		})
	}
}

func TestValidateHeaders(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "No duplicates",
			input: []string{"a", "b", "c"},
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "Suffix collides with existing name",
			input: []string{"a", "a.1", "a"},
			want:  []string{"a", "a.1", "a.2"},
		},
		{
			name:  "Empty",
			input: []string{},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateHeaders(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ValidateHeaders() = %v, want %v", got, tt.want)
			}
		})
	}
}
