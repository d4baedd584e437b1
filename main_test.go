package main

import "testing"

func TestDefaultVersion(t *testing.T) {
	if version != "dev" {
		t.Errorf("Expected default version to be 'dev', got %s", version)
	}
}
