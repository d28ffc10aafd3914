// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"strings"
	"testing"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Quiet rooms", "Quiet rooms"},
		{"tags stripped", "<b>Sea</b> view", "Sea view"},
		{"entities unescaped", "Tea &amp; coffee", "Tea & coffee"},
		{"lone angle bracket kept", "rooms < 5 km from town", "rooms < 5 km from town"},
		{"encoded script", "&lt;script&gt;alert(1)&lt;/script&gt;", ""},
		{"encoded tag around text", "&lt;b&gt;Sea&lt;/b&gt; view", "Sea view"},
		{"double encoded", "&amp;lt;img src=x onerror=alert(1)&amp;gt;Pool", "Pool"},
		{"whitespace trimmed", "  Garden  ", "Garden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plainText(tt.in); got != tt.want {
				t.Errorf("plainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlainTextNeverReturnsTags(t *testing.T) {
	in := "&lt;script&gt;x&lt;/script&gt;"
	for range 12 {
		in = strings.ReplaceAll(in, "&", "&amp;")
	}
	if got := plainText(in); strings.Contains(got, "<") {
		t.Errorf("plainText() = %q, contains markup", got)
	}
}
