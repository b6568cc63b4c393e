package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/scion/internal/presentation/graph"
	"github.com/aretw0/scion/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name      string
		known     map[string]domain.KnownCredential
		highlight string
		contains  []string
	}{
		{
			name: "Highlighted Type Shape",
			known: map[string]domain.KnownCredential{
				"slackOAuth2Api": {},
			},
			highlight: "slackOAuth2Api",
			contains: []string{
				"slackOAuth2Api((\"slackOAuth2Api\"))",
				"class slackOAuth2Api queried;",
			},
		},
		{
			name: "Supported Nodes Shape",
			known: map[string]domain.KnownCredential{
				"githubApi": {SupportedNodes: []string{"core.github", "community.githubIssues"}},
			},
			contains: []string{
				"githubApi[[\"githubApi <br/> 2 node(s)\"]]",
			},
		},
		{
			name: "Extends Edges",
			known: map[string]domain.KnownCredential{
				"slackOAuth2Api": {Extends: []string{"oAuth2Api"}},
				"oAuth2Api":      {},
			},
			contains: []string{
				`slackOAuth2Api -- "extends" --> oAuth2Api`,
			},
		},
		{
			name: "Dangling Parent Uses Dotted Edge",
			known: map[string]domain.KnownCredential{
				"orphanApi": {Extends: []string{"ghostApi"}},
			},
			contains: []string{
				`orphanApi -. "extends" .-> ghostApi`,
			},
		},
		{
			name: "ID Sanitization",
			known: map[string]domain.KnownCredential{
				"my.dotted-type": {},
			},
			contains: []string{
				"my_dotted_type[\"my.dotted-type\"]",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.known, tt.highlight)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}
