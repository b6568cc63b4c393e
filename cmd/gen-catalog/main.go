package main

import (
	"fmt"
	"os"
	"path/filepath"
)

const httpRequestNode = `package main

func HttpRequest() map[string]any {
	return map[string]any{
		"name":           "core.httpRequest",
		"displayName":    "HTTP Request",
		"defaultVersion": 2,
		"versions": map[string]any{
			"1": map[string]any{
				"name":        "core.httpRequest",
				"displayName": "HTTP Request",
				"version":     1,
				"inputs":      []string{"main"},
				"outputs":     []string{"main"},
				"properties": []map[string]any{
					{"name": "url", "type": "string", "required": true},
				},
			},
			"2": map[string]any{
				"name":        "core.httpRequest",
				"displayName": "HTTP Request",
				"version":     2,
				"inputs":      []string{"main"},
				"outputs":     []string{"main"},
				"credentials": []map[string]any{
					{"name": "serviceApi", "required": true},
				},
				"properties": []map[string]any{
					{"name": "url", "type": "string", "required": true},
					{"name": "method", "type": "options", "default": "GET", "options": []map[string]any{
						{"name": "GET", "value": "GET"},
						{"name": "POST", "value": "POST"},
					}},
				},
			},
		},
	}
}
`

const echoNode = `package main

func Echo() map[string]any {
	return map[string]any{
		"name":        "core.echo",
		"displayName": "Echo",
		"version":     1,
		"inputs":      []string{"main"},
		"outputs":     []string{"main"},
		"properties": []map[string]any{
			{"name": "text", "type": "string", "default": "hello"},
		},
	}
}
`

const serviceApiCredential = `package main

func ServiceApi() map[string]any {
	return map[string]any{
		"name":        "serviceApi",
		"displayName": "Service API",
		"properties": []map[string]any{
			{"name": "host", "type": "string", "default": "api.example.com"},
			{"name": "user", "type": "string", "required": true},
			{"name": "apiSecret", "type": "string"},
		},
	}
}
`

const slackOAuth2Credential = `package main

func SlackOAuth2Api() map[string]any {
	return map[string]any{
		"name":        "slackOAuth2Api",
		"displayName": "Slack OAuth2 API",
		"extends":     []string{"oAuth2Api"},
		"properties": []map[string]any{
			{"name": "scope", "type": "string", "default": "chat:write"},
		},
	}
}
`

const knownIndex = `oAuth2Api: {}
slackOAuth2Api:
  extends: [oAuth2Api]
  supportedNodes: [community.slack]
`

const overwrites = `serviceApi:
  host: api.internal.example.com
`

func main() {
	// Leading underscore keeps the Go toolchain from compiling the
	// generated definition modules when the catalog sits inside a
	// module tree.
	targetDir := "_catalog"
	if len(os.Args) > 1 {
		targetDir = os.Args[1]
	}

	fmt.Printf("Generating starter catalog in: %s\n", targetDir)

	write(targetDir, "core/nodes/HttpRequest/HttpRequest.node.go", httpRequestNode)
	write(targetDir, "core/nodes/Echo/Echo.node.go", echoNode)
	write(targetDir, "core/credentials/ServiceApi.credentials.go", serviceApiCredential)
	write(targetDir, "core/credentials/SlackOAuth2Api.credentials.go", slackOAuth2Credential)
	write(targetDir, "known-credentials.yaml", knownIndex)
	write(targetDir, "overwrites.yaml", overwrites)

	fmt.Println("Done. Verify contents in", targetDir)
	fmt.Println("Try: scion --base", targetDir, "nodes describe core.httpRequest")
}

func write(base, rel, content string) {
	path := filepath.Join(base, filepath.FromSlash(rel))
	check(os.MkdirAll(filepath.Dir(path), 0755))
	check(os.WriteFile(path, []byte(content), 0644))
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}
