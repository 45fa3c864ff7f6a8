package mcp

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/lvillar/pdfreport"
)

// RegisterDefaultResources adds the template resources to the server.
// Resources use the report:// scheme with the file path as a query
// parameter.
func RegisterDefaultResources(s *Server) {
	s.AddResource(Resource{
		URI:         "report://template",
		URITemplate: "report://template{?path}",
		Name:        "Report Template Outline",
		Description: "Sections, content blocks and datalists of a report template. Pass the file path as a query parameter: report://template?path=/path/to/report.xml",
		MIMEType:    "application/json",
		Handler:     handleTemplateResource,
	})
}

func extractPathFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return u.Query().Get("path")
}

func handleTemplateResource(uri string) ([]ResourceContent, error) {
	path := extractPathFromURI(uri)
	if path == "" {
		return nil, fmt.Errorf("missing 'path' parameter in URI")
	}

	r := pdfreport.New()
	if err := r.LoadTemplate(path); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(Inspect(r.Template()), "", "  ")
	if err != nil {
		return nil, err
	}
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "application/json",
		Text:     string(data),
	}}, nil
}
