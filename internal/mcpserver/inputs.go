package mcpserver

import "github.com/lineage-mcp/lineage-mcp/internal/tools"

type readInput struct {
	Path            string `json:"path"`
	Cursor          *int   `json:"cursor,omitempty"`
	Offset          *int   `json:"offset,omitempty"`
	Limit           *int   `json:"limit,omitempty"`
	ShowLineNumbers bool   `json:"showLineNumbers,omitempty"`
	NewSession      bool   `json:"newSession,omitempty"`
}

func (in readInput) toOptions() tools.ReadOptions {
	return tools.ReadOptions{
		Cursor:          in.Cursor,
		Offset:          in.Offset,
		Limit:           in.Limit,
		ShowLineNumbers: in.ShowLineNumbers,
		NewSession:      in.NewSession,
	}
}

type writeInput struct {
	Path       string `json:"path"`
	Content    string `json:"content"`
	NewSession bool   `json:"newSession,omitempty"`
}

type editInput struct {
	Path       string `json:"path"`
	OldString  string `json:"oldString"`
	NewString  string `json:"newString"`
	ReplaceAll bool   `json:"replaceAll,omitempty"`
	NewSession bool   `json:"newSession,omitempty"`
}

type editSpecInput struct {
	FilePath   string  `json:"filePath"`
	OldString  *string `json:"oldString,omitempty"`
	NewString  *string `json:"newString,omitempty"`
	ReplaceAll bool    `json:"replaceAll,omitempty"`
}

type multiEditInput struct {
	Edits      []editSpecInput `json:"edits"`
	NewSession bool            `json:"newSession,omitempty"`
}

func (in multiEditInput) toEditSpecs() []tools.EditSpec {
	out := make([]tools.EditSpec, len(in.Edits))
	for i, e := range in.Edits {
		out[i] = tools.EditSpec{
			FilePath:   e.FilePath,
			OldString:  e.OldString,
			NewString:  e.NewString,
			ReplaceAll: e.ReplaceAll,
		}
	}
	return out
}

type multiReadInput struct {
	Paths           []string `json:"paths"`
	ShowLineNumbers bool     `json:"showLineNumbers,omitempty"`
	NewSession      bool     `json:"newSession,omitempty"`
}

type deleteInput struct {
	Path       string `json:"path"`
	NewSession bool   `json:"newSession,omitempty"`
}

type listInput struct {
	Path       string `json:"path"`
	NewSession bool   `json:"newSession,omitempty"`
}

type searchInput struct {
	Pattern    string `json:"pattern"`
	Path       string `json:"path"`
	NewSession bool   `json:"newSession,omitempty"`
}
