package mcp

import "encoding/json"

// ResponseContext identifies what a tool response was computed from.
type ResponseContext struct {
	Dataset string `json:"dataset,omitempty"`
	Tasks   int    `json:"tasks,omitempty"`
}

// ResponseEnvelope is the shape of every tool result. Underscored fields are
// addressed to the calling agent rather than the end user.
type ResponseEnvelope struct {
	Data        any              `json:"data"`
	Context     *ResponseContext `json:"context,omitempty"`
	Diagnostics []string         `json:"_diagnostics,omitempty"`
	Guidance    []string         `json:"_guidance,omitempty"`
	Charts      []string         `json:"_charts,omitempty"`
}

func WrapResponse(data any, ctx *ResponseContext, diagnostics, guidance, charts []string) ResponseEnvelope {
	return ResponseEnvelope{
		Data:        data,
		Context:     ctx,
		Diagnostics: diagnostics,
		Guidance:    guidance,
		Charts:      charts,
	}
}

func formatResult(data any) (string, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
