package api

import (
	"encoding/json"
	"strings"
)

// errorBody covers the error shapes the backend produces:
//
//	{"detail": "Incorrect email or password"}
//	{"detail": [{"loc": ["body", "email"], "msg": "field required"}]}
//	{"message": "..."}
//	{"error": {"code": "...", "message": "..."}}
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

type fieldIssue struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

type nestedMessage struct {
	Message string `json:"message"`
	Msg     string `json:"msg"`
}

// parseErrorMessage extracts the structured message from an error body,
// returning "" when the body has none.
func parseErrorMessage(body []byte) string {
	var eb errorBody
	if len(body) == 0 || json.Unmarshal(body, &eb) != nil {
		return ""
	}
	if msg := rawMessage(eb.Detail); msg != "" {
		return msg
	}
	if eb.Message != "" {
		return eb.Message
	}
	return rawMessage(eb.Error)
}

func rawMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}

	var issues []fieldIssue
	if json.Unmarshal(raw, &issues) == nil {
		parts := make([]string, 0, len(issues))
		for _, is := range issues {
			if is.Msg == "" {
				continue
			}
			if len(is.Loc) > 0 {
				if field, ok := is.Loc[len(is.Loc)-1].(string); ok && field != "body" {
					parts = append(parts, field+": "+is.Msg)
					continue
				}
			}
			parts = append(parts, is.Msg)
		}
		return strings.Join(parts, "; ")
	}

	var nm nestedMessage
	if json.Unmarshal(raw, &nm) == nil {
		if nm.Message != "" {
			return nm.Message
		}
		return nm.Msg
	}
	return ""
}
