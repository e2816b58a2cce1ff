package threads

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// readBody builds the form body for a reply read. cursor is empty for the
// first page.
func (c Config) readBody(threadID, cursor string) (string, error) {
	if c.ReadRequestBody != "" {
		return rewriteVariables(c.ReadRequestBody, true, func(vars map[string]any) {
			if _, ok := vars["postID"]; ok {
				vars["postID"] = threadID
			}
			if _, ok := vars["mediaID"]; ok {
				vars["mediaID"] = threadID
			}
			if cursor != "" {
				vars["after"] = cursor
			}
		})
	}

	if c.ReadDocID == "" {
		return "", fmt.Errorf("no read_request_body or read_doc_id configured; capture a request template from a browser session")
	}
	vars := map[string]any{"postID": threadID}
	if cursor != "" {
		vars["after"] = cursor
	}
	return legacyBody(c.ReadDocID, vars)
}

// writeBody builds the form body for posting a reply.
func (c Config) writeBody(threadID, text string) (string, error) {
	if c.WriteRequestBody != "" {
		return rewriteVariables(c.WriteRequestBody, false, func(vars map[string]any) {
			vars["reply_to_media_id"] = threadID
			vars["text"] = text
		})
	}

	docID := c.writeDocID()
	if docID == "" {
		return "", fmt.Errorf("no write_request_body, write_doc_id or read_doc_id configured")
	}
	return legacyBody(docID, map[string]any{"reply_to_media_id": threadID, "text": text})
}

// headers returns the request headers for the active mode. Legacy mode
// sends the configured Headers on top of the defaults.
func (c Config) headers(template bool) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/x-www-form-urlencoded")
	h.Set("X-IG-App-ID", AppID)
	if !template {
		for k, v := range c.Headers {
			h.Set(k, v)
		}
	}
	if cookie := c.cookie(); cookie != "" {
		h.Set("Cookie", cookie)
	}
	return h
}

// rewriteVariables decodes the variables parameter of a captured form
// body, lets edit change it and re-encodes the body. A template without
// variables is an error when required, else returned unchanged.
func rewriteVariables(template string, required bool, edit func(map[string]any)) (string, error) {
	params, err := url.ParseQuery(template)
	if err != nil {
		return "", fmt.Errorf("parse request template: %w", err)
	}

	raw := params.Get("variables")
	if raw == "" {
		if required {
			return "", fmt.Errorf("request template does not contain a variables parameter")
		}
		return params.Encode(), nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var vars map[string]any
	if err := dec.Decode(&vars); err != nil {
		return "", fmt.Errorf("parse template variables: %w", err)
	}
	if vars == nil {
		return "", fmt.Errorf("template variables are not an object")
	}

	edit(vars)

	encoded, err := marshalNoEscape(vars)
	if err != nil {
		return "", fmt.Errorf("encode template variables: %w", err)
	}
	params.Set("variables", encoded)
	return params.Encode(), nil
}

func legacyBody(docID string, vars map[string]any) (string, error) {
	encoded, err := marshalNoEscape(vars)
	if err != nil {
		return "", fmt.Errorf("encode variables: %w", err)
	}
	params := url.Values{}
	params.Set("doc_id", docID)
	params.Set("variables", encoded)
	return params.Encode(), nil
}

func marshalNoEscape(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
