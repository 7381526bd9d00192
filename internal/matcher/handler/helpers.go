package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"catalog-matcher/internal/fileio"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, errorBody{Error: msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("bad json: %w", err)
	}
	return nil
}

var errNoList = errors.New("missing product_list or list_file")

// readOrderText accepts JSON {"text": ...}, a multipart form with a
// product_list field and/or a list_file upload, or a urlencoded form.
func readOrderText(r *http.Request, maxMemory int64) (string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch ct {
	case "application/json":
		var body struct {
			Text string `json:"text"`
		}
		if err := decodeJSON(r, &body); err != nil {
			return "", err
		}
		if strings.TrimSpace(body.Text) == "" {
			return "", errNoList
		}
		return body.Text, nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return "", fmt.Errorf("bad multipart form: %w", err)
		}
		parts := []string{}
		if t := r.FormValue("product_list"); strings.TrimSpace(t) != "" {
			parts = append(parts, t)
		}
		if f, h, err := r.FormFile("list_file"); err == nil {
			defer f.Close()
			t, err := fileio.ReadOrderList(f, h.Filename)
			if err != nil {
				return "", fmt.Errorf("failed to read list_file: %w", err)
			}
			parts = append(parts, t)
		}
		if len(parts) == 0 {
			return "", errNoList
		}
		return strings.Join(parts, "\n"), nil

	default:
		t := r.FormValue("product_list")
		if strings.TrimSpace(t) == "" {
			return "", errNoList
		}
		return t, nil
	}
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

// mask hides all but the last 4 characters of a secret.
func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
