package http

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
)

const maxBodyBytes = 1 << 20

// expenseInput carries the user-entered fields of the add and delete forms.
// Values are kept as text; parsing and validation happen in the service.
type expenseInput struct {
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// parseExpenseInput reads a JSON body or a urlencoded form.
func parseExpenseInput(r *http.Request) (expenseInput, error) {
	var in expenseInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return in, fmt.Errorf("read body: %w", err)
		}
		if err := json.Unmarshal(body, &in); err != nil {
			return in, fmt.Errorf("decode json body: %w", err)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return in, fmt.Errorf("parse form: %w", err)
		}
		in = expenseInput{
			Amount:      r.PostForm.Get("amount"),
			Category:    r.PostForm.Get("category"),
			Description: r.PostForm.Get("description"),
			Date:        r.PostForm.Get("date"),
		}
	}

	in.Amount = sanitizeInput(in.Amount)
	in.Category = sanitizeInput(in.Category)
	in.Description = sanitizeInput(in.Description)
	in.Date = sanitizeInput(in.Date)
	return in, nil
}
