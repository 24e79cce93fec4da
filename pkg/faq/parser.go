// Package faq turns a markdown FAQ file into retrievable documents.
//
// The expected layout is "## Section" headings with "### Question" entries
// underneath; everything between one question and the next heading is the
// answer. Each entry becomes one document of the form "Q: ...\nA: ..." with
// section and question carried as metadata.
package faq

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"fintech-assistant-be/pkg/vectorindex"
)

var listMarkerRe = regexp.MustCompile(`^(\-|\*|\+|\d+[.)])\s+`)

// ParseFile reads a markdown FAQ file and returns one document per question.
func ParseFile(path string) ([]vectorindex.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse consumes markdown from r. Entries with no answer text are skipped.
func Parse(r io.Reader) ([]vectorindex.Document, error) {
	var (
		docs     []vectorindex.Document
		section  string
		question string
		answer   []string
	)

	flush := func() {
		if question == "" {
			return
		}
		text := strings.TrimSpace(strings.Join(answer, " "))
		if text != "" {
			docs = append(docs, vectorindex.Document{
				Text: fmt.Sprintf("Q: %s\nA: %s", question, text),
				Metadata: map[string]interface{}{
					"section":  section,
					"question": question,
					"type":     "faq",
				},
			})
		}
		question = ""
		answer = answer[:0]
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "### "):
			flush()
			question = strings.TrimSpace(strings.TrimPrefix(line, "### "))
		case strings.HasPrefix(line, "## "):
			flush()
			section = strings.TrimSpace(strings.TrimPrefix(line, "## "))
		case strings.HasPrefix(line, "# "):
			flush()
		case line == "":
			// paragraph break, answers are joined with single spaces anyway
		default:
			if question != "" {
				answer = append(answer, listMarkerRe.ReplaceAllString(line, ""))
			}
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}
