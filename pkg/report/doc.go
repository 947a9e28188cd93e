// Package report aggregates lint findings into summaries and renders them
// as CSV, Markdown, or HTML.
package report
